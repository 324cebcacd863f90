package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"expense/config"
	"expense/database"
	"expense/models"
	"expense/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var expenseColumns = []string{"id", "description", "amount", "category"}

func setupMockDB(t *testing.T) (*service.ExpenseService, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return service.NewExpenseService(database.NewGormStore(gormDB)), mock
}

func expenseRouter(svc *service.ExpenseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExpenseHandler(svc)
	router := gin.New()
	router.GET("/expenses", h.List)
	router.GET("/expenses/:id", h.Get)
	router.POST("/expenses", h.Create)
	router.PUT("/expenses/:id", h.Update)
	router.DELETE("/expenses/:id", h.Delete)
	router.GET("/categories", h.GetCategories)
	router.GET("/statistics", h.GetStatistics)
	return router
}

func doJSON(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, w.Code, resp.Code)
	return resp.Message
}

func TestExpenseHandler_Create(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO `expenses`").
		WithArgs("Coffee", 3.5, "Food").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := doJSON(expenseRouter(svc), http.MethodPost, "/expenses",
		`{"description":"Coffee","amount":"3.50","category":"Food"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"description":"Coffee","amount":3.5,"category":"Food"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_TrimsFields(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO `expenses`").
		WithArgs("Lunch", 12.0, "Food").
		WillReturnResult(sqlmock.NewResult(2, 1))

	w := doJSON(expenseRouter(svc), http.MethodPost, "/expenses",
		`{"description":"  Lunch ","amount":12,"category":" Food "}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":2,"description":"Lunch","amount":12,"category":"Food"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Create_ValidationIssuesNoSQL(t *testing.T) {
	cases := []struct {
		name string
		body string
		msg  string
	}{
		{"empty description", `{"description":"","amount":"5","category":"Food"}`, service.MsgDescriptionRequired},
		{"negative amount", `{"description":"Lunch","amount":"-4","category":"Food"}`, service.MsgAmountRequired},
		{"zero amount", `{"description":"Lunch","amount":0,"category":"Food"}`, service.MsgAmountRequired},
		{"non-numeric amount", `{"description":"Lunch","amount":"abc","category":"Food"}`, service.MsgAmountRequired},
		{"absent amount", `{"description":"Lunch","category":"Food"}`, service.MsgAmountRequired},
		{"blank category", `{"description":"Lunch","amount":4,"category":"  "}`, service.MsgCategoryRequired},
		{"first rule wins", `{"description":" ","amount":"-1"}`, service.MsgDescriptionRequired},
		{"empty body", ``, service.MsgDescriptionRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, mock := setupMockDB(t)

			w := doJSON(expenseRouter(svc), http.MethodPost, "/expenses", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.msg, decodeMessage(t, w))
			// 校验失败时不访问数据库
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestExpenseHandler_Create_MalformedJSON(t *testing.T) {
	svc, _ := setupMockDB(t)
	router := expenseRouter(svc)

	config.GlobalConfig = &config.Config{Server: config.ServerConfig{Mode: "release"}}
	defer func() { config.GlobalConfig = nil }()

	w := doJSON(router, http.MethodPost, "/expenses", `{"description":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgInvalidRequest, decodeMessage(t, w))
}

func TestExpenseHandler_Create_StoreFailureHidesDetail(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("INSERT INTO `expenses`").
		WillReturnError(errors.New("dial tcp 10.0.0.5:3306: connection refused"))

	w := doJSON(expenseRouter(svc), http.MethodPost, "/expenses",
		`{"description":"Coffee","amount":3.5,"category":"Food"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgInternalError, decodeMessage(t, w))
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestExpenseHandler_List(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `expenses` ORDER BY id DESC").
		WillReturnRows(sqlmock.NewRows(expenseColumns).
			AddRow(2, "Bus", 2.0, "Transport").
			AddRow(1, "Coffee", 3.5, "Food"))

	w := doJSON(expenseRouter(svc), http.MethodGet, "/expenses", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":2,"description":"Bus","amount":2,"category":"Transport"},
		{"id":1,"description":"Coffee","amount":3.5,"category":"Food"}
	]`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_List_EmptyIsArray(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	w := doJSON(expenseRouter(svc), http.MethodGet, "/expenses", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestExpenseHandler_List_StoreFailure(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `expenses`").
		WillReturnError(errors.New("server has gone away"))

	w := doJSON(expenseRouter(svc), http.MethodGet, "/expenses", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MsgInternalError, decodeMessage(t, w))
}

func TestExpenseHandler_Get(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(expenseColumns).AddRow(1, "Coffee", 3.5, "Food"))
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(expenseColumns))

	router := expenseRouter(svc)

	w := doJSON(router, http.MethodGet, "/expenses/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"description":"Coffee","amount":3.5,"category":"Food"}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/expenses/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, MsgNotFound, decodeMessage(t, w))

	w = doJSON(router, http.MethodGet, "/expenses/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgInvalidID, decodeMessage(t, w))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE `expenses` SET .* WHERE id = \\?").
		WithArgs(4.5, "Food", "Tea", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT \\* FROM `expenses` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows(expenseColumns).AddRow(1, "Tea", 4.5, "Food"))

	w := doJSON(expenseRouter(svc), http.MethodPut, "/expenses/1",
		`{"description":"Tea","amount":"4.50","category":"Food"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"description":"Tea","amount":4.5,"category":"Food"}`, w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_NotFound(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("UPDATE `expenses` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doJSON(expenseRouter(svc), http.MethodPut, "/expenses/42",
		`{"description":"Tea","amount":1,"category":"Food"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Update_Invalid(t *testing.T) {
	svc, mock := setupMockDB(t)
	router := expenseRouter(svc)

	w := doJSON(router, http.MethodPut, "/expenses/x", `{"description":"Tea","amount":1,"category":"Food"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgInvalidID, decodeMessage(t, w))

	w = doJSON(router, http.MethodPut, "/expenses/1", `{"description":"Tea","amount":-1,"category":"Food"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.MsgAmountRequired, decodeMessage(t, w))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_Delete(t *testing.T) {
	svc, mock := setupMockDB(t)

	mock.ExpectExec("DELETE FROM `expenses` WHERE id = \\?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `expenses` WHERE id = \\?").
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))

	router := expenseRouter(svc)

	w := doJSON(router, http.MethodDelete, "/expenses/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = doJSON(router, http.MethodDelete, "/expenses/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodDelete, "/expenses/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseHandler_GetCategories(t *testing.T) {
	svc := service.NewExpenseService(database.NewMemoryStore())

	w := doJSON(expenseRouter(svc), http.MethodGet, "/categories", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Food","Transport","Shopping","Bills","Other"]`, w.Body.String())
}

func TestExpenseHandler_GetStatistics(t *testing.T) {
	svc := service.NewExpenseService(database.NewMemoryStore())
	router := expenseRouter(svc)

	doJSON(router, http.MethodPost, "/expenses", `{"description":"Coffee","amount":3.5,"category":"Food"}`)
	doJSON(router, http.MethodPost, "/expenses", `{"description":"Power","amount":10,"category":"Bills"}`)

	w := doJSON(router, http.MethodGet, "/statistics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_amount":13.5,
		"total_count":2,
		"category_stats":[
			{"category":"Bills","total":10,"count":1},
			{"category":"Food","total":3.5,"count":1}
		]
	}`, w.Body.String())
}

// 以下测试基于内存存储，覆盖端到端行为

func TestExpenseAPI_CreateThenGetRoundTrip(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))

	for _, body := range []string{
		`{"description":"Coffee","amount":"3.50","category":"Food"}`,
		`{"description":"Bus ticket","amount":2,"category":"Transport"}`,
		`{"description":"Rent","amount":"1200.00","category":"Bills"}`,
	} {
		w := doJSON(router, http.MethodPost, "/expenses", body)
		require.Equal(t, http.StatusCreated, w.Code)

		var created models.Expense
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		w = doJSON(router, http.MethodGet, fmt.Sprintf("/expenses/%d", created.ID), "")
		require.Equal(t, http.StatusOK, w.Code)
		var got models.Expense
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created, got)
	}
}

func TestExpenseAPI_DeleteThenGetIsNotFound(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))

	w := doJSON(router, http.MethodPost, "/expenses", `{"description":"Coffee","amount":3.5,"category":"Food"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusNoContent, doJSON(router, http.MethodDelete, "/expenses/1", "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/expenses/1", "").Code)
}

func TestExpenseAPI_UpdateMissingLeavesStoreUnchanged(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))

	doJSON(router, http.MethodPost, "/expenses", `{"description":"Coffee","amount":3.5,"category":"Food"}`)
	before := doJSON(router, http.MethodGet, "/expenses", "").Body.String()

	w := doJSON(router, http.MethodPut, "/expenses/7", `{"description":"Tea","amount":1,"category":"Food"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	after := doJSON(router, http.MethodGet, "/expenses", "").Body.String()
	assert.JSONEq(t, before, after)
}

func TestExpenseAPI_ListOrderAndLength(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))

	for i := 1; i <= 6; i++ {
		w := doJSON(router, http.MethodPost, "/expenses",
			fmt.Sprintf(`{"description":"item %d","amount":%d,"category":"Other"}`, i, i))
		require.Equal(t, http.StatusCreated, w.Code)
	}
	for _, id := range []int{2, 5} {
		require.Equal(t, http.StatusNoContent, doJSON(router, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), "").Code)
	}

	var list []models.Expense
	w := doJSON(router, http.MethodGet, "/expenses", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.True(t, sort.SliceIsSorted(list, func(i, j int) bool { return list[i].ID > list[j].ID }))
	assert.Equal(t, uint(6), list[0].ID)
}

func TestExpenseAPI_ConcurrentDeleteExactlyOneSucceeds(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))
	require.Equal(t, http.StatusCreated,
		doJSON(router, http.MethodPost, "/expenses", `{"description":"Coffee","amount":3.5,"category":"Food"}`).Code)

	codes := make([]int, 2)
	var wg sync.WaitGroup
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doJSON(router, http.MethodDelete, "/expenses/1", "").Code
		}(i)
	}
	wg.Wait()

	sort.Ints(codes)
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNotFound}, codes)
}

func TestExpenseAPI_InvalidCreateLeavesStoreEmpty(t *testing.T) {
	router := expenseRouter(service.NewExpenseService(database.NewMemoryStore()))

	for _, amount := range []string{`0`, `-4`, `"abc"`, `null`} {
		w := doJSON(router, http.MethodPost, "/expenses",
			fmt.Sprintf(`{"description":"Lunch","amount":%s,"category":"Food"}`, amount))
		assert.Equal(t, http.StatusBadRequest, w.Code, amount)
	}

	assert.JSONEq(t, `[]`, doJSON(router, http.MethodGet, "/expenses", "").Body.String())
}
