package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"expense/models"
)

// ErrUnreachable 无法连接到服务端
var ErrUnreachable = errors.New("expense server unreachable")

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("expense api: status %d", e.Status)
	}
	return fmt.Sprintf("expense api: status %d: %s", e.Status, e.Message)
}

// ExpenseRequest 创建/更新请求，amount 直接发送表单中的原始文本
type ExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

// API 消费记录 HTTP 客户端
type API struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPI 创建客户端，baseURL 如 http://localhost:3000
func NewAPI(baseURL string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &API{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List 获取全部消费记录
func (a *API) List(ctx context.Context) ([]models.Expense, error) {
	var list []models.Expense
	if err := a.do(ctx, http.MethodGet, "/expenses", nil, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Expense{}
	}
	return list, nil
}

// Get 获取单条消费记录
func (a *API) Get(ctx context.Context, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := a.do(ctx, http.MethodGet, fmt.Sprintf("/expenses/%d", id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create 创建消费记录，返回带有服务端分配 id 的记录
func (a *API) Create(ctx context.Context, req ExpenseRequest) (*models.Expense, error) {
	var e models.Expense
	if err := a.do(ctx, http.MethodPost, "/expenses", req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update 整体更新消费记录
func (a *API) Update(ctx context.Context, id uint, req ExpenseRequest) (*models.Expense, error) {
	var e models.Expense
	if err := a.do(ctx, http.MethodPut, fmt.Sprintf("/expenses/%d", id), req, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete 删除消费记录
func (a *API) Delete(ctx context.Context, id uint) error {
	return a.do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), nil, nil)
}

// Categories 获取表单类别选项
func (a *API) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := a.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (a *API) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage 读取错误响应中的 message，兼容 {"error": "..."} 格式
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
