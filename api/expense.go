package api

import (
	"errors"
	"io"
	"net/http"

	"expense/models"
	"expense/service"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	svc *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// List 获取全部消费记录
// @Summary 获取消费记录列表
// @Description 返回全部消费记录，按 id 倒序（最新的在前）
// @Tags 消费记录
// @Produce json
// @Success 200 {array} models.Expense "获取成功"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单条消费记录
// @Summary 获取单条消费记录
// @Description 根据ID获取消费记录详情
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 200 {object} models.Expense "获取成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 404 {object} Response "记录不存在"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	expense, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 依次校验 description、amount、category，返回第一个不通过的规则
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param request body models.ExpenseInput true "消费记录信息"
// @Success 201 {object} models.Expense "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	in, ok := bindInput(c)
	if !ok {
		return
	}

	expense, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 整体替换 description、amount、category，校验规则与创建相同
// @Tags 消费记录
// @Accept json
// @Produce json
// @Param id path int true "消费记录ID"
// @Param request body models.ExpenseInput true "消费记录信息"
// @Success 200 {object} models.Expense "更新成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "记录不存在"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	in, ok := bindInput(c)
	if !ok {
		return
	}

	expense, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除指定的消费记录，成功时无响应体
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 204 "删除成功"
// @Failure 400 {object} Response "无效的ID"
// @Failure 404 {object} Response "记录不存在"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := service.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCategories 获取消费类别列表
// @Summary 获取消费类别列表
// @Description 返回表单下拉框使用的类别选项
// @Tags 消费记录
// @Produce json
// @Success 200 {array} string "获取成功"
// @Router /categories [get]
func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Categories())
}

// GetStatistics 获取消费统计
// @Summary 获取消费统计
// @Description 返回总金额、总笔数以及按类别的金额统计
// @Tags 统计
// @Produce json
// @Success 200 {object} models.Statistics "获取成功"
// @Failure 500 {object} Response "服务器内部错误"
// @Router /statistics [get]
func (h *ExpenseHandler) GetStatistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// bindInput 解析请求体；空请求体视为所有字段缺失，交给校验逻辑处理
func bindInput(c *gin.Context) (models.ExpenseInput, bool) {
	var in models.ExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		BadRequest(c, SafeErrorMessage(err, MsgInvalidRequest))
		return in, false
	}
	return in, true
}

// fail 将服务层错误映射为 HTTP 状态码
func (h *ExpenseHandler) fail(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, MsgNotFound)
	default:
		InternalError(c)
	}
}
