package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误响应中使用的固定提示
const (
	MsgNotFound       = "Expense not found"
	MsgInternalError  = "Internal server error"
	MsgInvalidRequest = "Invalid request body"
)

// Response 错误响应结构
// 成功时直接返回资源本身，不做包装
type Response struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Description is required"`
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 错误响应，不向客户端暴露内部细节
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternalError)
}
