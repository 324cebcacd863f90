package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"expense/service"

	"github.com/gin-gonic/gin"
)

// Health 健康检查，存储不可用时返回 503
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string "ok"
// @Failure 503 {object} map[string]string "存储不可用"
// @Router /health [get]
func Health(svc *service.ExpenseService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := svc.Ping(ctx); err != nil {
			log.Printf("健康检查失败: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
