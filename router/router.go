package router

import (
	"io/fs"
	"net/http"

	"expense/api"
	"expense/config"
	_ "expense/docs"
	"expense/middleware"
	"expense/service"
	"expense/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc *service.ExpenseService) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// 嵌入的静态文件 - 浏览器端页面
	r.GET("/", func(c *gin.Context) {
		content, err := fs.ReadFile(web.StaticFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to load page")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})

	expenseHandler := api.NewExpenseHandler(svc)
	exportHandler := api.NewExportHandler(svc)

	// 写接口按 IP 限流
	var limiter gin.HandlerFunc
	if cfg.Server.RateLimit.Enabled {
		limiter = middleware.RateLimit(cfg.Server.RateLimit.MaxRequests, cfg.Server.RateLimit.Window)
	}
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{limiter, h}
	}

	expenses := r.Group("/expenses")
	{
		expenses.GET("", expenseHandler.List)
		expenses.GET("/:id", expenseHandler.Get)
		expenses.POST("", write(expenseHandler.Create)...)
		expenses.PUT("/:id", write(expenseHandler.Update)...)
		expenses.DELETE("/:id", write(expenseHandler.Delete)...)
	}

	r.GET("/categories", expenseHandler.GetCategories)
	r.GET("/statistics", expenseHandler.GetStatistics)

	export := r.Group("/export")
	{
		export.GET("/csv", exportHandler.ExportCSV)
		export.GET("/excel", exportHandler.ExportExcel)
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", api.Health(svc))

	return r
}

// CORSMiddleware CORS 跨域中间件，仅放行配置中的来源
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowedOrigins))
	allowAll := false
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Add("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
