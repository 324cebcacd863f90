package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense/config"
	"expense/database"
	"expense/router"
	"expense/service"

	"golang.org/x/sync/errgroup"
)

// @title Expense Manager API
// @version 1.0
// @description 记账系统 API：消费记录的增删改查、类别、统计与导出
// @host localhost:3000
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 3000 或 :3000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("Expense Manager v1.0.0")
		return
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖 + 环境变量）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		cfg.Server.Port = config.NormalizePort(port)
		log.Printf("命令行指定端口: %s", cfg.Server.Port)
	}

	config.PrintConfig()

	store, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	svc := service.NewExpenseService(store,
		service.WithCategories(cfg.Expense.Categories, cfg.Expense.EnforceCategories))

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.SetupRouter(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("==========================================")
		log.Printf("  💰 记账系统已启动")
		log.Printf("==========================================")
		log.Printf("  页面:     http://localhost%s/", cfg.Server.Port)
		log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
		log.Printf("  API接口:  http://localhost%s/expenses", cfg.Server.Port)
		log.Printf("==========================================")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("正在关闭服务器...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("服务器运行失败: %v", err)
	}
	log.Println("服务器已退出")
}
