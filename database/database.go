package database

import (
	"fmt"
	"log"
	"net"
	"time"

	"expense/config"
	"expense/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 根据配置初始化存储
// driver=memory 时使用进程内存储，仅用于本地开发
func Init(cfg *config.Config) (ExpenseStore, error) {
	switch cfg.Database.Driver {
	case "memory":
		log.Println("使用内存存储，重启后数据将丢失")
		return NewMemoryStore(), nil
	case "mysql", "":
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(BuildDSN(cfg.Database)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// 每个操作都是单条语句，不需要 gorm 默认包裹的事务
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(&models.Expense{}); err != nil {
		return nil, fmt.Errorf("迁移数据表失败: %w", err)
	}

	log.Println("数据库初始化成功")
	return NewGormStore(DB), nil
}

// BuildDSN 构建 MySQL DSN 连接字符串
// ClientFoundRows 使 UPDATE 返回匹配行数而非实际变化行数，写入相同值时不会被误判为记录不存在
func BuildDSN(cfg config.DatabaseConfig) string {
	dsn := mysqldriver.NewConfig()
	dsn.User = cfg.Username
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	dsn.DBName = cfg.DBName
	dsn.ParseTime = true
	dsn.Loc = time.Local
	dsn.ClientFoundRows = true
	dsn.Params = map[string]string{"charset": cfg.Charset}
	return dsn.FormatDSN()
}
