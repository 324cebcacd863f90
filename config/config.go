package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Expense  ExpenseConfig  `mapstructure:"expense"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port           string          `mapstructure:"port"`
	Mode           string          `mapstructure:"mode"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig 写接口限流配置
type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxRequests   int           `mapstructure:"max_requests"`
	WindowSeconds int           `mapstructure:"window_seconds"`
	Window        time.Duration `mapstructure:"-"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql 或 memory
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	Charset      string `mapstructure:"charset"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// ExpenseConfig 消费记录相关配置
type ExpenseConfig struct {
	Categories        []string `mapstructure:"categories"`
	EnforceCategories bool     `mapstructure:"enforce_categories"`
}

// legacyEnv 兼容旧版部署使用的环境变量名
var legacyEnv = map[string]string{
	"server.port":            "PORT",
	"server.allowed_origins": "CORS_ORIGINS",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.username":      "DB_USER",
	"database.password":      "DB_PASSWORD",
	"database.dbname":        "DB_NAME",
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// 0. 读取当前目录下的 .env（可选）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("警告: 读取 .env 失败: %v", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	log.Println("已加载内置默认配置")

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/expense")
		externalViper.AddConfigPath("$HOME/.expense")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖：EXPENSE_SERVER_PORT 之类，以及旧版的 PORT / DB_* 变量
	v.SetEnvPrefix("EXPENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, name := range legacyEnv {
		prefixed := "EXPENSE_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return nil, fmt.Errorf("绑定环境变量 %s 失败: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()

	GlobalConfig = &cfg

	return &cfg, nil
}

// normalize 补齐缺省值
func (c *Config) normalize() {
	c.Server.Port = NormalizePort(c.Server.Port)
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	c.Server.AllowedOrigins = trimList(c.Server.AllowedOrigins)

	if c.Server.RateLimit.MaxRequests <= 0 {
		c.Server.RateLimit.MaxRequests = 60
	}
	if c.Server.RateLimit.WindowSeconds <= 0 {
		c.Server.RateLimit.WindowSeconds = 60
	}
	c.Server.RateLimit.Window = time.Duration(c.Server.RateLimit.WindowSeconds) * time.Second

	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	if c.Database.Charset == "" {
		c.Database.Charset = "utf8mb4"
	}

	c.Expense.Categories = trimList(c.Expense.Categories)
}

// NormalizePort 自动添加冒号前缀，如 3000 -> :3000
func NormalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":3000"
	}
	if !strings.Contains(port, ":") {
		port = ":" + port
	}
	return port
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// SafeErrorMessage release 模式下不向客户端暴露内部错误详情
// GlobalConfig 未初始化时视为开发环境
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	log.Printf("当前配置:")
	log.Printf("  服务器: %s (模式: %s)", GlobalConfig.Server.Port, GlobalConfig.Server.Mode)
	log.Printf("  允许跨域: %s", strings.Join(GlobalConfig.Server.AllowedOrigins, ", "))
	if GlobalConfig.Database.Driver == "memory" {
		log.Printf("  数据库: memory（仅用于本地开发，重启后数据丢失）")
	} else {
		log.Printf("  数据库: %s@%s:%s/%s",
			GlobalConfig.Database.Username,
			GlobalConfig.Database.Host,
			GlobalConfig.Database.Port,
			GlobalConfig.Database.DBName)
	}
	log.Printf("  类别校验: %v", GlobalConfig.Expense.EnforceCategories)
}
