package config

import _ "embed"

// DefaultConfigYAML 内置默认配置，面向本地开发环境
//
//go:embed default.yaml
var DefaultConfigYAML []byte
