package web

import "embed"

// StaticFS 嵌入的浏览器端页面
//
//go:embed index.html
var StaticFS embed.FS
