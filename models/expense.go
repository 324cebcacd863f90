package models

import (
	"bytes"
	"encoding/json"
)

// Expense 消费记录模型
type Expense struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement" example:"1"`
	Description string  `json:"description" gorm:"size:255;not null" example:"Coffee"`
	Amount      float64 `json:"amount" gorm:"type:decimal(12,2);not null" example:"3.5"`
	Category    string  `json:"category" gorm:"size:50;not null" example:"Food"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// ExpenseInput 创建/更新消费记录请求
// amount 既可以是数字也可以是数字字符串，如 3.5 或 "3.50"
type ExpenseInput struct {
	Description string          `json:"description" example:"Coffee"`
	Amount      json.RawMessage `json:"amount" swaggertype:"number" example:"3.5"`
	Category    string          `json:"category" example:"Food"`
}

// AmountText 返回 amount 的原始文本，缺失或 null 时返回空字符串
func (in ExpenseInput) AmountText() string {
	raw := bytes.TrimSpace(in.Amount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}
	return string(raw)
}

// Category 默认消费类别（与前端下拉框一致）
const (
	CategoryFood      = "Food"
	CategoryTransport = "Transport"
	CategoryShopping  = "Shopping"
	CategoryBills     = "Bills"
	CategoryOther     = "Other"
)

// DefaultCategories 获取默认消费类别
func DefaultCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryBills,
		CategoryOther,
	}
}

// CategoryStat 按类别统计
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

// Statistics 消费汇总
type Statistics struct {
	TotalAmount   float64        `json:"total_amount"`
	TotalCount    int64          `json:"total_count"`
	CategoryStats []CategoryStat `json:"category_stats"`
}
