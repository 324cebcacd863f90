package database

import (
	"context"
	"errors"

	"expense/models"
)

// ErrNotFound 指定 id 的记录不存在
var ErrNotFound = errors.New("record not found")

// ExpenseStore 消费记录存储
// 每个方法只对应一条行级原子的 SQL 语句（Update 额外读回一次）
type ExpenseStore interface {
	// Insert 插入记录，成功后 e.ID 为存储分配的 id
	Insert(ctx context.Context, e *models.Expense) error
	// Update 按 id 条件更新三个可变字段，返回更新后的记录；无匹配行时返回 ErrNotFound
	Update(ctx context.Context, id uint, fields models.Expense) (*models.Expense, error)
	// Delete 按 id 删除，返回删除的行数
	Delete(ctx context.Context, id uint) (int64, error)
	// List 按 id 倒序返回全部记录
	List(ctx context.Context) ([]models.Expense, error)
	// Get 按 id 查询；无匹配行时返回 ErrNotFound
	Get(ctx context.Context, id uint) (*models.Expense, error)
	// Statistics 汇总金额及按类别统计
	Statistics(ctx context.Context) (*models.Statistics, error)
	// Ping 检查存储是否可用
	Ping(ctx context.Context) error
}
