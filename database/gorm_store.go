package database

import (
	"context"
	"errors"
	"fmt"

	"expense/models"

	"gorm.io/gorm"
)

// GormStore 基于 gorm 的消费记录存储
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, e *models.Expense) error {
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// Update 单条 UPDATE ... WHERE id = ? 完成存在性判断与写入，避免先查后写的竞争
func (s *GormStore) Update(ctx context.Context, id uint, fields models.Expense) (*models.Expense, error) {
	res := s.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Updates(map[string]interface{}{
		"description": fields.Description,
		"amount":      fields.Amount,
		"category":    fields.Category,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update expense %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	// 读回期间记录可能已被并发删除，此时同样返回 ErrNotFound
	return s.Get(ctx, id)
}

func (s *GormStore) Delete(ctx context.Context, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Expense{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expense %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.Expense, error) {
	list := make([]models.Expense, 0)
	if err := s.db.WithContext(ctx).Order("id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

func (s *GormStore) Get(ctx context.Context, id uint) (*models.Expense, error) {
	var e models.Expense
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get expense %d: %w", id, err)
	}
	return &e, nil
}

func (s *GormStore) Statistics(ctx context.Context) (*models.Statistics, error) {
	var totals struct {
		TotalAmount float64
		TotalCount  int64
	}
	if err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total_amount, COUNT(*) AS total_count").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	stats := &models.Statistics{
		TotalAmount:   totals.TotalAmount,
		TotalCount:    totals.TotalCount,
		CategoryStats: make([]models.CategoryStat, 0),
	}
	if err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Group("category").
		Order("total DESC").
		Scan(&stats.CategoryStats).Error; err != nil {
		return nil, fmt.Errorf("group expenses by category: %w", err)
	}
	return stats, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
