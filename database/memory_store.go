package database

import (
	"context"
	"sort"
	"sync"

	"expense/models"
)

// MemoryStore 进程内存储
// 所有操作在同一把锁内完成，等价于行级原子语句；id 单调递增且不复用
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Expense
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[uint]models.Expense)}
}

func (s *MemoryStore) Insert(_ context.Context, e *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	s.rows[e.ID] = *e
	return nil
}

func (s *MemoryStore) Update(_ context.Context, id uint, fields models.Expense) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return nil, ErrNotFound
	}
	fields.ID = id
	s.rows[id] = fields
	return &fields, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return 0, nil
	}
	delete(s.rows, id)
	return 1, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]models.Expense, 0, len(s.rows))
	for _, e := range s.rows {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *MemoryStore) Get(_ context.Context, id uint) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (s *MemoryStore) Statistics(_ context.Context) (*models.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &models.Statistics{CategoryStats: make([]models.CategoryStat, 0)}
	byCategory := make(map[string]*models.CategoryStat)
	for _, e := range s.rows {
		stats.TotalAmount += e.Amount
		stats.TotalCount++
		cs, ok := byCategory[e.Category]
		if !ok {
			cs = &models.CategoryStat{Category: e.Category}
			byCategory[e.Category] = cs
		}
		cs.Total += e.Amount
		cs.Count++
	}
	for _, cs := range byCategory {
		stats.CategoryStats = append(stats.CategoryStats, *cs)
	}
	sort.Slice(stats.CategoryStats, func(i, j int) bool {
		a, b := stats.CategoryStats[i], stats.CategoryStats[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	return stats, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
