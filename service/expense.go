package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"expense/database"
	"expense/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("expense not found")

// 校验失败时返回给调用方的提示
const (
	MsgInvalidID           = "Invalid ID"
	MsgDescriptionRequired = "Description is required"
	MsgAmountRequired      = "Valid amount is required"
	MsgCategoryRequired    = "Category is required"
)

// ValidationError 客户端提交的数据未通过校验
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ExpenseService 消费记录服务，无状态，可被并发调用
type ExpenseService struct {
	store      database.ExpenseStore
	categories []string
	enforce    bool
}

// Option 服务选项
type Option func(*ExpenseService)

// WithCategories 设置可选类别；enforce 为 true 时服务端只接受这些类别
func WithCategories(categories []string, enforce bool) Option {
	return func(s *ExpenseService) {
		if len(categories) > 0 {
			s.categories = append([]string(nil), categories...)
		}
		s.enforce = enforce
	}
}

// NewExpenseService 创建消费记录服务
func NewExpenseService(store database.ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store:      store,
		categories: models.DefaultCategories(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories 返回表单使用的类别选项
func (s *ExpenseService) Categories() []string {
	return append([]string(nil), s.categories...)
}

// ParseID 解析路径中的 id
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, invalid(MsgInvalidID)
	}
	return uint(id), nil
}

// ParseAmount 解析金额，必须为大于 0 的数字，结果按两位小数取整
func ParseAmount(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, invalid(MsgAmountRequired)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, invalid(MsgAmountRequired)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return 0, invalid(MsgAmountRequired)
	}
	return d.InexactFloat64(), nil
}

// Validate 按 description、amount、category 的顺序校验，返回第一个失败的规则
func (s *ExpenseService) Validate(in models.ExpenseInput) (models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Expense{}, invalid(MsgDescriptionRequired)
	}

	amount, err := ParseAmount(in.AmountText())
	if err != nil {
		return models.Expense{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		return models.Expense{}, invalid(MsgCategoryRequired)
	}
	if s.enforce && !s.isKnownCategory(category) {
		return models.Expense{}, invalid("Category must be one of: " + strings.Join(s.categories, ", "))
	}

	return models.Expense{
		Description: description,
		Amount:      amount,
		Category:    category,
	}, nil
}

func (s *ExpenseService) isKnownCategory(category string) bool {
	for _, c := range s.categories {
		if c == category {
			return true
		}
	}
	return false
}

// List 按 id 倒序返回全部记录
func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		log.Printf("查询消费记录失败: %v", err)
		return nil, err
	}
	if list == nil {
		list = []models.Expense{}
	}
	return list, nil
}

// Get 查询单条记录
func (s *ExpenseService) Get(ctx context.Context, id uint) (*models.Expense, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.translate("查询消费记录", id, err)
	}
	return e, nil
}

// Create 校验并创建记录
func (s *ExpenseService) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	e, err := s.Validate(in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, &e); err != nil {
		log.Printf("创建消费记录失败: %v", err)
		return nil, err
	}
	return &e, nil
}

// Update 校验并整体替换三个可变字段
func (s *ExpenseService) Update(ctx context.Context, id uint, in models.ExpenseInput) (*models.Expense, error) {
	fields, err := s.Validate(in)
	if err != nil {
		return nil, err
	}
	e, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, s.translate("更新消费记录", id, err)
	}
	return e, nil
}

// Delete 删除记录；并发删除同一条记录时只有一个调用成功，其余返回 ErrNotFound
func (s *ExpenseService) Delete(ctx context.Context, id uint) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		log.Printf("删除消费记录 %d 失败: %v", id, err)
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Statistics 消费汇总
func (s *ExpenseService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		log.Printf("统计消费记录失败: %v", err)
		return nil, err
	}
	return stats, nil
}

// Ping 检查存储可用性
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ExpenseService) translate(op string, id uint, err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	log.Printf("%s %d 失败: %v", op, id, err)
	return fmt.Errorf("%s: %w", op, err)
}
