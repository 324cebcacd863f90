package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"expense/models"

	"github.com/shopspring/decimal"
)

// ErrBusy 上一次提交尚未完成
var ErrBusy = errors.New("a submission is already in flight")

const (
	LabelAdd    = "Add Expense"
	LabelAdding = "Adding..."

	MsgFetchFailed  = "Failed to fetch expenses. Please check your backend server."
	MsgAddFailed    = "Failed to add expense. Please check your input and try again."
	MsgUnreachable  = "Unable to reach the server. Please try again."
	MsgDeleteFailed = "Failed to delete expense. Please try again."
)

// Backend State 依赖的服务端操作，*API 实现了该接口
type Backend interface {
	List(ctx context.Context) ([]models.Expense, error)
	Create(ctx context.Context, req ExpenseRequest) (*models.Expense, error)
	Delete(ctx context.Context, id uint) error
	Categories(ctx context.Context) ([]string, error)
}

// Form 表单字段，Amount 保留用户输入的原始文本
type Form struct {
	Description string
	Amount      string
	Category    string
}

// Snapshot 某一时刻的只读视图
type Snapshot struct {
	Expenses   []models.Expense
	Form       Form
	Categories []string
	Busy       bool
	Err        string
}

// State 客户端状态。列表只在三处被修改：Load 整体替换、Submit 成功后追加、Delete 成功后移除
type State struct {
	backend Backend

	mu         sync.Mutex
	expenses   []models.Expense
	form       Form
	categories []string
	busy       bool
	err        string
}

// NewState 创建状态，类别默认使用内置选项，第一个为默认值
func NewState(backend Backend) *State {
	s := &State{
		backend:    backend,
		expenses:   []models.Expense{},
		categories: models.DefaultCategories(),
	}
	s.form = s.emptyForm()
	return s
}

// Load 拉取全部记录并整体替换本地列表，失败时列表置空并记录错误
func (s *State) Load(ctx context.Context) error {
	list, err := s.backend.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.expenses = []models.Expense{}
		s.err = MsgFetchFailed
		return err
	}
	s.expenses = append([]models.Expense{}, list...)
	s.err = ""
	return nil
}

// LoadCategories 从服务端获取类别选项，失败时保留当前选项
func (s *State) LoadCategories(ctx context.Context) error {
	categories, err := s.backend.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]string{}, categories...)
	if !contains(s.categories, s.form.Category) {
		s.form.Category = s.categories[0]
	}
	return nil
}

func (s *State) SetDescription(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Description = v
}

// SetAmount 只保留数字和第一个小数点
func (s *State) SetAmount(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.Amount = filterAmount(v)
}

// SetCategory 只接受选项中的类别
func (s *State) SetCategory(v string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !contains(s.categories, v) {
		return false
	}
	s.form.Category = v
	return true
}

func (s *State) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Submit 提交表单。同一时刻最多一个提交在途，成功后追加记录并重置表单，失败时保留表单
func (s *State) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.err = ""
	form := s.form
	s.mu.Unlock()

	created, err := s.backend.Create(ctx, ExpenseRequest{
		Description: form.Description,
		Amount:      form.Amount,
		Category:    form.Category,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		s.err = submitMessage(err)
		return err
	}
	s.expenses = append(s.expenses, *created)
	s.form = s.emptyForm()
	return nil
}

// Delete 服务端确认后才从本地列表移除
func (s *State) Delete(ctx context.Context, id uint) error {
	err := s.backend.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = MsgDeleteFailed
		return err
	}
	kept := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.expenses = kept
	return nil
}

// SubmitLabel 提交按钮文字
func (s *State) SubmitLabel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return LabelAdding
	}
	return LabelAdd
}

func (s *State) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Expenses:   append([]models.Expense{}, s.expenses...),
		Form:       s.form,
		Categories: append([]string{}, s.categories...),
		Busy:       s.busy,
		Err:        s.err,
	}
}

// FormatAmount 金额固定两位小数显示
func FormatAmount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (s *State) emptyForm() Form {
	f := Form{}
	if len(s.categories) > 0 {
		f.Category = s.categories[0]
	}
	return f
}

func submitMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrUnreachable) {
		return MsgUnreachable
	}
	return MsgAddFailed
}

func filterAmount(v string) string {
	var b strings.Builder
	dot := false
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			b.WriteRune(r)
		}
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
