package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock PaycheckRepository (based on PaycheckService usage) ---
type MockPaycheckRepository struct {
	mock.Mock
	ListPaychecksFn          func(ctx context.Context) ([]domain.Paycheck, error)
	FindPaycheckByUsernameFn func(ctx context.Context, username string) (*domain.Paycheck, error)
	UpsertPaycheckFn         func(ctx context.Context, paycheck domain.Paycheck) error
}

func (m *MockPaycheckRepository) ListPaychecks(ctx context.Context) ([]domain.Paycheck, error) {
	if m.ListPaychecksFn != nil {
		return m.ListPaychecksFn(ctx)
	}
	args := m.Called(ctx)
	var paychecks []domain.Paycheck
	if args.Get(0) != nil {
		paychecks = args.Get(0).([]domain.Paycheck)
	}
	return paychecks, args.Error(1)
}

func (m *MockPaycheckRepository) FindPaycheckByUsername(ctx context.Context, username string) (*domain.Paycheck, error) {
	if m.FindPaycheckByUsernameFn != nil {
		return m.FindPaycheckByUsernameFn(ctx, username)
	}
	args := m.Called(ctx, username)
	var paycheck *domain.Paycheck
	if args.Get(0) != nil {
		paycheck = args.Get(0).(*domain.Paycheck)
	}
	return paycheck, args.Error(1)
}

func (m *MockPaycheckRepository) UpsertPaycheck(ctx context.Context, paycheck domain.Paycheck) error {
	if m.UpsertPaycheckFn != nil {
		return m.UpsertPaycheckFn(ctx, paycheck)
	}
	args := m.Called(ctx, paycheck)
	return args.Error(0)
}

// --- Mock DebtRepository ---
type MockDebtRepository struct {
	mock.Mock
	ListDebtsFn               func(ctx context.Context) ([]domain.DebtItem, error)
	FindDebtsByIDsFn          func(ctx context.Context, debtIDs []string) (map[string]domain.DebtItem, error)
	FindDebtsByPurchaseIDFn   func(ctx context.Context, purchaseID string) ([]domain.DebtItem, error)
	SaveDebtsFn               func(ctx context.Context, debts []domain.DebtItem) error
	MarkDebtPaidFn            func(ctx context.Context, debtID string, paidAt time.Time, paidBy string) error
	DeleteDebtsByPurchaseIDFn func(ctx context.Context, purchaseID string) (int64, error)
}

func (m *MockDebtRepository) ListDebts(ctx context.Context) ([]domain.DebtItem, error) {
	if m.ListDebtsFn != nil {
		return m.ListDebtsFn(ctx)
	}
	args := m.Called(ctx)
	var debts []domain.DebtItem
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.DebtItem)
	}
	return debts, args.Error(1)
}

func (m *MockDebtRepository) FindDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.DebtItem, error) {
	if m.FindDebtsByIDsFn != nil {
		return m.FindDebtsByIDsFn(ctx, debtIDs)
	}
	args := m.Called(ctx, debtIDs)
	var found map[string]domain.DebtItem
	if args.Get(0) != nil {
		found = args.Get(0).(map[string]domain.DebtItem)
	}
	return found, args.Error(1)
}

func (m *MockDebtRepository) FindDebtsByPurchaseID(ctx context.Context, purchaseID string) ([]domain.DebtItem, error) {
	if m.FindDebtsByPurchaseIDFn != nil {
		return m.FindDebtsByPurchaseIDFn(ctx, purchaseID)
	}
	args := m.Called(ctx, purchaseID)
	var debts []domain.DebtItem
	if args.Get(0) != nil {
		debts = args.Get(0).([]domain.DebtItem)
	}
	return debts, args.Error(1)
}

func (m *MockDebtRepository) SaveDebts(ctx context.Context, debts []domain.DebtItem) error {
	if m.SaveDebtsFn != nil {
		return m.SaveDebtsFn(ctx, debts)
	}
	args := m.Called(ctx, debts)
	return args.Error(0)
}

func (m *MockDebtRepository) MarkDebtPaid(ctx context.Context, debtID string, paidAt time.Time, paidBy string) error {
	if m.MarkDebtPaidFn != nil {
		return m.MarkDebtPaidFn(ctx, debtID, paidAt, paidBy)
	}
	args := m.Called(ctx, debtID, paidAt, paidBy)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteDebtsByPurchaseID(ctx context.Context, purchaseID string) (int64, error) {
	if m.DeleteDebtsByPurchaseIDFn != nil {
		return m.DeleteDebtsByPurchaseIDFn(ctx, purchaseID)
	}
	args := m.Called(ctx, purchaseID)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock ArchiveRepository ---
type MockArchiveRepository struct {
	mock.Mock
	ListArchivedDebtsFn      func(ctx context.Context) ([]domain.ArchivedDebtItem, error)
	FindArchivedDebtsByIDsFn func(ctx context.Context, debtIDs []string) (map[string]domain.ArchivedDebtItem, error)
	SaveArchivedDebtFn       func(ctx context.Context, archived domain.ArchivedDebtItem) error
	ApproveArchivedDebtFn    func(ctx context.Context, debtID string, approvedAt time.Time, approvedBy string) error
}

func (m *MockArchiveRepository) ListArchivedDebts(ctx context.Context) ([]domain.ArchivedDebtItem, error) {
	if m.ListArchivedDebtsFn != nil {
		return m.ListArchivedDebtsFn(ctx)
	}
	args := m.Called(ctx)
	var archived []domain.ArchivedDebtItem
	if args.Get(0) != nil {
		archived = args.Get(0).([]domain.ArchivedDebtItem)
	}
	return archived, args.Error(1)
}

func (m *MockArchiveRepository) FindArchivedDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.ArchivedDebtItem, error) {
	if m.FindArchivedDebtsByIDsFn != nil {
		return m.FindArchivedDebtsByIDsFn(ctx, debtIDs)
	}
	args := m.Called(ctx, debtIDs)
	var found map[string]domain.ArchivedDebtItem
	if args.Get(0) != nil {
		found = args.Get(0).(map[string]domain.ArchivedDebtItem)
	}
	return found, args.Error(1)
}

func (m *MockArchiveRepository) SaveArchivedDebt(ctx context.Context, archived domain.ArchivedDebtItem) error {
	if m.SaveArchivedDebtFn != nil {
		return m.SaveArchivedDebtFn(ctx, archived)
	}
	args := m.Called(ctx, archived)
	return args.Error(0)
}

func (m *MockArchiveRepository) ApproveArchivedDebt(ctx context.Context, debtID string, approvedAt time.Time, approvedBy string) error {
	if m.ApproveArchivedDebtFn != nil {
		return m.ApproveArchivedDebtFn(ctx, debtID, approvedAt, approvedBy)
	}
	args := m.Called(ctx, debtID, approvedAt, approvedBy)
	return args.Error(0)
}

// --- Mock IncomeReader ---
type MockIncomeReader struct {
	mock.Mock
	ComputeIncomeMeansFn func(ctx context.Context) (map[string]decimal.Decimal, error)
}

func (m *MockIncomeReader) ComputeIncomeMeans(ctx context.Context) (map[string]decimal.Decimal, error) {
	if m.ComputeIncomeMeansFn != nil {
		return m.ComputeIncomeMeansFn(ctx)
	}
	args := m.Called(ctx)
	var means map[string]decimal.Decimal
	if args.Get(0) != nil {
		means = args.Get(0).(map[string]decimal.Decimal)
	}
	return means, args.Error(1)
}

// --- Recording Notifier ---
// Captures events instead of delivering them; optionally fails or panics to
// exercise the fire-and-forget contract.
type RecordingNotifier struct {
	mu     sync.Mutex
	Events []domain.Event
	Err    error
	Panics bool
}

func (n *RecordingNotifier) Notify(_ context.Context, event domain.Event) error {
	if n.Panics {
		panic("notifier down")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, event)
	return n.Err
}

func (n *RecordingNotifier) Recorded() []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Event, len(n.Events))
	copy(out, n.Events)
	return out
}

// --- Mock ReceiptStore ---
type MockReceiptStore struct {
	mock.Mock
	StoreFn func(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}

func (m *MockReceiptStore) Store(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	if m.StoreFn != nil {
		return m.StoreFn(ctx, name, data, mimeType)
	}
	args := m.Called(ctx, name, data, mimeType)
	return args.String(0), args.Error(1)
}
