package repositories

import (
	"context"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
)

// DebtReader defines read operations for active debt items
type DebtReader interface {
	// ListDebts retrieves every active debt item.
	ListDebts(ctx context.Context) ([]domain.DebtItem, error)

	// FindDebtsByIDs retrieves the debt items for the given ids, keyed by id.
	// Ids with no matching row are simply absent from the result.
	FindDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.DebtItem, error)

	// FindDebtsByPurchaseID retrieves all debt items sharing one purchase id.
	FindDebtsByPurchaseID(ctx context.Context, purchaseID string) ([]domain.DebtItem, error)
}

// DebtWriter defines write operations for active debt items
type DebtWriter interface {
	// SaveDebts appends all given debt items in one transaction.
	// Either every row is written or none is.
	SaveDebts(ctx context.Context, debts []domain.DebtItem) error

	// MarkDebtPaid stamps paid/paid_at/paid_by on a single active debt item.
	MarkDebtPaid(ctx context.Context, debtID string, paidAt time.Time, paidBy string) error

	// DeleteDebtsByPurchaseID removes every active debt item of one purchase
	// group and returns the number of rows removed.
	DeleteDebtsByPurchaseID(ctx context.Context, purchaseID string) (int64, error)
}

// DebtRepositoryFacade combines all debt-related repository interfaces
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}
