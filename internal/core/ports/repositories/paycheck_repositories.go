package repositories

import (
	"context"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
)

// PaycheckReader defines read operations for paycheck data
type PaycheckReader interface {
	// ListPaychecks retrieves every stored paycheck record.
	ListPaychecks(ctx context.Context) ([]domain.Paycheck, error)

	// FindPaycheckByUsername retrieves the paycheck record for one user.
	// Returns apperrors.ErrNotFound when the user has no record.
	FindPaycheckByUsername(ctx context.Context, username string) (*domain.Paycheck, error)
}

// PaycheckWriter defines write operations for paycheck data
type PaycheckWriter interface {
	// UpsertPaycheck inserts or replaces the paycheck record keyed by username.
	UpsertPaycheck(ctx context.Context, paycheck domain.Paycheck) error
}

// PaycheckRepositoryFacade combines all paycheck-related repository interfaces
type PaycheckRepositoryFacade interface {
	PaycheckReader
	PaycheckWriter
}
