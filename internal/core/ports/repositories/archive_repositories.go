package repositories

import (
	"context"
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
)

// ArchiveReader defines read operations for archived (settled) debt items
type ArchiveReader interface {
	// ListArchivedDebts retrieves every archived debt item.
	ListArchivedDebts(ctx context.Context) ([]domain.ArchivedDebtItem, error)

	// FindArchivedDebtsByIDs retrieves archived debt items for the given ids,
	// keyed by id. Ids with no matching row are absent from the result.
	FindArchivedDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.ArchivedDebtItem, error)
}

// ArchiveWriter defines write operations for archived debt items
type ArchiveWriter interface {
	// SaveArchivedDebt appends one archive record. Existing archive records
	// are never touched by this call.
	SaveArchivedDebt(ctx context.Context, archived domain.ArchivedDebtItem) error

	// ApproveArchivedDebt stamps approved/approved_at/approved_by on a single
	// archive record.
	ApproveArchivedDebt(ctx context.Context, debtID string, approvedAt time.Time, approvedBy string) error
}

// ArchiveRepositoryFacade combines all archive-related repository interfaces
type ArchiveRepositoryFacade interface {
	ArchiveReader
	ArchiveWriter
}
