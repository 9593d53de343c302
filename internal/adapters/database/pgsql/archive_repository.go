package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
)

const archiveColumns = `debt_id, purchase_id, created_at, purchase_date, uploader, debtor,
		description, amount_total, amount_owed, share_type, receipt_url, paid, paid_at, paid_by,
		approved, approved_at, approved_by`

type PgxArchiveRepository struct {
	pool *pgxpool.Pool
}

// NewPgxArchiveRepository creates a new repository for archived debt items.
func NewPgxArchiveRepository(pool *pgxpool.Pool) portsrepo.ArchiveRepositoryFacade {
	return &PgxArchiveRepository{pool: pool}
}

var _ portsrepo.ArchiveRepositoryFacade = (*PgxArchiveRepository)(nil)

func scanArchivedDebtItem(row pgx.CollectableRow) (domain.ArchivedDebtItem, error) {
	var archived domain.ArchivedDebtItem
	var receiptURL, paidBy, approvedBy *string
	err := row.Scan(
		&archived.DebtID,
		&archived.PurchaseID,
		&archived.CreatedAt,
		&archived.PurchaseDate,
		&archived.Uploader,
		&archived.Debtor,
		&archived.Description,
		&archived.AmountTotal,
		&archived.AmountOwed,
		&archived.ShareType,
		&receiptURL,
		&archived.Paid,
		&archived.PaidAt,
		&paidBy,
		&archived.Approved,
		&archived.ApprovedAt,
		&approvedBy,
	)
	if receiptURL != nil {
		archived.ReceiptURL = *receiptURL
	}
	if paidBy != nil {
		archived.PaidBy = *paidBy
	}
	if approvedBy != nil {
		archived.ApprovedBy = *approvedBy
	}
	return archived, err
}

// ListArchivedDebts retrieves every archived debt item.
func (r *PgxArchiveRepository) ListArchivedDebts(ctx context.Context) ([]domain.ArchivedDebtItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM archived_debt_items ORDER BY paid_at DESC;`, archiveColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived debt items: %w", err)
	}
	defer rows.Close()

	archived, err := pgx.CollectRows(rows, scanArchivedDebtItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan archived debt items: %w", err)
	}
	return archived, nil
}

// FindArchivedDebtsByIDs retrieves archived debt items for the given ids,
// keyed by id. Ids with no matching row are absent from the result.
func (r *PgxArchiveRepository) FindArchivedDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.ArchivedDebtItem, error) {
	if len(debtIDs) == 0 {
		return map[string]domain.ArchivedDebtItem{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM archived_debt_items WHERE debt_id = ANY($1);`, archiveColumns)
	rows, err := r.pool.Query(ctx, query, debtIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived debt items by ids: %w", err)
	}
	defer rows.Close()

	archived, err := pgx.CollectRows(rows, scanArchivedDebtItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan archived debt items: %w", err)
	}

	found := make(map[string]domain.ArchivedDebtItem, len(archived))
	for _, record := range archived {
		found[record.DebtID] = record
	}
	return found, nil
}

// SaveArchivedDebt appends one archive record. Existing records are never
// touched; settlement history only ever grows.
func (r *PgxArchiveRepository) SaveArchivedDebt(ctx context.Context, archived domain.ArchivedDebtItem) error {
	query := `
		INSERT INTO archived_debt_items (debt_id, purchase_id, created_at, purchase_date, uploader, debtor,
			description, amount_total, amount_owed, share_type, receipt_url, paid, paid_at, paid_by,
			approved, approved_at, approved_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	var receiptURL, paidBy, approvedBy *string
	if archived.ReceiptURL != "" {
		receiptURL = &archived.ReceiptURL
	}
	if archived.PaidBy != "" {
		paidBy = &archived.PaidBy
	}
	if archived.ApprovedBy != "" {
		approvedBy = &archived.ApprovedBy
	}

	_, err := r.pool.Exec(ctx, query,
		archived.DebtID,
		archived.PurchaseID,
		archived.CreatedAt,
		archived.PurchaseDate,
		archived.Uploader,
		archived.Debtor,
		archived.Description,
		archived.AmountTotal,
		archived.AmountOwed,
		archived.ShareType,
		receiptURL,
		archived.Paid,
		archived.PaidAt,
		paidBy,
		archived.Approved,
		archived.ApprovedAt,
		approvedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert archive record %s: %w", archived.DebtID, err)
	}
	return nil
}

// ApproveArchivedDebt stamps approved/approved_at/approved_by on a single
// archive record.
func (r *PgxArchiveRepository) ApproveArchivedDebt(ctx context.Context, debtID string, approvedAt time.Time, approvedBy string) error {
	query := `
		UPDATE archived_debt_items
		SET approved = TRUE, approved_at = $2, approved_by = $3
		WHERE debt_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, debtID, approvedAt, approvedBy)
	if err != nil {
		return fmt.Errorf("failed to approve archive record %s: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("archive record %s: %w", debtID, apperrors.ErrNotFound)
	}
	return nil
}
