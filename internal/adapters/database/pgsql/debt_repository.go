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

const debtColumns = `debt_id, purchase_id, created_at, purchase_date, uploader, debtor,
		description, amount_total, amount_owed, share_type, receipt_url, paid, paid_at, paid_by`

type PgxDebtRepository struct {
	pool *pgxpool.Pool
}

// NewPgxDebtRepository creates a new repository for active debt items.
func NewPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{pool: pool}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

func scanDebtItem(row pgx.CollectableRow) (domain.DebtItem, error) {
	var debt domain.DebtItem
	var receiptURL, paidBy *string
	err := row.Scan(
		&debt.DebtID,
		&debt.PurchaseID,
		&debt.CreatedAt,
		&debt.PurchaseDate,
		&debt.Uploader,
		&debt.Debtor,
		&debt.Description,
		&debt.AmountTotal,
		&debt.AmountOwed,
		&debt.ShareType,
		&receiptURL,
		&debt.Paid,
		&debt.PaidAt,
		&paidBy,
	)
	if receiptURL != nil {
		debt.ReceiptURL = *receiptURL
	}
	if paidBy != nil {
		debt.PaidBy = *paidBy
	}
	return debt, err
}

// ListDebts retrieves every active debt item.
func (r *PgxDebtRepository) ListDebts(ctx context.Context) ([]domain.DebtItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM debt_items ORDER BY created_at DESC;`, debtColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt items: %w", err)
	}
	defer rows.Close()

	debts, err := pgx.CollectRows(rows, scanDebtItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan debt items: %w", err)
	}
	return debts, nil
}

// FindDebtsByIDs retrieves the debt items for the given ids, keyed by id.
// Ids with no matching row are simply absent from the result.
func (r *PgxDebtRepository) FindDebtsByIDs(ctx context.Context, debtIDs []string) (map[string]domain.DebtItem, error) {
	if len(debtIDs) == 0 {
		return map[string]domain.DebtItem{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM debt_items WHERE debt_id = ANY($1);`, debtColumns)
	rows, err := r.pool.Query(ctx, query, debtIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt items by ids: %w", err)
	}
	defer rows.Close()

	debts, err := pgx.CollectRows(rows, scanDebtItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan debt items: %w", err)
	}

	found := make(map[string]domain.DebtItem, len(debts))
	for _, debt := range debts {
		found[debt.DebtID] = debt
	}
	return found, nil
}

// FindDebtsByPurchaseID retrieves all debt items sharing one purchase id.
func (r *PgxDebtRepository) FindDebtsByPurchaseID(ctx context.Context, purchaseID string) ([]domain.DebtItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM debt_items WHERE purchase_id = $1 ORDER BY debtor;`, debtColumns)
	rows, err := r.pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase group %s: %w", purchaseID, err)
	}
	defer rows.Close()

	debts, err := pgx.CollectRows(rows, scanDebtItem)
	if err != nil {
		return nil, fmt.Errorf("failed to scan purchase group %s: %w", purchaseID, err)
	}
	return debts, nil
}

// SaveDebts appends all given debt items within a DB transaction, so either
// every row of the expense (or batch) lands or none does.
func (r *PgxDebtRepository) SaveDebts(ctx context.Context, debts []domain.DebtItem) error {
	if len(debts) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	batch := &pgx.Batch{}
	query := `
		INSERT INTO debt_items (debt_id, purchase_id, created_at, purchase_date, uploader, debtor,
			description, amount_total, amount_owed, share_type, receipt_url, paid, paid_at, paid_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, debt := range debts {
		var receiptURL, paidBy *string
		if debt.ReceiptURL != "" {
			receiptURL = &debt.ReceiptURL
		}
		if debt.PaidBy != "" {
			paidBy = &debt.PaidBy
		}
		batch.Queue(query,
			debt.DebtID,
			debt.PurchaseID,
			debt.CreatedAt,
			debt.PurchaseDate,
			debt.Uploader,
			debt.Debtor,
			debt.Description,
			debt.AmountTotal,
			debt.AmountOwed,
			debt.ShareType,
			receiptURL,
			debt.Paid,
			debt.PaidAt,
			paidBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute debt insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit debt insert batch: %w", err)
	}
	return nil
}

// MarkDebtPaid stamps paid/paid_at/paid_by on a single active debt item.
func (r *PgxDebtRepository) MarkDebtPaid(ctx context.Context, debtID string, paidAt time.Time, paidBy string) error {
	query := `
		UPDATE debt_items
		SET paid = TRUE, paid_at = $2, paid_by = $3
		WHERE debt_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, debtID, paidAt, paidBy)
	if err != nil {
		return fmt.Errorf("failed to mark debt %s paid: %w", debtID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("debt %s: %w", debtID, apperrors.ErrNotFound)
	}
	return nil
}

// DeleteDebtsByPurchaseID removes every active debt item of one purchase group
// and returns the number of rows removed.
func (r *PgxDebtRepository) DeleteDebtsByPurchaseID(ctx context.Context, purchaseID string) (int64, error) {
	query := `DELETE FROM debt_items WHERE purchase_id = $1;`
	tag, err := r.pool.Exec(ctx, query, purchaseID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete purchase group %s: %w", purchaseID, err)
	}
	return tag.RowsAffected(), nil
}
