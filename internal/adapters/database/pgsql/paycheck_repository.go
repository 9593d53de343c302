package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hearthsplit/household_manager_app/internal/apperrors"
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	portsrepo "github.com/hearthsplit/household_manager_app/internal/core/ports/repositories"
)

type PgxPaycheckRepository struct {
	pool *pgxpool.Pool
}

// NewPgxPaycheckRepository creates a new repository for paycheck data.
func NewPgxPaycheckRepository(pool *pgxpool.Pool) portsrepo.PaycheckRepositoryFacade {
	return &PgxPaycheckRepository{pool: pool}
}

var _ portsrepo.PaycheckRepositoryFacade = (*PgxPaycheckRepository)(nil)

// ListPaychecks retrieves every stored paycheck record.
func (r *PgxPaycheckRepository) ListPaychecks(ctx context.Context) ([]domain.Paycheck, error) {
	query := `
		SELECT username, pay1, pay2, pay3, average
		FROM paychecks
		ORDER BY username;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query paychecks: %w", err)
	}
	defer rows.Close()

	paychecks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Paycheck, error) {
		var paycheck domain.Paycheck
		err := row.Scan(
			&paycheck.Username,
			&paycheck.Pay1,
			&paycheck.Pay2,
			&paycheck.Pay3,
			&paycheck.Average,
		)
		return paycheck, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan paychecks: %w", err)
	}
	return paychecks, nil
}

// FindPaycheckByUsername retrieves the paycheck record for one user.
func (r *PgxPaycheckRepository) FindPaycheckByUsername(ctx context.Context, username string) (*domain.Paycheck, error) {
	query := `
		SELECT username, pay1, pay2, pay3, average
		FROM paychecks
		WHERE username = $1;
	`
	var paycheck domain.Paycheck
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&paycheck.Username,
		&paycheck.Pay1,
		&paycheck.Pay2,
		&paycheck.Pay3,
		&paycheck.Average,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find paycheck for %s: %w", username, err)
	}
	return &paycheck, nil
}

// UpsertPaycheck inserts or replaces the paycheck record keyed by username.
func (r *PgxPaycheckRepository) UpsertPaycheck(ctx context.Context, paycheck domain.Paycheck) error {
	query := `
		INSERT INTO paychecks (username, pay1, pay2, pay3, average)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			pay1 = EXCLUDED.pay1,
			pay2 = EXCLUDED.pay2,
			pay3 = EXCLUDED.pay3,
			average = EXCLUDED.average;
	`
	_, err := r.pool.Exec(ctx, query,
		paycheck.Username,
		paycheck.Pay1,
		paycheck.Pay2,
		paycheck.Pay3,
		paycheck.Average,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert paycheck for %s: %w", paycheck.Username, err)
	}
	return nil
}
