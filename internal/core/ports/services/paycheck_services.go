package services

import (
	"context"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IncomeReaderSvc exposes the income calculator. Idempotent and
// side-effect-free; the splitter snapshots its result once per call.
type IncomeReaderSvc interface {
	// ComputeIncomeMeans returns each user's average income derived from
	// their stored paychecks. Users without a single numeric paycheck (or
	// with an empty username) are excluded. Empty map when no records exist.
	ComputeIncomeMeans(ctx context.Context) (map[string]decimal.Decimal, error)
}

// PaycheckSvcFacade combines income calculation with paycheck maintenance.
type PaycheckSvcFacade interface {
	IncomeReaderSvc

	// UpsertPaycheck stores the user's three most recent raw pay amounts and
	// the derived average, replacing any previous record.
	UpsertPaycheck(ctx context.Context, username string, pay1, pay2, pay3 decimal.Decimal) (*domain.Paycheck, error)

	// GetPaycheck retrieves the user's stored paycheck record.
	GetPaycheck(ctx context.Context, username string) (*domain.Paycheck, error)
}
