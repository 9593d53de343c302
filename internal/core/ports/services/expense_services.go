package services

import (
	"context"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/hearthsplit/household_manager_app/internal/dto"
)

// ExpenseSvcFacade is the expense splitter: it turns one expense event into
// income-proportional debt rows and persists them as a single batch.
type ExpenseSvcFacade interface {
	// CreateExpense validates the request, computes one debt row per
	// qualifying debtor, and appends them to the ledger all-or-nothing.
	// A "self" expense returns no rows and is not an error.
	CreateExpense(ctx context.Context, uploader string, req dto.CreateExpenseRequest) ([]domain.DebtItem, error)

	// CreateExpenses applies one sharing policy to several expenses for the
	// same uploader. Income means are read once for the whole batch and the
	// generated rows are written in one combined batch.
	CreateExpenses(ctx context.Context, uploader string, req dto.CreateExpensesRequest) ([]domain.DebtItem, error)

	// ListDebtsForUser returns the user's unpaid debts (user is debtor).
	ListDebtsForUser(ctx context.Context, username string) ([]domain.DebtItem, error)

	// ListCreditsForUser returns unpaid debts owed to the user (user is uploader).
	ListCreditsForUser(ctx context.Context, username string) ([]domain.DebtItem, error)

	// Summary assembles the user's dashboard overview.
	Summary(ctx context.Context, username string) (*dto.DashboardSummary, error)
}
