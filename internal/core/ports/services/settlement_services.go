package services

import (
	"context"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/hearthsplit/household_manager_app/internal/dto"
)

// SettlementSvcFacade advances debt items through the settlement lifecycle:
// unpaid -> paid (pending approval) -> approved. No state ever regresses.
// Per-id permission mismatches are reported, not raised: callers get an
// explicit outcome for every id instead of a silent skip.
type SettlementSvcFacade interface {
	// MarkPaid stamps the given active debts as paid by the actor and appends
	// one unapproved archive copy per settled debt. Ids that do not exist,
	// do not belong to the actor, or are already paid are skipped with a
	// reason. One notification per settled debt, addressed to the uploader.
	MarkPaid(ctx context.Context, actor string, debtIDs []string) (*dto.SettlementResult, error)

	// ApprovePayments stamps approval on the given archive records, touching
	// nothing in the active collection. Only the original uploader may
	// approve; already-approved ids are skipped without re-notifying.
	// One notification per approval, addressed to the debtor.
	ApprovePayments(ctx context.Context, actor string, archiveIDs []string) (*dto.SettlementResult, error)

	// ListPendingApprovals returns archive records that are paid but not yet
	// approved, for expenses the given user uploaded.
	ListPendingApprovals(ctx context.Context, uploader string) ([]domain.ArchivedDebtItem, error)

	// DeleteExpense removes every active debt item of one purchase group.
	// Returns apperrors.ErrForbidden unless the actor is the uploader, and
	// apperrors.ErrNotFound when the group has no active rows. Archive
	// records from the group are left untouched.
	DeleteExpense(ctx context.Context, actor string, purchaseID string) error

	// DeleteExpenses is the batch form with a per-purchase outcome; groups
	// the actor did not upload are reported as forbidden, never silently
	// filtered.
	DeleteExpenses(ctx context.Context, actor string, purchaseIDs []string) (*dto.DeleteExpensesResponse, error)
}
