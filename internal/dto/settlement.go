package dto

import (
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
)

// Skip reasons reported per id by the settlement operations. A skipped id is
// not an error; the operation succeeds with the aggregate effect.
const (
	SkipReasonNotFound        = "not_found"
	SkipReasonNotDebtor       = "not_debtor"
	SkipReasonAlreadyPaid     = "already_paid"
	SkipReasonNotUploader     = "not_uploader"
	SkipReasonAlreadyApproved = "already_approved"
)

// MarkPaidRequest selects the active debt ids the caller is settling now.
type MarkPaidRequest struct {
	DebtIDs []string `json:"debtIDs" binding:"required,min=1"`
}

// ApprovePaymentsRequest selects the archive ids the caller is approving.
type ApprovePaymentsRequest struct {
	ArchiveIDs []string `json:"archiveIDs" binding:"required,min=1"`
}

// SettlementItemResult reports the outcome for one id of a settlement call.
type SettlementItemResult struct {
	DebtID     string `json:"debtID"`
	Done       bool   `json:"done"`
	SkipReason string `json:"skipReason,omitempty"`
}

// SettlementResult is the per-id outcome of MarkPaid or ApprovePayments.
type SettlementResult struct {
	DoneCount    int                    `json:"doneCount"`
	SkippedCount int                    `json:"skippedCount"`
	Items        []SettlementItemResult `json:"items"`
}

// Add records one per-id outcome and updates the aggregate counters.
func (r *SettlementResult) Add(debtID string, done bool, skipReason string) {
	r.Items = append(r.Items, SettlementItemResult{DebtID: debtID, Done: done, SkipReason: skipReason})
	if done {
		r.DoneCount++
	} else {
		r.SkippedCount++
	}
}

// Delete outcomes per purchase group.
const (
	DeleteStatusDeleted   = "deleted"
	DeleteStatusForbidden = "forbidden"
	DeleteStatusNotFound  = "not_found"
)

// DeleteExpensesRequest selects the purchase groups to remove.
type DeleteExpensesRequest struct {
	PurchaseIDs []string `json:"purchaseIDs" binding:"required,min=1"`
}

// DeleteExpenseResult reports the outcome for one purchase group.
type DeleteExpenseResult struct {
	PurchaseID  string `json:"purchaseID"`
	Status      string `json:"status"`
	RemovedRows int64  `json:"removedRows"`
}

// DeleteExpensesResponse is the per-purchase outcome of a batch delete.
type DeleteExpensesResponse struct {
	DeletedCount int                   `json:"deletedCount"`
	Results      []DeleteExpenseResult `json:"results"`
}

// ArchivedDebtResponse is the API representation of an archived debt item.
type ArchivedDebtResponse struct {
	DebtItemResponse
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
}

// ToArchivedDebtResponse converts a domain.ArchivedDebtItem to its response DTO.
func ToArchivedDebtResponse(a *domain.ArchivedDebtItem) ArchivedDebtResponse {
	return ArchivedDebtResponse{
		DebtItemResponse: ToDebtItemResponse(&a.DebtItem),
		Approved:         a.Approved,
		ApprovedAt:       a.ApprovedAt,
		ApprovedBy:       a.ApprovedBy,
	}
}

// ListArchivedDebtsResponse wraps a list of archived debt items.
type ListArchivedDebtsResponse struct {
	Archived []ArchivedDebtResponse `json:"archived"`
}
