package dto

import (
	"time"

	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the service-facing input for one expense event.
// The receipt fields are populated by the handler from the multipart upload;
// they are never part of a JSON body.
type CreateExpenseRequest struct {
	Description  string
	AmountTotal  decimal.Decimal
	ShareType    domain.ShareType
	PurchaseDate *time.Time

	ReceiptName string
	ReceiptMIME string
	Receipt     []byte
}

// BatchExpenseItem is one expense inside a batch create call.
type BatchExpenseItem struct {
	Description  string          `json:"description" binding:"required"`
	AmountTotal  decimal.Decimal `json:"amountTotal" binding:"required"`
	PurchaseDate *time.Time      `json:"purchaseDate"`
}

// CreateExpensesRequest creates several expenses that share one uploader and
// one sharing policy. Income means are snapshotted once for the whole batch.
type CreateExpensesRequest struct {
	ShareType domain.ShareType   `json:"shareType" binding:"required,sharetype"`
	Expenses  []BatchExpenseItem `json:"expenses" binding:"required,min=1,dive"`
}

// DebtItemResponse is the API representation of an active debt item.
type DebtItemResponse struct {
	DebtID       string          `json:"debtID"`
	PurchaseID   string          `json:"purchaseID"`
	CreatedAt    time.Time       `json:"createdAt"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Uploader     string          `json:"uploader"`
	Debtor       string          `json:"debtor"`
	Description  string          `json:"description"`
	AmountTotal  decimal.Decimal `json:"amountTotal"`
	AmountOwed   decimal.Decimal `json:"amountOwed"`
	ShareType    string          `json:"shareType"`
	ReceiptURL   string          `json:"receiptURL,omitempty"`
	Paid         bool            `json:"paid"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	PaidBy       string          `json:"paidBy,omitempty"`
}

// ToDebtItemResponse converts a domain.DebtItem to its response DTO.
func ToDebtItemResponse(d *domain.DebtItem) DebtItemResponse {
	return DebtItemResponse{
		DebtID:       d.DebtID,
		PurchaseID:   d.PurchaseID,
		CreatedAt:    d.CreatedAt,
		PurchaseDate: d.PurchaseDate,
		Uploader:     d.Uploader,
		Debtor:       d.Debtor,
		Description:  d.Description,
		AmountTotal:  d.AmountTotal,
		AmountOwed:   d.AmountOwed,
		ShareType:    string(d.ShareType),
		ReceiptURL:   d.ReceiptURL,
		Paid:         d.Paid,
		PaidAt:       d.PaidAt,
		PaidBy:       d.PaidBy,
	}
}

// ToDebtItemResponses converts a slice of domain.DebtItem to response DTOs.
func ToDebtItemResponses(debts []domain.DebtItem) []DebtItemResponse {
	responses := make([]DebtItemResponse, len(debts))
	for i := range debts {
		responses[i] = ToDebtItemResponse(&debts[i])
	}
	return responses
}

// CreateExpenseResponse wraps the debt rows generated by one create call.
// A "self" expense legitimately produces zero rows.
type CreateExpenseResponse struct {
	Debts []DebtItemResponse `json:"debts"`
	Count int                `json:"count"`
}

// ListDebtsResponse wraps a list of active debt items.
type ListDebtsResponse struct {
	Debts []DebtItemResponse `json:"debts"`
}
