package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShareType selects which users participate in an expense and how the cost
// is distributed among them.
type ShareType string

const (
	// ShareSelf means the uploader bears the full cost; no debt rows are created.
	ShareSelf ShareType = "self"
	// ShareRelativeAll splits relative to income across every user with a
	// known income mean, uploader included in the denominator.
	ShareRelativeAll ShareType = "relative_all"
	// ShareRelativeOthers splits relative to income across every user with a
	// known income mean except the uploader.
	ShareRelativeOthers ShareType = "relative_others"
)

// IsValid reports whether s is one of the recognized share types.
func (s ShareType) IsValid() bool {
	switch s {
	case ShareSelf, ShareRelativeAll, ShareRelativeOthers:
		return true
	}
	return false
}

// DebtItem is one debtor's owed share of a single expense.
// All rows generated from one expense event share a PurchaseID.
// Invariant: Debtor != Uploader; the uploader's own share is implicit and
// never materialized as a row.
type DebtItem struct {
	DebtID       string          `json:"debtID"`     // Primary Key (UUID)
	PurchaseID   string          `json:"purchaseID"` // Groups rows from one expense event
	CreatedAt    time.Time       `json:"createdAt"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Uploader     string          `json:"uploader"` // Who paid the original expense
	Debtor       string          `json:"debtor"`   // Who owes this share
	Description  string          `json:"description"`
	AmountTotal  decimal.Decimal `json:"amountTotal"` // Total of the original expense
	AmountOwed   decimal.Decimal `json:"amountOwed"`  // This debtor's share
	ShareType    ShareType       `json:"shareType"`
	ReceiptURL   string          `json:"receiptURL,omitempty"`
	Paid         bool            `json:"paid"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
	PaidBy       string          `json:"paidBy,omitempty"`
}

// ArchivedDebtItem is the settlement-history copy of a DebtItem, created once
// when the debt is first marked paid and mutated once by the uploader's
// approval. It is never deleted automatically.
type ArchivedDebtItem struct {
	DebtItem
	Approved   bool       `json:"approved"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
}
