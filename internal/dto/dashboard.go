package dto

import "github.com/shopspring/decimal"

// DashboardSummary is the per-user overview: current income mean, unpaid
// debts owed to others, and unpaid debts others owe the user.
type DashboardSummary struct {
	Username      string             `json:"username"`
	IncomeMean    decimal.Decimal    `json:"incomeMean"`
	TotalOwed     decimal.Decimal    `json:"totalOwed"`     // Sum of my unpaid debts
	TotalOwedToMe decimal.Decimal    `json:"totalOwedToMe"` // Sum of unpaid debts owed to me
	Debts         []DebtItemResponse `json:"debts"`
	Credits       []DebtItemResponse `json:"credits"`
}
