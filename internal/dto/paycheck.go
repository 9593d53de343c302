package dto

import (
	"github.com/hearthsplit/household_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpsertPaycheckRequest carries the three most recent raw pay amounts for the
// authenticated user. Zero is a valid amount; the derived average is computed
// server-side.
type UpsertPaycheckRequest struct {
	Pay1 decimal.Decimal `json:"pay1"`
	Pay2 decimal.Decimal `json:"pay2"`
	Pay3 decimal.Decimal `json:"pay3"`
}

// PaycheckResponse is the API representation of a stored paycheck record.
type PaycheckResponse struct {
	Username string           `json:"username"`
	Pay1     *decimal.Decimal `json:"pay1"`
	Pay2     *decimal.Decimal `json:"pay2"`
	Pay3     *decimal.Decimal `json:"pay3"`
	Average  *decimal.Decimal `json:"average"`
}

// ToPaycheckResponse converts a domain.Paycheck to its response DTO.
func ToPaycheckResponse(p *domain.Paycheck) PaycheckResponse {
	return PaycheckResponse{
		Username: p.Username,
		Pay1:     p.Pay1,
		Pay2:     p.Pay2,
		Pay3:     p.Pay3,
		Average:  p.Average,
	}
}

// IncomeMeansResponse maps each participating username to their current
// average income used for sharing.
type IncomeMeansResponse struct {
	Means map[string]decimal.Decimal `json:"means"`
}
