package domain

import "github.com/shopspring/decimal"

// Paycheck holds the three most recent raw pay amounts for one user and the
// derived average used for income-proportional sharing.
// A nil pay field means the value was missing or non-numeric in the store;
// it is excluded from the mean rather than treated as zero.
type Paycheck struct {
	Username string           `json:"username"` // Primary Key, lowercase
	Pay1     *decimal.Decimal `json:"pay1"`     // Most recent
	Pay2     *decimal.Decimal `json:"pay2"`
	Pay3     *decimal.Decimal `json:"pay3"` // Oldest of the last three
	Average  *decimal.Decimal `json:"average"`
}

// Mean returns the arithmetic mean of the present pay amounts.
// The second return is false when no numeric paychecks exist, in which case
// the user has no average and is excluded from participation.
func (p Paycheck) Mean() (decimal.Decimal, bool) {
	sum := decimal.Zero
	count := 0
	for _, pay := range []*decimal.Decimal{p.Pay1, p.Pay2, p.Pay3} {
		if pay == nil {
			continue
		}
		sum = sum.Add(*pay)
		count++
	}
	if count == 0 {
		return decimal.Zero, false
	}
	return sum.Div(decimal.NewFromInt(int64(count))), true
}
