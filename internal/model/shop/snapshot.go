package shop

import (
	"strings"
	"time"
)

// Snapshot is the read-only view of a shop's rent record as returned by the
// upstream rent service.
type Snapshot struct {
	ID            int64   `json:"id"`
	ShopNumber    string  `json:"shop_number"`
	ShopType      string  `json:"shop_type"`
	FloorNumber   int     `json:"floor_number"`
	MonthlyRent   float64 `json:"monthly_rent"`
	TotalPaid     float64 `json:"total_paid"`
	Balance       float64 `json:"balance"`
	NextDueDate   *string `json:"next_due_date"`
	PaymentStatus string  `json:"payment_status"`
}

var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// DueDate parses NextDueDate and returns its calendar day at midnight in loc.
func (s Snapshot) DueDate(loc *time.Location) (time.Time, bool) {
	if s.NextDueDate == nil {
		return time.Time{}, false
	}
	raw := strings.TrimSpace(*s.NextDueDate)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	return time.Time{}, false
}

// Standing classifies a balance.
type Standing int

const (
	PaidUp Standing = iota
	Outstanding
	Overpaid
)

// Standing reports whether the shop owes money, is settled, or is in credit.
func (s Snapshot) Standing() Standing {
	switch {
	case s.Balance > 0:
		return Outstanding
	case s.Balance < 0:
		return Overpaid
	default:
		return PaidUp
	}
}

// TotalBalance sums the balances of shops.
func TotalBalance(shops []Snapshot) float64 {
	var total float64
	for _, s := range shops {
		total += s.Balance
	}
	return total
}

// TotalMonthlyRent sums the monthly rent of shops.
func TotalMonthlyRent(shops []Snapshot) float64 {
	var total float64
	for _, s := range shops {
		total += s.MonthlyRent
	}
	return total
}
