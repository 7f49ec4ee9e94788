package faq

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	currencyLabel  = "UGX"
	dueDateLayout  = "Monday, January 2, 2006"
	dueSoonHorizon = 7
)

// formatMoney renders an amount as "UGX 1,250,000", keeping at most two
// decimals and dropping trailing zeros.
func formatMoney(amount float64) string {
	rounded := math.Round(amount*100) / 100
	if rounded == 0 {
		rounded = 0 // normalise -0
	}
	return currencyLabel + " " + humanize.Commaf(rounded)
}

// daysUntil counts whole days from now to due, rounding up partial days.
func daysUntil(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// dueAnnotation returns the suffix appended after a formatted due date.
func dueAnnotation(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf(" (OVERDUE by %d days!)", -days)
	case days == 0:
		return " (DUE TODAY!)"
	case days <= dueSoonHorizon:
		return fmt.Sprintf(" (Due in %d days)", days)
	default:
		return ""
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
