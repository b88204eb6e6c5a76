// Package reports derives overdue and maintenance-due listings from raw
// rows already loaded from the store. All comparisons are at day
// granularity and all orderings are stable, so the same inputs and clock
// always produce the same sequence.
package reports

import (
	"sort"
	"time"

	"Gin_postgres_redis_club_equipment/models"
)

type OverdueCheckout struct {
	Checkout    models.Checkout `json:"checkout"`
	DaysOverdue int             `json:"daysOverdue"`
}

// dateOf truncates to the calendar date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// OverdueCheckouts filters to open checkouts whose expected return date is
// strictly before today, most overdue first. Ties keep input order.
func OverdueCheckouts(checkouts []models.Checkout, now time.Time) []OverdueCheckout {
	today := dateOf(now)

	var out []OverdueCheckout
	for _, c := range checkouts {
		if c.ReturnedAt != nil || c.ExpectedReturn == nil {
			continue
		}
		due := dateOf(*c.ExpectedReturn)
		if !due.Before(today) {
			continue
		}
		out = append(out, OverdueCheckout{
			Checkout:    c,
			DaysOverdue: daysBetween(due, today),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysOverdue > out[j].DaysOverdue
	})
	return out
}
