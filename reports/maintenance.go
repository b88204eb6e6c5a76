package reports

import (
	"sort"
	"time"

	"Gin_postgres_redis_club_equipment/models"
)

// DefaultIntervals maps category to maintenance interval in days. Categories
// with no entry (Events, Other) are exempt from maintenance tracking.
var DefaultIntervals = map[string]int{
	models.CategoryGrounds:    90,
	models.CategoryTools:      180,
	models.CategoryCleaning:   90,
	models.CategoryElectrical: 365,
	models.CategoryShop:       180,
	models.CategoryRange:      90,
}

// Equipment shows up this many days before its next-due date.
const maintenanceLeadDays = 14

type MaintenanceItem struct {
	Equipment       models.Equipment `json:"equipment"`
	NeverMaintained bool             `json:"neverMaintained"`
	NextDue         *time.Time       `json:"nextDue,omitempty"`
	// DaysPastDue is negative while the item is merely approaching its
	// due date inside the lead window.
	DaysPastDue int `json:"daysPastDue"`
}

// MaintenanceDue lists equipment due (or nearly due) for maintenance.
// Never-maintained items always show and sort first; the rest sort by
// days-past-due descending. Ties keep input order.
func MaintenanceDue(equipment []models.Equipment, intervals map[string]int, now time.Time) []MaintenanceItem {
	today := dateOf(now)

	var out []MaintenanceItem
	for _, eq := range equipment {
		interval, ok := intervals[eq.Category]
		if !ok {
			continue // exempt category
		}
		if eq.LastMaintenance == nil {
			out = append(out, MaintenanceItem{Equipment: eq, NeverMaintained: true})
			continue
		}
		nextDue := dateOf(*eq.LastMaintenance).AddDate(0, 0, interval)
		past := daysBetween(nextDue, today)
		if past < -maintenanceLeadDays {
			continue
		}
		nd := nextDue
		out = append(out, MaintenanceItem{
			Equipment:   eq,
			NextDue:     &nd,
			DaysPastDue: past,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].NeverMaintained != out[j].NeverMaintained {
			return out[i].NeverMaintained
		}
		return out[i].DaysPastDue > out[j].DaysPastDue
	})
	return out
}
