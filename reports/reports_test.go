package reports

import (
	"testing"
	"time"

	"Gin_postgres_redis_club_equipment/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func ptrTime(t time.Time) *time.Time { return &t }

func openCheckout(id string, due *time.Time) models.Checkout {
	return models.Checkout{
		ID:             id,
		EquipmentID:    "eq-" + id,
		UserID:         "u1",
		CheckedOutAt:   testNow.AddDate(0, 0, -30),
		ExpectedReturn: due,
		UseType:        models.UseTypeClub,
	}
}

func TestOverdueCheckouts(t *testing.T) {
	returned := openCheckout("returned", ptrTime(testNow.AddDate(0, 0, -10)))
	returned.ReturnedAt = ptrTime(testNow.AddDate(0, 0, -5))

	checkouts := []models.Checkout{
		openCheckout("due-later", ptrTime(testNow.AddDate(0, 0, 3))),
		openCheckout("three-days", ptrTime(testNow.AddDate(0, 0, -3))),
		openCheckout("no-due-date", nil),
		openCheckout("ten-days", ptrTime(testNow.AddDate(0, 0, -10))),
		returned,
		openCheckout("due-today", ptrTime(testNow)),
	}

	out := OverdueCheckouts(checkouts, testNow)

	require.Len(t, out, 2)
	assert.Equal(t, "ten-days", out[0].Checkout.ID)
	assert.Equal(t, 10, out[0].DaysOverdue)
	assert.Equal(t, "three-days", out[1].Checkout.ID)
	assert.Equal(t, 3, out[1].DaysOverdue)
}

func TestOverdueCheckoutsDayGranularity(t *testing.T) {
	// Due yesterday at 23:59 is one whole day overdue regardless of clock time.
	due := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	out := OverdueCheckouts([]models.Checkout{openCheckout("c1", &due)}, testNow)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].DaysOverdue)
}

func TestOverdueCheckoutsDeterministic(t *testing.T) {
	due := ptrTime(testNow.AddDate(0, 0, -7))
	checkouts := []models.Checkout{
		openCheckout("first", due),
		openCheckout("second", due),
		openCheckout("third", due),
	}

	a := OverdueCheckouts(checkouts, testNow)
	b := OverdueCheckouts(checkouts, testNow)
	assert.Equal(t, a, b, "same inputs must give the same sequence")

	// Equal days-overdue keeps insertion order.
	require.Len(t, a, 3)
	assert.Equal(t, "first", a[0].Checkout.ID)
	assert.Equal(t, "second", a[1].Checkout.ID)
	assert.Equal(t, "third", a[2].Checkout.ID)
}

func equipment(id, category string, last *time.Time) models.Equipment {
	return models.Equipment{ID: id, Code: id, Name: id, Category: category, LastMaintenance: last}
}

func TestMaintenanceDue(t *testing.T) {
	items := []models.Equipment{
		equipment("fresh", models.CategoryTools, ptrTime(testNow.AddDate(0, 0, -10))),           // next due in 170d
		equipment("overdue-20", models.CategoryGrounds, ptrTime(testNow.AddDate(0, 0, -110))),   // 20d past
		equipment("never", models.CategoryRange, nil),                                           // always due
		equipment("soon", models.CategoryCleaning, ptrTime(testNow.AddDate(0, 0, -(90-7)))),     // due in 7d
		equipment("exempt", models.CategoryEvents, nil),                                         // no interval
		equipment("overdue-5", models.CategoryShop, ptrTime(testNow.AddDate(0, 0, -185))),       // 5d past
		equipment("too-early", models.CategoryElectrical, ptrTime(testNow.AddDate(0, 0, -300))), // due in 65d
	}

	out := MaintenanceDue(items, DefaultIntervals, testNow)

	require.Len(t, out, 4)
	assert.Equal(t, "never", out[0].Equipment.ID)
	assert.True(t, out[0].NeverMaintained)
	assert.Nil(t, out[0].NextDue)

	assert.Equal(t, "overdue-20", out[1].Equipment.ID)
	assert.Equal(t, 20, out[1].DaysPastDue)
	assert.Equal(t, "overdue-5", out[2].Equipment.ID)
	assert.Equal(t, 5, out[2].DaysPastDue)
	assert.Equal(t, "soon", out[3].Equipment.ID)
	assert.Equal(t, -7, out[3].DaysPastDue)
}

func TestMaintenanceDueWindowEdges(t *testing.T) {
	// Exactly 14 days out is still included, 15 is not.
	in := equipment("edge-in", models.CategoryGrounds, ptrTime(testNow.AddDate(0, 0, -(90-14))))
	outOfWindow := equipment("edge-out", models.CategoryGrounds, ptrTime(testNow.AddDate(0, 0, -(90-15))))

	got := MaintenanceDue([]models.Equipment{in, outOfWindow}, DefaultIntervals, testNow)
	require.Len(t, got, 1)
	assert.Equal(t, "edge-in", got[0].Equipment.ID)
	assert.Equal(t, -14, got[0].DaysPastDue)
}

func TestDefaultIntervals(t *testing.T) {
	assert.Equal(t, 90, DefaultIntervals[models.CategoryGrounds])
	assert.Equal(t, 180, DefaultIntervals[models.CategoryTools])
	assert.Equal(t, 90, DefaultIntervals[models.CategoryCleaning])
	assert.Equal(t, 365, DefaultIntervals[models.CategoryElectrical])
	assert.Equal(t, 180, DefaultIntervals[models.CategoryShop])
	assert.Equal(t, 90, DefaultIntervals[models.CategoryRange])

	_, events := DefaultIntervals[models.CategoryEvents]
	_, other := DefaultIntervals[models.CategoryOther]
	assert.False(t, events)
	assert.False(t, other)
}
