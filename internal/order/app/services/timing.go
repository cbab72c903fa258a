package services

import (
	"time"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"
)

// Canonical serving times per meal type.
var servingTimes = map[models.MealType]struct{ hour, min int }{
	models.Breakfast: {8, 0},
	models.Lunch:     {12, 30},
	models.Dinner:    {19, 0},
	models.Snack:     {15, 0},
}

// CheckOrderable decides whether an order for orderDate can still be placed
// at the given moment. Past dates are refused outright; same-day orders are
// refused once now is past the meal's serving time minus the cutoff window;
// future dates are always orderable.
func CheckOrderable(orderDate time.Time, mealType models.MealType, now time.Time, cutoffHours int) error {
	today := calendarDay(now)
	day := calendarDay(orderDate)

	if day.Before(today) {
		return core.ErrPastOrderDate
	}

	if day.Equal(today) {
		serving := servingTimes[mealType]
		servingAt := time.Date(now.Year(), now.Month(), now.Day(),
			serving.hour, serving.min, 0, 0, now.Location())
		cutoff := servingAt.Add(-time.Duration(cutoffHours) * time.Hour)

		if now.After(cutoff) {
			return &core.OrderWindowClosedError{Cutoff: cutoff}
		}
	}

	return nil
}

// calendarDay projects t onto its calendar date in UTC. Order dates arrive
// parsed in UTC while now carries the server's location; comparing by date
// components keeps "today" meaning the same day in both.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
