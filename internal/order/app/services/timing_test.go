package services

import (
	"errors"
	"testing"
	"time"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.September, 15, hour, min, 0, 0, time.UTC)
}

func TestCheckOrderable_SameDayBeforeCutoff(t *testing.T) {
	// Lunch serves at 12:30, cutoff 4h -> closes at 08:30
	now := at(8, 29)
	if err := CheckOrderable(now, models.Lunch, now, 4); err != nil {
		t.Fatalf("expected orderable at 08:29, got: %v", err)
	}
}

func TestCheckOrderable_SameDayAtCutoff(t *testing.T) {
	now := at(8, 30)
	if err := CheckOrderable(now, models.Lunch, now, 4); err != nil {
		t.Fatalf("expected orderable exactly at cutoff, got: %v", err)
	}
}

func TestCheckOrderable_SameDayAfterCutoff(t *testing.T) {
	now := at(8, 31)
	err := CheckOrderable(now, models.Lunch, now, 4)

	var windowClosed *core.OrderWindowClosedError
	if !errors.As(err, &windowClosed) {
		t.Fatalf("expected OrderWindowClosedError at 08:31, got: %v", err)
	}
	if got := windowClosed.Cutoff; got.Hour() != 8 || got.Minute() != 30 {
		t.Errorf("expected cutoff 08:30, got %s", got.Format("15:04"))
	}
}

func TestCheckOrderable_PastDate(t *testing.T) {
	now := at(8, 0)
	err := CheckOrderable(now.AddDate(0, 0, -1), models.Lunch, now, 4)
	if !errors.Is(err, core.ErrPastOrderDate) {
		t.Fatalf("expected ErrPastOrderDate, got: %v", err)
	}
}

func TestCheckOrderable_FutureDateIgnoresCutoff(t *testing.T) {
	// Late in the evening, every same-day window is closed, tomorrow is open.
	now := at(23, 0)
	if err := CheckOrderable(now.AddDate(0, 0, 1), models.Breakfast, now, 4); err != nil {
		t.Fatalf("expected tomorrow to be orderable, got: %v", err)
	}
}

func TestCheckOrderable_NonUTCServerClock(t *testing.T) {
	// order_date parses as midnight UTC regardless of the server's zone
	day := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	east := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2026, time.September, 15, 13, 0, 0, 0, east)
	err := CheckOrderable(day, models.Lunch, now, 4)
	var windowClosed *core.OrderWindowClosedError
	if !errors.As(err, &windowClosed) {
		t.Fatalf("expected window closed at 13:00 local on UTC+9, got: %v", err)
	}

	west := time.FixedZone("UTC-5", -5*3600)
	now = time.Date(2026, time.September, 15, 6, 0, 0, 0, west)
	if err := CheckOrderable(day, models.Lunch, now, 4); err != nil {
		t.Fatalf("expected orderable at 06:00 local on UTC-5, got: %v", err)
	}
}

func TestCheckOrderable_ServingTimes(t *testing.T) {
	tests := []struct {
		mealType  models.MealType
		lastOrder time.Time
		firstMiss time.Time
	}{
		{models.Breakfast, at(3, 59), at(4, 1)},
		{models.Lunch, at(8, 29), at(8, 31)},
		{models.Snack, at(10, 59), at(11, 1)},
		{models.Dinner, at(14, 59), at(15, 1)},
	}

	for _, tt := range tests {
		if err := CheckOrderable(tt.lastOrder, tt.mealType, tt.lastOrder, 4); err != nil {
			t.Errorf("%s: expected orderable at %s, got: %v", tt.mealType, tt.lastOrder.Format("15:04"), err)
		}

		err := CheckOrderable(tt.firstMiss, tt.mealType, tt.firstMiss, 4)
		var windowClosed *core.OrderWindowClosedError
		if !errors.As(err, &windowClosed) {
			t.Errorf("%s: expected window closed at %s, got: %v", tt.mealType, tt.firstMiss.Format("15:04"), err)
		}
	}
}
