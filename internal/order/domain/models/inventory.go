package models

import "time"

// DailyMealInventory tracks remaining capacity for one meal on one date.
// AvailableQuantity + ReservedQuantity stays constant once the row is seeded.
type DailyMealInventory struct {
	ID                int64
	MealID            int64
	Date              time.Time
	AvailableQuantity int
	ReservedQuantity  int
}
