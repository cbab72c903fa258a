package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MealType string

const (
	Breakfast MealType = "BREAKFAST"
	Lunch     MealType = "LUNCH"
	Dinner    MealType = "DINNER"
	Snack     MealType = "SNACK"
)

type Meal struct {
	ID            int64
	Name          string
	Description   string
	Type          MealType
	Price         decimal.Decimal
	Available     bool
	DailyCapacity int
	CreatedAt     time.Time
}
