package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// MealOrder references employee and meal by ID. TotalPrice is computed once
// at creation from the meal price and never recomputed.
type MealOrder struct {
	ID         int64
	EmployeeID int64
	MealID     int64
	OrderDate  time.Time
	Quantity   int
	TotalPrice decimal.Decimal
	Status     OrderStatus
	CreatedAt  time.Time
}

// DateOf truncates a timestamp to its calendar date, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
