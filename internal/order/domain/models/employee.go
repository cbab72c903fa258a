package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "ACTIVE"
	EmployeeInactive EmployeeStatus = "INACTIVE"
	EmployeeLocked   EmployeeStatus = "LOCKED"
)

type Employee struct {
	ID                int64
	Name              string
	Email             string
	Department        string
	Status            EmployeeStatus
	MonthlyBudget     decimal.Decimal
	CurrentMonthSpent decimal.Decimal
	MonthlyOrderLimit int
	AccountNonLocked  bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
