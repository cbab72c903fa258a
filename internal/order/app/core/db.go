package core

import (
	"context"
	"time"

	"mealdesk/internal/order/domain/models"

	"github.com/shopspring/decimal"
)

// ITxManager wraps a unit of work in one database transaction. The transaction
// travels in the context; repository calls inside fn join it. fn returning an
// error rolls everything back.
type ITxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type IEmployeeRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	// GetByIDForUpdate takes a row lock on the employee for the duration of
	// the enclosing transaction, serializing same-employee orders.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Employee, error)
	// AddToMonthSpent adjusts current_month_spent by delta (negative for
	// refunds) and returns the new value.
	AddToMonthSpent(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error)
}

type IMealRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Meal, error)
}

type IOrderRepo interface {
	// Insert persists a new order and fills ID/CreatedAt. A unique-constraint
	// violation on (employee, meal, date) surfaces as ErrDuplicateOrder.
	Insert(ctx context.Context, order *models.MealOrder) error
	GetByID(ctx context.Context, id int64) (*models.MealOrder, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.MealOrder, error)
	Exists(ctx context.Context, employeeID, mealID int64, orderDate time.Time) (bool, error)
	// CountForMonth counts the employee's non-cancelled orders in the calendar
	// month of the given date.
	CountForMonth(ctx context.Context, employeeID int64, orderDate time.Time) (int, error)
	UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error
	ListByEmployee(ctx context.Context, employeeID int64) ([]models.MealOrder, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.MealOrder, error)
}

type IInventoryRepo interface {
	// Reserve locks the (mealID, date) inventory row, seeding it from
	// dailyCapacity if absent, then moves quantity from available to reserved.
	// Insufficient capacity fails with InsufficientCapacityError without
	// mutating.
	Reserve(ctx context.Context, mealID int64, date time.Time, quantity, dailyCapacity int) error
	// Release moves quantity back from reserved to available under the same
	// lock. A missing row is ErrInventoryNotFound, never a fresh row.
	Release(ctx context.Context, mealID int64, date time.Time, quantity int) error
}
