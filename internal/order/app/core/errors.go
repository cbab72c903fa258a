package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrParseCmd       = errors.New("cannot parse arguments")
	ErrHelp           = errors.New("")
	ErrModeFlag       = errors.New("mode flag is required")
	ErrUnknownService = errors.New("unknown service, write --help command to see valid services")

	ErrDBConn = errors.New("db connection failure")
	ErrMBConn = errors.New("message broker connection failure")
	ErrMBCh   = errors.New("message broker channel failure")

	// ErrTxConflict is a transaction aborted by a serialization or deadlock
	// failure. The operation did not happen and may be retried.
	ErrTxConflict = errors.New("concurrent update conflict, retry the request")

	ErrMealUnavailable       = errors.New("meal is not available")
	ErrPastOrderDate         = errors.New("cannot order meals for past dates")
	ErrDuplicateOrder        = errors.New("order already exists for this employee, meal, and date")
	ErrBudgetExceeded        = errors.New("monthly budget exceeded")
	ErrOrderLimitExceeded    = errors.New("monthly order limit exceeded")
	ErrCannotCancelDelivered = errors.New("cannot cancel a delivered order")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrInvalidStatus         = errors.New("unknown order status")

	// ErrInventoryNotFound signals a release against a key that was never
	// reserved. Correct callers never hit this.
	ErrInventoryNotFound = errors.New("no inventory row for meal and date")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %d", e.Entity, e.ID)
}

type OrderWindowClosedError struct {
	Cutoff time.Time
}

func (e *OrderWindowClosedError) Error() string {
	return fmt.Sprintf("order deadline passed, cutoff time was %s", e.Cutoff.Format("15:04"))
}

type InsufficientCapacityError struct {
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient meal capacity, available: %d", e.Available)
}
