package services

import (
	"context"
	"fmt"

	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/shopspring/decimal"
)

// BudgetGuard owns every mutation of an employee's current_month_spent.
// Checks and mutations run inside the caller's transaction.
type BudgetGuard struct {
	employees core.IEmployeeRepo
	mylog     logger.Logger
}

func NewBudgetGuard(employees core.IEmployeeRepo, mylog logger.Logger) *BudgetGuard {
	return &BudgetGuard{
		employees: employees,
		mylog:     mylog,
	}
}

// Reserve verifies the spend ceiling and the order-count ceiling, in that
// order, then commits the incremented spend. monthOrders is the count of the
// employee's orders in the order date's calendar month, taken before this
// increment.
func (g *BudgetGuard) Reserve(ctx context.Context, employee *models.Employee, orderTotal decimal.Decimal, monthOrders int) error {
	if employee.CurrentMonthSpent.Add(orderTotal).GreaterThan(employee.MonthlyBudget) {
		return core.ErrBudgetExceeded
	}

	if monthOrders >= employee.MonthlyOrderLimit {
		return core.ErrOrderLimitExceeded
	}

	if _, err := g.employees.AddToMonthSpent(ctx, employee.ID, orderTotal); err != nil {
		return fmt.Errorf("failed to commit budget reservation: %w", err)
	}

	return nil
}

// Refund returns orderTotal to the employee's budget. A negative result is an
// accounting bug in the caller, reported loudly rather than clamped.
func (g *BudgetGuard) Refund(ctx context.Context, employeeID int64, orderTotal decimal.Decimal) error {
	spent, err := g.employees.AddToMonthSpent(ctx, employeeID, orderTotal.Neg())
	if err != nil {
		return fmt.Errorf("failed to refund budget: %w", err)
	}

	if spent.IsNegative() {
		g.mylog.Action("budget_refund").Warn("current month spent went negative after refund",
			"employee_id", employeeID, "current_month_spent", spent.String())
	}

	return nil
}
