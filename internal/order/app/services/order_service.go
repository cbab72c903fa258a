package services

import (
	"context"
	"fmt"
	"time"

	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/shopspring/decimal"
)

// OrderService orchestrates order placement, cancellation and status changes.
// Each use case is one transaction; audit events go out only after commit.
type OrderService struct {
	tx        core.ITxManager
	employees core.IEmployeeRepo
	meals     core.IMealRepo
	orders    core.IOrderRepo
	inventory *InventoryService
	budget    *BudgetGuard
	audit     core.IAuditSink

	cutoffHours int
	now         func() time.Time
	mylog       logger.Logger
}

func NewOrderService(
	tx core.ITxManager,
	employees core.IEmployeeRepo,
	meals core.IMealRepo,
	orders core.IOrderRepo,
	inventory *InventoryService,
	budget *BudgetGuard,
	audit core.IAuditSink,
	cutoffHours int,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		tx:          tx,
		employees:   employees,
		meals:       meals,
		orders:      orders,
		inventory:   inventory,
		budget:      budget,
		audit:       audit,
		cutoffHours: cutoffHours,
		now:         time.Now,
		mylog:       mylog,
	}
}

func (s *OrderService) Create(ctx context.Context, employeeID, mealID int64, orderDate time.Time, quantity int) (models.MealOrder, error) {
	mylog := s.mylog.Action("create_order").With(
		"employee_id", employeeID, "meal_id", mealID, "order_date", orderDate.Format("2006-01-02"))
	mylog.Info("creating order")

	if quantity < core.MinQuantity {
		return models.MealOrder{}, core.ErrInvalidQuantity
	}
	orderDate = models.DateOf(orderDate)

	var order models.MealOrder
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// The employee row lock serializes same-employee orders so two
		// concurrent creates cannot both pass the budget check.
		employee, err := s.employees.GetByIDForUpdate(ctx, employeeID)
		if err != nil {
			return err
		}

		meal, err := s.meals.GetByID(ctx, mealID)
		if err != nil {
			return err
		}

		if !meal.Available {
			return core.ErrMealUnavailable
		}

		if err := CheckOrderable(orderDate, meal.Type, s.now(), s.cutoffHours); err != nil {
			return err
		}

		// Pre-check; the unique constraint on (employee, meal, date) is the
		// final guarantor against concurrent duplicates.
		exists, err := s.orders.Exists(ctx, employeeID, mealID, orderDate)
		if err != nil {
			return err
		}
		if exists {
			return core.ErrDuplicateOrder
		}

		totalPrice := meal.Price.Mul(decimal.NewFromInt(int64(quantity)))

		monthOrders, err := s.orders.CountForMonth(ctx, employeeID, orderDate)
		if err != nil {
			return err
		}

		if err := s.budget.Reserve(ctx, employee, totalPrice, monthOrders); err != nil {
			return err
		}

		if err := s.inventory.Reserve(ctx, mealID, orderDate, quantity, meal.DailyCapacity); err != nil {
			return err
		}

		order = models.MealOrder{
			EmployeeID: employeeID,
			MealID:     mealID,
			OrderDate:  orderDate,
			Quantity:   quantity,
			TotalPrice: totalPrice,
			Status:     models.StatusPending,
		}
		return s.orders.Insert(ctx, &order)
	})
	if err != nil {
		mylog.Debug("order rejected", "reason", err.Error())
		return models.MealOrder{}, err
	}

	s.audit.LogCreate(ctx, core.AuditEntityOrder, order.ID, order)

	mylog.Info("order created", "order_id", order.ID, "total_price", order.TotalPrice.String())
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID int64) error {
	mylog := s.mylog.Action("cancel_order").With("order_id", orderID)
	mylog.Info("cancelling order")

	var before, after models.MealOrder
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		switch order.Status {
		case models.StatusDelivered:
			return core.ErrCannotCancelDelivered
		case models.StatusCancelled:
			return core.ErrOrderAlreadyCancelled
		}

		// Same lock order as Create: employee row before inventory row.
		if _, err := s.employees.GetByIDForUpdate(ctx, order.EmployeeID); err != nil {
			return err
		}

		if err := s.inventory.Release(ctx, order.MealID, order.OrderDate, order.Quantity); err != nil {
			return err
		}

		if err := s.budget.Refund(ctx, order.EmployeeID, order.TotalPrice); err != nil {
			return err
		}

		if err := s.orders.UpdateStatus(ctx, order.ID, models.StatusCancelled); err != nil {
			return err
		}

		before = *order
		after = *order
		after.Status = models.StatusCancelled
		return nil
	})
	if err != nil {
		mylog.Debug("cancel rejected", "reason", err.Error())
		return err
	}

	s.audit.LogUpdate(ctx, core.AuditEntityOrder, orderID, before, after)

	mylog.Info("order cancelled")
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) (models.MealOrder, error) {
	mylog := s.mylog.Action("update_order_status").With("order_id", orderID, "new_status", string(status))

	if !status.Valid() {
		return models.MealOrder{}, core.ErrInvalidStatus
	}

	var before, after models.MealOrder
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := s.orders.UpdateStatus(ctx, order.ID, status); err != nil {
			return err
		}

		before = *order
		after = *order
		after.Status = status
		return nil
	})
	if err != nil {
		mylog.Debug("status update rejected", "reason", err.Error())
		return models.MealOrder{}, err
	}

	s.audit.LogUpdate(ctx, core.AuditEntityOrder, orderID, before, after)

	mylog.Info("order status updated")
	return after, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID int64) (models.MealOrder, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return models.MealOrder{}, err
	}
	return *order, nil
}

func (s *OrderService) ListByEmployee(ctx context.Context, employeeID int64) ([]models.MealOrder, error) {
	orders, err := s.orders.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by employee: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListByDate(ctx context.Context, date time.Time) ([]models.MealOrder, error) {
	orders, err := s.orders.ListByDate(ctx, models.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by date: %w", err)
	}
	return orders, nil
}
