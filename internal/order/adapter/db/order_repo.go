package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueOrderConstraint = "uk_order_unique"

type OrderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) core.IOrderRepo {
	return &OrderRepo{pool: pool}
}

func (r *OrderRepo) Insert(ctx context.Context, order *models.MealOrder) error {
	q := `INSERT INTO meal_orders (employee_id, meal_id, order_date, quantity, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := conn(ctx, r.pool).QueryRow(ctx, q,
		order.EmployeeID,
		order.MealID,
		order.OrderDate,
		order.Quantity,
		order.TotalPrice,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, uniqueOrderConstraint) {
			return core.ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

const orderColumns = `
	id, employee_id, meal_id, order_date, quantity, total_price, status, created_at`

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*models.MealOrder, error) {
	q := `SELECT` + orderColumns + ` FROM meal_orders WHERE id = $1`
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, q, id), id)
}

func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.MealOrder, error) {
	q := `SELECT` + orderColumns + ` FROM meal_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, q, id), id)
}

func (r *OrderRepo) Exists(ctx context.Context, employeeID, mealID int64, orderDate time.Time) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM meal_orders
		WHERE employee_id = $1 AND meal_id = $2 AND order_date = $3)`

	var exists bool
	if err := conn(ctx, r.pool).QueryRow(ctx, q, employeeID, mealID, orderDate).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check duplicate order: %w", err)
	}
	return exists, nil
}

func (r *OrderRepo) CountForMonth(ctx context.Context, employeeID int64, orderDate time.Time) (int, error) {
	q := `SELECT COUNT(*) FROM meal_orders
		WHERE employee_id = $1
		AND status <> 'CANCELLED'
		AND date_trunc('month', order_date) = date_trunc('month', $2::date)`

	var count int
	if err := conn(ctx, r.pool).QueryRow(ctx, q, employeeID, orderDate).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count month orders: %w", err)
	}
	return count, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	q := `UPDATE meal_orders SET status = $2 WHERE id = $1`

	cmdTag, err := conn(ctx, r.pool).Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return &core.NotFoundError{Entity: "MealOrder", ID: id}
	}
	return nil
}

func (r *OrderRepo) ListByEmployee(ctx context.Context, employeeID int64) ([]models.MealOrder, error) {
	q := `SELECT` + orderColumns + `
		FROM meal_orders WHERE employee_id = $1
		ORDER BY order_date DESC, id DESC`

	rows, err := conn(ctx, r.pool).Query(ctx, q, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by employee: %w", err)
	}
	return r.scanAll(rows)
}

func (r *OrderRepo) ListByDate(ctx context.Context, date time.Time) ([]models.MealOrder, error) {
	q := `SELECT` + orderColumns + `
		FROM meal_orders WHERE order_date = $1
		ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, q, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by date: %w", err)
	}
	return r.scanAll(rows)
}

func (r *OrderRepo) scanOne(row pgx.Row, id int64) (*models.MealOrder, error) {
	var o models.MealOrder
	err := row.Scan(
		&o.ID, &o.EmployeeID, &o.MealID, &o.OrderDate,
		&o.Quantity, &o.TotalPrice, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Entity: "MealOrder", ID: id}
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) scanAll(rows pgx.Rows) ([]models.MealOrder, error) {
	defer rows.Close()

	var orders []models.MealOrder
	for rows.Next() {
		var o models.MealOrder
		if err := rows.Scan(
			&o.ID, &o.EmployeeID, &o.MealID, &o.OrderDate,
			&o.Quantity, &o.TotalPrice, &o.Status, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order rows: %w", err)
	}
	return orders, nil
}
