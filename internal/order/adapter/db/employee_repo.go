package db

import (
	"context"
	"errors"
	"fmt"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type EmployeeRepo struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepo(pool *pgxpool.Pool) core.IEmployeeRepo {
	return &EmployeeRepo{pool: pool}
}

const employeeColumns = `
	id, name, email, department, status,
	monthly_budget, current_month_spent, monthly_order_limit,
	account_non_locked, created_at, updated_at`

func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	q := `SELECT` + employeeColumns + `
		FROM employees WHERE id = $1 AND deleted = FALSE`
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, q, id), id)
}

func (r *EmployeeRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Employee, error) {
	q := `SELECT` + employeeColumns + `
		FROM employees WHERE id = $1 AND deleted = FALSE
		FOR UPDATE`
	return r.scanOne(conn(ctx, r.pool).QueryRow(ctx, q, id), id)
}

func (r *EmployeeRepo) AddToMonthSpent(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	q := `UPDATE employees
		SET current_month_spent = current_month_spent + $2, updated_at = NOW()
		WHERE id = $1 AND deleted = FALSE
		RETURNING current_month_spent`

	var spent decimal.Decimal
	err := conn(ctx, r.pool).QueryRow(ctx, q, id, delta).Scan(&spent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, &core.NotFoundError{Entity: "Employee", ID: id}
		}
		return decimal.Zero, fmt.Errorf("failed to update current month spent: %w", err)
	}
	return spent, nil
}

func (r *EmployeeRepo) scanOne(row pgx.Row, id int64) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID, &e.Name, &e.Email, &e.Department, &e.Status,
		&e.MonthlyBudget, &e.CurrentMonthSpent, &e.MonthlyOrderLimit,
		&e.AccountNonLocked, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Entity: "Employee", ID: id}
		}
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	return &e, nil
}
