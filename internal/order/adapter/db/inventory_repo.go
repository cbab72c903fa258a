package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealdesk/internal/order/app/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InventoryRepo serializes capacity decisions per (meal, date) with a
// SELECT ... FOR UPDATE row lock inside the caller's transaction.
type InventoryRepo struct {
	pool *pgxpool.Pool
}

func NewInventoryRepo(pool *pgxpool.Pool) core.IInventoryRepo {
	return &InventoryRepo{pool: pool}
}

func (r *InventoryRepo) Reserve(ctx context.Context, mealID int64, date time.Time, quantity, dailyCapacity int) error {
	q := conn(ctx, r.pool)

	id, available, err := r.lockRow(ctx, q, mealID, date)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lazy seed. ON CONFLICT DO NOTHING covers the race where another
		// transaction inserted the row first; the re-lock then blocks on it.
		_, err = q.Exec(ctx, `
			INSERT INTO daily_meal_inventory (meal_id, date, available_quantity, reserved_quantity)
			VALUES ($1, $2, $3, 0)
			ON CONFLICT (meal_id, date) DO NOTHING`,
			mealID, date, dailyCapacity)
		if err != nil {
			return fmt.Errorf("failed to seed inventory row: %w", err)
		}

		id, available, err = r.lockRow(ctx, q, mealID, date)
	}
	if err != nil {
		return fmt.Errorf("failed to lock inventory row: %w", err)
	}

	if available < quantity {
		return &core.InsufficientCapacityError{Available: available}
	}

	_, err = q.Exec(ctx, `
		UPDATE daily_meal_inventory
		SET available_quantity = available_quantity - $2,
		    reserved_quantity = reserved_quantity + $2
		WHERE id = $1`,
		id, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) Release(ctx context.Context, mealID int64, date time.Time, quantity int) error {
	q := conn(ctx, r.pool)

	id, _, err := r.lockRow(ctx, q, mealID, date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.ErrInventoryNotFound
		}
		return fmt.Errorf("failed to lock inventory row: %w", err)
	}

	_, err = q.Exec(ctx, `
		UPDATE daily_meal_inventory
		SET available_quantity = available_quantity + $2,
		    reserved_quantity = reserved_quantity - $2
		WHERE id = $1`,
		id, quantity)
	if err != nil {
		return fmt.Errorf("failed to release inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) lockRow(ctx context.Context, q querier, mealID int64, date time.Time) (id int64, available int, err error) {
	err = q.QueryRow(ctx, `
		SELECT id, available_quantity FROM daily_meal_inventory
		WHERE meal_id = $1 AND date = $2
		FOR UPDATE`,
		mealID, date).Scan(&id, &available)
	return id, available, err
}
