package db

import (
	"context"
	"errors"
	"fmt"

	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MealRepo struct {
	pool *pgxpool.Pool
}

func NewMealRepo(pool *pgxpool.Pool) core.IMealRepo {
	return &MealRepo{pool: pool}
}

func (r *MealRepo) GetByID(ctx context.Context, id int64) (*models.Meal, error) {
	q := `SELECT id, name, description, type, price, available, daily_capacity, created_at
		FROM meals WHERE id = $1`

	var m models.Meal
	err := conn(ctx, r.pool).QueryRow(ctx, q, id).Scan(
		&m.ID, &m.Name, &m.Description, &m.Type,
		&m.Price, &m.Available, &m.DailyCapacity, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &core.NotFoundError{Entity: "Meal", ID: id}
		}
		return nil, fmt.Errorf("failed to scan meal: %w", err)
	}
	return &m, nil
}
