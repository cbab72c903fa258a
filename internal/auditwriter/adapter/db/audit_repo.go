package db

import (
	"context"
	"fmt"

	"mealdesk/internal/auditwriter/app/core"
	"mealdesk/internal/auditwriter/domain/dto"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) core.IAuditRepo {
	return &AuditRepo{pool: pool}
}

// Insert appends one audit row. The event_id unique key makes redelivered
// messages land exactly once.
func (r *AuditRepo) Insert(ctx context.Context, event dto.AuditEvent) error {
	q := `INSERT INTO audit_logs (event_id, entity_type, entity_id, action, user_id, timestamp, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, q,
		event.EventID,
		event.EntityType,
		event.EntityID,
		event.Action,
		event.UserID,
		event.Timestamp,
		nullableJSON(event.OldValue),
		nullableJSON(event.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
