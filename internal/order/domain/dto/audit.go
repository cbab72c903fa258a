package dto

import (
	"encoding/json"
	"time"
)

// AuditEvent is published to the audit exchange after a use case commits.
// Old/new values carry entity snapshots as raw JSON.
type AuditEvent struct {
	EventID    string          `json:"event_id"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Action     string          `json:"action"`
	UserID     string          `json:"user_id"`
	Timestamp  time.Time       `json:"timestamp"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
}
