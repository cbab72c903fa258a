package dto

import (
	"encoding/json"
	"time"
)

// AuditEvent mirrors the shape published by the order service.
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
