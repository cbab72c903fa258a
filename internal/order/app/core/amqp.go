package core

import "context"

// IAuditSink records create/update trails for an entity. Best effort: calls
// never block the caller's transaction and never return an error; failures are
// logged by the implementation.
type IAuditSink interface {
	Close() error
	LogCreate(ctx context.Context, entityType string, entityID int64, newValue any)
	LogUpdate(ctx context.Context, entityType string, entityID int64, oldValue, newValue any)
}
