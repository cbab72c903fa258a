package brokermessage

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mealdesk/internal/xpkg/config"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/domain/dto"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange          = "audit_topic"
	routingKeyCreated = "audit.created"
	routingKeyUpdated = "audit.updated"

	publishTimeout = 5 * time.Second
)

// RabbitMQ publishes audit events to a durable topic exchange. Publishing is
// fire-and-forget: it happens off the caller's goroutine and failures are
// only logged.
type RabbitMQ struct {
	cfg   config.RabbitMQ
	conn  *amqp.Connection
	ch    *amqp.Channel
	mylog logger.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func New(ctx context.Context, rabbitmqCfg config.RabbitMQ, mylog logger.Logger) (core.IAuditSink, error) {
	r := &RabbitMQ{
		cfg:   rabbitmqCfg,
		mylog: mylog,
	}
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.cfg.URL())
	if err != nil {
		return core.ErrMBConn
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return core.ErrMBCh
	}

	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return core.ErrMBCh
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return core.ErrMBCh
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *RabbitMQ) LogCreate(ctx context.Context, entityType string, entityID int64, newValue any) {
	r.publish(routingKeyCreated, dto.AuditEvent{
		EventID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "CREATE",
		UserID:     core.AuditUserSystem,
		Timestamp:  time.Now().UTC(),
		NewValue:   r.marshalValue(newValue),
	})
}

func (r *RabbitMQ) LogUpdate(ctx context.Context, entityType string, entityID int64, oldValue, newValue any) {
	r.publish(routingKeyUpdated, dto.AuditEvent{
		EventID:    uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "UPDATE",
		UserID:     core.AuditUserSystem,
		Timestamp:  time.Now().UTC(),
		OldValue:   r.marshalValue(oldValue),
		NewValue:   r.marshalValue(newValue),
	})
}

// publish hands the event to a goroutine so the caller never waits on the
// broker. Uses a fresh timeout context because the request context may
// already be done by the time the publish lands.
func (r *RabbitMQ) publish(routingKey string, event dto.AuditEvent) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		body, err := json.Marshal(event)
		if err != nil {
			r.mylog.Action("audit_publish_failed").Error("Failed to marshal audit event", err,
				"event_id", event.EventID)
			return
		}

		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		r.mu.Lock()
		err = r.ch.PublishWithContext(pubCtx,
			exchange,
			routingKey,
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.EventID,
				Timestamp:    event.Timestamp,
				Body:         body,
			})
		r.mu.Unlock()
		if err != nil {
			r.mylog.Action("audit_publish_failed").Error("Failed to publish audit event", err,
				"event_id", event.EventID, "entity_id", event.EntityID)
			return
		}

		r.mylog.Action("audit_published").Debug("Audit event published",
			"event_id", event.EventID, "routing_key", routingKey)
	}()
}

func (r *RabbitMQ) marshalValue(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		r.mylog.Action("audit_marshal_failed").Error("Failed to marshal audit value", err)
		return nil
	}
	return body
}

func (r *RabbitMQ) Close() error {
	// Let in-flight publishes drain first.
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil {
		if err := r.ch.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
