package consumer

import (
	"context"
	"fmt"
	"sync"

	"mealdesk/internal/xpkg/config"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/auditwriter/app/core"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange   = "audit_topic"
	queueName  = "audit_queue"
	routingKey = "audit.*"
)

// RabbitMQ owns the consumer-side topology: the durable audit queue bound to
// the audit topic exchange.
type RabbitMQ struct {
	cfg      config.RabbitMQ
	conn     *amqp.Connection
	ch       *amqp.Channel
	mylog    logger.Logger
	prefetch int

	mu sync.Mutex
}

func New(ctx context.Context, rabbitmqCfg config.RabbitMQ, mylog logger.Logger, prefetch int) (core.IRabbitMQ, error) {
	r := &RabbitMQ{
		cfg:      rabbitmqCfg,
		mylog:    mylog,
		prefetch: prefetch,
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

	if err := ch.Qos(r.prefetch, 0, false); err != nil {
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

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		conn.Close()
		return core.ErrMBCh
	}

	if err := ch.QueueBind(queueName, routingKey, exchange, false, nil); err != nil {
		conn.Close()
		return core.ErrMBCh
	}

	r.conn = conn
	r.ch = ch
	return nil
}

func (r *RabbitMQ) IsAlive() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() {
		return core.ErrMBConn
	}
	if r.ch == nil || r.ch.IsClosed() {
		return core.ErrMBCh
	}
	return nil
}

func (r *RabbitMQ) ConsumeMessages(ctx context.Context) (<-chan amqp.Delivery, error) {
	deliveries, err := r.ch.ConsumeWithContext(ctx,
		queueName,
		"audit-writer", // consumer tag
		false,          // auto-ack
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return deliveries, nil
}

func (r *RabbitMQ) Close() error {
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
