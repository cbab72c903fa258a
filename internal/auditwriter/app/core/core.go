package core

import (
	"context"
	"errors"

	"mealdesk/internal/auditwriter/domain/dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

const WaitTime = 10 // seconds

var (
	ErrParseCmd = errors.New("cannot parse arguments")
	ErrHelp     = errors.New("")

	ErrDBConn = errors.New("db connection failure")
	ErrMBConn = errors.New("message broker connection failure")
	ErrMBCh   = errors.New("message broker channel failure")
)

type Params struct {
	Prefetch int
}

type IRabbitMQ interface {
	Close() error
	IsAlive() error
	ConsumeMessages(ctx context.Context) (<-chan amqp.Delivery, error)
}

type IAuditRepo interface {
	Insert(ctx context.Context, event dto.AuditEvent) error
}
