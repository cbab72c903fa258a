package auditwriter

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mealdesk/internal/xpkg/config"
	xdb "mealdesk/internal/xpkg/db"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/auditwriter/adapter/consumer"
	database "mealdesk/internal/auditwriter/adapter/db"
	"mealdesk/internal/auditwriter/app/core"
	"mealdesk/internal/auditwriter/domain/dto"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Execute starts the audit-writer service: consume audit events from the
// queue and persist them to the audit_logs table.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}

	w := newWriter(newCtx, cfg, params, mylog)
	if err := w.run(); err != nil {
		return err
	}
	return w.stop()
}

type writer struct {
	ctx    context.Context
	cfg    *config.Config
	params *core.Params
	mylog  logger.Logger

	db    *xdb.DB
	mb    core.IRabbitMQ
	audit core.IAuditRepo

	wg sync.WaitGroup
}

func newWriter(ctx context.Context, cfg *config.Config, params *core.Params, mylog logger.Logger) *writer {
	return &writer{
		ctx:    ctx,
		cfg:    cfg,
		params: params,
		mylog:  mylog,
	}
}

func (w *writer) run() error {
	mylog := w.mylog.Action("audit_writer_started")

	db, err := xdb.Start(w.ctx, w.cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return core.ErrDBConn
	}
	w.db = db
	w.audit = database.NewAuditRepo(db.Pool)
	mylog.Action("db_connected").Info("Successful database connection")

	mb, err := consumer.New(w.ctx, *w.cfg.RMQ, w.mylog, w.params.Prefetch)
	if err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	w.mb = mb
	mylog.Action("mb_connected").Info("Successful message broker connection")

	deliveries, err := w.mb.ConsumeMessages(w.ctx)
	if err != nil {
		return fmt.Errorf("failed to consume messages: %w", err)
	}

	mylog.Info("audit writer is running", "prefetch", w.params.Prefetch)
	w.work(deliveries)
	return nil
}

func (w *writer) work(deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-w.ctx.Done():
			w.mylog.Action("work_shutdown").Info("Stopping message consumption due to context cancel")
			return

		case msg, ok := <-deliveries:
			if !ok {
				return
			}
			w.wg.Add(1)
			go func(msg amqp.Delivery) {
				defer w.wg.Done()

				if err := w.processMsg(msg); err != nil {
					w.mylog.Action("process_msg_failed").Error("Failed to process audit event", err)
					if err := msg.Nack(false, false); err != nil {
						w.mylog.Action("nack_failed").Error("Failed to nack", err)
					}
					return
				}
				if err := msg.Ack(false); err != nil {
					w.mylog.Action("ack_failed").Error("Failed to ack", err)
				}
			}(msg)
		}
	}
}

func (w *writer) processMsg(msg amqp.Delivery) error {
	var event dto.AuditEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal audit event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), core.WaitTime*time.Second)
	defer cancel()

	if err := w.audit.Insert(ctx, event); err != nil {
		return err
	}

	w.mylog.Action("audit_persisted").Debug("Audit event persisted",
		"event_id", event.EventID, "entity_id", event.EntityID, "audit_action", event.Action)
	return nil
}

func (w *writer) stop() error {
	w.mylog.Action("graceful_shutdown_started").Info("Shutting down audit writer")

	w.wg.Wait()

	if w.mb != nil {
		if err := w.mb.Close(); err != nil {
			w.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		w.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if w.db != nil {
		w.db.Stop()
		w.mylog.Action("db_closed").Info("Database closed")
	}

	w.mylog.Action("graceful_shutdown_completed").Info("Successfully shut down")
	return nil
}

func parseParams(args []string) (*core.Params, error) {
	fs := flag.NewFlagSet("audit-writer", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")
	prefetch := fs.Int("prefetch", 10, "Max unacknowledged messages per consumer")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	if *prefetch <= 0 {
		return nil, fmt.Errorf("prefetch must be positive: %d", *prefetch)
	}

	return &core.Params{Prefetch: *prefetch}, nil
}
