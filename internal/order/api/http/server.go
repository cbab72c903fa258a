package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"mealdesk/internal/xpkg/config"
	"mealdesk/internal/xpkg/db"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/api/http/handle"
	"mealdesk/internal/order/app/core"
	"mealdesk/internal/order/app/services"

	brokermessage "mealdesk/internal/order/adapter/broker_message"
	database "mealdesk/internal/order/adapter/db"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux         *http.ServeMux
	cfg         *config.Config
	srv         *http.Server
	orderParams *core.OrderParams
	mylog       logger.Logger
	db          *db.DB
	audit       core.IAuditSink
	ctx         context.Context
	appCtx      context.Context
	mu          sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, orderParams *core.OrderParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:         ctx,
		appCtx:      appCtx,
		cfg:         cfg,
		orderParams: orderParams,
		mylog:       mylog,
		mux:         http.NewServeMux(),
	}
}

// Run initializes connections and routes and starts listening. It returns
// when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	if err := s.initializeDatabase(); err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Successful database connection")

	if err := s.initializeAuditSink(); err != nil {
		mylog.Action("mb_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	mylog.Action("mb_connected").Info("Successful message broker connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.orderParams.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With(
		"port", s.orderParams.Port,
		"cutoff_hours", s.orderParams.CutoffHours,
	).Info("server is running")

	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.audit != nil {
		if err := s.audit.Close(); err != nil {
			s.mylog.Action("mb_close_failed").Error("Failed to close message broker", err)
			return fmt.Errorf("mb close: %w", err)
		}
		s.mylog.Action("mb_closed").Info("Message broker closed")
	}

	if s.db != nil {
		s.db.Stop()
		s.mylog.Action("db_closed").Info("Database closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDatabase() error {
	database, err := db.Start(s.appCtx, s.cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	return nil
}

func (s *Server) initializeAuditSink() error {
	sink, err := brokermessage.New(s.appCtx, *s.cfg.RMQ, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.audit = sink
	return nil
}

// Configure wires repositories, services and handlers onto the mux.
func (s *Server) Configure() {
	txManager := database.NewTxManager(s.db.Pool, s.mylog)
	employeeRepo := database.NewEmployeeRepo(s.db.Pool)
	mealRepo := database.NewMealRepo(s.db.Pool)
	orderRepo := database.NewOrderRepo(s.db.Pool)
	inventoryRepo := database.NewInventoryRepo(s.db.Pool)

	inventoryService := services.NewInventoryService(inventoryRepo, s.mylog)
	budgetGuard := services.NewBudgetGuard(employeeRepo, s.mylog)
	orderService := services.NewOrderService(
		txManager, employeeRepo, mealRepo, orderRepo,
		inventoryService, budgetGuard, s.audit,
		s.orderParams.CutoffHours, s.mylog,
	)

	orderHandler := handle.NewOrderHandler(orderService, s.mylog)

	s.mux.Handle("POST /orders", orderHandler.Create())
	s.mux.Handle("GET /orders", orderHandler.List())
	s.mux.Handle("GET /orders/{id}", orderHandler.GetByID())
	s.mux.Handle("DELETE /orders/{id}", orderHandler.Cancel())
	s.mux.Handle("PATCH /orders/{id}/status", orderHandler.UpdateStatus())
	s.mux.HandleFunc("GET /healthz", s.health)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.db.IsAlive(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}
