package order

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"mealdesk/internal/xpkg/config"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order/api/http"
	"mealdesk/internal/order/app/core"
)

type params struct {
	orderParams *core.OrderParams
	cfg         *config.Config
}

// Execute starts the order service.
func Execute(ctx context.Context, mylog logger.Logger, args []string) error {
	newCtx, stop := signal.NotifyContext(ctx, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	params, err := parseParams(args)
	if err != nil {
		mylog.Action("command_parse_failed").Error("Invalid command received", err)
		return err
	}
	if err = validateParams(params); err != nil {
		mylog.Action("command_validation_failed").Error("Invalid command received", err)
		return err
	}
	mylog.Action("command_validation_completed").Info("Successfully validated params")

	server := http.NewServer(newCtx, context.Background(), params.cfg, params.orderParams, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-newCtx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			mylog.Action("order_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}

func parseParams(args []string) (*params, error) {
	fs := flag.NewFlagSet("order-service", flag.ContinueOnError)
	showHelp := fs.Bool("help", false, "Show help")

	port := fs.Int("port", 3000, "Port to run the order service")
	cutoffHours := fs.Int("cutoff-hours", -1, "Hours before serving time after which same-day orders close (default: from config)")

	if err := fs.Parse(args); err != nil {
		return nil, core.ErrParseCmd
	}

	if *showHelp {
		fs.Usage()
		return nil, core.ErrHelp
	}

	return &params{
		orderParams: &core.OrderParams{
			Port:        *port,
			CutoffHours: *cutoffHours,
		},
	}, nil
}

func validateParams(params *params) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	params.cfg = cfg

	orderParams := params.orderParams
	if orderParams.Port <= 0 || orderParams.Port >= 65536 {
		return fmt.Errorf("port must be in [1: 65,535]: %d", orderParams.Port)
	}

	if orderParams.CutoffHours < 0 {
		orderParams.CutoffHours = cfg.Order.CutoffHours
	}
	if orderParams.CutoffHours < 0 || orderParams.CutoffHours > 24 {
		return fmt.Errorf("cutoff hours must be in [0: 24]: %d", orderParams.CutoffHours)
	}

	return nil
}
