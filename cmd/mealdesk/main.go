package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"mealdesk/internal/auditwriter"
	"mealdesk/internal/xpkg/logger"
	"mealdesk/internal/order"
	"mealdesk/internal/order/app/core"
)

func main() {
	mylogger, err := logger.New(os.Getenv("LOG_LEVEL"))
	if err != nil {
		log.Fatalf("log error: %v", err)
	}

	// Global flags for selecting the service mode
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	mode := fs.String("mode", "", "service to run: order-service | audit-writer")

	// Only parse up to `--mode`, the rest goes to the service
	args := os.Args[1:]
	modeArgs := []string{}
	for i, arg := range args {
		if strings.HasPrefix(arg, "--mode") || strings.HasPrefix(arg, "-mode") {
			modeArgs = args[:i+1]
			break
		}
	}
	if err := fs.Parse(modeArgs); err != nil {
		mylogger.Action("mealdesk_failed").Error("Failed to parse flags", err)
		help(fs)
		return
	}

	if *mode == "" {
		mylogger.Action("mealdesk_failed").Error("Failed to start mealdesk", core.ErrModeFlag)
		help(fs)
		return
	}

	remainingArgs := args[len(modeArgs):]

	ctx := context.Background()
	switch *mode {
	case "order-service", "os":
		l := mylogger.With("service", "order-service")
		l.Action("order_service_started").Info("Successfully started")
		if err := order.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("order_service_failed").Error("Error in order-service", err)
			if !errors.Is(err, core.ErrHelp) {
				log.Fatalf("failed to execute order-service: %s", err)
			}
		}
		l.Action("order_service_completed").Info("Successfully completed")

	case "audit-writer", "aw":
		l := mylogger.With("service", "audit-writer")
		l.Action("audit_writer_started").Info("Successfully started")
		if err := auditwriter.Execute(ctx, l, remainingArgs); err != nil {
			l.Action("audit_writer_failed").Error("Error in audit-writer", err)
			if !errors.Is(err, core.ErrHelp) {
				log.Fatalf("failed to execute audit-writer: %s", err)
			}
		}
		l.Action("audit_writer_completed").Info("Successfully completed")

	default:
		mylogger.Action("mealdesk_failed").Error("Failed to start mealdesk", core.ErrUnknownService)
		help(fs)
	}
}

func help(fs *flag.FlagSet) {
	fmt.Println("\nUsage:")
	fs.PrintDefaults()
	fmt.Println("\nExample:")
	fmt.Println("  ./mealdesk --mode=order-service --port=3000 --cutoff-hours=4")
}
