// Package main runs one settlement phase for one event and prints the report.
// It is the entry point for the external scheduler.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"giftregistry/config"
	"giftregistry/internal/app"
	"giftregistry/internal/domain"
)

func main() {
	var eventID, phase string
	flag.StringVar(&eventID, "event", "", "event ID to settle")
	flag.StringVar(&phase, "phase", "full-price", "settlement phase: full-price or remainder")
	flag.Parse()

	if err := run(eventID, phase); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(eventID, phase string) error {
	if eventID == "" {
		return fmt.Errorf("-event is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLoggerTo(os.Stderr, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.Close()

	var report *domain.SettlementReport
	switch phase {
	case "full-price":
		report, err = a.Settlements.SettleFullyFundedArticles(ctx, eventID)
	case "remainder":
		report, err = a.Settlements.SettleRemainder(ctx, eventID)
	default:
		return fmt.Errorf("unknown phase %q", phase)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
