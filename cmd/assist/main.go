// Command assist answers a one-shot financial question from the command
// line, grounding the model on a freshly reconciled ledger snapshot.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/assistant"
	"fintrack/internal/config"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/nessie"
	"fintrack/internal/overrides/sqlite"
	"fintrack/internal/reconcile"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), "assist")
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	question := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if question == "" {
		fmt.Fprintln(os.Stderr, "usage: assist <question about your finances>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, question); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, question string) error {
	store, err := sqlite.Open(cfg.OverridesDBPath)
	if err != nil {
		return fmt.Errorf("open overrides store: %w", err)
	}
	defer store.Close()

	client, err := nessie.New(nessie.Config{
		BaseURL: cfg.NessieBaseURL,
		APIKey:  cfg.NessieAPIKey,
		Timeout: cfg.HTTPTimeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	led := ledger.New()
	reconciler := reconcile.New(client, store, led, reconcile.Config{
		CustomerID:           cfg.NessieCustomerID,
		OverrideAccountID:    cfg.OverrideAccountID,
		OverrideAccountAlias: cfg.OverrideAccountAlias,
	}, logger)

	if _, err := reconciler.Run(ctx); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	summary, ok := led.FinancialSummary()
	if !ok {
		return fmt.Errorf("no account data available to ground the answer")
	}

	asst, err := assistant.New(ctx, cfg.GeminiModel, logger)
	if err != nil {
		return err
	}
	answer, err := asst.Ask(ctx, summary, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
