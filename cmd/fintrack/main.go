package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/nessie"
	"fintrack/internal/overrides/sqlite"
	"fintrack/internal/reconcile"
)

func main() {
	monthsBack := flag.Int("months-back", 0, "show the month this many months before the current one")
	flag.Parse()

	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), "fintrack")
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *monthsBack); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, monthsBack int) error {
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

	start := time.Now()
	stats, err := reconciler.Run(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	logger.Info("ledger refreshed",
		"purchases", stats.Purchases,
		"deposits", stats.Deposits,
		"failures", stats.Failures,
		"duration_ms", time.Since(start).Milliseconds())

	selector := core.NewMonthSelector()
	for i := 0; i < monthsBack; i++ {
		selector.Previous()
	}

	printOverview(led, selector)
	return nil
}

func printOverview(led *ledger.Ledger, selector *core.MonthSelector) {
	w := selector.Window()
	fmt.Printf("== %s ==\n", selector.Selected().Format("January 2006"))
	fmt.Printf("Spent:  %s\n", led.TotalSpent(w))
	fmt.Printf("Income: %s\n", led.TotalIncome(w))
	fmt.Printf("Net:    %s\n", led.Net(w))

	if byCat := led.SpendByCategory(w); len(byCat) > 0 {
		fmt.Println("\nSpending by category:")
		for _, row := range byCat {
			fmt.Printf("  %-20s %10s\n", row.Name, row.Amount)
		}
	}

	if debt := led.CreditCardDebt(); debt.Cents > 0 {
		fmt.Printf("\nCredit card debt: %s\n", debt)
	}

	if summary, ok := led.FinancialSummary(); ok {
		fmt.Printf("\nTotal balance: %s\n", summary.TotalBalance)
		if len(summary.Recent) > 0 {
			fmt.Println("Recent transactions:")
			for _, tx := range summary.Recent {
				fmt.Printf("  %s  %-25s %10s  %s\n",
					tx.Date.Format("2006-01-02"), tx.Title, tx.Amount, tx.Category)
			}
		}
	}
}
