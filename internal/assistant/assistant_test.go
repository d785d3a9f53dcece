package assistant

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

func TestBuildContextIncludesSnapshot(t *testing.T) {
	summary := ledger.Summary{
		TotalBalance:     core.Money{Cents: 150000},
		TotalAntExpenses: core.Money{Cents: 2345},
		TopCategories:    []string{"Coffee", "Transport"},
		Recent: []core.Transaction{
			{
				Date:     time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
				Title:    "Blue Bottle",
				Category: "Coffee",
				Amount:   core.Money{Cents: 450},
				Kind:     core.Expense,
			},
		},
	}

	got := buildContext(summary, "How much did I spend on coffee?")

	for _, want := range []string{
		"1500.00",
		"23.45",
		"Coffee, Transport",
		"2024-03-10 Blue Bottle 4.50",
		"Question: How much did I spend on coffee?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("buildContext() missing %q\nprompt:\n%s", want, got)
		}
	}
}

func TestBuildContextOmitsEmptySections(t *testing.T) {
	got := buildContext(ledger.Summary{}, "anything?")
	if strings.Contains(got, "Recent transactions") {
		t.Error("prompt lists recent transactions for an empty snapshot")
	}
	if strings.Contains(got, "Most frequent") {
		t.Error("prompt lists categories for an empty snapshot")
	}
}
