package ledger

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Ant expenses are small expenses tracked separately for micro-spending
// analysis: anything under this threshold.
const antExpenseCents = 100 * 100

// Summary is the compact snapshot handed to the chat assistant as
// grounding context. It is the only surface the assistant reads.
type Summary struct {
	TotalBalance     core.Money
	TotalAntExpenses core.Money
	TopCategories    []string
	Recent           []core.Transaction
}

// FinancialSummary derives the assistant snapshot: total balance across
// accounts, the ant-expense total, the top three ant-expense categories by
// transaction count, and up to five most recent transactions. ok is false
// when no accounts are loaded yet.
func (l *Ledger) FinancialSummary() (Summary, bool) {
	l.mu.Lock()
	accounts := append([]core.Account{}, l.accounts...)
	transactions := append([]core.Transaction{}, l.transactions...)
	l.mu.Unlock()

	if len(accounts) == 0 {
		return Summary{}, false
	}

	var s Summary
	for _, a := range accounts {
		s.TotalBalance.Cents += a.Balance.Cents
	}

	counts := make(map[string]int)
	for _, tx := range transactions {
		if tx.Kind == core.Expense && tx.Amount.Cents < antExpenseCents {
			s.TotalAntExpenses.Cents += tx.Amount.Cents
			counts[tx.Category]++
		}
	}

	categories := make([]string, 0, len(counts))
	for name := range counts {
		categories = append(categories, name)
	}
	sort.Slice(categories, func(i, j int) bool {
		if counts[categories[i]] != counts[categories[j]] {
			return counts[categories[i]] > counts[categories[j]]
		}
		return categories[i] < categories[j]
	})
	if len(categories) > 3 {
		categories = categories[:3]
	}
	s.TopCategories = categories

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})
	if len(transactions) > 5 {
		transactions = transactions[:5]
	}
	s.Recent = transactions

	return s, true
}

// CashFlow is one month of the income/expense series.
type CashFlow struct {
	Year    int
	Month   time.Month
	Income  core.Money
	Expense core.Money
}

func (c CashFlow) Net() core.Money {
	return core.Money{Cents: c.Income.Cents - c.Expense.Cents}
}

// MonthlyCashFlow returns per-month income and expense totals for the
// last months calendar months ending at ref's month, oldest first.
func (l *Ledger) MonthlyCashFlow(ref time.Time, months int) []CashFlow {
	out := make([]CashFlow, 0, months)
	start := core.MonthWindow(ref).Start
	for i := months - 1; i >= 0; i-- {
		w := core.MonthWindow(start.AddDate(0, -i, 0))
		out = append(out, CashFlow{
			Year:    w.Start.Year(),
			Month:   w.Start.Month(),
			Income:  l.TotalIncome(w),
			Expense: l.TotalSpent(w),
		})
	}
	return out
}
