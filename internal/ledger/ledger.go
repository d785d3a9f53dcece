// Package ledger holds the authoritative transaction, account and budget
// collections and computes the month-scoped views every screen reads.
//
// Mutations take the ledger lock and apply atomically; derived views are
// pure reads over a caller-supplied month window, recomputed on demand.
// Validation happens at the boundary that produces the input (UI form or
// reconciler mapping); the ledger assumes validated records.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

type Ledger struct {
	mu           sync.Mutex
	accounts     []core.Account
	transactions []core.Transaction
	budgets      []core.Budget
	onChange     []func()
}

func New() *Ledger {
	return &Ledger{}
}

// OnChange registers a callback fired after every mutation. Callbacks run
// outside the ledger lock; consumers re-derive whatever views they need.
func (l *Ledger) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

func (l *Ledger) notify() {
	l.mu.Lock()
	callbacks := append([]func(){}, l.onChange...)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// ReplaceAccounts swaps the account list wholesale. Reconciliation never
// patches accounts in place.
func (l *Ledger) ReplaceAccounts(accounts []core.Account) {
	l.mu.Lock()
	l.accounts = append([]core.Account{}, accounts...)
	l.mu.Unlock()
	l.notify()
}

// Accounts returns a snapshot of the current account list.
func (l *Ledger) Accounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Account{}, l.accounts...)
}

// MergeTransactions applies one reconciliation batch atomically.
//
// A transaction with a non-empty SourceID upserts: if the ledger already
// holds that source id the record is replaced in place, otherwise it is
// appended. Transactions without a SourceID (manual entries) always
// append. Merging the same batch twice therefore leaves the ledger
// unchanged, and a re-fetched record wins over the copy already held.
func (l *Ledger) MergeTransactions(batch []core.Transaction) {
	if len(batch) == 0 {
		return
	}
	l.mu.Lock()
	bySource := make(map[string]int, len(l.transactions))
	for i, tx := range l.transactions {
		if tx.SourceID != "" {
			bySource[tx.SourceID] = i
		}
	}
	for _, tx := range batch {
		if tx.SourceID != "" {
			if i, ok := bySource[tx.SourceID]; ok {
				l.transactions[i] = tx
				continue
			}
			bySource[tx.SourceID] = len(l.transactions)
		}
		l.transactions = append(l.transactions, tx)
	}
	l.mu.Unlock()
	l.notify()
}

// AddExpense appends a manual expense and returns its generated id.
func (l *Ledger) AddExpense(title, category string, amount core.Money, date time.Time, accountID string) string {
	return l.addManual(title, category, amount, date, accountID, core.Expense)
}

// AddIncome appends a manual income entry and returns its generated id.
func (l *Ledger) AddIncome(title, category string, amount core.Money, date time.Time, accountID string) string {
	return l.addManual(title, category, amount, date, accountID, core.Income)
}

func (l *Ledger) addManual(title, category string, amount core.Money, date time.Time, accountID string, kind core.Kind) string {
	if date.IsZero() {
		date = time.Now()
	}
	tx := core.Transaction{
		ID:        uuid.NewString(),
		Date:      date,
		Title:     title,
		Category:  category,
		Amount:    amount,
		Kind:      kind,
		AccountID: accountID,
	}
	l.mu.Lock()
	l.transactions = append(l.transactions, tx)
	l.mu.Unlock()
	l.notify()
	return tx.ID
}

// AddBudget appends a budget and returns it.
func (l *Ledger) AddBudget(name string, limit core.Money) core.Budget {
	b := core.Budget{ID: uuid.NewString(), Name: name, Limit: limit}
	l.mu.Lock()
	l.budgets = append(l.budgets, b)
	l.mu.Unlock()
	l.notify()
	return b
}

// Budgets returns a snapshot of the budget list.
func (l *Ledger) Budgets() []core.Budget {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Budget{}, l.budgets...)
}

// Transactions returns a snapshot of every transaction, unordered.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction{}, l.transactions...)
}

// ExpensesIn returns the expenses inside the window, newest first.
func (l *Ledger) ExpensesIn(w core.Window) []core.Transaction {
	return l.inWindow(w, core.Expense)
}

// IncomeIn returns the income entries inside the window, newest first.
func (l *Ledger) IncomeIn(w core.Window) []core.Transaction {
	return l.inWindow(w, core.Income)
}

func (l *Ledger) inWindow(w core.Window, kind core.Kind) []core.Transaction {
	l.mu.Lock()
	var out []core.Transaction
	for _, tx := range l.transactions {
		if tx.Kind == kind && w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	l.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// TotalSpent sums expense amounts inside the window.
func (l *Ledger) TotalSpent(w core.Window) core.Money {
	return sumAmounts(l.ExpensesIn(w))
}

// TotalIncome sums income amounts inside the window.
func (l *Ledger) TotalIncome(w core.Window) core.Money {
	return sumAmounts(l.IncomeIn(w))
}

// Net is income minus spend for the window.
func (l *Ledger) Net(w core.Window) core.Money {
	return core.Money{Cents: l.TotalIncome(w).Cents - l.TotalSpent(w).Cents}
}

func sumAmounts(txs []core.Transaction) core.Money {
	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
	}
	return core.Money{Cents: total}
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// SpendByCategory groups the window's expenses by category, summed and
// sorted by amount descending. Ties keep first-encountered order.
func (l *Ledger) SpendByCategory(w core.Window) []CategoryAmount {
	l.mu.Lock()
	sums := make(map[string]int64)
	var order []string
	for _, tx := range l.transactions {
		if tx.Kind != core.Expense || !w.Contains(tx.Date) {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Amount.Cents
	}
	l.mu.Unlock()

	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: core.Money{Cents: sums[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.Cents > out[j].Amount.Cents })
	return out
}

// BudgetUtilization sums the window's expenses counted against a budget
// name. Matching is exact on category, with one special-cased alias kept
// from the product's history: a budget named "Groceries" also absorbs
// expenses categorized "Food". This is a one-off, not a general alias
// mechanism.
func (l *Ledger) BudgetUtilization(w core.Window, budgetName string) core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, tx := range l.transactions {
		if tx.Kind != core.Expense || !w.Contains(tx.Date) {
			continue
		}
		if tx.Category == budgetName || (tx.Category == "Food" && budgetName == "Groceries") {
			total += tx.Amount.Cents
		}
	}
	return core.Money{Cents: total}
}

// CreditCardDebt sums the balances of credit-type accounts. It is a
// property of the account list, independent of any month window.
func (l *Ledger) CreditCardDebt() core.Money {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, a := range l.accounts {
		if a.IsCreditCard() {
			total += a.Balance.Cents
		}
	}
	return core.Money{Cents: total}
}

// CheckingAccounts returns the accounts whose type reads as checking.
func (l *Ledger) CheckingAccounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []core.Account
	for _, a := range l.accounts {
		if a.IsChecking() {
			out = append(out, a)
		}
	}
	return out
}
