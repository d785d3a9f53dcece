package ledger

import (
	"sort"
	"testing"
	"time"

	"fintrack/internal/core"
)

var march = core.MonthWindow(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))

func day(d int) time.Time {
	return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
}

func expense(sourceID, category string, cents int64, date time.Time) core.Transaction {
	return core.Transaction{
		ID:       sourceID,
		Date:     date,
		Title:    "tx " + sourceID,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Kind:     core.Expense,
		SourceID: sourceID,
	}
}

func snapshotIDs(l *Ledger) []string {
	txs := l.Transactions()
	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	sort.Strings(ids)
	return ids
}

func TestMergeIdempotent(t *testing.T) {
	batch := []core.Transaction{
		expense("p1", "Food", 450, day(2)),
		expense("p2", "Bills", 45000, day(5)),
		{ID: "d1", SourceID: "d1", Date: day(1), Title: "Payroll", Category: "Checking", Amount: core.Money{Cents: 200000}, Kind: core.Income},
	}

	l := New()
	l.MergeTransactions(batch)
	once := snapshotIDs(l)

	l.MergeTransactions(batch)
	twice := snapshotIDs(l)

	if len(once) != 3 {
		t.Fatalf("expected 3 transactions after first merge, got %d", len(once))
	}
	if len(once) != len(twice) {
		t.Fatalf("merge is not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("merge is not idempotent: %v vs %v", once, twice)
		}
	}
	if got := l.TotalSpent(march).Cents; got != 45450 {
		t.Fatalf("double-counted amounts after re-merge: %d", got)
	}
}

func TestMergeUpsertLastWriteWins(t *testing.T) {
	l := New()
	l.MergeTransactions([]core.Transaction{expense("p1", "Food", 450, day(2))})
	l.MergeTransactions([]core.Transaction{expense("p1", "Food", 999, day(2))})

	txs := l.Transactions()
	if len(txs) != 1 {
		t.Fatalf("expected exactly one transaction for source id, got %d", len(txs))
	}
	if txs[0].Amount.Cents != 999 {
		t.Fatalf("expected later batch's amount, got %d", txs[0].Amount.Cents)
	}
}

func TestMergeAppendsWithoutSourceID(t *testing.T) {
	l := New()
	manual := core.Transaction{ID: "m1", Date: day(3), Title: "Cash lunch", Category: "Food", Amount: core.Money{Cents: 1200}, Kind: core.Expense}
	l.MergeTransactions([]core.Transaction{manual})
	l.MergeTransactions([]core.Transaction{manual})

	if got := len(l.Transactions()); got != 2 {
		t.Fatalf("transactions without source id must always append, got %d", got)
	}
}

func TestAddManualEntries(t *testing.T) {
	l := New()
	id := l.AddExpense("Metro", "Transport", core.Money{Cents: 1200}, day(4), "")
	if id == "" {
		t.Fatal("expected generated id")
	}
	id2 := l.AddIncome("Upwork", "Freelance", core.Money{Cents: 38000}, day(6), "a1")
	if id2 == "" || id2 == id {
		t.Fatalf("expected fresh unique id, got %q and %q", id, id2)
	}

	txs := l.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.SourceID != "" {
			t.Fatalf("manual entries must not carry a source id: %+v", tx)
		}
	}
	if got := l.TotalIncome(march).Cents; got != 38000 {
		t.Fatalf("unexpected income %d", got)
	}
}

func TestWindowFiltering(t *testing.T) {
	l := New()
	l.MergeTransactions([]core.Transaction{
		expense("p1", "Food", 450, march.Start),                // first instant: included
		expense("p2", "Food", 500, march.End),                  // exclusive end: excluded
		expense("p3", "Food", 700, march.End.Add(-time.Second)), // last second: included
		expense("p4", "Food", 900, day(10).AddDate(0, -1, 0)),  // previous month
	})

	if got := l.TotalSpent(march).Cents; got != 1150 {
		t.Fatalf("expected 1150, got %d", got)
	}
	if got := len(l.ExpensesIn(march)); got != 2 {
		t.Fatalf("expected 2 expenses in window, got %d", got)
	}
}

func TestExpensesSortedNewestFirst(t *testing.T) {
	l := New()
	l.MergeTransactions([]core.Transaction{
		expense("p1", "Food", 100, day(2)),
		expense("p2", "Food", 200, day(20)),
		expense("p3", "Food", 300, day(11)),
	})

	got := l.ExpensesIn(march)
	if got[0].SourceID != "p2" || got[1].SourceID != "p3" || got[2].SourceID != "p1" {
		t.Fatalf("unexpected order: %v %v %v", got[0].SourceID, got[1].SourceID, got[2].SourceID)
	}
}

func TestSpendByCategory(t *testing.T) {
	l := New()
	l.MergeTransactions([]core.Transaction{
		expense("p1", "Food", 4820, day(1)),
		expense("p2", "Transport", 1200, day(2)),
		expense("p3", "Bills", 45000, day(3)),
		expense("p4", "Food", 42000, day(4)),
	})

	got := l.SpendByCategory(march)
	want := []CategoryAmount{
		{Name: "Food", Amount: core.Money{Cents: 46820}},
		{Name: "Bills", Amount: core.Money{Cents: 45000}},
		{Name: "Transport", Amount: core.Money{Cents: 1200}},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSpendByCategoryStableTies(t *testing.T) {
	l := New()
	l.MergeTransactions([]core.Transaction{
		expense("p1", "Zoo", 500, day(1)),
		expense("p2", "Art", 500, day(2)),
	})

	got := l.SpendByCategory(march)
	if got[0].Name != "Zoo" || got[1].Name != "Art" {
		t.Fatalf("ties must keep first-encountered order, got %v then %v", got[0].Name, got[1].Name)
	}
}

func TestBudgetUtilizationGroceriesFoodAlias(t *testing.T) {
	l := New()
	l.AddBudget("Groceries", core.Money{Cents: 70000})
	l.MergeTransactions([]core.Transaction{
		expense("p1", "Food", 45000, day(3)),
		expense("p2", "Groceries", 5000, day(4)),
		expense("p3", "Transport", 1200, day(5)),
	})

	if got := l.BudgetUtilization(march, "Groceries").Cents; got != 50000 {
		t.Fatalf("Groceries budget must absorb Food expenses: got %d, want 50000", got)
	}
	// The alias is one-way and one-off.
	if got := l.BudgetUtilization(march, "Food").Cents; got != 45000 {
		t.Fatalf("Food budget must not absorb Groceries: got %d", got)
	}
	if got := l.BudgetUtilization(march, "Transport").Cents; got != 1200 {
		t.Fatalf("unexpected Transport utilization %d", got)
	}
}

func TestCreditCardDebt(t *testing.T) {
	l := New()
	l.ReplaceAccounts([]core.Account{
		{ID: "a1", Type: "Checking", Balance: core.Money{Cents: 100000}},
		{ID: "a2", Type: "Credit Card", Balance: core.Money{Cents: -23025}},
		{ID: "a3", Type: "credit", Balance: core.Money{Cents: -10000}},
		{ID: "a4", Type: "Savings", Balance: core.Money{Cents: 500000}},
	})

	if got := l.CreditCardDebt().Cents; got != -33025 {
		t.Fatalf("expected -33025, got %d", got)
	}
}

func TestReplaceAccountsIsWholesale(t *testing.T) {
	l := New()
	l.ReplaceAccounts([]core.Account{{ID: "a1", Type: "Checking"}})
	l.ReplaceAccounts([]core.Account{{ID: "a2", Type: "Savings"}})

	accounts := l.Accounts()
	if len(accounts) != 1 || accounts[0].ID != "a2" {
		t.Fatalf("expected wholesale replace, got %+v", accounts)
	}
}

func TestCheckingAccounts(t *testing.T) {
	l := New()
	l.ReplaceAccounts([]core.Account{
		{ID: "a1", Type: "Checking"},
		{ID: "a2", Type: "Credit Card"},
		{ID: "a3", Type: "checking"},
	})
	got := l.CheckingAccounts()
	if len(got) != 2 {
		t.Fatalf("expected 2 checking accounts, got %d", len(got))
	}
}

func TestOnChangeFires(t *testing.T) {
	l := New()
	var fired int
	l.OnChange(func() { fired++ })

	l.AddBudget("Rent", core.Money{Cents: 90000})
	l.MergeTransactions([]core.Transaction{expense("p1", "Food", 100, day(1))})
	l.ReplaceAccounts(nil)

	if fired != 3 {
		t.Fatalf("expected 3 notifications, got %d", fired)
	}
}
