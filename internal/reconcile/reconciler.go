// Package reconcile pulls accounts, purchases and deposits from the
// remote banking API, normalizes them into unified transactions and
// merges them into the ledger.
//
// A pass fans out per account, isolates every slice failure (a failing
// account contributes zero records, never an error), joins, and applies
// exactly one atomic merge batch. Passes may overlap; merges upsert by
// source id, so identical data converges regardless of settle order.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/nessie"
	"fintrack/internal/overrides"
)

// Client is the slice of the remote API the reconciler needs. Satisfied
// by *nessie.Client; tests substitute a local double.
type Client interface {
	FetchAccounts(ctx context.Context, customerID string) ([]nessie.Account, error)
	FetchAccount(ctx context.Context, accountID string) (nessie.Account, error)
	FetchPurchases(ctx context.Context, accountID string) ([]nessie.Purchase, error)
	FetchDeposits(ctx context.Context, accountID string) ([]nessie.Deposit, error)
	FetchMerchant(ctx context.Context, merchantID string) (nessie.Merchant, error)
}

type Config struct {
	CustomerID string

	// OverrideAccountID names a checking account that must stay browsable
	// even when the sandbox account listing omits it. When set, the
	// account is synthesized into the list if absent, and its purchases
	// and deposits are always fetched by direct id on top of the generic
	// account loop. The sandbox only honors direct-id lookups for this
	// account; the per-pass seen sets absorb the duplication.
	OverrideAccountID    string
	OverrideAccountAlias string
}

type Stats struct {
	Accounts        int
	Purchases       int
	Deposits        int
	MerchantLookups int
	Failures        int
}

type Reconciler struct {
	client    Client
	overrides overrides.Store
	ledger    *ledger.Ledger
	cfg       Config
	merchants *merchantResolver
	logger    *slog.Logger
}

func New(client Client, store overrides.Store, l *ledger.Ledger, cfg Config, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		client:    client,
		overrides: store,
		ledger:    l,
		cfg:       cfg,
		merchants: newMerchantResolver(client, logger),
		logger:    logger,
	}
}

// Run executes one reconciliation pass. It returns an error only when the
// initial account listing fails; every later failure is local to its
// slice and the pass degrades to whatever data did arrive.
func (r *Reconciler) Run(ctx context.Context) (Stats, error) {
	remote, err := r.client.FetchAccounts(ctx, r.cfg.CustomerID)
	if err != nil {
		return Stats{}, fmt.Errorf("fetch accounts: %w", err)
	}
	remote = r.ensureOverrideAccount(ctx, remote)

	accounts := make([]core.Account, len(remote))
	for i, a := range remote {
		accounts[i] = core.Account{
			ID:         a.ID,
			Type:       a.Type,
			Nickname:   a.Nickname,
			Balance:    core.MoneyFromFloat(a.Balance),
			CustomerID: a.CustomerID,
		}
	}
	r.ledger.ReplaceAccounts(accounts)

	acc := newBatchAccumulator()
	g, gctx := errgroup.WithContext(ctx)

	for _, account := range accounts {
		account := account
		g.Go(func() error {
			r.collectPurchases(gctx, account.ID, account.Alias(), acc)
			return nil
		})
		g.Go(func() error {
			r.collectDeposits(gctx, account.ID, account.Alias(), acc)
			return nil
		})
	}

	// Explicit direct-id fetch for the override account (see Config).
	if id := r.cfg.OverrideAccountID; id != "" {
		alias := r.cfg.OverrideAccountAlias
		g.Go(func() error {
			r.collectPurchases(gctx, id, alias, acc)
			return nil
		})
		g.Go(func() error {
			r.collectDeposits(gctx, id, alias, acc)
			return nil
		})
	}

	// Join barrier: the ledger never sees a partial pass.
	g.Wait()

	batch, stats := acc.finish()
	stats.Accounts = len(accounts)
	r.ledger.MergeTransactions(batch)

	r.logger.InfoContext(ctx, "reconciliation pass complete",
		"accounts", stats.Accounts,
		"purchases", stats.Purchases,
		"deposits", stats.Deposits,
		"failures", stats.Failures)
	return stats, nil
}

// ensureOverrideAccount appends a synthetic checking account when the
// configured override id is missing from the listing. The balance is
// refreshed by direct lookup when the sandbox answers; a failed lookup
// leaves it at zero rather than failing the pass.
func (r *Reconciler) ensureOverrideAccount(ctx context.Context, accounts []nessie.Account) []nessie.Account {
	id := r.cfg.OverrideAccountID
	if id == "" {
		return accounts
	}
	for _, a := range accounts {
		if a.ID == id {
			return accounts
		}
	}

	synthetic := nessie.Account{
		ID:         id,
		Type:       "Checking",
		Nickname:   r.cfg.OverrideAccountAlias,
		CustomerID: r.cfg.CustomerID,
	}
	if fetched, err := r.client.FetchAccount(ctx, id); err == nil {
		synthetic.Balance = fetched.Balance
	} else {
		r.logger.WarnContext(ctx, "override account lookup failed",
			"account_id", id, "error", err)
	}
	r.logger.InfoContext(ctx, "injected override checking account", "account_id", id)
	return append(accounts, synthetic)
}

func (r *Reconciler) collectPurchases(ctx context.Context, accountID, alias string, acc *batchAccumulator) {
	purchases, err := r.client.FetchPurchases(ctx, accountID)
	if err != nil {
		r.logger.WarnContext(ctx, "fetch purchases failed",
			"account_id", accountID, "error", err)
		acc.fail()
		return
	}
	for _, p := range purchases {
		if !acc.claimPurchase(p.ID) {
			continue
		}
		title := p.Description
		if p.MerchantID != "" {
			acc.merchantLookup()
			title = r.merchants.resolve(ctx, p.MerchantID, p.Description)
		}
		acc.addPurchase(core.Transaction{
			ID:        p.ID,
			Date:      r.parseDate(ctx, p.PurchaseDate, p.ID),
			Title:     title,
			Category:  r.categoryFor(ctx, p.ID, alias),
			Amount:    core.MoneyFromFloat(p.Amount),
			Kind:      core.Expense,
			AccountID: accountID,
			SourceID:  p.ID,
		})
	}
}

func (r *Reconciler) collectDeposits(ctx context.Context, accountID, alias string, acc *batchAccumulator) {
	deposits, err := r.client.FetchDeposits(ctx, accountID)
	if err != nil {
		r.logger.WarnContext(ctx, "fetch deposits failed",
			"account_id", accountID, "error", err)
		acc.fail()
		return
	}
	for _, d := range deposits {
		if !acc.claimDeposit(d.ID) {
			continue
		}
		acc.addDeposit(core.Transaction{
			ID:        d.ID,
			Date:      r.parseDate(ctx, d.TransactionDate, d.ID),
			Title:     d.Description,
			Category:  alias,
			Amount:    core.MoneyFromFloat(d.Amount),
			Kind:      core.Income,
			AccountID: accountID,
			SourceID:  d.ID,
		})
	}
}

// categoryFor resolves a purchase category: the stored user override
// wins, otherwise the account alias is the default.
func (r *Reconciler) categoryFor(ctx context.Context, purchaseID, alias string) string {
	if r.overrides == nil {
		return alias
	}
	category, found, err := r.overrides.Get(ctx, purchaseID)
	if err != nil {
		r.logger.WarnContext(ctx, "override lookup failed",
			"purchase_id", purchaseID, "error", err)
		return alias
	}
	if found {
		return category
	}
	return alias
}

func (r *Reconciler) parseDate(ctx context.Context, raw, sourceID string) time.Time {
	when, ok := core.ParseAPIDate(raw)
	if !ok {
		r.logger.WarnContext(ctx, "unparseable transaction date, defaulting to now",
			"source_id", sourceID, "raw_date", raw)
	}
	return when
}

// batchAccumulator gathers the pass's transactions behind one mutex and
// dedups records seen twice (generic account loop plus the explicit
// override-id fetch).
type batchAccumulator struct {
	mu            sync.Mutex
	batch         []core.Transaction
	seenPurchases map[string]struct{}
	seenDeposits  map[string]struct{}
	stats         Stats
}

func newBatchAccumulator() *batchAccumulator {
	return &batchAccumulator{
		seenPurchases: make(map[string]struct{}),
		seenDeposits:  make(map[string]struct{}),
	}
}

// claimPurchase reserves a purchase id for this pass; the second claim of
// the same id loses.
func (a *batchAccumulator) claimPurchase(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, seen := a.seenPurchases[id]; seen {
		return false
	}
	a.seenPurchases[id] = struct{}{}
	return true
}

func (a *batchAccumulator) claimDeposit(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, seen := a.seenDeposits[id]; seen {
		return false
	}
	a.seenDeposits[id] = struct{}{}
	return true
}

func (a *batchAccumulator) addPurchase(tx core.Transaction) {
	a.mu.Lock()
	a.batch = append(a.batch, tx)
	a.stats.Purchases++
	a.mu.Unlock()
}

func (a *batchAccumulator) addDeposit(tx core.Transaction) {
	a.mu.Lock()
	a.batch = append(a.batch, tx)
	a.stats.Deposits++
	a.mu.Unlock()
}

func (a *batchAccumulator) merchantLookup() {
	a.mu.Lock()
	a.stats.MerchantLookups++
	a.mu.Unlock()
}

func (a *batchAccumulator) fail() {
	a.mu.Lock()
	a.stats.Failures++
	a.mu.Unlock()
}

func (a *batchAccumulator) finish() ([]core.Transaction, Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.batch, a.stats
}
