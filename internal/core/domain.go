package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

type (
	// Kind is the direction of a transaction. Amounts are magnitudes;
	// the sign is carried here, never by a negative Money.
	Kind string

	// Transaction unifies remote purchases, remote deposits and manual
	// entries into one record.
	Transaction struct {
		ID       string
		Date     time.Time
		Title    string
		Category string
		Amount   Money
		Kind     Kind
		// AccountID links back to an Account when known.
		AccountID string
		// SourceID is the natural id of the remote record this transaction
		// was built from (purchase or deposit id). Empty for manual entries.
		// Non-empty SourceIDs are the upsert key during ledger merges.
		SourceID string
	}

	// Account is one external bank or credit account.
	Account struct {
		ID         string
		Type       string
		Nickname   string
		Balance    Money
		CustomerID string
	}

	// Budget is a named monthly spending ceiling matched against
	// transaction categories.
	Budget struct {
		ID    string
		Name  string
		Limit Money
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptyName       = errors.New("empty name")
	ErrNegativeBalance = errors.New("amount cannot be negative")
)

// Alias returns the display name of the account: the nickname when set,
// otherwise the account type.
func (a Account) Alias() string {
	if strings.TrimSpace(a.Nickname) != "" {
		return a.Nickname
	}
	return a.Type
}

// IsCreditCard reports whether the account type looks like a credit
// account ("credit" or "card" substring, case-insensitive).
func (a Account) IsCreditCard() bool {
	t := strings.ToLower(a.Type)
	return strings.Contains(t, "credit") || strings.Contains(t, "card")
}

// IsChecking reports whether the account type looks like a checking account.
func (a Account) IsChecking() bool {
	return strings.Contains(strings.ToLower(a.Type), "checking")
}

// Validate checks a transaction built at a boundary (user input or remote
// mapping). The ledger assumes already-validated records.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Title)) == 0 {
		return ErrEmptyTitle
	}
	if t.Amount.Cents < 0 {
		return ErrNegativeBalance
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	switch t.Kind {
	case Expense, Income:
	default:
		return ErrInvalidKind
	}
	return nil
}

func (b Budget) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
