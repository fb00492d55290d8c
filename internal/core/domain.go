package core

import (
	"errors"
	"time"
)

const (
	Income  Kind = "ingreso"
	Expense Kind = "gasto"
)

type (
	// Kind is the direction of a ledger entry.
	Kind string

	Money struct {
		Cents int64
	}

	// User is keyed by the Telegram chat identifier. Created lazily on
	// first interaction, never deleted.
	User struct {
		ID        int64
		ChatID    int64
		Username  string
		CreatedAt time.Time
	}

	// Entry is a request to record one transaction. Amount is the
	// user-typed magnitude; the sign is derived from Kind when stored.
	Entry struct {
		Kind     Kind
		Amount   Money
		Category string
	}

	// Transaction is an immutable ledger row. Amount is signed:
	// income positive, expense negative.
	Transaction struct {
		ID        int64
		UserID    int64
		Category  string
		Kind      Kind
		Amount    Money
		CreatedAt time.Time
	}

	// RecordResult reports the outcome of an atomic ledger record.
	RecordResult struct {
		TransactionID int64
		// Balance is the user's balance after the entry was applied.
		Balance Money
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrEmptyCategory = errors.New("empty category")
)

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

// Signed returns the amount with the sign encoding the entry direction.
func (e Entry) Signed() Money {
	if e.Kind == Expense {
		return Money{Cents: -e.Amount.Cents}
	}
	return e.Amount
}

func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if e.Category == "" {
		return ErrEmptyCategory
	}
	return nil
}
