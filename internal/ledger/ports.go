// Package ledger declares the ports the command executor needs from a
// durable ledger store.
package ledger

import (
	"context"

	"fortuno/internal/core"
)

type (
	// BalanceReader returns the running balance for a chat, creating the
	// user and a zero balance on first access.
	BalanceReader interface {
		Balance(ctx context.Context, chatID int64) (core.Money, error)
	}

	// TransactionRecorder applies one entry as a single atomic unit:
	// get-or-create user, balance and category, insert the signed
	// transaction and add the same signed delta to the balance. Either
	// everything lands or nothing does, and two near-simultaneous records
	// for the same chat must both be reflected in the final balance.
	TransactionRecorder interface {
		Record(ctx context.Context, chatID int64, e core.Entry) (core.RecordResult, error)
	}

	// CategoryLister returns all category names in creation order.
	// Categories are shared across users.
	CategoryLister interface {
		Categories(ctx context.Context) ([]string, error)
	}

	// Ledger is the full store surface the executor depends on.
	Ledger interface {
		BalanceReader
		TransactionRecorder
		CategoryLister
	}
)
