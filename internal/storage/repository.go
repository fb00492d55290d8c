// Package storage implements the SQLite ledger backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fortuno/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Balance implements ledger.BalanceReader. The user and its zero balance
// are created on first access, inside the same transaction as the read.
func (r *SQLiteRepository) Balance(ctx context.Context, chatID int64) (core.Money, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Money{}, fmt.Errorf("begin balance tx: %w", err)
	}
	defer tx.Rollback()

	userID, err := upsertUser(ctx, tx, chatID)
	if err != nil {
		return core.Money{}, err
	}
	if err := ensureBalance(ctx, tx, userID); err != nil {
		return core.Money{}, err
	}

	var cents int64
	if err := tx.QueryRowContext(ctx,
		`SELECT balance_cents FROM balances WHERE user_id = ?`, userID,
	).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("select balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Money{}, fmt.Errorf("commit balance tx: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// Record implements ledger.TransactionRecorder. All writes happen in one
// transaction and the balance is updated with a relative delta, so two
// concurrent records for the same chat serialize instead of losing one.
func (r *SQLiteRepository) Record(ctx context.Context, chatID int64, e core.Entry) (core.RecordResult, error) {
	if err := e.Validate(); err != nil {
		return core.RecordResult{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.RecordResult{}, fmt.Errorf("begin record tx: %w", err)
	}
	defer tx.Rollback()

	userID, err := upsertUser(ctx, tx, chatID)
	if err != nil {
		return core.RecordResult{}, err
	}
	if err := ensureBalance(ctx, tx, userID); err != nil {
		return core.RecordResult{}, err
	}

	var categoryID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO categories (name) VALUES (?)
		 ON CONFLICT(name) DO UPDATE SET name = excluded.name
		 RETURNING id`, e.Category,
	).Scan(&categoryID); err != nil {
		return core.RecordResult{}, fmt.Errorf("upsert category: %w", err)
	}

	signed := e.Signed()
	var txID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO transactions (user_id, category_id, kind, amount_cents)
		 VALUES (?, ?, ?, ?) RETURNING id`,
		userID, categoryID, string(e.Kind), signed.Cents,
	).Scan(&txID); err != nil {
		return core.RecordResult{}, fmt.Errorf("insert transaction: %w", err)
	}

	var balanceCents int64
	if err := tx.QueryRowContext(ctx,
		`UPDATE balances SET balance_cents = balance_cents + ?
		 WHERE user_id = ? RETURNING balance_cents`,
		signed.Cents, userID,
	).Scan(&balanceCents); err != nil {
		return core.RecordResult{}, fmt.Errorf("update balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.RecordResult{}, fmt.Errorf("commit record tx: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"transaction_id", txID,
		"chat_id", chatID,
		"kind", string(e.Kind),
		"amount_cents", signed.Cents,
		"category", e.Category,
		"balance_cents", balanceCents)

	return core.RecordResult{
		TransactionID: txID,
		Balance:       core.Money{Cents: balanceCents},
	}, nil
}

// Categories implements ledger.CategoryLister.
func (r *SQLiteRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return names, nil
}

// upsertUser returns the user id for a chat, creating the row if absent.
// The DO UPDATE arm keeps RETURNING populated on the existing-row path.
func upsertUser(ctx context.Context, tx *sql.Tx, chatID int64) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO users (chat_id) VALUES (?)
		 ON CONFLICT(chat_id) DO UPDATE SET chat_id = excluded.chat_id
		 RETURNING id`, chatID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}
	return id, nil
}

func ensureBalance(ctx context.Context, tx *sql.Tx, userID int64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO balances (user_id) VALUES (?)
		 ON CONFLICT(user_id) DO NOTHING`, userID,
	); err != nil {
		return fmt.Errorf("ensure balance: %w", err)
	}
	return nil
}
