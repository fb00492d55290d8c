// Package backend selects and constructs the ledger store implementation.
package backend

import (
	"fmt"
	"log/slog"

	"fortuno/internal/ledger"
	"fortuno/internal/ledger/memory"
	"fortuno/internal/storage"
)

// Type names a ledger backend implementation.
type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result holds the constructed ledger and its cleanup function.
type Result struct {
	Ledger  ledger.Ledger
	Cleanup CleanupFunc
}

// Config holds what backend construction needs.
type Config struct {
	Type         Type
	SQLiteDBPath string
}

// Create builds the configured backend.
func Create(cfg Config) (*Result, error) {
	switch cfg.Type {
	case Memory:
		slog.Info("Initialized memory ledger backend")
		return &Result{
			Ledger:  memory.New(),
			Cleanup: func() error { return nil },
		}, nil

	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("create sqlite backend: %w", err)
		}
		slog.Info("Initialized SQLite ledger backend", "path", cfg.SQLiteDBPath)
		return &Result{
			Ledger:  repo,
			Cleanup: repo.Close,
		}, nil

	default:
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}
}
