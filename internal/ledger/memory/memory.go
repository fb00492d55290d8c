// Package memory provides an in-memory ledger backend. It backs local
// development runs and tests; the mutex gives it the same atomic Record
// semantics the SQLite backend gets from a transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"fortuno/internal/core"
)

type user struct {
	id           int64
	chatID       int64
	balanceCents int64
	createdAt    time.Time
}

type Store struct {
	mu     sync.Mutex
	users  map[int64]*user // keyed by chat id
	cats   []string        // creation order
	catSet map[string]bool
	txs    []core.Transaction
	nextID int64
}

func New() *Store {
	return &Store{
		users:  make(map[int64]*user),
		catSet: make(map[string]bool),
		nextID: 1,
	}
}

func (s *Store) getOrCreateUser(chatID int64) *user {
	u, ok := s.users[chatID]
	if !ok {
		u = &user{id: s.nextID, chatID: chatID, createdAt: time.Now()}
		s.nextID++
		s.users[chatID] = u
	}
	return u
}

// Balance implements ledger.BalanceReader.
func (s *Store) Balance(_ context.Context, chatID int64) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.getOrCreateUser(chatID)
	return core.Money{Cents: u.balanceCents}, nil
}

// Record implements ledger.TransactionRecorder.
func (s *Store) Record(_ context.Context, chatID int64, e core.Entry) (core.RecordResult, error) {
	if err := e.Validate(); err != nil {
		return core.RecordResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.getOrCreateUser(chatID)
	if !s.catSet[e.Category] {
		s.catSet[e.Category] = true
		s.cats = append(s.cats, e.Category)
	}

	signed := e.Signed()
	tx := core.Transaction{
		ID:        s.nextID,
		UserID:    u.id,
		Category:  e.Category,
		Kind:      e.Kind,
		Amount:    signed,
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.txs = append(s.txs, tx)
	u.balanceCents += signed.Cents

	return core.RecordResult{
		TransactionID: tx.ID,
		Balance:       core.Money{Cents: u.balanceCents},
	}, nil
}

// Categories implements ledger.CategoryLister.
func (s *Store) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cats...), nil
}

// Transactions returns a copy of all recorded transactions, oldest first.
func (s *Store) Transactions() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...)
}
