// Package memory is an in-process store used for local runs and service tests.
// Every unit of work runs against a private copy of the state that replaces the
// shared state only when the work succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/dual_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dual_ledger/internal/core/ports/repositories"
)

type state struct {
	operational  map[string]domain.OperationalAccount
	accounting   map[string]domain.AccountingAccount
	categories   map[string]domain.Category
	transactions map[string]domain.OperationalTransaction
	entries      map[string]domain.AccountingEntry
	periods      map[string]domain.AccountingPeriod
	sequences    map[string]int
}

func newState() *state {
	return &state{
		operational:  make(map[string]domain.OperationalAccount),
		accounting:   make(map[string]domain.AccountingAccount),
		categories:   make(map[string]domain.Category),
		transactions: make(map[string]domain.OperationalTransaction),
		entries:      make(map[string]domain.AccountingEntry),
		periods:      make(map[string]domain.AccountingPeriod),
		sequences:    make(map[string]int),
	}
}

// clone copies the maps. Stored values are replaced, never mutated in place,
// so nested slices may be shared.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.operational {
		c.operational[k] = v
	}
	for k, v := range s.accounting {
		c.accounting[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.periods {
		c.periods[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store is an in-memory implementation of portsrepo.Store.
type Store struct {
	mu      sync.RWMutex // guards current
	writeMu sync.Mutex   // one unit of work at a time
	current *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{current: newState()}
}

var _ portsrepo.Store = (*Store)(nil)

// Repositories returns repositories that read the committed state. Writes made
// through them commit immediately.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return provider(&repo{store: s})
}

// WithTx runs fn against a private snapshot and publishes it when fn succeeds
// and ctx is still live.
func (s *Store) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return s.update(ctx, func(st *state) error {
		return fn(ctx, provider(&repo{store: s, tx: st}))
	})
}

func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.current.clone()
	s.mu.RUnlock()

	if err := fn(snapshot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
	return nil
}

func provider(r *repo) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     r,
		CategoryRepo:    r,
		TransactionRepo: r,
		EntryRepo:       r,
		PeriodRepo:      r,
	}
}

// repo implements every repository port over either the committed state or a
// transaction snapshot.
type repo struct {
	store *Store
	tx    *state
}

func (r *repo) read(fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return fn(r.store.current)
}

func (r *repo) write(ctx context.Context, fn func(st *state) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.store.update(ctx, fn)
}
