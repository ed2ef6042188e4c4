package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
)

// DefaultLockWait bounds how long an operation waits for account locks.
const DefaultLockWait = 2 * time.Second

// AccountLocker serializes operations per account. Locks for several accounts
// are always taken in ascending id order so concurrent callers cannot deadlock.
// A semaphore lives only while someone holds or waits for it.
type AccountLocker struct {
	mu   sync.Mutex
	sems map[string]*accountSem
	wait time.Duration
}

type accountSem struct {
	sem  *semaphore.Weighted
	refs int
}

// NewAccountLocker creates a locker whose acquisitions give up after wait.
func NewAccountLocker(wait time.Duration) *AccountLocker {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &AccountLocker{sems: make(map[string]*accountSem), wait: wait}
}

func (l *AccountLocker) ref(id string) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[id]
	if !ok {
		s = &accountSem{sem: semaphore.NewWeighted(1)}
		l.sems[id] = s
	}
	s.refs++
	return s.sem
}

func (l *AccountLocker) unref(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[id]
	if !ok {
		return
	}
	s.refs--
	if s.refs <= 0 {
		delete(l.sems, id)
	}
}

// Lock acquires the locks of every distinct id and returns the release func.
// If the wait elapses the locks already taken are released and an
// apperrors.ErrContention error is returned.
func (l *AccountLocker) Lock(ctx context.Context, ids ...string) (func(), error) {
	ordered := sortedUnique(ids)

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(ordered))
	sems := make([]*semaphore.Weighted, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			sems[i].Release(1)
			l.unref(held[i])
		}
	}

	for _, id := range ordered {
		s := l.ref(id)
		if err := s.Acquire(waitCtx, 1); err != nil {
			l.unref(id)
			release()
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: account %s is locked by another operation", apperrors.ErrContention, id)
		}
		held = append(held, id)
		sems = append(sems, s)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
