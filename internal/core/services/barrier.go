package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/dual_ledger/internal/apperrors"
)

// DefaultCloseWait bounds how long a close waits for admitted operations to drain.
const DefaultCloseWait = 5 * time.Second

type periodGate struct {
	inflight int
	closing  bool
	drained  chan struct{}
}

// PeriodBarrier lets posting operations into a period run concurrently while
// giving a period close exclusive, drained access.
type PeriodBarrier struct {
	mu    sync.Mutex
	gates map[string]*periodGate
}

// NewPeriodBarrier creates an empty barrier.
func NewPeriodBarrier() *PeriodBarrier {
	return &PeriodBarrier{gates: make(map[string]*periodGate)}
}

// prune drops a gate nobody uses. Closed periods keep theirs so admissions stay refused.
// Callers hold b.mu.
func (b *PeriodBarrier) prune(periodID string, g *periodGate) {
	if g.inflight == 0 && !g.closing && g.drained == nil {
		delete(b.gates, periodID)
	}
}

func (b *PeriodBarrier) gate(periodID string) *periodGate {
	g, ok := b.gates[periodID]
	if !ok {
		g = &periodGate{}
		b.gates[periodID] = g
	}
	return g
}

// Admit registers an operation that will post into the period. It fails with
// apperrors.ErrPeriodClosed once a close has started.
func (b *PeriodBarrier) Admit(periodID string) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	g := b.gate(periodID)
	if g.closing {
		return nil, fmt.Errorf("%w: period %s is closing", apperrors.ErrPeriodClosed, periodID)
	}
	g.inflight++

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			g.inflight--
			if g.inflight == 0 && g.drained != nil {
				close(g.drained)
				g.drained = nil
			}
			b.prune(periodID, g)
		})
	}, nil
}

// BeginClose stops new admissions and waits up to wait for admitted operations to finish.
// On timeout the closing flag is withdrawn and apperrors.ErrContention is returned.
func (b *PeriodBarrier) BeginClose(ctx context.Context, periodID string, wait time.Duration) error {
	b.mu.Lock()
	g := b.gate(periodID)
	if g.closing {
		b.mu.Unlock()
		return fmt.Errorf("%w: period %s is already being closed", apperrors.ErrConflict, periodID)
	}
	g.closing = true
	if g.inflight == 0 {
		b.mu.Unlock()
		return nil
	}
	drained := make(chan struct{})
	g.drained = drained
	b.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-drained:
		return nil
	case <-timer.C:
		b.abort(periodID, drained)
		return fmt.Errorf("%w: period %s still has operations in flight", apperrors.ErrContention, periodID)
	case <-ctx.Done():
		b.abort(periodID, drained)
		return ctx.Err()
	}
}

func (b *PeriodBarrier) abort(periodID string, drained chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.gate(periodID)
	g.closing = false
	if g.drained == drained {
		g.drained = nil
	}
	b.prune(periodID, g)
}

// EndClose finishes a close started by BeginClose. A period that was closed keeps
// refusing admissions; otherwise admissions resume.
func (b *PeriodBarrier) EndClose(periodID string, closed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	g := b.gate(periodID)
	g.closing = closed
	b.prune(periodID, g)
}
