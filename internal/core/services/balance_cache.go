package services

import (
	"sync"

	"github.com/shopspring/decimal"
)

type cachedBalance struct {
	balance decimal.Decimal
	version int64
}

// balanceCache holds the full-history balance of accounts along with the
// store activity version it was computed at.
type balanceCache struct {
	mu      sync.RWMutex
	entries map[string]cachedBalance
}

func newBalanceCache() *balanceCache {
	return &balanceCache{entries: make(map[string]cachedBalance)}
}

func (c *balanceCache) get(accountID string) (cachedBalance, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[accountID]
	return e, ok
}

func (c *balanceCache) put(accountID string, balance decimal.Decimal, version int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[accountID] = cachedBalance{balance: balance, version: version}
}

// applyDelta adjusts a cached balance after a committed write. Accounts that are
// not cached are left alone and computed on first read.
func (c *balanceCache) applyDelta(accountID string, delta decimal.Decimal, versions int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[accountID]
	if !ok {
		return
	}
	c.entries[accountID] = cachedBalance{balance: e.balance.Add(delta), version: e.version + versions}
}

func (c *balanceCache) invalidate(accountID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, accountID)
}
