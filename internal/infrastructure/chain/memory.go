package chain

import (
	"context"
	"sync"

	domain "lending-ledger/internal/domain/chain"
)

var _ domain.Clock = (*MemoryClock)(nil)

// MemoryClock is a process-local block counter.
type MemoryClock struct {
	mu     sync.Mutex
	height uint64
}

func NewMemoryClock(start uint64) *MemoryClock { return &MemoryClock{height: start} }

func (c *MemoryClock) Height(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height, nil
}

func (c *MemoryClock) Advance(_ context.Context, n uint64) (uint64, error) {
	if n == 0 {
		return 0, domain.ErrInvalidAdvance
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
	return c.height, nil
}
