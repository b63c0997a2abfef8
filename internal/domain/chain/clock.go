package chain

import (
	"context"
	"errors"
)

// DefaultStartHeight is the height a fresh clock reports before any block is mined.
const DefaultStartHeight uint64 = 1000

var ErrInvalidAdvance = errors.New("block count must be at least 1")

// Clock is the simulated block height source. Heights never decrease.
type Clock interface {
	Height(ctx context.Context) (uint64, error)
	// Advance mines n blocks and returns the new height.
	Advance(ctx context.Context, n uint64) (uint64, error)
}
