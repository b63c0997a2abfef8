package chainmock

import (
	"context"
	"errors"

	"lending-ledger/internal/domain/chain"
)

var _ chain.Clock = (*Clock)(nil)

var errUnimplemented = errors.New("chainmock: method not implemented")

// Clock is a function-backed mock that satisfies chain.Clock.
type Clock struct {
	HeightFn  func(ctx context.Context) (uint64, error)
	AdvanceFn func(ctx context.Context, n uint64) (uint64, error)
}

// At returns a clock fixed at height h.
func At(h uint64) *Clock {
	return &Clock{HeightFn: func(context.Context) (uint64, error) { return h, nil }}
}

func (m *Clock) Height(ctx context.Context) (uint64, error) {
	if m.HeightFn != nil {
		return m.HeightFn(ctx)
	}
	return 0, errUnimplemented
}

func (m *Clock) Advance(ctx context.Context, n uint64) (uint64, error) {
	if m.AdvanceFn != nil {
		return m.AdvanceFn(ctx, n)
	}
	return 0, errUnimplemented
}
