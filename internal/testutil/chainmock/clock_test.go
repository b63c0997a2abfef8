package chainmock

import (
	"context"
	"errors"
	"testing"
)

func TestClock(t *testing.T) {
	ctx := context.Background()

	c := At(1500)
	if h, err := c.Height(ctx); err != nil || h != 1500 {
		t.Fatalf("Height: got %d, %v", h, err)
	}
	// Advance not set on At
	if _, err := c.Advance(ctx, 1); !errors.Is(err, errUnimplemented) {
		t.Fatalf("Advance default: want errUnimplemented, got %v", err)
	}

	var got uint64
	c = &Clock{AdvanceFn: func(_ context.Context, n uint64) (uint64, error) { got = n; return 1000 + n, nil }}
	if h, err := c.Advance(ctx, 7); err != nil || h != 1007 || got != 7 {
		t.Fatalf("Advance: got %d (n=%d), %v", h, got, err)
	}
	if _, err := c.Height(ctx); !errors.Is(err, errUnimplemented) {
		t.Fatalf("Height default: want errUnimplemented, got %v", err)
	}
}
