package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"
)

func TestChainHeightAndMine(t *testing.T) {
	e, clock := newLedgerServer()

	rec := do(t, e, stdhttp.MethodGet, "/chain/height", nil)
	var h map[string]uint64
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil || h["height"] != 1000 {
		t.Fatalf("height = %v, %v", h, err)
	}

	// empty body mines one block
	rec = do(t, e, stdhttp.MethodPost, "/chain/blocks", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("mine status = %d; body=%s", rec.Code, rec.Body.String())
	}
	rec = do(t, e, stdhttp.MethodPost, "/chain/blocks", mustJSON(map[string]any{"count": 9}))
	if err := json.Unmarshal(rec.Body.Bytes(), &h); err != nil || h["height"] != 1010 || h["mined"] != 9 {
		t.Fatalf("mine = %v, %v", h, err)
	}
	if got, _ := clock.Height(context.Background()); got != 1010 {
		t.Fatalf("clock height = %d", got)
	}
}

func TestChainMine_Validation(t *testing.T) {
	e, _ := newLedgerServer()

	rec := do(t, e, stdhttp.MethodPost, "/chain/blocks", mustJSON(map[string]any{"count": 100001}))
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	rec = do(t, e, stdhttp.MethodPost, "/chain/blocks", strings.NewReader(`{"count":`))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChainMine_ExplicitZeroRejected(t *testing.T) {
	e, clock := newLedgerServer()

	rec := do(t, e, stdhttp.MethodPost, "/chain/blocks", mustJSON(map[string]any{"count": 0}))
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body=%s", rec.Code, rec.Body.String())
	}
	if er := decodeErr(t, rec); !containsFieldMsg(er.Details, "Count", "greater than or equal to 1") {
		t.Fatalf("missing count detail: %+v", er.Details)
	}
	if got, _ := clock.Height(context.Background()); got != 1000 {
		t.Fatalf("clock moved on rejected request: %d", got)
	}

	// {} behaves like an empty body
	rec = do(t, e, stdhttp.MethodPost, "/chain/blocks", strings.NewReader(`{}`))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("empty object status = %d", rec.Code)
	}
	if got, _ := clock.Height(context.Background()); got != 1001 {
		t.Fatalf("clock height = %d, want 1001", got)
	}
}
