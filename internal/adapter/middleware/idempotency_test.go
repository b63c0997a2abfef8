package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	testReqID  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testSender = "tx-sender"
)

// setupEcho mounts the middleware on offer/repay routes; calls counts handler runs.
func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) (*echo.Echo, *int32) {
	var calls int32
	counted := func(c echo.Context) error {
		atomic.AddInt32(&calls, 1)
		return handler(c)
	}
	e := echo.New()
	e.HideBanner = true
	mw := Idempotency(rdb, ttl)
	e.POST("/loans", counted, mw)
	e.POST("/loans/:borrower/repay", counted, mw)
	e.GET("/loans", counted, mw)
	return e, &calls
}

func headers(at time.Time) map[string]string {
	return map[string]string{
		HeaderRequestID: testReqID,
		HeaderRequestAt: at.UTC().Format(time.RFC3339),
		HeaderSender:    testSender,
	}
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func offered(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]string{"message": "Loan offered successfully"})
}

func Test_BypassOnGET(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, time.Minute, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	if rec := doReq(t, e, http.MethodGet, "/loans", nil, nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_HeaderValidation(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, calls := setupEcho(rdb, time.Minute, offered)
	now := time.Now()

	cases := map[string]func(h map[string]string){
		"missing request id": func(h map[string]string) { delete(h, HeaderRequestID) },
		"invalid request id": func(h map[string]string) { h[HeaderRequestID] = "NOT-VALID" },
		"bad request at":     func(h map[string]string) { h[HeaderRequestAt] = "not-a-time" },
		"skewed past": func(h map[string]string) {
			h[HeaderRequestAt] = now.Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		},
		"skewed future": func(h map[string]string) {
			h[HeaderRequestAt] = now.Add(maxClockSkew + time.Minute).Format(time.RFC3339)
		},
		"missing sender": func(h map[string]string) { delete(h, HeaderSender) },
		"invalid sender": func(h map[string]string) { h[HeaderSender] = "has space" },
	}
	for name, mutate := range cases {
		h := headers(now)
		mutate(h)
		rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{}`), h)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s => want 400, got %d", name, rec.Code)
		}
	}
	if *calls != 0 {
		t.Fatalf("handler ran %d times for rejected requests", *calls)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, calls := setupEcho(rdb, 2*time.Minute, offered)
	h := headers(time.Now())
	body := `{"borrower":"borrower1","amount":1000}`

	rec1 := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(body), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d", rec1.Code)
	}
	rec2 := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(body), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d", rec2.Code)
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatalf("replay header missing")
	}
	if *calls != 1 {
		t.Fatalf("handler calls = %d, want 1", *calls)
	}
}

func Test_SameRequestID_DifferentBorrowerPaths(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, calls := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"borrower": c.Param("borrower")})
	})
	h := headers(time.Now())

	a := doReq(t, e, http.MethodPost, "/loans/alice/repay", strings.NewReader(`{"amount":1050}`), h)
	b := doReq(t, e, http.MethodPost, "/loans/bob/repay", strings.NewReader(`{"amount":1050}`), h)
	if a.Code != http.StatusOK || b.Code != http.StatusOK {
		t.Fatalf("codes = %d, %d", a.Code, b.Code)
	}
	if !strings.Contains(b.Body.String(), "bob") || *calls != 2 {
		t.Fatalf("second borrower got a replay: %s (calls=%d)", b.Body.String(), *calls)
	}
}

func Test_DomainRejectionIsReplayed(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, calls := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Loan already offered to this borrower"})
	})
	h := headers(time.Now())

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{}`), h)
		if rec.Code != http.StatusConflict || !strings.Contains(rec.Body.String(), "already offered") {
			t.Fatalf("attempt %d: %d %s", i, rec.Code, rec.Body.String())
		}
	}
	if *calls != 1 {
		t.Fatalf("handler calls = %d, want 1", *calls)
	}
}

func Test_ServerErrorReleasesKey(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var fail atomic.Bool
	fail.Store(true)
	e, calls := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		if fail.Load() {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return offered(c)
	})
	h := headers(time.Now())

	if rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{}`), h); rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	fail.Store(false)
	if rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{}`), h); rec.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec.Code)
	}
	if *calls != 2 {
		t.Fatalf("handler calls = %d, want 2", *calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 2*time.Minute, offered)
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, "/loans", testSender, testReqID)
	if ok, err := provisionalSet(context.Background(), rdb, key, idempEntry{
		InProgress: true,
		BodySHA256: bodyHash(body),
		RequestID:  testReqID,
		CreatedAt:  nowUTC(),
	}); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/loans", bytes.NewReader(body), headers(time.Now()))
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e, _ := setupEcho(rdb, 2*time.Minute, offered)
	h := headers(time.Now())

	if rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{"amount":1}`), h); rec.Code != http.StatusCreated {
		t.Fatalf("seed request => %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{"amount":2}`), h)
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same request id => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	e, calls := setupEcho(rdb, time.Minute, offered)

	rec := doReq(t, e, http.MethodPost, "/loans", strings.NewReader(`{}`), headers(time.Now()))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
	if *calls != 0 {
		t.Fatalf("handler must not run without the store")
	}
}
