package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"lending-ledger/internal/adapter/repository/memory"
	"lending-ledger/internal/domain/chain"
	"lending-ledger/internal/domain/uow"
	chainInfra "lending-ledger/internal/infrastructure/chain"
	"lending-ledger/internal/testutil/loanmock"
	"lending-ledger/internal/testutil/repaymentmock"
	uc "lending-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// newLedgerServer wires the real router over an in-memory ledger at height 1000.
func newLedgerServer() (*echo.Echo, *chainInfra.MemoryClock) {
	s := memory.NewStore()
	clock := chainInfra.NewMemoryClock(chain.DefaultStartHeight)
	usecase := uc.NewUsecase(s.Loans(), s.Repayments(), memory.NewUoW(s), clock, "")

	e := echo.New()
	e.Validator = NewValidator()
	Register(e, NewHandler(), NewLoanHandler(usecase), NewChainHandler(usecase))
	return e, clock
}

func do(t *testing.T, e *echo.Echo, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad error json: %v; raw=%s", err, rec.Body.String())
	}
	return er
}

func uowRepos(l *loanmock.Repo, r *repaymentmock.Repo) uow.Repos {
	return uow.Repos{Loans: l, Repayments: r}
}
