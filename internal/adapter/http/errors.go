package http

import (
	"errors"
	"net/http"

	"lending-ledger/internal/domain/chain"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Map domain errors → HTTP codes. Domain messages are returned verbatim.
func statusFor(err error) int {
	switch {
	case errors.Is(err, loan.ErrLoanExists):
		return http.StatusConflict
	case errors.Is(err, loan.ErrLoanNotFound), errors.Is(err, repayment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, loan.ErrDeadlinePassed), errors.Is(err, loan.ErrInsufficientRepayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loan.ErrInvalidInput), errors.Is(err, chain.ErrInvalidAdvance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		return c.JSON(code, ErrorResponse{Error: "internal error"})
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
