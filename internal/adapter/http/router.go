package http

import "github.com/labstack/echo/v4"

// Register mounts every route on e. mutating wraps the write endpoints
// (idempotency); nil middlewares are skipped.
func Register(e *echo.Echo, h *Handler, loans *LoanHandler, chain *ChainHandler, mutating ...echo.MiddlewareFunc) {
	mw := make([]echo.MiddlewareFunc, 0, len(mutating))
	for _, m := range mutating {
		if m != nil {
			mw = append(mw, m)
		}
	}

	e.GET("/health", h.Health)

	e.GET("/loans", loans.ListLoans)
	e.POST("/loans", loans.OfferLoan, mw...)
	e.GET("/loans/:borrower", loans.GetLoan)
	e.POST("/loans/:borrower/repay", loans.RepayLoan, mw...)
	e.GET("/loans/:borrower/repayments", loans.ListRepayments)
	e.GET("/repayments/:receipt_id", loans.GetRepayment)

	e.GET("/chain/height", chain.Height)
	e.POST("/chain/blocks", chain.Mine, mw...)
}
