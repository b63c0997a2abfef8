package http

import (
	"net/http"

	"lending-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *loan.Usecase }

func NewLoanHandler(uc *loan.Usecase) *LoanHandler { return &LoanHandler{uc: uc} }

type offerLoanReq struct {
	Borrower     string  `json:"borrower"      validate:"required,borrower"`
	Amount       float64 `json:"amount"        validate:"gt=0,dec2"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0,dec2"`
	// any height, including one already passed
	Deadline uint64 `json:"deadline"`
}

type repayLoanReq struct {
	// zero is accepted here so the ledger answers with its own
	// insufficient-amount error
	Amount float64 `json:"amount" validate:"gte=0,dec2"`
}

type receiptReq struct {
	ReceiptID string `param:"receipt_id" validate:"required,hex32"`
}

func (h *LoanHandler) OfferLoan(c echo.Context) error {
	var req offerLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.uc.Offer(c.Request().Context(), loan.OfferInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	borrower := c.Param("borrower")
	if !validBorrower(borrower) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower path param"})
	}
	var req repayLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.uc.Repay(c.Request().Context(), loan.RepayInput{Borrower: borrower, Amount: req.Amount})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	borrower := c.Param("borrower")
	if !validBorrower(borrower) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), borrower)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	list, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loans": list})
}

func (h *LoanHandler) ListRepayments(c echo.Context) error {
	borrower := c.Param("borrower")
	if !validBorrower(borrower) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid borrower path param"})
	}
	list, err := h.uc.Receipts(c.Request().Context(), borrower)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"repayments": list})
}

func (h *LoanHandler) GetRepayment(c echo.Context) error {
	var req receiptReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid receipt_id path param"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid receipt_id path param", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Receipt(c.Request().Context(), req.ReceiptID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
