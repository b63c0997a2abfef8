package http

import (
	"net/http"

	"lending-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type ChainHandler struct{ uc *loan.Usecase }

func NewChainHandler(uc *loan.Usecase) *ChainHandler { return &ChainHandler{uc: uc} }

type mineReq struct {
	Count *uint64 `json:"count" validate:"omitnil,gte=1,lte=100000"`
}

func (h *ChainHandler) Height(c echo.Context) error {
	height, err := h.uc.Height(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"height": height})
}

// Mine advances the simulated chain. Only an absent count means one block;
// an explicit 0 is rejected.
func (h *ChainHandler) Mine(c echo.Context) error {
	var req mineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	count := uint64(1)
	if req.Count != nil {
		count = *req.Count
	}
	height, err := h.uc.Advance(c.Request().Context(), count)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]uint64{"height": height, "mined": count})
}
