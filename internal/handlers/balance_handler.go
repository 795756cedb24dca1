package handlers

import (
	"net/http"

	"settlement-service/internal/services"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	Balance *services.BalanceService
}

func NewBalanceHandler(balance *services.BalanceService) *BalanceHandler {
	return &BalanceHandler{Balance: balance}
}

// GetBalance returns the caller's derived balance: gross and net
// revenue, outstanding withdrawals and the withdrawable remainder.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	role := RoleFrom(c)

	summary, err := h.Balance.ComputeBalance(role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(summary, "Balance fetched"))
}
