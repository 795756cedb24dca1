package handlers

import (
	"net/http"
	"strconv"

	"settlement-service/internal/services"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

type WithdrawalHandler struct {
	Withdrawals *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawals *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{Withdrawals: withdrawals}
}

type createWithdrawalRequest struct {
	Amount        int64  `json:"amount" binding:"required"`
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name" binding:"required"`
}

func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	var req createWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)

	withdrawal, err := h.Withdrawals.RequestWithdrawal(role, services.WithdrawRequestDTO{
		Amount:        req.Amount,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(withdrawal, "Withdrawal request created"))
}

func (h *WithdrawalHandler) ListOwnWithdrawals(c *gin.Context) {
	role := RoleFrom(c)

	withdrawals, err := h.Withdrawals.FetchUserWithdrawals(role, services.FetchWithdrawalsDTO{
		Pending: c.Query("pending") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(withdrawals, "Successful"))
}

func (h *WithdrawalHandler) CancelWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}

	if err := h.Withdrawals.Cancel(RoleFrom(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal cancelled"))
}

func (h *WithdrawalHandler) GetBankAccounts(c *gin.Context) {
	accounts, err := h.Withdrawals.GetUserBankAccounts(RoleFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(accounts, "Successful"))
}

type saveAccountRequest struct {
	BankCode      string `json:"bank_code" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountName   string `json:"account_name"`
}

func (h *WithdrawalHandler) SaveBankAccount(c *gin.Context) {
	var req saveAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	account, err := h.Withdrawals.SaveBankAccount(RoleFrom(c), services.SaveAccountDTO{
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(account, "Account saved"))
}
