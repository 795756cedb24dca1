package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"settlement-service/internal/services"
	"settlement-service/pkg/common"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the approval, disbursement and revenue-share
// surfaces. All routes behind it require the admin role.
type AdminHandler struct {
	Withdrawals   *services.WithdrawalService
	Disbursements *services.DisbursementService
	Shares        *services.RevenueShareService
}

func NewAdminHandler(withdrawals *services.WithdrawalService, disbursements *services.DisbursementService, shares *services.RevenueShareService) *AdminHandler {
	return &AdminHandler{Withdrawals: withdrawals, Disbursements: disbursements, Shares: shares}
}

func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	role := RoleFrom(c)

	requesterId, _ := strconv.Atoi(c.Query("requester_id"))
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.Withdrawals.ListWithdrawals(services.ListWithdrawalsDTO{
		ClientId:       role.ClientId,
		From:           c.Query("from"),
		To:             c.Query("to"),
		ApprovalStatus: c.Query("status"),
		RequesterId:    requesterId,
		BankName:       c.Query("bank_name"),
		Page:           page,
		Limit:          limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	if err := h.Withdrawals.Approve(role.ClientId, id, fmt.Sprintf("admin:%d", role.RequesterId())); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal approved"))
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid withdrawal id", nil, http.StatusBadRequest))
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Rejection reason is required", nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	if err := h.Withdrawals.Reject(role.ClientId, id, req.Reason, fmt.Sprintf("admin:%d", role.RequesterId())); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(nil, "Withdrawal rejected"))
}

type disburseRequest struct {
	Ids []int `json:"ids" binding:"required"`
}

// DisburseBatch runs a batch synchronously and returns the per-item
// outcomes. One failed item never fails the batch.
func (h *AdminHandler) DisburseBatch(c *gin.Context) {
	var req disburseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	result, err := h.Disbursements.Disburse(c.Request.Context(), role.ClientId, req.Ids)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(result, "Disbursement batch processed"))
}

// QueueDisburseBatch hands the batch to the worker instead of running it
// inline.
func (h *AdminHandler) QueueDisburseBatch(c *gin.Context) {
	var req disburseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	if err := h.Disbursements.EnqueueBatch(role.ClientId, req.Ids); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, common.NewSuccessResponse(nil, "Disbursement batch queued"))
}

func (h *AdminHandler) GetRevenueShare(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user id", nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	share, err := h.Shares.GetShare(role.ClientId, userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(share, "Revenue share fetched"))
}

type setShareRequest struct {
	PercentToMember *int `json:"percent_to_member" binding:"required"`
}

func (h *AdminHandler) SetRevenueShare(c *gin.Context) {
	userId, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid user id", nil, http.StatusBadRequest))
		return
	}

	var req setShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error(), nil, http.StatusBadRequest))
		return
	}

	role := RoleFrom(c)
	share, err := h.Shares.SetShare(role.ClientId, userId, *req.PercentToMember, fmt.Sprintf("admin:%d", role.RequesterId()))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(share, "Revenue share updated"))
}
