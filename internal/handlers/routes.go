package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the HTTP surface. The webhook route is outside
// the identity middleware: it authenticates with the HMAC signature
// instead of gateway headers.
func RegisterRoutes(r *gin.Engine, balance *BalanceHandler, withdrawal *WithdrawalHandler, admin *AdminHandler, webhook *WebhookHandler) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Settlement service up"})
	})

	r.POST("/webhooks/payout", webhook.HandlePayoutEvent)

	authed := r.Group("/", IdentityContext())
	{
		authed.GET("/balance", balance.GetBalance)

		authed.POST("/withdrawals", withdrawal.CreateWithdrawal)
		authed.GET("/withdrawals", withdrawal.ListOwnWithdrawals)
		authed.POST("/withdrawals/:id/cancel", withdrawal.CancelWithdrawal)

		authed.GET("/accounts", withdrawal.GetBankAccounts)
		authed.POST("/accounts", withdrawal.SaveBankAccount)
	}

	adminGroup := r.Group("/admin", IdentityContext(), RequireAdmin())
	{
		adminGroup.GET("/withdrawals", admin.ListWithdrawals)
		adminGroup.POST("/withdrawals/:id/approve", admin.ApproveWithdrawal)
		adminGroup.POST("/withdrawals/:id/reject", admin.RejectWithdrawal)

		adminGroup.POST("/disbursements", admin.DisburseBatch)
		adminGroup.POST("/disbursements/queue", admin.QueueDisburseBatch)

		adminGroup.GET("/revenue-shares/:userId", admin.GetRevenueShare)
		adminGroup.PUT("/revenue-shares/:userId", admin.SetRevenueShare)
	}
}
