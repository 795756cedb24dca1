package main

import (
	"log"
	"os"

	"settlement-service/internal/database"
	"settlement-service/internal/handlers"
	"settlement-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	database.Connect()
	database.Migrate()
	db := database.DB

	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	ledgerService := services.NewLedgerService(db)
	balanceService := services.NewBalanceService(db, ledgerService)
	withdrawalService := services.NewWithdrawalService(db, balanceService)
	revenueShareService := services.NewRevenueShareService(db)

	payoutClient := services.NewPayoutClientFromEnv()
	disbursementService := services.NewDisbursementService(db, payoutClient, asynqClient)
	webhookService := services.NewWebhookServiceFromEnv(db)

	r := gin.Default()

	handlers.RegisterRoutes(r,
		handlers.NewBalanceHandler(balanceService),
		handlers.NewWithdrawalHandler(withdrawalService),
		handlers.NewAdminHandler(withdrawalService, disbursementService, revenueShareService),
		handlers.NewWebhookHandler(webhookService),
	)

	disbursementService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
