package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"settlement-service/internal/database"
	"settlement-service/internal/services"
	"settlement-service/internal/worker"
)

func main() {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found in ../../.env, trying .env")
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system env")
		}
	}

	database.Connect()
	db := database.DB

	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	payoutClient := services.NewPayoutClientFromEnv()
	disbursementService := services.NewDisbursementService(db, payoutClient, asynqClient)

	log.Println("Starting settlement worker...")
	worker.StartWorker(redisOpt, disbursementService)
}
