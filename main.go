package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poll-survey-backend/database"
	"poll-survey-backend/handlers"
	"poll-survey-backend/repository"
	"poll-survey-backend/routes"
	"poll-survey-backend/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Println("Database connection initialized")

	repo := repository.NewSurveyRepository(database.DB)
	handlers.InitHandlers(
		service.NewPollService(repo),
		service.NewSubmissionService(repo),
		service.NewAnalyticsService(repo),
	)

	router := routes.SetupRouter()
	srv := routes.StartServer(router)

	// Wait for an interrupt to shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	database.CloseDB()
	log.Println("Server exited gracefully")
}
