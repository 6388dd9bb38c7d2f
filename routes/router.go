package routes

import (
	"log"
	"net/http"
	"os"
	"time"

	"poll-survey-backend/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server.
type Server struct {
	*http.Server
}

// SetupRouter builds the Gin engine with CORS, rate limiting and the
// API route tree.
func SetupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handlers.InitRateLimiters()

	api := router.Group("/api")
	{
		api.Use(handlers.RateLimitMiddleware())

		api.GET("/health", handlers.HealthCheck)
		api.GET("/status", handlers.SystemStatus)
		api.GET("/metrics", handlers.MetricsHandler)

		polls := api.Group("/polls")
		{
			polls.POST("", handlers.CreatePoll)
			polls.GET("", handlers.GetPolls)
			polls.PUT("/:id", handlers.UpdatePoll)
			polls.POST("/:id/questions", handlers.CreateQuestion)
		}

		api.PUT("/questions/:id", handlers.UpdateQuestion)

		users := api.Group("/users")
		{
			users.POST("", handlers.CreateUser)
			users.GET("/:id/polls", handlers.GetUserPolls)
		}

		api.POST("/submissions", handlers.SubmitPoll)

		analytics := api.Group("/analytics")
		{
			analytics.GET("/polls", handlers.GetAllPollAnalytics)
			analytics.GET("/polls/:id", handlers.GetPollAnalytics)
		}
	}

	return router
}

// StartServer starts the HTTP server on SERVER_PORT (default 8090).
func StartServer(router *gin.Engine) *Server {
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8090"
	}

	addr := ":" + port

	srv := &Server{
		&http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	return srv
}
