package handlers

import (
	"log"
	"testing"

	"poll-survey-backend/database"
	"poll-survey-backend/models"
	"poll-survey-backend/repository"
	"poll-survey-backend/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestEnvironment sets up the Gin router and in-memory SQLite database for testing.
func SetupTestEnvironment(t *testing.T) (*gin.Engine, *gorm.DB) {
	testing.Init()
	gin.SetMode(gin.TestMode)

	// Use in-memory SQLite for testing
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	database.DB = db

	err = database.DB.AutoMigrate(&models.Poll{}, &models.Question{}, &models.User{})
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := database.DB.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	// Wire services against the test database
	repo := repository.NewSurveyRepository(db)
	InitHandlers(
		service.NewPollService(repo),
		service.NewSubmissionService(repo),
		service.NewAnalyticsService(repo),
	)

	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	router.Use(cors.New(config))

	// Same routes as in routes.SetupRouter
	api := router.Group("/api")
	{
		api.GET("/health", HealthCheck)
		api.GET("/status", SystemStatus)
		api.GET("/metrics", MetricsHandler)
		api.POST("/polls", CreatePoll)
		api.GET("/polls", GetPolls)
		api.PUT("/polls/:id", UpdatePoll)
		api.POST("/polls/:id/questions", CreateQuestion)
		api.PUT("/questions/:id", UpdateQuestion)
		api.POST("/users", CreateUser)
		api.GET("/users/:id/polls", GetUserPolls)
		api.POST("/submissions", SubmitPoll)
		api.GET("/analytics/polls", GetAllPollAnalytics)
		api.GET("/analytics/polls/:id", GetPollAnalytics)
	}

	return router, db
}

// ClearTables clears all tables between tests.
func ClearTables(db *gorm.DB) {
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Question{})
	db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Poll{})
}

func createTestPoll(t *testing.T, db *gorm.DB, minReward, maxReward int64, questionIDs ...int64) *models.Poll {
	t.Helper()
	poll := &models.Poll{
		Title:       "Favorite Languages",
		Category:    "tech",
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MinReward:   minReward,
		MaxReward:   maxReward,
		QuestionIDs: datatypes.JSONSlice[int64](append([]int64{}, questionIDs...)),
	}
	if err := db.Create(poll).Error; err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

func createTestQuestion(t *testing.T, db *gorm.DB, options []string, votes []int64) *models.Question {
	t.Helper()
	question := &models.Question{
		Type:        models.QuestionTypeSingle,
		Text:        "Which one do you prefer?",
		Options:     datatypes.JSONSlice[string](options),
		OptionVotes: datatypes.JSONSlice[int64](votes),
	}
	if err := db.Create(question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return question
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Name:                 "tester",
		PollIDsAttempted:     datatypes.JSONSlice[int64]{},
		QuestionIDsAttempted: datatypes.JSONSlice[int64]{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}
