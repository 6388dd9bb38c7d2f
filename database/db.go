package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"poll-survey-backend/models"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database handle.
var DB *gorm.DB

// InitDB connects to MySQL using environment configuration and migrates
// the survey schema.
func InitDB() error {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	dbUser := getEnv("DB_USER", "surveyuser")
	dbPassword := getEnv("DB_PASSWORD", "surveypassword")
	dbHost := getEnv("DB_HOST", "mysql")
	dbPort := getEnv("DB_PORT", "3306")
	dbName := getEnv("DB_NAME", "surveydb")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbUser, dbPassword, dbHost, dbPort, dbName)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := DB.AutoMigrate(&models.Poll{}, &models.Question{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	if getEnv("ENVIRONMENT", "development") == "development" {
		createSampleData()
	}

	log.Println("Database connection and migration successful")
	return nil
}

// createSampleData seeds one poll with two questions and a user so a
// fresh development database has something to submit against.
func createSampleData() {
	var count int64
	DB.Model(&models.Poll{}).Count(&count)
	if count > 0 {
		log.Println("Database already has data, skipping sample data")
		return
	}

	log.Println("Creating sample data...")

	questions := []models.Question{
		{
			Type:        models.QuestionTypeSingle,
			Text:        "What is your favorite programming language?",
			Options:     datatypes.JSONSlice[string]{"Go", "Python", "Java", "JavaScript"},
			OptionVotes: datatypes.JSONSlice[int64]{0, 0, 0, 0},
		},
		{
			Type:        models.QuestionTypeSingle,
			Text:        "How often do you write tests?",
			Options:     datatypes.JSONSlice[string]{"Always", "Sometimes", "Never"},
			OptionVotes: datatypes.JSONSlice[int64]{0, 0, 0},
		},
	}
	if err := DB.Create(&questions).Error; err != nil {
		log.Printf("Failed to create sample questions: %v", err)
		return
	}

	poll := models.Poll{
		Title:       "Developer habits",
		Category:    "technology",
		StartDate:   time.Now().Format("2006-01-02"),
		EndDate:     time.Now().Add(7 * 24 * time.Hour).Format("2006-01-02"),
		MinReward:   5,
		MaxReward:   20,
		QuestionIDs: datatypes.JSONSlice[int64]{questions[0].ID, questions[1].ID},
	}
	if err := DB.Create(&poll).Error; err != nil {
		log.Printf("Failed to create sample poll: %v", err)
		return
	}

	user := models.User{
		Name:                 "demo",
		PollIDsAttempted:     datatypes.JSONSlice[int64]{},
		QuestionIDsAttempted: datatypes.JSONSlice[int64]{},
	}
	if err := DB.Create(&user).Error; err != nil {
		log.Printf("Failed to create sample user: %v", err)
		return
	}

	log.Println("Sample data created")
}

// CloseDB closes the underlying connection pool.
func CloseDB() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Failed to get database connection: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Failed to close database connection: %v", err)
		return
	}

	log.Println("Database connection closed")
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
