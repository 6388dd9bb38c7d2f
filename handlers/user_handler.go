package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// CreateUserInput defines the expected input structure for creating a user.
type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
}

// CreateUser registers a new user with an empty attempt history.
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Name:                 input.Username,
		PollIDsAttempted:     datatypes.JSONSlice[int64]{},
		QuestionIDsAttempted: datatypes.JSONSlice[int64]{},
	}

	if err := pollService.CreateUser(c.Request.Context(), &user); err != nil {
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user_id": user.ID})
}

// GetUserPolls returns the polls a user has not attempted yet, each with
// the first question the user has not answered. Optional start_date and
// end_date query parameters restrict the feed to polls running inside
// that range; both must be given for the filter to apply.
func GetUserPolls(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if (startDate != "" && !dateRegex.MatchString(startDate)) ||
		(endDate != "" && !dateRegex.MatchString(endDate)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date must be in YYYY-MM-DD format"})
		return
	}

	feed, err := pollService.UserFeed(c.Request.Context(), userID, startDate, endDate)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Error building user poll feed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(feed) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No new polls exist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"polls": feed})
}
