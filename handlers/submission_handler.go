package handlers

import (
	"errors"
	"log"
	"net/http"

	"poll-survey-backend/repository"
	"poll-survey-backend/service"

	"github.com/gin-gonic/gin"
)

// SubmitInput is the request body for answering one question of a poll.
type SubmitInput struct {
	UserID         int64  `json:"user_id" binding:"required"`
	PollID         int64  `json:"poll_id" binding:"required"`
	QuestionID     int64  `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
}

// SubmitPoll records a user's answer and returns the drawn reward.
func SubmitPoll(c *gin.Context) {
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reward, err := submissionService.Submit(c.Request.Context(), input.UserID, input.PollID, input.QuestionID, input.SelectedOption)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
		case errors.Is(err, repository.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		case errors.Is(err, repository.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrInvalidOption):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option selected"})
		case errors.Is(err, service.ErrInconsistentVotes):
			log.Printf("Inconsistent question data on submission: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Question data is inconsistent"})
		default:
			log.Printf("Error submitting poll: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll submitted successfully", "reward_amount": reward})
}
