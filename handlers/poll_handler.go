package handlers

import (
	"errors"
	"log"
	"net/http"
	"regexp"
	"strconv"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"
	"poll-survey-backend/service"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// CreatePollInput defines the expected input structure for creating a poll.
type CreatePollInput struct {
	Title     string `json:"title" binding:"required"`
	Category  string `json:"category" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	MinReward *int64 `json:"min_reward" binding:"required"`
	MaxReward *int64 `json:"max_reward" binding:"required"`
}

// CreatePoll handles the creation of a new poll.
func CreatePoll(c *gin.Context) {
	var input CreatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !dateRegex.MatchString(input.StartDate) || !dateRegex.MatchString(input.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date must be in YYYY-MM-DD format"})
		return
	}
	if *input.MinReward > *input.MaxReward {
		c.JSON(http.StatusBadRequest, gin.H{"error": "min_reward must not exceed max_reward"})
		return
	}

	poll := models.Poll{
		Title:       input.Title,
		Category:    input.Category,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MinReward:   *input.MinReward,
		MaxReward:   *input.MaxReward,
		QuestionIDs: datatypes.JSONSlice[int64]{},
	}

	if err := pollService.CreatePoll(c.Request.Context(), &poll); err != nil {
		log.Printf("Error creating poll: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "New poll created", "poll_id": poll.ID})
}

// GetPolls lists every poll with question count and a first-question preview.
func GetPolls(c *gin.Context) {
	summaries, err := pollService.PollSummaries(c.Request.Context())
	if err != nil {
		log.Printf("Error retrieving list of polls: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(summaries) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No polls present"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"polls": summaries})
}

// UpdatePollInput defines the expected input structure for a partial
// poll update. Pointers distinguish empty values from absent fields.
type UpdatePollInput struct {
	Title     *string `json:"title"`
	Category  *string `json:"category"`
	MinReward *int64  `json:"min_reward"`
	MaxReward *int64  `json:"max_reward"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// UpdatePoll handles partial updates of an existing poll's fields.
func UpdatePoll(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
		return
	}

	var input UpdatePollInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Category != nil {
		fields["category"] = *input.Category
	}
	if input.MinReward != nil {
		fields["min_reward"] = *input.MinReward
	}
	if input.MaxReward != nil {
		fields["max_reward"] = *input.MaxReward
	}
	if input.StartDate != nil {
		if !dateRegex.MatchString(*input.StartDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be in YYYY-MM-DD format"})
			return
		}
		fields["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		if !dateRegex.MatchString(*input.EndDate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be in YYYY-MM-DD format"})
			return
		}
		fields["end_date"] = *input.EndDate
	}

	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields provided for update"})
		return
	}

	if err := pollService.UpdatePoll(c.Request.Context(), pollID, fields); err != nil {
		if errors.Is(err, repository.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
			return
		}
		log.Printf("Error updating poll: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll updated successfully"})
}

// CreateQuestionInput defines the expected input structure for attaching
// a question to a poll. option_votes may be omitted to start at zero.
type CreateQuestionInput struct {
	QuestionType string   `json:"question_type" binding:"required,oneof=single multiple"`
	QuestionText string   `json:"question_text" binding:"required"`
	Options      []string `json:"options" binding:"required,min=1"`
	OptionVotes  []int64  `json:"option_votes"`
}

// CreateQuestion stores a new question and appends it to the poll's
// question list.
func CreateQuestion(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
		return
	}

	var input CreateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	votes := input.OptionVotes
	if votes == nil {
		votes = make([]int64, len(input.Options))
	} else if len(votes) != len(input.Options) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "options and option_votes must have the same length"})
		return
	}

	question := models.Question{
		Type:        input.QuestionType,
		Text:        input.QuestionText,
		Options:     datatypes.JSONSlice[string](input.Options),
		OptionVotes: datatypes.JSONSlice[int64](votes),
	}

	if err := pollService.AttachQuestion(c.Request.Context(), pollID, &question); err != nil {
		if errors.Is(err, repository.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
			return
		}
		log.Printf("Error creating question: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question added to poll", "question_id": question.ID})
}

// UpdateQuestionInput defines the expected input structure for a partial
// question update.
type UpdateQuestionInput struct {
	QuestionText *string   `json:"question_text"`
	QuestionType *string   `json:"question_type"`
	Options      *[]string `json:"options"`
	OptionVotes  *[]int64  `json:"option_votes"`
}

// UpdateQuestion handles partial updates of an existing question.
func UpdateQuestion(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question ID format"})
		return
	}

	var input UpdateQuestionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.QuestionText == nil && input.QuestionType == nil && input.Options == nil && input.OptionVotes == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields provided for update"})
		return
	}
	if input.QuestionType != nil &&
		*input.QuestionType != models.QuestionTypeSingle && *input.QuestionType != models.QuestionTypeMultiple {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question type"})
		return
	}

	update := service.QuestionUpdate{
		Text:        input.QuestionText,
		Type:        input.QuestionType,
		Options:     input.Options,
		OptionVotes: input.OptionVotes,
	}

	if err := pollService.UpdateQuestion(c.Request.Context(), questionID, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		case errors.Is(err, service.ErrOptionVotesLength):
			c.JSON(http.StatusBadRequest, gin.H{"error": "options and option_votes must have the same length"})
		default:
			log.Printf("Error updating question: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question updated successfully"})
}
