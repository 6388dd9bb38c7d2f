package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"poll-survey-backend/repository"

	"github.com/gin-gonic/gin"
)

// GetPollAnalytics returns the vote tallies for a single poll.
func GetPollAnalytics(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID format"})
		return
	}

	analytics, err := analyticsService.PollAnalytics(c.Request.Context(), pollID)
	if err != nil {
		if errors.Is(err, repository.ErrPollNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Poll not found"})
			return
		}
		log.Printf("Error building poll analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

// GetAllPollAnalytics returns the vote tallies for every poll.
func GetAllPollAnalytics(c *gin.Context) {
	analytics, err := analyticsService.AllPollAnalytics(c.Request.Context())
	if err != nil {
		log.Printf("Error building overall analytics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	if len(analytics) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No polls found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}
