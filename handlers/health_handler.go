package handlers

import (
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strings"
	"time"

	"poll-survey-backend/database"
	"poll-survey-backend/models"

	"github.com/gin-gonic/gin"
)

// SystemInfo contains basic system metrics and information
type SystemInfo struct {
	Status       string    `json:"status"`
	Version      string    `json:"version"`
	Uptime       string    `json:"uptime"`
	StartTime    time.Time `json:"start_time"`
	CurrentTime  time.Time `json:"current_time"`
	GoVersion    string    `json:"go_version"`
	NumGoroutine int       `json:"num_goroutine"`
	NumCPU       int       `json:"num_cpu"`
	DBStatus     string    `json:"db_status"`
}

var (
	startTime = time.Now()
	version   = "0.1.0"
)

// HealthCheck provides a basic liveness endpoint.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// SystemStatus reports detailed process and database status.
func SystemStatus(c *gin.Context) {
	dbStatus := "ok"
	sqlDB, err := database.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "error"
	}

	info := SystemInfo{
		Status:       "ok",
		Version:      version,
		Uptime:       time.Since(startTime).String(),
		StartTime:    startTime,
		CurrentTime:  time.Now(),
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		DBStatus:     dbStatus,
	}

	c.JSON(http.StatusOK, info)
}

// MetricsHandler exposes Prometheus-format metrics: per-poll vote totals
// read from the database plus process gauges.
func MetricsHandler(c *gin.Context) {
	var sb strings.Builder

	sb.WriteString("# HELP poll_votes_total The total number of submissions per poll\n")
	sb.WriteString("# TYPE poll_votes_total gauge\n")

	var polls []models.Poll
	if err := database.DB.WithContext(c.Request.Context()).
		Select("id", "total_votes").Order("id").Find(&polls).Error; err != nil {
		log.Printf("Error reading poll metrics: %v", err)
	} else {
		for _, poll := range polls {
			fmt.Fprintf(&sb, "poll_votes_total{poll_id=\"%d\"} %d\n", poll.ID, poll.TotalVotes)
		}
	}

	sb.WriteString("\n# HELP system_goroutines The number of goroutines\n")
	sb.WriteString("# TYPE system_goroutines gauge\n")
	fmt.Fprintf(&sb, "system_goroutines %d\n", runtime.NumGoroutine())

	c.Data(http.StatusOK, "text/plain; version=0.0.4", []byte(sb.String()))
}
