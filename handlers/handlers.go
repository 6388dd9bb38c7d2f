package handlers

import (
	"log"

	"poll-survey-backend/service"
)

var (
	pollService       *service.PollService
	submissionService *service.SubmissionService
	analyticsService  *service.AnalyticsService
)

// InitHandlers wires the service layer into the handler package. Must
// be called before any route is served.
func InitHandlers(polls *service.PollService, submissions *service.SubmissionService, analytics *service.AnalyticsService) {
	pollService = polls
	submissionService = submissions
	analyticsService = analytics
	log.Println("Services wired into handlers")
}
