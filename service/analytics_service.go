package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"
)

// QuestionAnalytics reports per-option vote counts for one question.
// Keys are "Q{questionId}_{label}"; a label that appears more than once
// in a question collapses into a single key carrying the count at its
// first occurrence.
type QuestionAnalytics struct {
	QuestionID   int64            `json:"question_id"`
	QuestionText string           `json:"question_text"`
	OptionCounts map[string]int64 `json:"option_counts"`
}

// PollAnalytics is the vote-tally projection for one poll.
type PollAnalytics struct {
	PollID     int64               `json:"poll_id"`
	PollTitle  string              `json:"poll_title"`
	TotalVotes int64               `json:"total_votes"`
	Questions  []QuestionAnalytics `json:"questions"`
}

// AnalyticsService reconstructs vote tallies from stored poll and
// question rows. It never mutates state.
type AnalyticsService struct {
	repo repository.SurveyRepository
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(repo repository.SurveyRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo}
}

// PollAnalytics builds the projection for a single poll.
func (s *AnalyticsService) PollAnalytics(ctx context.Context, pollID int64) (*PollAnalytics, error) {
	poll, err := s.repo.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return s.buildPollAnalytics(ctx, poll)
}

// AllPollAnalytics builds one projection per stored poll, polls with no
// questions included.
func (s *AnalyticsService) AllPollAnalytics(ctx context.Context) ([]PollAnalytics, error) {
	polls, err := s.repo.ListPolls(ctx)
	if err != nil {
		return nil, err
	}

	analytics := make([]PollAnalytics, 0, len(polls))
	for i := range polls {
		pollAnalytics, err := s.buildPollAnalytics(ctx, &polls[i])
		if err != nil {
			return nil, err
		}
		analytics = append(analytics, *pollAnalytics)
	}
	return analytics, nil
}

func (s *AnalyticsService) buildPollAnalytics(ctx context.Context, poll *models.Poll) (*PollAnalytics, error) {
	analytics := &PollAnalytics{
		PollID:     poll.ID,
		PollTitle:  poll.Title,
		TotalVotes: poll.TotalVotes,
		Questions:  []QuestionAnalytics{},
	}

	// Question ids are walked in stored order, duplicates and all.
	for _, questionID := range poll.QuestionIDs {
		question, err := s.repo.GetQuestion(ctx, questionID)
		if errors.Is(err, repository.ErrQuestionNotFound) {
			// Dangling reference in the poll's question list.
			continue
		}
		if err != nil {
			return nil, err
		}

		counts := make(map[string]int64, len(question.Options))
		for _, label := range question.Options {
			idx := slices.Index(question.Options, label)
			var votes int64
			if idx < len(question.OptionVotes) {
				votes = question.OptionVotes[idx]
			}
			counts[fmt.Sprintf("Q%d_%s", questionID, label)] = votes
		}

		analytics.Questions = append(analytics.Questions, QuestionAnalytics{
			QuestionID:   questionID,
			QuestionText: question.Text,
			OptionCounts: counts,
		})
	}

	return analytics, nil
}
