package service

import (
	"context"
	"errors"
	"math/rand"
	"slices"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"
)

var (
	// ErrInvalidOption means the selected label does not appear in the
	// question's option list.
	ErrInvalidOption = errors.New("invalid option selected")

	// ErrInconsistentVotes means the stored vote-count array is shorter
	// than the option list, so the matched index has no counter.
	ErrInconsistentVotes = errors.New("question vote counts out of sync with options")
)

// SubmissionService records a user's answer to one question of a poll.
type SubmissionService struct {
	repo repository.SurveyRepository
}

// NewSubmissionService creates a SubmissionService.
func NewSubmissionService(repo repository.SurveyRepository) *SubmissionService {
	return &SubmissionService{repo: repo}
}

// Submit credits a vote for the selected option, appends the poll and
// question to the user's attempt history, bumps the poll's vote total
// and returns the reward drawn from the poll's reward range.
//
// The three writes are deliberately not wrapped in a transaction and
// take no locks; concurrent submissions against the same question or
// user can lose an update, with the poll total (a single atomic SQL
// increment) as the only race-free counter. If a later write fails the
// earlier ones stand.
//
// Repeat submissions by the same user are recorded every time; there is
// no de-duplication of attempt history.
func (s *SubmissionService) Submit(ctx context.Context, userID, pollID, questionID int64, selectedOption string) (int64, error) {
	poll, err := s.repo.GetPoll(ctx, pollID)
	if err != nil {
		return 0, err
	}
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return 0, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	// First occurrence wins when the same label appears twice.
	idx := slices.Index(question.Options, selectedOption)
	if idx < 0 {
		return 0, ErrInvalidOption
	}
	if idx >= len(question.OptionVotes) {
		return 0, ErrInconsistentVotes
	}

	votes := slices.Clone([]int64(question.OptionVotes))
	votes[idx]++
	if err := s.repo.UpdateQuestionVotes(ctx, questionID, votes); err != nil {
		return 0, err
	}

	questionIDs := append(slices.Clone([]int64(user.QuestionIDsAttempted)), questionID)
	pollIDs := append(slices.Clone([]int64(user.PollIDsAttempted)), pollID)
	if err := s.repo.UpdateUserAttempts(ctx, userID, user.QuestionsAttempted+1, user.PollsAttempted+1, questionIDs, pollIDs); err != nil {
		return 0, err
	}

	if err := s.repo.IncrementPollVotes(ctx, pollID); err != nil {
		return 0, err
	}

	return rewardAmount(poll), nil
}

// rewardAmount draws a uniform integer from [MinReward, MaxReward).
// The upper bound is exclusive; equal bounds always yield MinReward.
func rewardAmount(poll *models.Poll) int64 {
	return poll.MinReward + int64(rand.Float64()*float64(poll.MaxReward-poll.MinReward))
}
