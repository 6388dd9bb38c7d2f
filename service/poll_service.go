package service

import (
	"context"
	"errors"
	"slices"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"

	"gorm.io/datatypes"
)

// ErrOptionVotesLength means a question update would leave the option
// list and the vote-count list with different lengths.
var ErrOptionVotesLength = errors.New("options and option_votes must have the same length")

// QuestionPreview is the trimmed question shown in poll listings.
type QuestionPreview struct {
	QuestionID   int64    `json:"question_id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

// PollSummary is one poll's entry in a listing or a user feed.
type PollSummary struct {
	PollID        int64            `json:"poll_id"`
	Title         string           `json:"title"`
	Category      string           `json:"category"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	TotalVotes    int64            `json:"total_votes"`
	NumQuestions  int              `json:"num_questions"`
	FirstQuestion *QuestionPreview `json:"first_question"`
}

// QuestionUpdate carries a partial question update; nil fields are left
// untouched.
type QuestionUpdate struct {
	Text        *string
	Type        *string
	Options     *[]string
	OptionVotes *[]int64
}

// PollService manages polls, questions, users and the per-user feed of
// unanswered polls.
type PollService struct {
	repo repository.SurveyRepository
}

// NewPollService creates a PollService.
func NewPollService(repo repository.SurveyRepository) *PollService {
	return &PollService{repo: repo}
}

// CreatePoll stores a new poll. It starts with zero votes and an empty
// question list.
func (s *PollService) CreatePoll(ctx context.Context, poll *models.Poll) error {
	return s.repo.CreatePoll(ctx, poll)
}

// AttachQuestion stores a new question and appends its id to the poll's
// ordered question list. A missing poll leaves no question behind.
func (s *PollService) AttachQuestion(ctx context.Context, pollID int64, question *models.Question) error {
	poll, err := s.repo.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if err := s.repo.CreateQuestion(ctx, question); err != nil {
		return err
	}
	questionIDs := append(slices.Clone([]int64(poll.QuestionIDs)), question.ID)
	return s.repo.UpdatePollQuestionIDs(ctx, pollID, questionIDs)
}

// PollSummaries lists every poll with its question count and a preview
// of its first question.
func (s *PollService) PollSummaries(ctx context.Context) ([]PollSummary, error) {
	polls, err := s.repo.ListPolls(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]PollSummary, 0, len(polls))
	for i := range polls {
		poll := &polls[i]
		summary := s.summarize(poll)
		if len(poll.QuestionIDs) > 0 {
			preview, err := s.questionPreview(ctx, poll.QuestionIDs[0])
			if err != nil {
				return nil, err
			}
			summary.FirstQuestion = preview
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UserFeed lists polls the user has not attempted yet, each with the
// first question the user has not answered. When both bounds are given
// the feed is restricted to polls whose date range lies within them.
func (s *PollService) UserFeed(ctx context.Context, userID int64, startDate, endDate string) ([]PollSummary, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	attemptedPolls := make(map[int64]bool, len(user.PollIDsAttempted))
	for _, id := range user.PollIDsAttempted {
		attemptedPolls[id] = true
	}
	attemptedQuestions := make(map[int64]bool, len(user.QuestionIDsAttempted))
	for _, id := range user.QuestionIDsAttempted {
		attemptedQuestions[id] = true
	}

	polls, err := s.repo.ListPolls(ctx)
	if err != nil {
		return nil, err
	}

	feed := make([]PollSummary, 0, len(polls))
	for i := range polls {
		poll := &polls[i]
		if attemptedPolls[poll.ID] {
			continue
		}
		// ISO date strings compare lexicographically in date order.
		if startDate != "" && endDate != "" {
			if poll.StartDate < startDate || poll.EndDate > endDate {
				continue
			}
		}

		summary := s.summarize(poll)
		for _, questionID := range poll.QuestionIDs {
			if attemptedQuestions[questionID] {
				continue
			}
			preview, err := s.questionPreview(ctx, questionID)
			if err != nil {
				return nil, err
			}
			summary.FirstQuestion = preview
			break
		}
		feed = append(feed, summary)
	}
	return feed, nil
}

// UpdatePoll applies a partial update to poll fields. The fields map
// uses column names and must not be empty.
func (s *PollService) UpdatePoll(ctx context.Context, pollID int64, fields map[string]interface{}) error {
	if _, err := s.repo.GetPoll(ctx, pollID); err != nil {
		return err
	}
	return s.repo.UpdatePollFields(ctx, pollID, fields)
}

// UpdateQuestion applies a partial update to a question, refusing any
// change that would desync the option and vote-count arrays.
func (s *PollService) UpdateQuestion(ctx context.Context, questionID int64, update QuestionUpdate) error {
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	options := []string(question.Options)
	if update.Options != nil {
		options = *update.Options
	}
	votes := []int64(question.OptionVotes)
	if update.OptionVotes != nil {
		votes = *update.OptionVotes
	}
	if len(options) != len(votes) {
		return ErrOptionVotesLength
	}

	fields := map[string]interface{}{}
	if update.Text != nil {
		fields["question_text"] = *update.Text
	}
	if update.Type != nil {
		fields["question_type"] = *update.Type
	}
	if update.Options != nil {
		fields["options"] = datatypes.JSONSlice[string](*update.Options)
	}
	if update.OptionVotes != nil {
		fields["option_votes"] = datatypes.JSONSlice[int64](*update.OptionVotes)
	}
	return s.repo.UpdateQuestionFields(ctx, questionID, fields)
}

// CreateUser stores a new user with empty attempt history.
func (s *PollService) CreateUser(ctx context.Context, user *models.User) error {
	return s.repo.CreateUser(ctx, user)
}

func (s *PollService) summarize(poll *models.Poll) PollSummary {
	return PollSummary{
		PollID:       poll.ID,
		Title:        poll.Title,
		Category:     poll.Category,
		StartDate:    poll.StartDate,
		EndDate:      poll.EndDate,
		TotalVotes:   poll.TotalVotes,
		NumQuestions: len(poll.QuestionIDs),
	}
}

// questionPreview loads a question for listing purposes. A dangling id
// yields a nil preview rather than an error.
func (s *PollService) questionPreview(ctx context.Context, questionID int64) (*QuestionPreview, error) {
	question, err := s.repo.GetQuestion(ctx, questionID)
	if errors.Is(err, repository.ErrQuestionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &QuestionPreview{
		QuestionID:   question.ID,
		QuestionText: question.Text,
		Options:      question.Options,
	}, nil
}
