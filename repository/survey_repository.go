package repository

import (
	"context"
	"errors"
	"fmt"

	"poll-survey-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entity lookup errors. Anything else returned by this package is a
// store-level failure wrapped with context.
var (
	ErrPollNotFound     = errors.New("poll not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")
)

// SurveyRepository is the single writer of persisted survey state. All
// reads and writes are point queries by primary key; list-valued fields
// travel as whole JSON arrays and are always replaced in full, except
// the poll vote total which is bumped atomically in SQL.
type SurveyRepository interface {
	CreatePoll(ctx context.Context, poll *models.Poll) error
	GetPoll(ctx context.Context, id int64) (*models.Poll, error)
	ListPolls(ctx context.Context) ([]models.Poll, error)
	UpdatePollFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdatePollQuestionIDs(ctx context.Context, id int64, questionIDs []int64) error
	IncrementPollVotes(ctx context.Context, id int64) error

	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestion(ctx context.Context, id int64) (*models.Question, error)
	UpdateQuestionFields(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateQuestionVotes(ctx context.Context, id int64, votes []int64) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUserAttempts(ctx context.Context, id int64, questionsAttempted, pollsAttempted int64, questionIDs, pollIDs []int64) error
}

type gormSurveyRepository struct {
	db *gorm.DB
}

// NewSurveyRepository creates a gorm-backed SurveyRepository.
func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &gormSurveyRepository{db: db}
}

func (r *gormSurveyRepository) CreatePoll(ctx context.Context, poll *models.Poll) error {
	if err := r.db.WithContext(ctx).Create(poll).Error; err != nil {
		return fmt.Errorf("create poll: %w", err)
	}
	return nil
}

func (r *gormSurveyRepository) GetPoll(ctx context.Context, id int64) (*models.Poll, error) {
	var poll models.Poll
	if err := r.db.WithContext(ctx).First(&poll, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, fmt.Errorf("load poll %d: %w", id, err)
	}
	return &poll, nil
}

func (r *gormSurveyRepository) ListPolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	if err := r.db.WithContext(ctx).Order("id").Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	return polls, nil
}

func (r *gormSurveyRepository) UpdatePollFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update poll %d: %w", id, err)
	}
	return nil
}

func (r *gormSurveyRepository) UpdatePollQuestionIDs(ctx context.Context, id int64, questionIDs []int64) error {
	err := r.db.WithContext(ctx).Model(&models.Poll{}).Where("id = ?", id).
		UpdateColumn("question_ids", datatypes.JSONSlice[int64](questionIDs)).Error
	if err != nil {
		return fmt.Errorf("update poll %d question ids: %w", id, err)
	}
	return nil
}

// IncrementPollVotes bumps the aggregate counter in a single SQL
// statement. This is the only field updated atomically at the store.
func (r *gormSurveyRepository) IncrementPollVotes(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.Poll{}).Where("id = ?", id).
		UpdateColumn("total_votes", gorm.Expr("total_votes + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("increment poll %d votes: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPollNotFound
	}
	return nil
}

func (r *gormSurveyRepository) CreateQuestion(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (r *gormSurveyRepository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("load question %d: %w", id, err)
	}
	return &question, nil
}

func (r *gormSurveyRepository) UpdateQuestionFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update question %d: %w", id, err)
	}
	return nil
}

// UpdateQuestionVotes replaces the whole vote-count array; there is no
// indexed partial update on a JSON column.
func (r *gormSurveyRepository) UpdateQuestionVotes(ctx context.Context, id int64, votes []int64) error {
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", id).
		UpdateColumn("option_votes", datatypes.JSONSlice[int64](votes)).Error
	if err != nil {
		return fmt.Errorf("update question %d votes: %w", id, err)
	}
	return nil
}

func (r *gormSurveyRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *gormSurveyRepository) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateUserAttempts replaces both counters and both id arrays in full.
func (r *gormSurveyRepository) UpdateUserAttempts(ctx context.Context, id int64, questionsAttempted, pollsAttempted int64, questionIDs, pollIDs []int64) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"questions_attempted":    questionsAttempted,
			"polls_attempted":        pollsAttempted,
			"question_ids_attempted": datatypes.JSONSlice[int64](questionIDs),
			"poll_ids_attempted":     datatypes.JSONSlice[int64](pollIDs),
		}).Error
	if err != nil {
		return fmt.Errorf("update user %d attempts: %w", id, err)
	}
	return nil
}
