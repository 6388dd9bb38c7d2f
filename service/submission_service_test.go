package service

import (
	"context"
	"testing"

	"poll-survey-backend/models"
	"poll-survey-backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) (repository.SurveyRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Poll{}, &models.Question{}, &models.User{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	return repository.NewSurveyRepository(db), db
}

func seedSubmission(t *testing.T, db *gorm.DB, minReward, maxReward int64) (*models.Poll, *models.Question, *models.User) {
	t.Helper()

	question := &models.Question{
		Type:        models.QuestionTypeSingle,
		Text:        "Pick one",
		Options:     datatypes.JSONSlice[string]{"A", "B", "C"},
		OptionVotes: datatypes.JSONSlice[int64]{0, 0, 0},
	}
	require.NoError(t, db.Create(question).Error)

	poll := &models.Poll{
		Title:       "Test Poll",
		Category:    "general",
		StartDate:   "2026-01-01",
		EndDate:     "2026-12-31",
		MinReward:   minReward,
		MaxReward:   maxReward,
		QuestionIDs: datatypes.JSONSlice[int64]{question.ID},
	}
	require.NoError(t, db.Create(poll).Error)

	user := &models.User{
		Name:                 "tester",
		PollIDsAttempted:     datatypes.JSONSlice[int64]{},
		QuestionIDsAttempted: datatypes.JSONSlice[int64]{},
	}
	require.NoError(t, db.Create(user).Error)

	return poll, question, user
}

func TestSubmit_IncrementsOnlyMatchedOption(t *testing.T) {
	repo, db := newTestRepo(t)
	poll, question, user := seedSubmission(t, db, 1, 5)
	svc := NewSubmissionService(repo)

	reward, err := svc.Submit(context.Background(), user.ID, poll.ID, question.ID, "B")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, reward, int64(1))
	assert.Less(t, reward, int64(5))

	updated, err := repo.GetQuestion(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 0}, []int64(updated.OptionVotes))
}

func TestSubmit_AccumulatesAcrossCalls(t *testing.T) {
	repo, db := newTestRepo(t)
	poll, question, user := seedSubmission(t, db, 2, 2)
	svc := NewSubmissionService(repo)

	const n = 5
	for i := 0; i < n; i++ {
		reward, err := svc.Submit(context.Background(), user.ID, poll.ID, question.ID, "A")
		require.NoError(t, err)
		assert.Equal(t, int64(2), reward)
	}

	updatedPoll, err := repo.GetPoll(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), updatedPoll.TotalVotes)

	updatedUser, err := repo.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), updatedUser.PollsAttempted)
	assert.Equal(t, int64(n), updatedUser.QuestionsAttempted)
	assert.Len(t, updatedUser.PollIDsAttempted, n)
	assert.Len(t, updatedUser.QuestionIDsAttempted, n)
}

func TestSubmit_InvalidOption(t *testing.T) {
	repo, db := newTestRepo(t)
	poll, question, user := seedSubmission(t, db, 1, 5)
	svc := NewSubmissionService(repo)

	_, err := svc.Submit(context.Background(), user.ID, poll.ID, question.ID, "Z")
	assert.ErrorIs(t, err, ErrInvalidOption)

	updated, err := repo.GetQuestion(context.Background(), question.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0}, []int64(updated.OptionVotes))
}

func TestSubmit_InconsistentVoteCounts(t *testing.T) {
	repo, db := newTestRepo(t)
	poll, question, user := seedSubmission(t, db, 1, 5)
	svc := NewSubmissionService(repo)

	require.NoError(t, db.Model(&models.Question{}).Where("id = ?", question.ID).
		UpdateColumn("option_votes", datatypes.JSONSlice[int64]{0}).Error)

	_, err := svc.Submit(context.Background(), user.ID, poll.ID, question.ID, "B")
	assert.ErrorIs(t, err, ErrInconsistentVotes)

	updatedPoll, err := repo.GetPoll(context.Background(), poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updatedPoll.TotalVotes)
}

func TestRewardAmount_Bounds(t *testing.T) {
	poll := &models.Poll{MinReward: 10, MaxReward: 20}

	for i := 0; i < 1000; i++ {
		reward := rewardAmount(poll)
		assert.GreaterOrEqual(t, reward, int64(10))
		assert.Less(t, reward, int64(20))
	}
}

func TestRewardAmount_EqualBounds(t *testing.T) {
	poll := &models.Poll{MinReward: 7, MaxReward: 7}

	for i := 0; i < 100; i++ {
		assert.Equal(t, int64(7), rewardAmount(poll))
	}
}
