package models

import (
	"time"

	"gorm.io/datatypes"
)

// User tracks attempt history as append-only JSON arrays. The counters
// always equal the lengths of the corresponding id arrays; repeat
// submissions are recorded every time, duplicates included.
type User struct {
	ID                   int64                      `gorm:"primaryKey" json:"id"`
	Name                 string                     `gorm:"not null" json:"name"`
	PollsAttempted       int64                      `gorm:"column:polls_attempted;not null;default:0" json:"polls_attempted"`
	QuestionsAttempted   int64                      `gorm:"column:questions_attempted;not null;default:0" json:"questions_attempted"`
	PollIDsAttempted     datatypes.JSONSlice[int64] `gorm:"column:poll_ids_attempted" json:"poll_ids_attempted"`
	QuestionIDsAttempted datatypes.JSONSlice[int64] `gorm:"column:question_ids_attempted" json:"question_ids_attempted"`
	CreatedAt            time.Time                  `json:"created_at"`
}
