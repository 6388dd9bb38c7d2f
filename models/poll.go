package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question types. The type is stored for clients but submission always
// records exactly one selected label per request.
const (
	QuestionTypeSingle   = "single"
	QuestionTypeMultiple = "multiple"
)

// Poll represents a survey with a reward range and an aggregate vote
// counter. Question membership is kept as an ordered JSON array of
// question ids on the poll row itself; insertion order is display order.
type Poll struct {
	ID          int64                      `gorm:"primaryKey" json:"id"`
	Title       string                     `gorm:"not null" json:"title"`
	Category    string                     `gorm:"not null" json:"category"`
	StartDate   string                     `gorm:"size:10;not null" json:"start_date"` // YYYY-MM-DD
	EndDate     string                     `gorm:"size:10;not null" json:"end_date"`   // YYYY-MM-DD
	MinReward   int64                      `gorm:"not null" json:"min_reward"`
	MaxReward   int64                      `gorm:"not null" json:"max_reward"`
	TotalVotes  int64                      `gorm:"not null;default:0" json:"total_votes"`
	QuestionIDs datatypes.JSONSlice[int64] `gorm:"column:question_ids" json:"question_ids"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// Question holds an ordered list of option labels and a parallel list of
// vote counts; index i in both refers to the same logical option.
// Duplicate labels are allowed.
type Question struct {
	ID          int64                       `gorm:"primaryKey" json:"id"`
	Type        string                      `gorm:"column:question_type;not null" json:"question_type"`
	Text        string                      `gorm:"column:question_text;not null" json:"question_text"`
	Options     datatypes.JSONSlice[string] `gorm:"column:options" json:"options"`
	OptionVotes datatypes.JSONSlice[int64]  `gorm:"column:option_votes" json:"option_votes"`
	CreatedAt   time.Time                   `json:"created_at"`
}
