package models

import (
	"time"

	"gorm.io/gorm"
)

// AIFeedback stores a user's rating of one graded answer
type AIFeedback struct {
	gorm.Model
	RequestID    string     `gorm:"uniqueIndex;not null" json:"request_id"` // <interviewId>/<questionId>
	RequestType  string     `gorm:"not null" json:"request_type"`
	InterviewID  string     `gorm:"index;not null" json:"interview_id"`
	QuestionID   string     `gorm:"not null" json:"question_id"`
	Prompt       string     `gorm:"type:text;not null" json:"prompt"`
	Response     string     `gorm:"type:text;not null" json:"response"`
	IsPositive   bool       `gorm:"not null" json:"is_positive"`
	ModelVersion string     `gorm:"not null" json:"model_version"`
	FeedbackAt   time.Time  `gorm:"not null" json:"feedback_at"`
	Exported     bool       `gorm:"not null;default:false;index" json:"exported"`
	ExportedAt   *time.Time `json:"exported_at"`
}

// TrainingDataPoint is one JSONL line in the Gemini tuning format
type TrainingDataPoint struct {
	Contents []TrainingContent `json:"contents"`
}

type TrainingContent struct {
	Role  string         `json:"role"` // "user" or "model"
	Parts []TrainingPart `json:"parts"`
}

type TrainingPart struct {
	Text string `json:"text"`
}

// RequestContext is an evaluation prompt/response kept in memory until rated
type RequestContext struct {
	RequestID    string
	RequestType  string
	InterviewID  string
	QuestionID   string
	Prompt       string
	Response     string
	ModelVersion string
	Timestamp    time.Time
}

// FeedbackKey identifies the evaluation of one question
func FeedbackKey(interviewID, questionID string) string {
	return interviewID + "/" + questionID
}
