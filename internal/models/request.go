package models

import (
	"fmt"
	"strings"

	"interview-alchemist/internal/catalog"
)

const (
	MinDurationMinutes = 2
	MaxQuestions       = 50
)

type CreateInterviewRequest struct {
	Industry       string `json:"industry"`
	Type           string `json:"type"`
	Topic          string `json:"topic"`
	Role           string `json:"role"`
	Difficulty     string `json:"difficulty"`
	NumOfQuestions int    `json:"numOfQuestions"`
	Duration       int    `json:"duration"` // minutes
	User           string `json:"user"`
}

// implements the Validator interface
func (r *CreateInterviewRequest) Validate() error {
	r.Industry = strings.TrimSpace(r.Industry)
	r.Type = strings.TrimSpace(r.Type)
	r.Topic = strings.TrimSpace(r.Topic)
	r.Role = strings.TrimSpace(r.Role)
	r.Difficulty = strings.TrimSpace(r.Difficulty)

	required := []struct {
		field, value, message string
	}{
		{"industry", r.Industry, "Industry is required"},
		{"type", r.Type, "Type is required"},
		{"topic", r.Topic, "Topic is required"},
		{"role", r.Role, "Role is required"},
		{"difficulty", r.Difficulty, "Difficulty is required"},
	}
	var details []ValidationErrorDetail
	for _, f := range required {
		if f.value == "" {
			details = append(details, ValidationErrorDetail{Field: f.field, Reason: f.message})
		}
	}
	if r.NumOfQuestions <= 0 {
		details = append(details, ValidationErrorDetail{Field: "numOfQuestions", Reason: "Number of questions is required"})
	} else if r.NumOfQuestions > MaxQuestions {
		details = append(details, ValidationErrorDetail{Field: "numOfQuestions", Reason: fmt.Sprintf("Number of questions must be at most %d", MaxQuestions)})
	}
	if r.Duration < MinDurationMinutes {
		details = append(details, ValidationErrorDetail{Field: "duration", Reason: fmt.Sprintf("Duration must be at least %d minutes", MinDurationMinutes)})
	}
	if len(details) > 0 {
		return newValidationResponse(details)
	}

	c := catalog.MustDefault()
	if !c.HasIndustry(r.Industry) {
		details = append(details, ValidationErrorDetail{Field: "industry", Reason: r.Industry + " is not a supported industry"})
	} else if !c.HasTopic(r.Industry, r.Topic) {
		details = append(details, ValidationErrorDetail{Field: "topic", Reason: r.Topic + " is not a valid topic for this industry"})
	}
	if !c.HasType(r.Type) {
		details = append(details, ValidationErrorDetail{Field: "type", Reason: r.Type + " is not a supported interview type"})
	}
	if !c.HasDifficulty(r.Difficulty) {
		details = append(details, ValidationErrorDetail{Field: "difficulty", Reason: r.Difficulty + " is not a supported difficulty"})
	}
	if len(details) > 0 {
		return newValidationResponse(details)
	}
	return nil
}

type SubmitAnswerRequest struct {
	SessionID        string `json:"sessionId"`
	QuestionID       string `json:"questionId"`
	AnswerText       string `json:"answerText"`
	RemainingSeconds *int   `json:"remainingSeconds"`
	Completed        bool   `json:"completed"`
}

func (r *SubmitAnswerRequest) Validate() error {
	if r.RemainingSeconds == nil {
		return &ErrorResponse{Code: "missing_remaining_seconds", Message: "remainingSeconds is required"}
	}
	if *r.RemainingSeconds < 0 {
		return &ErrorResponse{Code: "invalid_remaining_seconds", Message: "remainingSeconds must not be negative"}
	}
	r.AnswerText = strings.TrimSpace(r.AnswerText)
	if r.AnswerText != "" && strings.TrimSpace(r.QuestionID) == "" {
		return &ErrorResponse{Code: "missing_question_id", Message: "questionId is required when answerText is provided"}
	}
	return nil
}

// IsPass reports whether the candidate skipped the question
func (r *SubmitAnswerRequest) IsPass() bool {
	return r.AnswerText == PassAnswer
}

type SubmitFeedbackRequest struct {
	IsPositive bool `json:"is_positive"`
}

func (r *SubmitFeedbackRequest) Validate() error { return nil }

// joins the individual messages the same way the error envelope reports them
func newValidationResponse(details []ValidationErrorDetail) *ErrorResponse {
	msgs := make([]string, len(details))
	for i, d := range details {
		msgs[i] = d.Reason
	}
	return &ErrorResponse{
		Code:    string(KindValidation),
		Message: strings.Join(msgs, ", "),
		Details: details,
	}
}
