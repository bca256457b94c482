package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// PassAnswer skips a question without grading it
const PassAnswer = "pass"

// NoSuggestion is stored for skipped questions
const NoSuggestion = "No suggestion provided"

type Result struct {
	OverallScore int    `bson:"overallScore" json:"overallScore"`
	Relevance    int    `bson:"relevance" json:"relevance"`
	Clarity      int    `bson:"clarity" json:"clarity"`
	Completeness int    `bson:"completeness" json:"completeness"`
	Suggestion   string `bson:"suggestion" json:"suggestion"`
}

// PassResult is the grade recorded when a candidate passes on a question
func PassResult() Result {
	return Result{Suggestion: NoSuggestion}
}

type Question struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Question  string             `bson:"question" json:"question"`
	Answer    string             `bson:"answer" json:"answer"`
	Completed bool               `bson:"completed" json:"completed"`
	Result    Result             `bson:"result" json:"result"`
}

// Interview is one mock interview session, stored as a single document
type Interview struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User           string             `bson:"user" json:"user"`
	Industry       string             `bson:"industry" json:"industry"`
	Type           string             `bson:"type" json:"type"`
	Topic          string             `bson:"topic" json:"topic"`
	Role           string             `bson:"role" json:"role"`
	Difficulty     string             `bson:"difficulty" json:"difficulty"`
	NumOfQuestions int                `bson:"numOfQuestions" json:"numOfQuestions"`
	Answered       int                `bson:"answered" json:"answered"`
	Duration       int                `bson:"duration" json:"duration"`
	DurationLeft   int                `bson:"durationLeft" json:"durationLeft"`
	Status         Status             `bson:"status" json:"status"`
	Questions      []Question         `bson:"questions" json:"questions"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewInterview builds a pending session; duration comes in minutes and is stored in seconds
func NewInterview(req *CreateInterviewRequest, questions []string, now time.Time) *Interview {
	qs := make([]Question, len(questions))
	for i, text := range questions {
		qs[i] = Question{ID: primitive.NewObjectID(), Question: text}
	}

	seconds := req.Duration * 60
	return &Interview{
		User:           req.User,
		Industry:       req.Industry,
		Type:           req.Type,
		Topic:          req.Topic,
		Role:           req.Role,
		Difficulty:     req.Difficulty,
		NumOfQuestions: req.NumOfQuestions,
		Duration:       seconds,
		DurationLeft:   seconds,
		Status:         StatusPending,
		Questions:      qs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (iv *Interview) IsCompleted() bool {
	return iv.Status == StatusCompleted
}

// FindQuestion returns the question with the given hex id
func (iv *Interview) FindQuestion(id string) (*Question, bool) {
	for i := range iv.Questions {
		if iv.Questions[i].ID.Hex() == id {
			return &iv.Questions[i], true
		}
	}
	return nil, false
}

// FirstIncompleteIndex is where a resumed session continues, 0 if all are done
func (iv *Interview) FirstIncompleteIndex() int {
	for i, q := range iv.Questions {
		if !q.Completed {
			return i
		}
	}
	return 0
}

// AverageScore is the mean overall score across all questions, one decimal
func (iv *Interview) AverageScore() float64 {
	if len(iv.Questions) == 0 {
		return 0
	}
	total := 0
	for _, q := range iv.Questions {
		total += q.Result.OverallScore
	}
	return math.Round(float64(total)/float64(len(iv.Questions))*10) / 10
}

// ResultSummary is the graded view of a session
type ResultSummary struct {
	InterviewID          string     `json:"interviewId"`
	Status               Status     `json:"status"`
	AverageScore         float64    `json:"averageScore"`
	TotalQuestions       int        `json:"totalQuestions"`
	Answered             int        `json:"answered"`
	Unanswered           int        `json:"unanswered"`
	DurationUsedMinutes  int        `json:"durationUsedMinutes"`
	TotalDurationMinutes int        `json:"totalDurationMinutes"`
	Questions            []Question `json:"questions"`
}

func (iv *Interview) Summary() ResultSummary {
	return ResultSummary{
		InterviewID:          iv.ID.Hex(),
		Status:               iv.Status,
		AverageScore:         iv.AverageScore(),
		TotalQuestions:       len(iv.Questions),
		Answered:             iv.Answered,
		Unanswered:           len(iv.Questions) - iv.Answered,
		DurationUsedMinutes:  int(math.Round(float64(iv.Duration-iv.DurationLeft) / 60)),
		TotalDurationMinutes: int(math.Round(float64(iv.Duration) / 60)),
		Questions:            iv.Questions,
	}
}
