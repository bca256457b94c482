package repositories

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"interview-alchemist/internal/models"
)

var (
	ErrNotFound          = errors.New("interview not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrSessionCompleted  = errors.New("interview already completed")
	ErrStoreNotAvailable = errors.New("interview store not available")
)

// FilterFields are the query parameters a listing may filter on
var FilterFields = []string{"industry", "type", "topic", "role", "difficulty", "status"}

type ListFilter struct {
	User     string // empty lists every user's sessions
	Fields   map[string]string
	Page     int // 1-based
	PageSize int
}

// Skip is the number of documents before the requested page
func (f ListFilter) Skip() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.PageSize
}

type AnswerUpdate struct {
	QuestionID string
	Answer     string
	Result     models.Result
}

type ProgressUpdate struct {
	DurationLeft int
	Complete     bool
}

type StatsRange struct {
	User  string
	Start time.Time
	End   time.Time
}

// InterviewStore persists interview sessions. Every mutation is a single
// atomic document update.
type InterviewStore interface {
	Create(ctx context.Context, iv *models.Interview) (*models.Interview, error)
	Get(ctx context.Context, id string) (*models.Interview, error)
	List(ctx context.Context, filter ListFilter) ([]models.Interview, int64, error)
	Delete(ctx context.Context, id string) error
	// ApplyAnswer records an answer and marks the question completed.
	// firstCompletion reports whether answered was incremented.
	ApplyAnswer(ctx context.Context, id string, upd AnswerUpdate, now time.Time) (iv *models.Interview, firstCompletion bool, err error)
	// UpdateProgress lowers durationLeft and optionally completes the session.
	// completedNow reports whether this call moved it to completed.
	UpdateProgress(ctx context.Context, id string, upd ProgressUpdate, now time.Time) (iv *models.Interview, completedNow bool, err error)
	Stats(ctx context.Context, r StatsRange) (*models.InterviewStats, error)
	Ping(ctx context.Context) error
}

// FiltersFromQuery keeps only the whitelisted, non-empty filter parameters
func FiltersFromQuery(q url.Values) map[string]string {
	out := make(map[string]string)
	for _, field := range FilterFields {
		if v := strings.TrimSpace(q.Get(field)); v != "" {
			out[field] = v
		}
	}
	return out
}
