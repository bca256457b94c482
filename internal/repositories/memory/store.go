package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

// Store keeps sessions in process memory, for tests and local runs without Mongo
type Store struct {
	mu         sync.RWMutex
	interviews map[primitive.ObjectID]*models.Interview
}

var _ repositories.InterviewStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{interviews: make(map[primitive.ObjectID]*models.Interview)}
}

func (s *Store) Create(_ context.Context, iv *models.Interview) (*models.Interview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := clone(iv)
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	s.interviews[stored.ID] = stored
	return clone(stored), nil
}

func (s *Store) Get(_ context.Context, id string) (*models.Interview, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	iv, ok := s.interviews[oid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clone(iv), nil
}

func (s *Store) List(_ context.Context, filter repositories.ListFilter) ([]models.Interview, int64, error) {
	s.mu.RLock()
	matched := make([]models.Interview, 0)
	for _, iv := range s.interviews {
		if matches(iv, filter) {
			matched = append(matched, *clone(iv))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	skip := filter.Skip()
	if skip >= len(matched) {
		return []models.Interview{}, total, nil
	}
	end := len(matched)
	if filter.PageSize > 0 && skip+filter.PageSize < end {
		end = skip + filter.PageSize
	}
	return matched[skip:end], total, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.interviews[oid]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.interviews, oid)
	return nil
}

func (s *Store) ApplyAnswer(_ context.Context, id string, upd repositories.AnswerUpdate, now time.Time) (*models.Interview, bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[oid]
	if !ok {
		return nil, false, repositories.ErrNotFound
	}
	if iv.IsCompleted() {
		return clone(iv), false, repositories.ErrSessionCompleted
	}
	q, ok := iv.FindQuestion(upd.QuestionID)
	if !ok {
		return nil, false, repositories.ErrQuestionNotFound
	}

	first := !q.Completed
	q.Answer = upd.Answer
	q.Result = upd.Result
	q.Completed = true
	if first {
		iv.Answered++
	}
	iv.UpdatedAt = now
	return clone(iv), first, nil
}

func (s *Store) UpdateProgress(_ context.Context, id string, upd repositories.ProgressUpdate, now time.Time) (*models.Interview, bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	iv, ok := s.interviews[oid]
	if !ok {
		return nil, false, repositories.ErrNotFound
	}
	if iv.IsCompleted() {
		return clone(iv), false, nil
	}

	if upd.DurationLeft < iv.DurationLeft {
		iv.DurationLeft = upd.DurationLeft
	}
	if upd.Complete {
		iv.Status = models.StatusCompleted
	}
	iv.UpdatedAt = now
	return clone(iv), upd.Complete, nil
}

func (s *Store) Stats(_ context.Context, r repositories.StatsRange) (*models.InterviewStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var selected []models.Interview
	for _, iv := range s.interviews {
		if iv.User != r.User {
			continue
		}
		if iv.CreatedAt.Before(r.Start) || iv.CreatedAt.After(r.End) {
			continue
		}
		selected = append(selected, *iv)
	}
	return repositories.ComputeStats(selected), nil
}

func (s *Store) Ping(context.Context) error { return nil }

func matches(iv *models.Interview, filter repositories.ListFilter) bool {
	if filter.User != "" && iv.User != filter.User {
		return false
	}
	for field, want := range filter.Fields {
		var got string
		switch field {
		case "industry":
			got = iv.Industry
		case "type":
			got = iv.Type
		case "topic":
			got = iv.Topic
		case "role":
			got = iv.Role
		case "difficulty":
			got = iv.Difficulty
		case "status":
			got = string(iv.Status)
		default:
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrInvalidID
	}
	return oid, nil
}

func clone(iv *models.Interview) *models.Interview {
	out := *iv
	out.Questions = append([]models.Question(nil), iv.Questions...)
	return &out
}
