package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

func seedInterview(t *testing.T, s *Store, user string, created time.Time, questions ...string) *models.Interview {
	t.Helper()
	if len(questions) == 0 {
		questions = []string{"q1", "q2", "q3"}
	}
	req := &models.CreateInterviewRequest{
		Industry: "Software Engineering", Type: "Technical", Topic: "Databases",
		Role: "DBA", Difficulty: "Beginner", NumOfQuestions: len(questions), Duration: 5, User: user,
	}
	iv, err := s.Create(context.Background(), models.NewInterview(req, questions, created))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return iv
}

func TestCreateGetDelete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	iv := seedInterview(t, s, "u1", time.Now())

	if iv.ID.IsZero() {
		t.Fatal("expected id to be assigned")
	}

	got, err := s.Get(ctx, iv.ID.Hex())
	if err != nil || got.User != "u1" {
		t.Fatalf("Get: %+v %v", got, err)
	}

	got.Questions[0].Answer = "mutated"
	again, _ := s.Get(ctx, iv.ID.Hex())
	if again.Questions[0].Answer != "" {
		t.Fatal("returned documents must not alias stored state")
	}

	if err := s.Delete(ctx, iv.ID.Hex()); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Get(ctx, iv.ID.Hex()); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, iv.ID.Hex()); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := s.Get(ctx, "not-hex"); !errors.Is(err, repositories.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestListFiltersSortsAndPaginates(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedInterview(t, s, "u1", base.Add(time.Duration(i)*time.Hour))
	}
	seedInterview(t, s, "u2", base.Add(10*time.Hour))

	items, total, err := s.List(context.Background(), repositories.ListFilter{User: "u1", Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 5 || len(items) != 2 {
		t.Fatalf("expected 2 of 5, got %d of %d", len(items), total)
	}
	if !items[0].CreatedAt.Equal(base.Add(4 * time.Hour)) {
		t.Fatalf("expected newest first, got %v", items[0].CreatedAt)
	}

	items, _, _ = s.List(context.Background(), repositories.ListFilter{User: "u1", Page: 3, PageSize: 2})
	if len(items) != 1 {
		t.Fatalf("expected last page of 1, got %d", len(items))
	}
	items, _, _ = s.List(context.Background(), repositories.ListFilter{User: "u1", Page: 9, PageSize: 2})
	if len(items) != 0 {
		t.Fatalf("expected empty page, got %d", len(items))
	}

	_, total, _ = s.List(context.Background(), repositories.ListFilter{PageSize: 2})
	if total != 6 {
		t.Fatalf("expected all users listed without user scope, got %d", total)
	}

	_, total, _ = s.List(context.Background(), repositories.ListFilter{
		User: "u1", PageSize: 2, Fields: map[string]string{"status": "completed"},
	})
	if total != 0 {
		t.Fatalf("expected no completed sessions, got %d", total)
	}
}

func TestApplyAnswerCountsFirstCompletionOnce(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	iv := seedInterview(t, s, "u1", time.Now())
	qid := iv.Questions[0].ID.Hex()

	got, first, err := s.ApplyAnswer(ctx, iv.ID.Hex(), repositories.AnswerUpdate{QuestionID: qid, Answer: "a1", Result: models.Result{OverallScore: 5}}, time.Now())
	if err != nil || !first || got.Answered != 1 {
		t.Fatalf("first apply: answered=%d first=%v err=%v", got.Answered, first, err)
	}

	got, first, err = s.ApplyAnswer(ctx, iv.ID.Hex(), repositories.AnswerUpdate{QuestionID: qid, Answer: "a2", Result: models.Result{OverallScore: 9}}, time.Now())
	if err != nil || first || got.Answered != 1 {
		t.Fatalf("resubmit: answered=%d first=%v err=%v", got.Answered, first, err)
	}
	if got.Questions[0].Answer != "a2" || got.Questions[0].Result.OverallScore != 9 {
		t.Fatalf("resubmission should overwrite answer, got %+v", got.Questions[0])
	}

	if _, _, err := s.ApplyAnswer(ctx, iv.ID.Hex(), repositories.AnswerUpdate{QuestionID: primitive.NewObjectID().Hex()}, time.Now()); !errors.Is(err, repositories.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestApplyAnswerConcurrentSameQuestion(t *testing.T) {
	s := NewStore()
	iv := seedInterview(t, s, "u1", time.Now())
	qid := iv.Questions[1].ID.Hex()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ApplyAnswer(context.Background(), iv.ID.Hex(), repositories.AnswerUpdate{QuestionID: qid, Answer: "x"}, time.Now())
		}()
	}
	wg.Wait()

	got, _ := s.Get(context.Background(), iv.ID.Hex())
	if got.Answered != 1 {
		t.Fatalf("expected answered=1 after concurrent submissions, got %d", got.Answered)
	}
}

func TestUpdateProgressMonotonicAndTerminal(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	iv := seedInterview(t, s, "u1", time.Now())
	id := iv.ID.Hex()

	got, done, _ := s.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 200}, time.Now())
	if got.DurationLeft != 200 || done {
		t.Fatalf("expected 200 left and pending, got %d %v", got.DurationLeft, done)
	}

	got, _, _ = s.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 250}, time.Now())
	if got.DurationLeft != 200 {
		t.Fatalf("durationLeft must not increase, got %d", got.DurationLeft)
	}

	got, done, _ = s.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 0, Complete: true}, time.Now())
	if !done || got.Status != models.StatusCompleted || got.DurationLeft != 0 {
		t.Fatalf("expected completion, got %+v %v", got, done)
	}

	got, done, _ = s.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 0, Complete: true}, time.Now())
	if done || got.Status != models.StatusCompleted {
		t.Fatalf("second completion must not report a transition, got %v", done)
	}

	if _, _, err := s.ApplyAnswer(ctx, id, repositories.AnswerUpdate{QuestionID: iv.Questions[0].ID.Hex()}, time.Now()); !errors.Is(err, repositories.ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}
}

func TestStatsScopedToUserAndRange(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	day1 := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	a := seedInterview(t, s, "u1", day1)
	seedInterview(t, s, "u1", day1.Add(time.Hour))
	seedInterview(t, s, "u1", day2)
	seedInterview(t, s, "u2", day1)
	seedInterview(t, s, "u1", day2.AddDate(0, 1, 0))

	s.ApplyAnswer(ctx, a.ID.Hex(), repositories.AnswerUpdate{QuestionID: a.Questions[0].ID.Hex()}, time.Now())
	s.UpdateProgress(ctx, a.ID.Hex(), repositories.ProgressUpdate{DurationLeft: 0, Complete: true}, time.Now())

	stats, err := s.Stats(ctx, repositories.StatsRange{
		User:  "u1",
		Start: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalInterviews != 3 || stats.CompletionRate != 33.33 {
		t.Fatalf("unexpected overall stats %+v", stats)
	}
	if len(stats.Stats) != 2 || stats.Stats[0].Date != "2026-05-01" {
		t.Fatalf("unexpected daily stats %+v", stats.Stats)
	}
	if stats.Stats[0].CompletedQuestions != 1 || stats.Stats[0].UnansweredQuestions != 5 || stats.Stats[0].CompletionRate != 50 {
		t.Fatalf("unexpected first day %+v", stats.Stats[0])
	}
}
