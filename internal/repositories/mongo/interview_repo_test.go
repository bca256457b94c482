package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

// newIntegrationRepo needs a reachable server in MONGO_TEST_URI
func newIntegrationRepo(t *testing.T) *InterviewRepo {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	c, err := NewClient(uri, fmt.Sprintf("interview_test_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	t.Cleanup(func() {
		if db, err := c.DB(context.Background()); err == nil {
			_ = db.Drop(context.Background())
		}
		_ = c.Disconnect(context.Background())
	})
	repo := NewInterviewRepo(c, "interviews")
	if err := repo.EnsureIndexes(context.Background()); err != nil {
		t.Fatalf("EnsureIndexes returned error: %v", err)
	}
	return repo
}

func seed(t *testing.T, repo *InterviewRepo, user string) *models.Interview {
	t.Helper()
	req := &models.CreateInterviewRequest{
		Industry: "DevOps", Type: "Technical", Topic: "Docker", Role: "SRE",
		Difficulty: "Beginner", NumOfQuestions: 2, Duration: 5, User: user,
	}
	iv, err := repo.Create(context.Background(), models.NewInterview(req, []string{"q1", "q2"}, time.Now().UTC()))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return iv
}

func TestIntegrationAnswerLifecycle(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	iv := seed(t, repo, "u1")
	id := iv.ID.Hex()
	qid := iv.Questions[0].ID.Hex()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.ApplyAnswer(ctx, id, repositories.AnswerUpdate{QuestionID: qid, Answer: "a"}, time.Now())
		}()
	}
	wg.Wait()

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Answered != 1 || !got.Questions[0].Completed {
		t.Fatalf("expected one counted answer, got %+v", got)
	}

	got, _, _ = repo.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 120}, time.Now())
	got, _, _ = repo.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 200}, time.Now())
	if got.DurationLeft != 120 {
		t.Fatalf("durationLeft must not increase, got %d", got.DurationLeft)
	}

	got, done, err := repo.UpdateProgress(ctx, id, repositories.ProgressUpdate{DurationLeft: 0, Complete: true}, time.Now())
	if err != nil || !done || got.Status != models.StatusCompleted {
		t.Fatalf("expected completion, got %+v %v %v", got, done, err)
	}

	if _, _, err := repo.ApplyAnswer(ctx, id, repositories.AnswerUpdate{QuestionID: iv.Questions[1].ID.Hex()}, time.Now()); !errors.Is(err, repositories.ErrSessionCompleted) {
		t.Fatalf("expected ErrSessionCompleted, got %v", err)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := repo.Delete(ctx, id); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIntegrationListAndStats(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		seed(t, repo, "u1")
	}
	seed(t, repo, "u2")

	items, total, err := repo.List(ctx, repositories.ListFilter{User: "u1", Page: 1, PageSize: 2})
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("unexpected listing %d/%d err=%v", len(items), total, err)
	}

	now := time.Now().UTC()
	stats, err := repo.Stats(ctx, repositories.StatsRange{User: "u1", Start: now.Add(-time.Hour), End: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalInterviews != 3 || stats.CompletionRate != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}
