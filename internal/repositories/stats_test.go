package repositories

import (
	"testing"

	"interview-alchemist/internal/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalInterviews != 0 || stats.CompletionRate != 0 || len(stats.Stats) != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if stats.Stats == nil {
		t.Fatal("expected empty, non-nil daily slice for JSON")
	}
}

func TestComputeStatsCountsQuestions(t *testing.T) {
	iv := models.Interview{
		Status:    models.StatusCompleted,
		Questions: []models.Question{{Completed: true}, {Completed: true}, {}},
	}
	stats := ComputeStats([]models.Interview{iv})
	day := stats.Stats[0]
	if day.CompletedQuestions != 2 || day.UnansweredQuestions != 1 || day.CompletionRate != 100 {
		t.Fatalf("unexpected day %+v", day)
	}
}
