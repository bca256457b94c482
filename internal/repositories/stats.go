package repositories

import (
	"sort"

	"interview-alchemist/internal/models"
)

const dayLayout = "2006-01-02"

// ComputeStats aggregates sessions per UTC creation day and overall
func ComputeStats(interviews []models.Interview) *models.InterviewStats {
	type bucket struct {
		total, completed, doneQuestions, openQuestions int
	}
	days := make(map[string]*bucket)
	completed := 0

	for _, iv := range interviews {
		day := iv.CreatedAt.UTC().Format(dayLayout)
		b, ok := days[day]
		if !ok {
			b = &bucket{}
			days[day] = b
		}
		b.total++
		if iv.IsCompleted() {
			b.completed++
			completed++
		}
		for _, q := range iv.Questions {
			if q.Completed {
				b.doneQuestions++
			} else {
				b.openQuestions++
			}
		}
	}

	stats := &models.InterviewStats{
		TotalInterviews: len(interviews),
		CompletionRate:  models.CompletionRate(completed, len(interviews)),
		Stats:           make([]models.DailyStats, 0, len(days)),
	}
	for day, b := range days {
		stats.Stats = append(stats.Stats, models.DailyStats{
			Date:                day,
			TotalInterviews:     b.total,
			CompletionRate:      models.CompletionRate(b.completed, b.total),
			CompletedQuestions:  b.doneQuestions,
			UnansweredQuestions: b.openQuestions,
		})
	}
	sort.Slice(stats.Stats, func(i, j int) bool { return stats.Stats[i].Date < stats.Stats[j].Date })
	return stats
}
