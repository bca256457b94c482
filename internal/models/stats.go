package models

import "math"

// DailyStats aggregates the sessions created on one calendar day
type DailyStats struct {
	Date                string  `bson:"date" json:"date"`
	TotalInterviews     int     `bson:"totalInterviews" json:"totalInterviews"`
	CompletionRate      float64 `bson:"completionRate" json:"completionRate"`
	CompletedQuestions  int     `bson:"completedQuestions" json:"completedQuestions"`
	UnansweredQuestions int     `bson:"unansweredQuestions" json:"unansweredQuestions"`
}

type InterviewStats struct {
	TotalInterviews int          `json:"totalInterviews"`
	CompletionRate  float64      `json:"completionRate"`
	Stats           []DailyStats `json:"stats"`
}

// CompletionRate is completed over total as a percentage with two decimals
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
