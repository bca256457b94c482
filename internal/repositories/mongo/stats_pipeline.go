package mongo

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"interview-alchemist/internal/models"
	"interview-alchemist/internal/repositories"
)

type dailyRow struct {
	Date                string `bson:"_id"`
	TotalInterviews     int    `bson:"totalInterviews"`
	CompletedInterviews int    `bson:"completedInterviews"`
	CompletedQuestions  int    `bson:"completedQuestions"`
	UnansweredQuestions int    `bson:"unansweredQuestions"`
}

type overallRow struct {
	TotalInterviews     int `bson:"totalInterviews"`
	CompletedInterviews int `bson:"completedInterviews"`
}

type statsFacet struct {
	Daily   []dailyRow   `bson:"daily"`
	Overall []overallRow `bson:"overall"`
}

type statsFacets []statsFacet

var completedCond = bson.M{"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusCompleted}}, 1, 0}}

func countQuestions(completed bool) bson.M {
	return bson.M{"$size": bson.M{"$filter": bson.M{
		"input": bson.M{"$ifNull": bson.A{"$questions", bson.A{}}},
		"as":    "q",
		"cond":  bson.M{"$eq": bson.A{"$$q.completed", completed}},
	}}}
}

// statsPipeline groups a user's sessions in the range per UTC day and overall
func statsPipeline(sr repositories.StatsRange) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"user":      sr.User,
			"createdAt": bson.M{"$gte": sr.Start, "$lte": sr.End},
		}}},
		{{Key: "$facet", Value: bson.M{
			"daily": bson.A{
				bson.M{"$group": bson.M{
					"_id":                 bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
					"totalInterviews":     bson.M{"$sum": 1},
					"completedInterviews": bson.M{"$sum": completedCond},
					"completedQuestions":  bson.M{"$sum": countQuestions(true)},
					"unansweredQuestions": bson.M{"$sum": countQuestions(false)},
				}},
				bson.M{"$sort": bson.M{"_id": 1}},
			},
			"overall": bson.A{
				bson.M{"$group": bson.M{
					"_id":                 nil,
					"totalInterviews":     bson.M{"$sum": 1},
					"completedInterviews": bson.M{"$sum": completedCond},
				}},
			},
		}}},
	}
}

func (rows statsFacets) toStats() *models.InterviewStats {
	stats := &models.InterviewStats{Stats: []models.DailyStats{}}
	if len(rows) == 0 {
		return stats
	}
	facet := rows[0]

	if len(facet.Overall) > 0 {
		o := facet.Overall[0]
		stats.TotalInterviews = o.TotalInterviews
		stats.CompletionRate = models.CompletionRate(o.CompletedInterviews, o.TotalInterviews)
	}
	for _, d := range facet.Daily {
		stats.Stats = append(stats.Stats, models.DailyStats{
			Date:                d.Date,
			TotalInterviews:     d.TotalInterviews,
			CompletionRate:      models.CompletionRate(d.CompletedInterviews, d.TotalInterviews),
			CompletedQuestions:  d.CompletedQuestions,
			UnansweredQuestions: d.UnansweredQuestions,
		})
	}
	sort.Slice(stats.Stats, func(i, j int) bool { return stats.Stats[i].Date < stats.Stats[j].Date })
	return stats
}
