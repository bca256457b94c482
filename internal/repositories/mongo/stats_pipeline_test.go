package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"interview-alchemist/internal/repositories"
)

func TestStatsPipelineMatchesUserAndRange(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 31, 23, 59, 59, 999e6, time.UTC)
	p := statsPipeline(repositories.StatsRange{User: "u1", Start: start, End: end})

	if len(p) != 2 || p[0][0].Key != "$match" || p[1][0].Key != "$facet" {
		t.Fatalf("unexpected pipeline shape %v", p)
	}
	match := p[0][0].Value.(bson.M)
	if match["user"] != "u1" {
		t.Fatalf("expected user match, got %v", match)
	}
	rng := match["createdAt"].(bson.M)
	if rng["$gte"] != start || rng["$lte"] != end {
		t.Fatalf("unexpected range %v", rng)
	}
}

func TestFacetsToStats(t *testing.T) {
	rows := statsFacets{{
		Daily: []dailyRow{
			{Date: "2026-05-02", TotalInterviews: 1, CompletedInterviews: 1, CompletedQuestions: 3},
			{Date: "2026-05-01", TotalInterviews: 3, CompletedInterviews: 1, CompletedQuestions: 2, UnansweredQuestions: 7},
		},
		Overall: []overallRow{{TotalInterviews: 4, CompletedInterviews: 2}},
	}}

	stats := rows.toStats()
	if stats.TotalInterviews != 4 || stats.CompletionRate != 50 {
		t.Fatalf("unexpected overall %+v", stats)
	}
	if stats.Stats[0].Date != "2026-05-01" || stats.Stats[0].CompletionRate != 33.33 || stats.Stats[0].UnansweredQuestions != 7 {
		t.Fatalf("unexpected first day %+v", stats.Stats[0])
	}

	empty := statsFacets{}.toStats()
	if empty.TotalInterviews != 0 || empty.Stats == nil {
		t.Fatalf("expected zeroed stats, got %+v", empty)
	}
}

func TestListFilterScopesUser(t *testing.T) {
	f := listFilter(repositories.ListFilter{User: "u1", Fields: map[string]string{"status": "pending", "user": "u2"}})
	if f["user"] != "u1" || f["status"] != "pending" {
		t.Fatalf("caller scope must win over field filters, got %v", f)
	}
	if all := listFilter(repositories.ListFilter{}); len(all) != 0 {
		t.Fatalf("expected empty filter, got %v", all)
	}
}
