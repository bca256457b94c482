package evaluator

import (
	"regexp"
	"strconv"
	"strings"

	"interview-alchemist/internal/models"
)

const (
	minScore = 0
	maxScore = 10
)

var (
	overallPattern      = regexp.MustCompile(`(?i)overall(?:\s+score)?\s*=\s*(\d+)`)
	relevancePattern    = regexp.MustCompile(`(?i)relevance(?:\s+score)?\s*=\s*(\d+)`)
	clarityPattern      = regexp.MustCompile(`(?i)clarity(?:\s+score)?\s*=\s*(\d+)`)
	completenessPattern = regexp.MustCompile(`(?i)completeness(?:\s+score)?\s*=\s*(\d+)`)
	suggestionPattern   = regexp.MustCompile(`(?i)suggestions?\s*=\s*(.*)`)
)

// Parse extracts each labelled field independently. Missing scores default to
// 0 and a missing suggestion to "". found counts the fields that were present.
func Parse(content string) (result models.Result, found int) {
	scores := []struct {
		pattern *regexp.Regexp
		dst     *int
	}{
		{overallPattern, &result.OverallScore},
		{relevancePattern, &result.Relevance},
		{clarityPattern, &result.Clarity},
		{completenessPattern, &result.Completeness},
	}
	for _, s := range scores {
		if v, ok := matchScore(s.pattern, content); ok {
			*s.dst = v
			found++
		}
	}

	if m := suggestionPattern.FindStringSubmatch(content); m != nil {
		result.Suggestion = strings.TrimSpace(m[1])
		found++
	}
	return result, found
}

func matchScore(pattern *regexp.Regexp, content string) (int, bool) {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return clamp(v), true
}

func clamp(v int) int {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
