package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// PerformanceAlert is a synthesized, human-readable warning composed from
// the other insight engines.
type PerformanceAlert struct {
	Type        string `json:"type"` // critical | warning | info
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Category    string `json:"category,omitempty"`
}

var severityRank = map[string]int{"critical": 0, "warning": 1, "info": 2}

// PerformanceAlerts evaluates four independent rules and returns every
// alert that triggers, critical first. Volume and recurring-issue rules
// look at the trailing 30-day subset (measured from now); category and
// monthly rules look at the full set.
func PerformanceAlerts(reviews []domain.Review, now time.Time) []PerformanceAlert {
	var alerts []PerformanceAlert

	recent := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if isRecent(r, now) {
			recent = append(recent, r)
		}
	}

	// 1) Low-rating volume in the recent window.
	lowCount := 0
	for _, r := range recent {
		if r.Rating != nil && *r.Rating <= LowRatingMax {
			lowCount++
		}
	}
	if float64(lowCount) > float64(len(recent))*LowRatingShare {
		pct := float64(lowCount) / float64(len(recent)) * 100
		alerts = append(alerts, PerformanceAlert{
			Type:        "critical",
			Title:       "High Number of Low Ratings",
			Description: fmt.Sprintf("%d low ratings in the last 30 days (%.1f%%)", lowCount, pct),
			Action:      "Review recent feedback for common issues and take immediate action",
		})
	}

	// 2) Category performance over the full set.
	var problem []string
	for _, c := range CategoryInsights(reviews, now) {
		if c.IssueRate > DecliningIssueRate {
			problem = append(problem, c.Category)
		}
	}
	if len(problem) > 0 {
		alerts = append(alerts, PerformanceAlert{
			Type:        "warning",
			Title:       "Category Performance Issues",
			Description: "Issues detected in: " + strings.Join(problem, ", "),
			Action:      "Address recurring problems in these areas with targeted improvements",
			Category:    problem[0],
		})
	}

	// 3) Month-over-month decline.
	if trends := MonthlyTrends(reviews); len(trends) >= 2 {
		cur := trends[len(trends)-1]
		prev := trends[len(trends)-2]
		if cur.AvgRating < prev.AvgRating-MonthlyDropAlert {
			alerts = append(alerts, PerformanceAlert{
				Type:        "warning",
				Title:       "Declining Performance Trend",
				Description: fmt.Sprintf("Average rating dropped from %s to %s", trimFloat(prev.AvgRating), trimFloat(cur.AvgRating)),
				Action:      "Investigate recent changes and implement improvement measures",
			})
		}
	}

	// 4) High-severity recurring issues in the recent window.
	var high []string
	for _, i := range RecurringIssues(recent) {
		if i.Severity == "high" {
			high = append(high, i.Issue)
		}
	}
	if n := len(high); n > 0 {
		noun := "issues"
		if n == 1 {
			noun = "issue"
		}
		alerts = append(alerts, PerformanceAlert{
			Type:        "critical",
			Title:       "Recurring High-Severity Issues",
			Description: fmt.Sprintf("%d %s reported frequently: %s", n, noun, strings.Join(high, ", ")),
			Action:      "Prioritize fixing these recurring problems immediately",
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank[alerts[i].Type] < severityRank[alerts[j].Type]
	})
	return alerts
}

// trimFloat renders a rating with at most one decimal and no trailing
// ".0" (4.5, 4).
func trimFloat(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}
