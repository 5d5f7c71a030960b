// Package insights is the review analytics engine: pure, stateless
// transforms over an in-memory slice of normalized reviews. Nothing here
// mutates its input or holds shared state, so every function is safe to
// call concurrently. Computations that depend on a "recent" window take
// the reference time as an explicit parameter.
package insights

import (
	"math"
	"time"

	"flex_reviews/internal/domain"
)

// Tunable thresholds for trend classification and alerting. Declared as
// vars so boundary tests can override them.
var (
	// LowRatingMax is the ceiling at which a rating counts as an issue.
	LowRatingMax = 3.0
	// RecentWindow is the trailing window used for "recent" subsets.
	RecentWindow = 30 * 24 * time.Hour
	// TrendDeltaPts is the issue-rate delta (percentage points) between the
	// recent window and the baseline that flips a category trend to
	// concerning/improving.
	TrendDeltaPts = 10.0
	// DecliningIssueRate marks a category as declining when exceeded.
	DecliningIssueRate = 40.0
	// MonthlyArrowDelta is the month-over-month avg-rating change needed to
	// show a non-flat arrow.
	MonthlyArrowDelta = 0.2
	// MonthlyDropAlert is the month-over-month avg-rating drop that raises
	// a declining-trend alert.
	MonthlyDropAlert = 0.5
	// LowRatingShare is the fraction of recent reviews rated low that
	// raises a critical volume alert.
	LowRatingShare = 0.3
)

// round1 rounds to 1 decimal place.
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// round2 rounds to 2 decimal places.
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// timeLayouts covers the submittedAt shapes seen across channels.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime parses an ISO-8601-ish timestamp. The second return is false
// for malformed input; callers treat such reviews as outside any date
// range rather than failing.
func parseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// monthKey truncates a submittedAt string to its YYYY-MM bucket, or ""
// when the value cannot carry one.
func monthKey(s string) string {
	if len(s) < 7 {
		return ""
	}
	for i, r := range s[:7] {
		if i == 4 {
			if r != '-' {
				return ""
			}
			continue
		}
		if r < '0' || r > '9' {
			return ""
		}
	}
	return s[:7]
}

// isRecent reports whether the review falls inside the trailing window
// ending at now. Malformed timestamps are never recent.
func isRecent(r domain.Review, now time.Time) bool {
	t, ok := parseTime(r.SubmittedAt)
	if !ok {
		return false
	}
	return !t.Before(now.Add(-RecentWindow))
}
