package insights

import (
	"sort"

	"flex_reviews/internal/domain"
)

// Arrow glyphs shown on the monthly timeline.
const (
	ArrowUp   = "↗️"
	ArrowDown = "↘️"
	ArrowFlat = "→"
)

// MonthlyTrend is one calendar month's aggregate performance.
type MonthlyTrend struct {
	Month     string  `json:"month"` // YYYY-MM
	AvgRating float64 `json:"avgRating"`
	Issues    int     `json:"issues"`
	Trend     string  `json:"trend"`
	IssueRate float64 `json:"issueRate"`
}

// MonthlyTrends buckets rated reviews by YYYY-MM and reports each
// month's average rating, issue count, and issue rate in chronological
// order. The arrow compares a month's average against its predecessor;
// the first month is always flat. Reviews without a rating, or whose
// submittedAt cannot be truncated to a month, contribute nothing.
func MonthlyTrends(reviews []domain.Review) []MonthlyTrend {
	type acc struct {
		sum        float64
		count      int
		lowRatings int
	}
	accs := make(map[string]*acc, 12)
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		m := monthKey(r.SubmittedAt)
		if m == "" {
			continue
		}
		a := accs[m]
		if a == nil {
			a = &acc{}
			accs[m] = a
		}
		a.sum += *r.Rating
		a.count++
		if *r.Rating <= LowRatingMax {
			a.lowRatings++
		}
	}

	out := make([]MonthlyTrend, 0, len(accs))
	for m, a := range accs {
		out = append(out, MonthlyTrend{
			Month:     m,
			AvgRating: round1(a.sum / float64(a.count)),
			Issues:    a.lowRatings,
			Trend:     ArrowFlat,
			IssueRate: round1(float64(a.lowRatings) / float64(a.count) * 100),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })

	for i := 1; i < len(out); i++ {
		switch {
		case out[i].AvgRating > out[i-1].AvgRating+MonthlyArrowDelta:
			out[i].Trend = ArrowUp
		case out[i].AvgRating < out[i-1].AvgRating-MonthlyArrowDelta:
			out[i].Trend = ArrowDown
		}
	}
	return out
}
