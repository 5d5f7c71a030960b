package insights

import (
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

// CategoryInsight describes how one sub-rating category is performing.
type CategoryInsight struct {
	Category  string  `json:"category"`
	Rating    float64 `json:"rating"`
	Issues    int     `json:"issues"`
	Trend     string  `json:"trend"` // improving | stable | declining | concerning
	IssueRate float64 `json:"issueRate"`
}

// CategoryInsights aggregates every category occurrence across the given
// reviews and classifies each category's trend by comparing the issue
// rate inside the trailing 30-day window (measured from now) against the
// overall issue rate. Worst-performing categories come first.
func CategoryInsights(reviews []domain.Review, now time.Time) []CategoryInsight {
	type acc struct {
		total      int
		sum        float64
		lowRatings int
		recentLow  int
	}
	idx := make(map[string]int, 16)
	order := make([]string, 0, 16)
	accs := make([]acc, 0, 16)

	for _, r := range reviews {
		recent := isRecent(r, now)
		for _, c := range r.Categories {
			i, ok := idx[c.Category]
			if !ok {
				i = len(accs)
				idx[c.Category] = i
				order = append(order, c.Category)
				accs = append(accs, acc{})
			}
			a := &accs[i]
			a.total++
			a.sum += c.Rating
			if c.Rating <= LowRatingMax {
				a.lowRatings++
				if recent {
					a.recentLow++
				}
			}
		}
	}

	out := make([]CategoryInsight, 0, len(order))
	for i, cat := range order {
		a := accs[i]
		var avg, issueRate, recentRate float64
		if a.total > 0 {
			avg = round1(a.sum / float64(a.total))
			issueRate = round1(float64(a.lowRatings) / float64(a.total) * 100)
			recentRate = round1(float64(a.recentLow) / float64(a.total) * 100)
		}

		trend := "stable"
		switch {
		case recentRate > issueRate+TrendDeltaPts:
			trend = "concerning"
		case recentRate < issueRate-TrendDeltaPts:
			trend = "improving"
		case issueRate > DecliningIssueRate:
			trend = "declining"
		}

		out = append(out, CategoryInsight{
			Category:  cat,
			Rating:    avg,
			Issues:    a.lowRatings,
			Trend:     trend,
			IssueRate: issueRate,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueRate > out[j].IssueRate })
	return out
}
