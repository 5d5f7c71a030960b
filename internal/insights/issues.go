package insights

import (
	"fmt"
	"sort"
	"strings"

	"flex_reviews/internal/domain"
)

const maxRecurringIssues = 8

// issueKeywords maps named issue categories to the lowercase substrings
// that credit them. A data table rather than branching so categories can
// be extended and tested independently of the scan. Order matters: it
// fixes the iteration order for deterministic output and tie-breaking.
var issueKeywords = []struct {
	Category string
	Keywords []string
}{
	{"WiFi", []string{"wifi", "internet", "connection", "network", "signal"}},
	{"Noise", []string{"noise", "loud", "noisy", "sound", "disturbance"}},
	{"Cleanliness", []string{"dirty", "clean", "messy", "stain", "dust"}},
	{"Heating", []string{"heat", "heating", "cold", "temperature", "warm"}},
	{"Check-in", []string{"check-in", "checkin", "key", "access", "entry"}},
	{"Communication", []string{"response", "reply", "contact", "message", "host"}},
	{"Parking", []string{"parking", "park", "car", "vehicle", "space"}},
	{"Kitchen", []string{"kitchen", "cook", "stove", "refrigerator", "fridge"}},
}

// RecurringIssue is a textual complaint theme mined from review text.
type RecurringIssue struct {
	Issue     string `json:"issue"`
	Frequency int    `json:"frequency"`
	Severity  string `json:"severity"` // high | medium | low
	Category  string `json:"category"`
}

// RecurringIssues scans review text for the keyword dictionary and
// reports themes mentioned by at least two reviews, most frequent first,
// capped at eight. A category is credited at most once per review, but
// every keyword hit is tallied so each theme can carry its most common
// keyword in the display label.
func RecurringIssues(reviews []domain.Review) []RecurringIssue {
	categoryCounts := make(map[string]int, len(issueKeywords))
	keywordCounts := make(map[string]map[string]int, len(issueKeywords))

	for _, r := range reviews {
		if r.Text == nil || *r.Text == "" {
			continue
		}
		text := strings.ToLower(*r.Text)

		for _, entry := range issueKeywords {
			credited := false
			for _, kw := range entry.Keywords {
				if !strings.Contains(text, kw) {
					continue
				}
				kc := keywordCounts[entry.Category]
				if kc == nil {
					kc = make(map[string]int, len(entry.Keywords))
					keywordCounts[entry.Category] = kc
				}
				kc[kw]++
				if !credited {
					categoryCounts[entry.Category]++
					credited = true
				}
			}
		}
	}

	out := make([]RecurringIssue, 0, len(issueKeywords))
	for _, entry := range issueKeywords {
		freq := categoryCounts[entry.Category]
		if freq < 2 {
			continue
		}

		// Representative keyword: the most frequently matched one, first
		// dictionary entry winning ties.
		keyword := "general"
		best := 0
		for _, kw := range entry.Keywords {
			if n := keywordCounts[entry.Category][kw]; n > best {
				best = n
				keyword = kw
			}
		}

		severity := "low"
		if freq >= 5 {
			severity = "high"
		} else if freq >= 3 {
			severity = "medium"
		}

		out = append(out, RecurringIssue{
			Issue:     fmt.Sprintf("%s issues (%s)", entry.Category, keyword),
			Frequency: freq,
			Severity:  severity,
			Category:  entry.Category,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	if len(out) > maxRecurringIssues {
		out = out[:maxRecurringIssues]
	}
	return out
}
