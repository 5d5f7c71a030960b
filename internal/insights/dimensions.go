package insights

import (
	"math"
	"sort"

	"flex_reviews/internal/domain"
)

// Listing is a distinct propertyId with its display name.
type Listing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UniqueChannels returns the distinct channel values, alphabetically.
func UniqueChannels(reviews []domain.Review) []string {
	seen := make(map[string]struct{}, 8)
	out := make([]string, 0, 8)
	for _, r := range reviews {
		if _, ok := seen[r.Channel]; ok {
			continue
		}
		seen[r.Channel] = struct{}{}
		out = append(out, r.Channel)
	}
	sort.Strings(out)
	return out
}

// UniqueCategories returns the distinct category names appearing in any
// review's sub-ratings, alphabetically.
func UniqueCategories(reviews []domain.Review) []string {
	seen := make(map[string]struct{}, 16)
	out := make([]string, 0, 16)
	for _, r := range reviews {
		for _, c := range r.Categories {
			if _, ok := seen[c.Category]; ok {
				continue
			}
			seen[c.Category] = struct{}{}
			out = append(out, c.Category)
		}
	}
	sort.Strings(out)
	return out
}

// UniqueListings returns one entry per distinct propertyId in first-seen
// order. When duplicate ids carry diverging names the last-seen name
// wins; the source data is assumed 1:1 but nothing enforces it.
func UniqueListings(reviews []domain.Review) []Listing {
	idx := make(map[string]int, 16)
	out := make([]Listing, 0, 16)
	for _, r := range reviews {
		if i, ok := idx[r.PropertyID]; ok {
			out[i].Name = r.ListingName
			continue
		}
		idx[r.PropertyID] = len(out)
		out = append(out, Listing{ID: r.PropertyID, Name: r.ListingName})
	}
	return out
}

// RatingDistribution buckets every rated review into the 1..5 star bucket
// its rating rounds to. All five buckets are always present; unrated
// reviews and ratings rounding outside 1..5 are dropped.
func RatingDistribution(reviews []domain.Review) map[int]int {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range reviews {
		if r.Rating == nil {
			continue
		}
		b := int(math.Round(*r.Rating))
		if b >= 1 && b <= 5 {
			dist[b]++
		}
	}
	return dist
}

// CategoryStat ranks a category by its average sub-rating.
type CategoryStat struct {
	Category      string  `json:"category"`
	AverageRating float64 `json:"averageRating"`
	Count         int     `json:"count"`
}

// CategoryStats returns per-category average rating and occurrence count,
// best-rated first.
func CategoryStats(reviews []domain.Review) []CategoryStat {
	type acc struct {
		sum   float64
		count int
	}
	idx := make(map[string]int, 16)
	order := make([]string, 0, 16)
	accs := make([]acc, 0, 16)

	for _, r := range reviews {
		for _, c := range r.Categories {
			i, ok := idx[c.Category]
			if !ok {
				i = len(accs)
				idx[c.Category] = i
				order = append(order, c.Category)
				accs = append(accs, acc{})
			}
			accs[i].sum += c.Rating
			accs[i].count++
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for i, cat := range order {
		avg := 0.0
		if accs[i].count > 0 {
			avg = round2(accs[i].sum / float64(accs[i].count))
		}
		out = append(out, CategoryStat{Category: cat, AverageRating: avg, Count: accs[i].count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	return out
}

// Summaries computes the count/average buckets returned alongside a
// review list: per listing, per channel, and per YYYY-MM month. Unrated
// reviews count toward bucket sizes but not averages; a bucket with no
// rated reviews reports a nil average.
func Summaries(reviews []domain.Review) domain.Aggregations {
	return domain.Aggregations{
		ByListing: bucketBy(reviews, func(r domain.Review) string { return r.PropertyID }),
		ByChannel: bucketBy(reviews, func(r domain.Review) string { return r.Channel }),
		ByMonth:   bucketBy(reviews, func(r domain.Review) string { return monthKey(r.SubmittedAt) }),
	}
}

func bucketBy(reviews []domain.Review, key func(domain.Review) string) map[string]domain.BucketSummary {
	type acc struct {
		count, rated int
		sum          float64
	}
	accs := make(map[string]*acc, 16)
	for _, r := range reviews {
		k := key(r)
		if k == "" {
			continue
		}
		a := accs[k]
		if a == nil {
			a = &acc{}
			accs[k] = a
		}
		a.count++
		if r.Rating != nil {
			a.rated++
			a.sum += *r.Rating
		}
	}
	out := make(map[string]domain.BucketSummary, len(accs))
	for k, a := range accs {
		s := domain.BucketSummary{Count: a.count}
		if a.rated > 0 {
			avg := round1(a.sum / float64(a.rated))
			s.AvgRating = &avg
		}
		out[k] = s
	}
	return out
}
