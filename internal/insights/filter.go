package insights

import (
	"sort"

	"flex_reviews/internal/domain"
)

// Filter returns the sub-sequence of reviews matching every populated
// criterion, preserving the input's relative order. A review with no
// overall rating is not excluded by a rating range; only numeric ratings
// are range-checked. Reviews with malformed submittedAt values never
// match a date range.
func Filter(reviews []domain.Review, f domain.FilterOptions) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.Review, f domain.FilterOptions) bool {
	if f.Rating != nil && r.Rating != nil {
		if *r.Rating < f.Rating.Min || *r.Rating > f.Rating.Max {
			return false
		}
	}

	if len(f.Category) > 0 {
		found := false
		for _, want := range f.Category {
			for _, c := range r.Categories {
				if c.Category == want {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Channel) > 0 {
		found := false
		for _, ch := range f.Channel {
			if r.Channel == ch {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.DateRange != nil {
		t, ok := parseTime(r.SubmittedAt)
		if !ok {
			return false
		}
		start, sok := parseTime(f.DateRange.Start)
		end, eok := parseTime(f.DateRange.End)
		if !sok || !eok {
			return false
		}
		if t.Before(start) || t.After(end) {
			return false
		}
	}

	if f.ListingID != "" && r.PropertyID != f.ListingID {
		return false
	}

	if f.Approved != nil && r.ManagerApproved != *f.Approved {
		return false
	}

	return true
}

// Sort returns a new slice ordered by the requested field. The sort is
// stable so ties keep their original relative order. A nil rating
// compares as 0 and a nil guest name as the empty string; these
// substitutions apply to comparison only, never to analytics.
func Sort(reviews []domain.Review, s domain.SortOptions) []domain.Review {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)

	less := lessFunc(s.Field)
	if less == nil {
		return out
	}
	if s.Direction == "desc" {
		inner := less
		less = func(a, b domain.Review) bool { return inner(b, a) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func lessFunc(field domain.SortField) func(a, b domain.Review) bool {
	switch field {
	case domain.SortByRating:
		return func(a, b domain.Review) bool {
			return ratingOrZero(a) < ratingOrZero(b)
		}
	case domain.SortByDate:
		return func(a, b domain.Review) bool {
			at, _ := parseTime(a.SubmittedAt)
			bt, _ := parseTime(b.SubmittedAt)
			return at.Before(bt)
		}
	case domain.SortByGuestName:
		return func(a, b domain.Review) bool {
			return strOrEmpty(a.GuestName) < strOrEmpty(b.GuestName)
		}
	case domain.SortByListingName:
		return func(a, b domain.Review) bool {
			return a.ListingName < b.ListingName
		}
	}
	return nil
}

func ratingOrZero(r domain.Review) float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
