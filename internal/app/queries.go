package app

import (
	"context"
	"encoding/json"
	"time"

	"flex_reviews/internal/domain"
	"flex_reviews/internal/insights"
)

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl, now: time.Now}
}

// WithClock overrides the reference clock used by the recent-window
// engines. Tests freeze time with it; production uses time.Now.
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

func reviewsKey(channel string) string {
	if channel == "" {
		channel = "all"
	}
	return "reviews:" + channel
}

// GetReviews returns the normalized reviews for one channel (or all when
// channel is empty) plus the per-listing/channel/month summary buckets.
func (s *QueryService) GetReviews(ctx context.Context, channel string) (domain.ReviewsResponse, error) {
	key := reviewsKey(channel)
	var out domain.ReviewsResponse
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, domain.ReviewsQuery{Channel: channel})
	if err != nil {
		return domain.ReviewsResponse{}, err
	}
	out = domain.ReviewsResponse{Reviews: rs, Aggregations: insights.Summaries(rs)}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}

	// size guard: don't cache unexpectedly fat payloads
	if b, _ := json.Marshal(out); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	}
	return out, nil
}

// InsightsView bundles the four insight engines for one dashboard render.
type InsightsView struct {
	Categories      []insights.CategoryInsight  `json:"categories"`
	Monthly         []insights.MonthlyTrend     `json:"monthly"`
	RecurringIssues []insights.RecurringIssue   `json:"recurringIssues"`
	Alerts          []insights.PerformanceAlert `json:"alerts"`
}

// GetInsights computes the insight bundle over the selected review set.
// Never cached: the category and alert engines read the clock for their
// trailing-30-day windows, so a cached bundle would go stale across day
// boundaries.
func (s *QueryService) GetInsights(ctx context.Context, listingID, channel string) (InsightsView, error) {
	rs, err := s.repo.ListReviews(ctx, domain.ReviewsQuery{Channel: channel, ListingID: listingID})
	if err != nil {
		return InsightsView{}, err
	}
	now := s.now()
	return InsightsView{
		Categories:      insights.CategoryInsights(rs, now),
		Monthly:         insights.MonthlyTrends(rs),
		RecurringIssues: insights.RecurringIssues(rs),
		Alerts:          insights.PerformanceAlerts(rs, now),
	}, nil
}

// GetProperty returns the public page payload: static property details
// plus only the manager-approved reviews.
func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.PropertyView, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.PropertyView{}, err
	}
	rs, err := s.repo.ListReviews(ctx, domain.ReviewsQuery{ListingID: id})
	if err != nil {
		return domain.PropertyView{}, err
	}
	approved := true
	return domain.PropertyView{
		Property: p,
		Reviews:  insights.Filter(rs, domain.FilterOptions{Approved: &approved}),
	}, nil
}
