package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// ReviewsQuery narrows a review listing; empty fields mean "all".
type ReviewsQuery struct {
	Channel   string
	ListingID string
	Limit     int
}

type ReviewRepository interface {
	// Write paths
	UpsertProperty(ctx context.Context, p Property) error
	UpsertReviews(ctx context.Context, rs []Review) error
	LogMiss(ctx context.Context, channel string, status int, reason string) error

	// Read paths
	ListReviews(ctx context.Context, q ReviewsQuery) ([]Review, error)
	GetProperty(ctx context.Context, id string) (Property, error)

	// Moderation
	ToggleApproval(ctx context.Context, reviewID string) (bool, error)
	ListApprovals(ctx context.Context) (map[string]bool, error)
}

// ChannelClient fetches raw (pre-normalization) review payloads from an
// upstream review source such as the Hostaway API.
type ChannelClient interface {
	GetListings(ctx context.Context) ([]map[string]any, error)
	GetReviews(ctx context.Context, count int) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
