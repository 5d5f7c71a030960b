package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

// ApprovalService toggles the moderation flag and keeps caches honest.
type ApprovalService struct {
	repo  domain.ReviewRepository
	cache domain.Cache
}

func NewApprovalService(r domain.ReviewRepository, c domain.Cache) *ApprovalService {
	return &ApprovalService{repo: r, cache: c}
}

func (s *ApprovalService) Toggle(ctx context.Context, reviewID string) (bool, error) {
	approved, err := s.repo.ToggleApproval(ctx, reviewID)
	if err != nil {
		return false, err
	}
	if s.cache != nil {
		invalidateReviewCaches(ctx, s.cache)
	}
	return approved, nil
}

func (s *ApprovalService) Approvals(ctx context.Context) (map[string]bool, error) {
	return s.repo.ListApprovals(ctx)
}

// IngestionService pulls raw payloads from the channel clients,
// normalizes them, and upserts the result.
type IngestionService struct {
	clients map[string]domain.ChannelClient
	repo    domain.ReviewRepository
	cache   domain.Cache
}

func NewIngestionService(clients map[string]domain.ChannelClient, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{clients: clients, repo: r, cache: cache}
}

func (s *IngestionService) IngestChannel(ctx context.Context, channel string, reviewCount int) error {
	client, ok := s.clients[channel]
	if !ok {
		return fmt.Errorf("no client configured for channel %q", channel)
	}

	// Listings first so property pages resolve; best-effort, a channel
	// without a listings endpoint still ingests reviews.
	if listings, err := client.GetListings(ctx); err != nil {
		log.Warn().Str("channel", channel).Err(err).Msg("listing sync skipped")
	} else {
		for _, p := range mapChannelListings(channel, listings) {
			if err := s.repo.UpsertProperty(ctx, p); err != nil {
				log.Warn().Str("channel", channel).Str("property", p.ID).Err(err).Msg("property upsert failed")
			}
		}
	}

	raw, err := client.GetReviews(ctx, reviewCount)
	if err != nil {
		low := strings.ToLower(err.Error())

		// 404: nothing published for this channel -> record miss, evict
		// stale caches, and stop gracefully.
		if errors.Is(err, domain.ErrNotFound) || strings.Contains(low, "not found") {
			_ = s.repo.LogMiss(ctx, channel, 404, "not found")
			if s.cache != nil {
				invalidateReviewCaches(ctx, s.cache, channel)
			}
			return nil
		}

		// 401/403: credentials revoked or account inactive -> same posture.
		if strings.Contains(low, "401") || strings.Contains(low, "unauthorized") ||
			strings.Contains(low, "403") || strings.Contains(low, "forbidden") {
			_ = s.repo.LogMiss(ctx, channel, 403, "inactive")
			if s.cache != nil {
				invalidateReviewCaches(ctx, s.cache, channel)
			}
			return nil
		}

		// Anything else (network/5xx/JSON) is unexpected -> bubble up.
		return err
	}

	if len(raw) > 0 {
		normalized := mapChannelReviews(channel, raw)
		if err := s.repo.UpsertReviews(ctx, normalized); err != nil {
			return fmt.Errorf("upsert reviews failed for %s: %w", channel, err)
		}
	}

	// Invalidate even on an empty fetch so we never serve a stale snapshot.
	if s.cache != nil {
		invalidateReviewCaches(ctx, s.cache, channel)
	}
	return nil
}

// invalidateReviewCaches drops the per-channel entries plus the combined
// "all" entry, which any channel change dirties.
func invalidateReviewCaches(ctx context.Context, cache domain.Cache, channels ...string) {
	if len(channels) == 0 {
		channels = []string{"hostaway", "google", "airbnb", "booking"}
	}
	for _, ch := range channels {
		_ = cache.Del(ctx, reviewsKey(ch))
	}
	_ = cache.Del(ctx, reviewsKey(""))
}
