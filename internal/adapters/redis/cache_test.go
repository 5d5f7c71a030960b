package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/domain"
)

func newTestCache(t *testing.T) *redisad.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return redisad.New(mr.Addr(), "", 0)
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	rating := 4.5
	in := domain.ReviewsResponse{Reviews: []domain.Review{{
		ID:         "hostaway-1",
		PropertyID: "prop-1",
		Channel:    "hostaway",
		Rating:     &rating,
	}}}
	if err := c.Set(ctx, "reviews:hostaway", in, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out domain.ReviewsResponse
	ok, err := c.Get(ctx, "reviews:hostaway", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(out.Reviews) != 1 || out.Reviews[0].ID != "hostaway-1" {
		t.Fatalf("unexpected value: %+v", out)
	}
	if out.Reviews[0].Rating == nil || *out.Reviews[0].Rating != 4.5 {
		t.Fatalf("rating did not survive the round trip: %+v", out.Reviews[0])
	}
}

func TestCache_MissAndDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var out domain.ReviewsResponse
	ok, err := c.Get(ctx, "absent", &out)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "k", domain.ReviewsResponse{}, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if ok, _ := c.Get(ctx, "k", &out); ok {
		t.Fatalf("expected miss after delete")
	}
}
