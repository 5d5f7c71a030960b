package insights_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flex_reviews/internal/domain"
	"flex_reviews/internal/insights"
)

func TestMonthlyTrends_SingleMonthAverage(t *testing.T) {
	rs := []domain.Review{
		mkReview("r1", "p", "hostaway", "2024-01-15T10:00:00Z", pf(4.5)),
		mkReview("r2", "p", "hostaway", "2024-01-10T10:00:00Z", pf(3.0)),
		mkReview("r3", "p", "hostaway", "2024-01-20T10:00:00Z", pf(5.0)),
	}

	out := insights.MonthlyTrends(rs)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-01", out[0].Month)
	assert.InDelta(t, 4.2, out[0].AvgRating, 1e-9) // round((4.5+3.0+5.0)/3, 1)
	assert.Equal(t, 1, out[0].Issues)
	assert.InDelta(t, 33.3, out[0].IssueRate, 1e-9)
	assert.Equal(t, insights.ArrowFlat, out[0].Trend)
}

func TestMonthlyTrends_ArrowsAndChronology(t *testing.T) {
	rs := []domain.Review{
		mkReview("r1", "p", "hostaway", "2024-03-05T10:00:00Z", pf(3.0)),
		mkReview("r2", "p", "hostaway", "2024-01-05T10:00:00Z", pf(4.0)),
		mkReview("r3", "p", "hostaway", "2024-02-05T10:00:00Z", pf(4.5)),
		mkReview("r4", "p", "hostaway", "2024-04-05T10:00:00Z", pf(3.1)),
	}

	out := insights.MonthlyTrends(rs)
	require.Len(t, out, 4)
	for i := 1; i < len(out); i++ {
		assert.Less(t, out[i-1].Month, out[i].Month)
	}

	assert.Equal(t, insights.ArrowFlat, out[0].Trend) // first month has no predecessor
	assert.Equal(t, insights.ArrowUp, out[1].Trend)   // 4.0 -> 4.5
	assert.Equal(t, insights.ArrowDown, out[2].Trend) // 4.5 -> 3.0
	assert.Equal(t, insights.ArrowFlat, out[3].Trend) // 3.0 -> 3.1, within 0.2
}

func TestMonthlyTrends_SkipsUnratedAndMalformed(t *testing.T) {
	rs := []domain.Review{
		mkReview("r1", "p", "hostaway", "2024-01-05T10:00:00Z", nil),
		mkReview("r2", "p", "hostaway", "garbage", pf(4.0)),
		mkReview("r3", "p", "hostaway", "2024-02-05T10:00:00Z", pf(4.0)),
	}

	out := insights.MonthlyTrends(rs)
	require.Len(t, out, 1)
	assert.Equal(t, "2024-02", out[0].Month)
}

func TestMonthlyTrends_Empty(t *testing.T) {
	assert.Empty(t, insights.MonthlyTrends(nil))
}
