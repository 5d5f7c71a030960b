package insights_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flex_reviews/internal/domain"
	"flex_reviews/internal/insights"
)

func TestPerformanceAlerts_LowRatingVolume(t *testing.T) {
	rs := []domain.Review{
		mkReview("r1", "p", "hostaway", "2024-03-10T10:00:00Z", pf(2.0)),
		mkReview("r2", "p", "hostaway", "2024-03-11T10:00:00Z", pf(3.0)),
		mkReview("r3", "p", "hostaway", "2024-03-12T10:00:00Z", pf(5.0)),
		mkReview("r4", "p", "hostaway", "2024-03-13T10:00:00Z", pf(5.0)),
	}

	alerts := insights.PerformanceAlerts(rs, testNow)
	require.NotEmpty(t, alerts)
	assert.Equal(t, "critical", alerts[0].Type)
	assert.Equal(t, "High Number of Low Ratings", alerts[0].Title)
	assert.Contains(t, alerts[0].Description, "2 low ratings in the last 30 days (50.0%)")
}

func TestPerformanceAlerts_CategoryPerformance(t *testing.T) {
	// Lows outside the 30-day window so only the category rule fires.
	r1 := mkReview("r1", "p", "hostaway", "2024-01-10T10:00:00Z", pf(4.0))
	r1.Categories = []domain.CategoryRating{{Category: "cleanliness", Rating: 2}}
	r2 := mkReview("r2", "p", "hostaway", "2024-01-11T10:00:00Z", pf(4.0))
	r2.Categories = []domain.CategoryRating{{Category: "cleanliness", Rating: 2}}

	alerts := insights.PerformanceAlerts([]domain.Review{r1, r2}, testNow)
	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Type)
	assert.Equal(t, "Category Performance Issues", alerts[0].Title)
	assert.Contains(t, alerts[0].Description, "cleanliness")
	assert.Equal(t, "cleanliness", alerts[0].Category)
}

func TestPerformanceAlerts_DecliningTrend(t *testing.T) {
	rs := []domain.Review{
		mkReview("r1", "p", "hostaway", "2024-01-10T10:00:00Z", pf(4.8)),
		mkReview("r2", "p", "hostaway", "2024-02-10T10:00:00Z", pf(4.0)),
	}

	alerts := insights.PerformanceAlerts(rs, testNow)
	require.Len(t, alerts, 1)
	assert.Equal(t, "warning", alerts[0].Type)
	assert.Equal(t, "Declining Performance Trend", alerts[0].Title)
	assert.Contains(t, alerts[0].Description, "dropped from 4.8 to 4")
}

func TestPerformanceAlerts_RecurringHighSeverity(t *testing.T) {
	var rs []domain.Review
	for i := 0; i < 5; i++ {
		r := mkReview(fmt.Sprintf("r%d", i), "p", "hostaway", "2024-03-10T10:00:00Z", pf(4.0))
		r.Text = ps("the wifi was broken yet again")
		rs = append(rs, r)
	}

	alerts := insights.PerformanceAlerts(rs, testNow)
	require.Len(t, alerts, 1)
	assert.Equal(t, "critical", alerts[0].Type)
	assert.Equal(t, "Recurring High-Severity Issues", alerts[0].Title)
	assert.Contains(t, alerts[0].Description, "1 issue reported frequently")
	assert.Contains(t, alerts[0].Description, "WiFi issues (wifi)")
}

func TestPerformanceAlerts_SeverityOrdering(t *testing.T) {
	var rs []domain.Review
	// recent low-rating volume (critical) + bad category over full set (warning)
	for i := 0; i < 3; i++ {
		r := mkReview(fmt.Sprintf("low%d", i), "p", "hostaway", "2024-03-10T10:00:00Z", pf(2.0))
		r.Categories = []domain.CategoryRating{{Category: "value", Rating: 2}}
		rs = append(rs, r)
	}

	alerts := insights.PerformanceAlerts(rs, testNow)
	require.GreaterOrEqual(t, len(alerts), 2)
	seenNonCritical := false
	for _, a := range alerts {
		if a.Type != "critical" {
			seenNonCritical = true
		} else {
			assert.False(t, seenNonCritical, "critical alert after non-critical")
		}
	}
}

func TestPerformanceAlerts_Empty(t *testing.T) {
	assert.Empty(t, insights.PerformanceAlerts(nil, testNow))
}
