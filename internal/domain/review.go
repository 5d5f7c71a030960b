package domain

// CategoryRating is a sub-score attached to a named aspect of the stay
// (cleanliness, communication, ...), distinct from the overall rating.
type CategoryRating struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// Review is a guest review already translated into the common schema,
// regardless of originating channel. Ratings are on a 0-5 scale; a nil
// Rating means the guest left no overall score.
type Review struct {
	ID              string           `json:"id"`
	PropertyID      string           `json:"propertyId"`
	ListingName     string           `json:"listingName"`
	Channel         string           `json:"channel"` // hostaway|airbnb|booking|google|...
	Type            string           `json:"type"`    // guest-to-host | host-to-guest
	Status          string           `json:"status"`  // published | pending | hidden
	Rating          *float64         `json:"rating"`
	Categories      []CategoryRating `json:"categories"`
	Text            *string          `json:"text"`
	SubmittedAt     string           `json:"submittedAt"` // ISO-8601
	GuestName       *string          `json:"guestName,omitempty"`
	ManagerApproved bool             `json:"managerApproved"`
}

// RatingRange bounds an overall-rating filter (inclusive).
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange bounds a submittedAt filter (inclusive, ISO-8601 strings).
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FilterOptions is a sparse criteria record; nil/empty fields impose no
// constraint, populated fields combine with AND semantics.
type FilterOptions struct {
	Rating    *RatingRange `json:"rating,omitempty"`
	Category  []string     `json:"category,omitempty"`
	Channel   []string     `json:"channel,omitempty"`
	DateRange *DateRange   `json:"dateRange,omitempty"`
	ListingID string       `json:"listingId,omitempty"`
	Approved  *bool        `json:"approved,omitempty"`
}

type SortField string

const (
	SortByRating      SortField = "rating"
	SortByDate        SortField = "date"
	SortByGuestName   SortField = "guestName"
	SortByListingName SortField = "listingName"
)

type SortOptions struct {
	Field     SortField `json:"field"`
	Direction string    `json:"direction"` // asc | desc
}

// BucketSummary is a count/average pair for one aggregation bucket
// (per listing, per channel, or per month).
type BucketSummary struct {
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avgRating"`
}

// Aggregations groups the summary buckets returned alongside a review list.
type Aggregations struct {
	ByListing map[string]BucketSummary `json:"byListing"`
	ByChannel map[string]BucketSummary `json:"byChannel"`
	ByMonth   map[string]BucketSummary `json:"byMonth"` // YYYY-MM
}

// ReviewsResponse is the wire shape of the reviews endpoint.
type ReviewsResponse struct {
	Reviews      []Review     `json:"reviews"`
	Aggregations Aggregations `json:"aggregations"`
}
