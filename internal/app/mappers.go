package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Channel payloads disagree on field names; each logical field lists the
// paths we accept, in preference order. Dots traverse nested objects.
var reviewAliases = map[string][]string{
	"source_id":    {"id", "reviewId", "review_id"},
	"listing_id":   {"listingMapId", "listingId", "listing.id", "placeId", "place_id", "propertyId"},
	"listing_name": {"listingName", "listing.name", "placeName", "place_name", "propertyName"},
	"guest":        {"guestName", "guest_name", "author_name", "reviewer.name", "author", "name"},
	"text":         {"publicReview", "text", "review", "comment", "content", "body"},
	"submitted":    {"submittedAt", "submitted_at", "createdAt", "created_at", "date", "departureDate"},
	"type":         {"type", "reviewType"},
	"status":       {"status", "state"},
	"rating":       {"rating", "overallRating", "starRating", "score", "rating.value"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			// numeric IDs arrive as float64 from encoding/json
			if s == float64(int64(s)) {
				return strconv.FormatInt(int64(s), 10)
			}
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, key string) string {
	for _, p := range reviewAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toFiveScale maps 10-point channel scores onto the common 0-5 scale.
// Values already in range pass through.
func toFiveScale(v float64) float64 {
	if v > 5 {
		return v / 2
	}
	return v
}

var submittedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// normalizeSubmitted renders any accepted timestamp shape as RFC3339 UTC.
// Unix-epoch numbers (Google) are accepted too. Unparsable input is kept
// verbatim; the insight engines tolerate it downstream.
func normalizeSubmitted(m map[string]any) string {
	if v, ok := lookupAny(m, "time").(float64); ok && v > 0 {
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339)
	}
	raw := firstNonEmptyAlias(m, "submitted")
	for _, l := range submittedLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return raw
}

/********** review mapper **********/

// mapChannelReviews normalizes raw channel payloads into the common
// review schema. Reviews with no usable listing reference are dropped;
// everything else degrades field by field.
func mapChannelReviews(channel string, in []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		propertyID := firstNonEmptyAlias(r, "listing_id")
		if propertyID == "" {
			log.Warn().Str("channel", channel).Msg("review without listing reference dropped")
			continue
		}

		rv := domain.Review{
			PropertyID:  propertyID,
			ListingName: firstNonEmptyAlias(r, "listing_name"),
			Channel:     channel,
			Type:        firstNonEmptyAlias(r, "type"),
			Status:      firstNonEmptyAlias(r, "status"),
			Text:        ptrStr(strings.TrimSpace(firstNonEmptyAlias(r, "text"))),
			SubmittedAt: normalizeSubmitted(r),
			GuestName:   ptrStr(firstNonEmptyAlias(r, "guest")),
		}
		if rv.Type == "" {
			rv.Type = "guest-to-host"
		}
		if rv.Status == "" {
			rv.Status = "published"
		}
		if rv.ListingName == "" {
			rv.ListingName = "Listing " + propertyID
		}

		if f := getFloatFlexible(r, reviewAliases["rating"]...); f != nil {
			scaled := toFiveScale(*f)
			rv.Rating = &scaled
		}

		rv.Categories = mapCategories(r)

		// Stable ID: channel-prefixed source ID when present, else a UUID
		// (upserts then rely on the source keeping its own IDs stable).
		if sid := firstNonEmptyAlias(r, "source_id"); sid != "" {
			rv.ID = fmt.Sprintf("%s-%s", channel, sid)
		} else {
			rv.ID = uuid.NewString()
		}

		out = append(out, rv)
	}
	return out
}

/********** listing mapper **********/

var listingAliases = map[string][]string{
	"id":       {"id", "listingMapId", "listingId"},
	"name":     {"name", "listingName", "internalListingName"},
	"address":  {"address", "publicAddress", "street"},
	"city":     {"city"},
	"country":  {"country", "countryCode"},
	"type":     {"propertyTypeName", "roomType", "propertyType"},
	"currency": {"currencyCode", "currency"},
}

// mapChannelListings normalizes raw listing payloads into property rows.
// Listings without an id are dropped.
func mapChannelListings(channel string, in []map[string]any) []domain.Property {
	out := make([]domain.Property, 0, len(in))
	for _, l := range in {
		var id string
		for _, p := range listingAliases["id"] {
			if id = lookupStr(l, p); id != "" {
				break
			}
		}
		if id == "" {
			log.Warn().Str("channel", channel).Msg("listing without id dropped")
			continue
		}

		alias := func(key string) string {
			for _, p := range listingAliases[key] {
				if s := lookupStr(l, p); s != "" {
					return s
				}
			}
			return ""
		}
		p := domain.Property{
			ID:           id,
			Name:         alias("name"),
			Address:      alias("address"),
			PropertyType: alias("type"),
			Currency:     alias("currency"),
		}
		if p.Name == "" {
			p.Name = "Listing " + id
		}
		city, country := alias("city"), alias("country")
		switch {
		case city != "" && country != "":
			p.Location = city + ", " + country
		case city != "":
			p.Location = city
		default:
			p.Location = country
		}
		if f := getFloatFlexible(l, "price", "basePrice", "nightlyRate"); f != nil {
			p.Price = *f
		}
		if f := getFloatFlexible(l, "personCapacity", "guests", "accommodates"); f != nil {
			p.Guests = int(*f)
		}
		if f := getFloatFlexible(l, "bedroomsNumber", "bedrooms"); f != nil {
			p.Bedrooms = int(*f)
		}
		if f := getFloatFlexible(l, "bathroomsNumber", "bathrooms"); f != nil {
			p.Bathrooms = int(*f)
		}
		if f := getFloatFlexible(l, "minNights", "minStay"); f != nil {
			p.MinStay = int(*f)
		}
		out = append(out, p)
	}
	return out
}

// mapCategories reads the reviewCategory list ({category, rating} pairs)
// and rescales each entry onto 0-5.
func mapCategories(r map[string]any) []domain.CategoryRating {
	raw, ok := lookupAny(r, "reviewCategory").([]any)
	if !ok {
		if raw, ok = lookupAny(r, "categories").([]any); !ok {
			return nil
		}
	}
	out := make([]domain.CategoryRating, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := lookupStr(m, "category")
		if name == "" {
			name = lookupStr(m, "name")
		}
		f := getFloatFlexible(m, "rating", "value", "score")
		if name == "" || f == nil {
			continue
		}
		out = append(out, domain.CategoryRating{Category: name, Rating: toFiveScale(*f)})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
