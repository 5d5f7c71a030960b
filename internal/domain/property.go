package domain

// Property holds the static details shown on the public property page.
type Property struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Address      string   `json:"address"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	Amenities    []string `json:"amenities"`
	Description  []string `json:"description"`
	CheckInTime  *string  `json:"checkInTime"`
	CheckOutTime *string  `json:"checkOutTime"`
	MinStay      int      `json:"minStay"`
	Images       []string `json:"images"`
	PropertyType string   `json:"propertyType"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	Guests       int      `json:"guests"`
}

// PropertyView is the public page payload: static details plus the
// manager-approved reviews for the listing.
type PropertyView struct {
	Property Property `json:"property"`
	Reviews  []Review `json:"reviews"`
}
