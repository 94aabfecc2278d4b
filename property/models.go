package property

import "time"

// Status is the moderation lifecycle of a listing. Agents create listings
// as pending; only an admin moves them to approved or rejected, and only
// approved listings are publicly visible.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ListingType distinguishes sale from rental listings.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

// Property mirrors the properties table.
type Property struct {
	ID           string
	Title        string
	Description  string
	Price        int64
	Location     string
	ImageURLs    []string
	AgentID      string
	PropertyType string
	ListingType  ListingType
	Bedrooms     int
	Bathrooms    int
	Area         float64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchFilters narrows the public listing search. Zero values mean "not
// filtered". Query matches title, location and description
// case-insensitively.
type SearchFilters struct {
	Query        string
	PropertyType string
	MinPrice     int64
	MaxPrice     int64
	MinBedrooms  int
	Page         int
	PageSize     int
}

// CreateParams contains listing data supplied by an agent.
type CreateParams struct {
	AgentID      string
	Title        string
	Description  string
	Price        int64
	Location     string
	ImageURLs    []string
	PropertyType string
	ListingType  ListingType
	Bedrooms     int
	Bathrooms    int
	Area         float64
}
