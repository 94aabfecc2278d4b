package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"homeflow/profile"
	"homeflow/property"
)

// errorResponse is the JSON error envelope for every failure path.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func jsonError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorResponse{Error: message, Code: code})
}

type propertyResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Location     string    `json:"location"`
	ImageURLs    []string  `json:"image_urls"`
	AgentID      string    `json:"agent_id"`
	PropertyType string    `json:"property_type"`
	ListingType  string    `json:"listing_type"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Area         float64   `json:"area"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func toPropertyResponse(p property.Property) propertyResponse {
	return propertyResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Location:     p.Location,
		ImageURLs:    p.ImageURLs,
		AgentID:      p.AgentID,
		PropertyType: p.PropertyType,
		ListingType:  string(p.ListingType),
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Area:         p.Area,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func toPropertyResponses(list []property.Property) []propertyResponse {
	out := make([]propertyResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPropertyResponse(p))
	}
	return out
}

type profileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toProfileResponse(p profile.Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Phone:     p.Phone,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
	}
}

func toProfileResponses(list []profile.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProfileResponse(p))
	}
	return out
}
