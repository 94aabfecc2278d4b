package favorite

import (
	"context"
	"fmt"

	"homeflow/property"
)

// Service exposes favorite operations for signed-in users.
type Service struct {
	repo Repository
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Toggle flips the favorite state for the pair and reports the new state:
// true when the property is now favorited, false when the toggle removed it.
func (s *Service) Toggle(ctx context.Context, userID, propertyID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("favorite: user id required")
	}
	if propertyID == "" {
		return false, fmt.Errorf("favorite: property id required")
	}
	return s.repo.Toggle(ctx, userID, propertyID)
}

// IsFavorited reports the current favorite state for the pair.
func (s *Service) IsFavorited(ctx context.Context, userID, propertyID string) (bool, error) {
	if userID == "" || propertyID == "" {
		return false, nil
	}
	return s.repo.IsFavorited(ctx, userID, propertyID)
}

// ListProperties returns the user's favorited listings.
func (s *Service) ListProperties(ctx context.Context, userID string) ([]property.Property, error) {
	if userID == "" {
		return nil, fmt.Errorf("favorite: user id required")
	}
	return s.repo.ListProperties(ctx, userID)
}
