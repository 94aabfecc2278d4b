package property

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"homeflow/auth"
)

var (
	// ErrInvalid wraps all validation failures. Validation happens before
	// any store mutation; a rejected create never touches the database.
	ErrInvalid = errors.New("property: invalid input")
	// ErrForbidden signals the actor may not perform the operation.
	ErrForbidden = errors.New("property: forbidden")
)

// Service exposes business-level listing operations.
type Service struct {
	repo        Repository
	log         *zap.Logger
	idGenerator func() string
	now         func() time.Time
}

// ListResult bundles one page of search results with the overall total.
type ListResult struct {
	Items []Property
	Total int
}

// NewService builds a Service using the provided repository.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		repo:        repo,
		log:         log,
		idGenerator: func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// WithIDGenerator overrides id generation, for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// Create validates and stores a new listing. The stored status is always
// pending regardless of anything the caller supplies.
func (s *Service) Create(ctx context.Context, params CreateParams) (Property, error) {
	if params.AgentID == "" {
		return Property{}, fmt.Errorf("%w: agent id required", ErrInvalid)
	}
	if strings.TrimSpace(params.Title) == "" {
		return Property{}, fmt.Errorf("%w: title required", ErrInvalid)
	}
	if strings.TrimSpace(params.Description) == "" {
		return Property{}, fmt.Errorf("%w: description required", ErrInvalid)
	}
	if strings.TrimSpace(params.Location) == "" {
		return Property{}, fmt.Errorf("%w: location required", ErrInvalid)
	}
	if strings.TrimSpace(params.PropertyType) == "" {
		return Property{}, fmt.Errorf("%w: property type required", ErrInvalid)
	}
	if params.ListingType != ListingSale && params.ListingType != ListingRent {
		return Property{}, fmt.Errorf("%w: listing type must be sale or rent", ErrInvalid)
	}
	if params.Price < 0 {
		return Property{}, fmt.Errorf("%w: price must not be negative", ErrInvalid)
	}
	if params.Bedrooms < 0 || params.Bathrooms < 0 {
		return Property{}, fmt.Errorf("%w: bedrooms and bathrooms must not be negative", ErrInvalid)
	}
	if params.Area < 0 {
		return Property{}, fmt.Errorf("%w: area must not be negative", ErrInvalid)
	}
	if len(params.ImageURLs) == 0 {
		return Property{}, fmt.Errorf("%w: at least one image url required", ErrInvalid)
	}
	for _, u := range params.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return Property{}, fmt.Errorf("%w: image url must not be empty", ErrInvalid)
		}
	}

	p := Property{
		ID:           s.idGenerator(),
		Title:        strings.TrimSpace(params.Title),
		Description:  strings.TrimSpace(params.Description),
		Price:        params.Price,
		Location:     strings.TrimSpace(params.Location),
		ImageURLs:    params.ImageURLs,
		AgentID:      params.AgentID,
		PropertyType: params.PropertyType,
		ListingType:  params.ListingType,
		Bedrooms:     params.Bedrooms,
		Bathrooms:    params.Bathrooms,
		Area:         params.Area,
		Status:       StatusPending,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Property{}, err
	}

	s.log.Info("listing created",
		zap.String("property_id", created.ID),
		zap.String("agent_id", created.AgentID))
	return created, nil
}

// Search lists approved listings matching the filters.
func (s *Service) Search(ctx context.Context, filters SearchFilters) (ListResult, error) {
	items, total, err := s.repo.Search(ctx, filters)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

// GetPublic returns a listing for the public detail surface. A listing that
// exists but is not approved is indistinguishable from one that does not
// exist.
func (s *Service) GetPublic(ctx context.Context, id string) (Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Property{}, err
	}
	if p.Status != StatusApproved {
		return Property{}, ErrNotFound
	}
	return p, nil
}

// Get returns a listing regardless of status, for owner and admin surfaces.
func (s *Service) Get(ctx context.Context, id string) (Property, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByAgent returns all of an agent's own listings.
func (s *Service) ListByAgent(ctx context.Context, agentID string) ([]Property, error) {
	return s.repo.ListByAgent(ctx, agentID)
}

// ListPending returns the moderation queue.
func (s *Service) ListPending(ctx context.Context) ([]Property, error) {
	return s.repo.ListByStatus(ctx, StatusPending)
}

// SetStatus moves a listing to approved or rejected. Idempotent: approving
// an already-approved listing succeeds without change.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (Property, error) {
	if status != StatusApproved && status != StatusRejected {
		return Property{}, fmt.Errorf("%w: status must be approved or rejected", ErrInvalid)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes a listing when the actor owns it or is an admin.
func (s *Service) Delete(ctx context.Context, id, actorID string, actorRole auth.Role) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actorRole != auth.RoleAdmin && p.AgentID != actorID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info("listing deleted",
		zap.String("property_id", id),
		zap.String("actor_id", actorID))
	return nil
}
