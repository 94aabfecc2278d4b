package property

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"homeflow/auth"
)

func validParams() CreateParams {
	return CreateParams{
		AgentID:      "agent-1",
		Title:        "Sunny family house",
		Description:  "Three bedrooms near the park",
		Price:        450000,
		Location:     "Springfield",
		ImageURLs:    []string{"https://img.example.com/1.jpg"},
		PropertyType: "house",
		ListingType:  ListingSale,
		Bedrooms:     3,
		Bathrooms:    2,
		Area:         1800,
	}
}

func TestService_CreateForcesPendingAndExactPrice(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: unexpected error: %v", err)
	}

	if created.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", created.Status)
	}
	if created.Price != 450000 {
		t.Fatalf("expected exact price 450000, got %d", created.Price)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestService_CreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"missing agent", func(p *CreateParams) { p.AgentID = "" }},
		{"missing title", func(p *CreateParams) { p.Title = "  " }},
		{"missing description", func(p *CreateParams) { p.Description = "" }},
		{"missing location", func(p *CreateParams) { p.Location = "" }},
		{"missing property type", func(p *CreateParams) { p.PropertyType = "" }},
		{"bad listing type", func(p *CreateParams) { p.ListingType = "lease" }},
		{"negative price", func(p *CreateParams) { p.Price = -1 }},
		{"negative bedrooms", func(p *CreateParams) { p.Bedrooms = -1 }},
		{"negative area", func(p *CreateParams) { p.Area = -10 }},
		{"zero images", func(p *CreateParams) { p.ImageURLs = nil }},
		{"blank image url", func(p *CreateParams) { p.ImageURLs = []string{" "} }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo, nil)

			params := validParams()
			tc.mutate(&params)

			_, err := svc.Create(context.Background(), params)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			// Validation must reject before any store mutation.
			if repo.createCalls != 0 {
				t.Fatalf("expected no store call on invalid input, got %d", repo.createCalls)
			}
		})
	}
}

func TestService_GetPublicHidesUnapproved(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetPublic(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for pending listing, got %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), created.ID, StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := svc.GetPublic(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected approved listing to be public, got %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("expected listing %s, got %s", created.ID, got.ID)
	}

	if _, err := svc.SetStatus(context.Background(), created.ID, StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.GetPublic(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for rejected listing, got %v", err)
	}
}

func TestService_SetStatusIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := svc.SetStatus(context.Background(), created.ID, StatusApproved)
	if err != nil {
		t.Fatalf("first approve: %v", err)
	}
	second, err := svc.SetStatus(context.Background(), created.ID, StatusApproved)
	if err != nil {
		t.Fatalf("second approve: %v", err)
	}
	if first.Status != StatusApproved || second.Status != StatusApproved {
		t.Fatalf("expected approved both times, got %s then %s", first.Status, second.Status)
	}
}

func TestService_SetStatusRejectsPending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moderation only moves listings forward; forcing back to pending is
	// not an admin operation.
	if _, err := svc.SetStatus(context.Background(), created.ID, StatusPending); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for pending target, got %v", err)
	}
}

func TestService_ApprovedListingBecomesSearchable(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.Search(context.Background(), SearchFilters{Query: "spring"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected pending listing hidden from search, got %d items", len(res.Items))
	}

	if _, err := svc.SetStatus(context.Background(), created.ID, StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}

	res, err = svc.Search(context.Background(), SearchFilters{Query: "spring"})
	if err != nil {
		t.Fatalf("search after approve: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != created.ID {
		t.Fatalf("expected approved listing in location-substring search, got %+v", res.Items)
	}
}

func TestService_DeleteOwnership(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, "someone-else", auth.RoleAgent); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner agent, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "agent-1", auth.RoleAgent); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	// Admin may delete someone else's listing.
	other, err := svc.Create(context.Background(), validParams())
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if err := svc.Delete(context.Background(), other.ID, "admin-1", auth.RoleAdmin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

// fakeRepo is an in-memory Repository sufficient for service behavior tests.
// The Search implementation mirrors the SQL contract: approved-only,
// case-insensitive substring, inclusive price range, newest first.
type fakeRepo struct {
	rows        map[string]Property
	createCalls int
	seq         int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]Property)}
}

func (f *fakeRepo) Create(ctx context.Context, p Property) (Property, error) {
	f.createCalls++
	f.seq++
	if p.ID == "" {
		p.ID = fmt.Sprintf("prop-%d", f.seq)
	}
	p.CreatedAt = time.Now().UTC().Add(time.Duration(f.seq) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	f.rows[p.ID] = p
	return p, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Property, error) {
	p, ok := f.rows[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Search(ctx context.Context, filters SearchFilters) ([]Property, int, error) {
	q := strings.ToLower(strings.TrimSpace(filters.Query))
	out := []Property{}
	for _, p := range f.rows {
		if p.Status != StatusApproved {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Location), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if filters.PropertyType != "" && p.PropertyType != filters.PropertyType {
			continue
		}
		if filters.MinPrice > 0 && p.Price < filters.MinPrice {
			continue
		}
		if filters.MaxPrice > 0 && p.Price > filters.MaxPrice {
			continue
		}
		if filters.MinBedrooms > 0 && p.Bedrooms < filters.MinBedrooms {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (f *fakeRepo) ListByAgent(ctx context.Context, agentID string) ([]Property, error) {
	out := []Property{}
	for _, p := range f.rows {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, status Status) ([]Property, error) {
	out := []Property{}
	for _, p := range f.rows {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status Status) (Property, error) {
	p, ok := f.rows[id]
	if !ok {
		return Property{}, ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	f.rows[id] = p
	return p, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}
