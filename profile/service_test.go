package profile

import (
	"context"
	"testing"
	"time"

	"homeflow/auth"
)

func TestService_GetOrProvision(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, nil)

	ctx := context.Background()
	p, err := svc.GetOrProvision(ctx, "u1", "a@x.com", "Alice")
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	if p.Role != auth.RoleUser {
		t.Fatalf("expected provisioned role user, got %s", p.Role)
	}

	// Second call reads the existing row, no second insert.
	again, err := svc.GetOrProvision(ctx, "u1", "a@x.com", "Alice")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if again.ID != p.ID {
		t.Fatalf("expected same profile, got %s and %s", p.ID, again.ID)
	}
	if repo.provisionCalls != 1 {
		t.Fatalf("expected 1 provision call, got %d", repo.provisionCalls)
	}
}

func TestService_GetOrProvisionLostRace(t *testing.T) {
	repo := newFakeRepo()
	repo.raceOnProvision = true
	svc := NewService(repo, nil, nil)

	// A concurrent provision wins between our miss and our insert; the
	// conflict resolves by re-reading the winner's row.
	p, err := svc.GetOrProvision(context.Background(), "u1", "a@x.com", "Alice")
	if err != nil {
		t.Fatalf("expected lost race to resolve, got %v", err)
	}
	if p.ID != "u1" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestService_ElevateToAgent(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeInvalidator{}
	svc := NewService(repo, cache, nil)

	ctx := context.Background()
	if _, err := svc.GetOrProvision(ctx, "u1", "a@x.com", "Alice"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	p, err := svc.ElevateToAgent(ctx, "u1")
	if err != nil {
		t.Fatalf("elevate: %v", err)
	}
	if p.Role != auth.RoleAgent {
		t.Fatalf("expected agent, got %s", p.Role)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "a@x.com" {
		t.Fatalf("expected role cache invalidation for a@x.com, got %v", cache.invalidated)
	}

	// Idempotent: elevating an agent again succeeds without a second write.
	if _, err := svc.ElevateToAgent(ctx, "u1"); err != nil {
		t.Fatalf("re-elevate: %v", err)
	}
	if repo.roleWrites != 1 {
		t.Fatalf("expected 1 role write, got %d", repo.roleWrites)
	}
}

func TestService_ElevateRejectsAdmin(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(Profile{ID: "adm", Email: "admin@x.com", Name: "Admin", Role: auth.RoleAdmin})
	svc := NewService(repo, nil, nil)

	if _, err := svc.ElevateToAgent(context.Background(), "adm"); err == nil {
		t.Fatal("expected error elevating an admin")
	}
}

func TestService_RevokeAgent(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(Profile{ID: "ag", Email: "agent@x.com", Name: "Agent", Role: auth.RoleAgent})
	cache := &fakeInvalidator{}
	svc := NewService(repo, cache, nil)

	p, err := svc.RevokeAgent(context.Background(), "ag")
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if p.Role != auth.RoleUser {
		t.Fatalf("expected user after revoke, got %s", p.Role)
	}
	if len(cache.invalidated) != 1 {
		t.Fatalf("expected cache invalidation, got %v", cache.invalidated)
	}

	// Revoking a non-agent is an error.
	if _, err := svc.RevokeAgent(context.Background(), "ag"); err == nil {
		t.Fatal("expected error revoking a non-agent")
	}
}

func TestService_UpdateValidatesName(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(Profile{ID: "u1", Email: "a@x.com", Name: "Alice", Role: auth.RoleUser})
	svc := NewService(repo, nil, nil)

	blank := "  "
	if _, err := svc.Update(context.Background(), "u1", UpdateParams{Name: &blank}); err == nil {
		t.Fatal("expected error for blank name")
	}

	phone := "555-0100"
	p, err := svc.Update(context.Background(), "u1", UpdateParams{Phone: &phone})
	if err != nil {
		t.Fatalf("update phone: %v", err)
	}
	if p.Phone == nil || *p.Phone != phone {
		t.Fatalf("expected phone %q, got %v", phone, p.Phone)
	}
	if p.Name != "Alice" {
		t.Fatalf("expected name untouched, got %q", p.Name)
	}
}

type fakeInvalidator struct {
	invalidated []string
}

func (f *fakeInvalidator) Invalidate(email string) {
	f.invalidated = append(f.invalidated, email)
}

type fakeRepo struct {
	rows            map[string]Profile
	provisionCalls  int
	roleWrites      int
	raceOnProvision bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[string]Profile)}
}

func (f *fakeRepo) seed(p Profile) {
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.rows[p.ID] = p
}

func (f *fakeRepo) GetByID(ctx context.Context, userID string) (Profile, error) {
	p, ok := f.rows[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Provision(ctx context.Context, userID, email, name string) (Profile, error) {
	f.provisionCalls++
	if f.raceOnProvision {
		// Simulate a concurrent winner inserting between miss and insert.
		f.seed(Profile{ID: userID, Email: email, Name: name, Role: auth.RoleUser})
		return Profile{}, ErrAlreadyExists
	}
	if _, ok := f.rows[userID]; ok {
		return Profile{}, ErrAlreadyExists
	}
	p := Profile{ID: userID, Email: email, Name: name, Role: auth.RoleUser,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	f.rows[userID] = p
	return p, nil
}

func (f *fakeRepo) UpdateInfo(ctx context.Context, userID string, params UpdateParams) (Profile, error) {
	p, ok := f.rows[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Phone != nil {
		p.Phone = params.Phone
	}
	p.UpdatedAt = time.Now().UTC()
	f.rows[userID] = p
	return p, nil
}

func (f *fakeRepo) UpdateRole(ctx context.Context, userID string, role auth.Role) (Profile, error) {
	f.roleWrites++
	p, ok := f.rows[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	f.rows[userID] = p
	return p, nil
}

func (f *fakeRepo) ListByRole(ctx context.Context, role auth.Role) ([]Profile, error) {
	out := []Profile{}
	for _, p := range f.rows {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID string) error {
	if _, ok := f.rows[userID]; !ok {
		return ErrNotFound
	}
	delete(f.rows, userID)
	return nil
}
