package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"homeflow/auth"
)

// RoleCacheInvalidator drops a memoized role for an identity. Role mutations
// must invalidate so the next gate check sees the new value.
type RoleCacheInvalidator interface {
	Invalidate(email string)
}

// Service exposes profile operations.
type Service struct {
	repo      Repository
	roleCache RoleCacheInvalidator
	log       *zap.Logger
}

// NewService builds a Service. roleCache may be nil when no resolver cache
// is in play (tests).
func NewService(repo Repository, roleCache RoleCacheInvalidator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, roleCache: roleCache, log: log}
}

// GetOrProvision returns the caller's profile, creating a minimal row when
// the identity has none yet. The select and insert are two independent round
// trips; when a concurrent provision wins, the conflict is resolved by
// re-reading the row the winner created.
func (s *Service) GetOrProvision(ctx context.Context, userID, email, name string) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("profile: user id required")
	}

	p, err := s.repo.GetByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	if name == "" {
		name = email
	}
	created, err := s.repo.Provision(ctx, userID, email, name)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return s.repo.GetByID(ctx, userID)
		}
		return Profile{}, err
	}

	s.log.Info("profile provisioned", zap.String("user_id", userID))
	return created, nil
}

// Update edits the caller's own name and phone.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("profile: user id required")
	}
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return Profile{}, fmt.Errorf("profile: name must not be blank")
	}
	return s.repo.UpdateInfo(ctx, userID, params)
}

// ElevateToAgent is the self-service role elevation: any signed-in user may
// become an agent, no approval step. Admins are not demotable this way; an
// admin stays an admin.
func (s *Service) ElevateToAgent(ctx context.Context, userID string) (Profile, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if current.Role == auth.RoleAdmin {
		return Profile{}, fmt.Errorf("profile: admin role cannot be changed by self-service")
	}
	if current.Role == auth.RoleAgent {
		return current, nil
	}

	updated, err := s.repo.UpdateRole(ctx, userID, auth.RoleAgent)
	if err != nil {
		return Profile{}, err
	}

	s.invalidateRole(updated.Email)
	s.log.Info("user elevated to agent", zap.String("user_id", userID))
	return updated, nil
}

// ListAgents returns all agent profiles, for the admin surface.
func (s *Service) ListAgents(ctx context.Context) ([]Profile, error) {
	return s.repo.ListByRole(ctx, auth.RoleAgent)
}

// RevokeAgent demotes an agent back to a plain user.
func (s *Service) RevokeAgent(ctx context.Context, userID string) (Profile, error) {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if current.Role != auth.RoleAgent {
		return Profile{}, fmt.Errorf("profile: user %s is not an agent", userID)
	}

	updated, err := s.repo.UpdateRole(ctx, userID, auth.RoleUser)
	if err != nil {
		return Profile{}, err
	}

	s.invalidateRole(updated.Email)
	s.log.Info("agent role revoked", zap.String("user_id", userID))
	return updated, nil
}

// Delete removes a user account entirely, admin operation.
func (s *Service) Delete(ctx context.Context, userID string) error {
	current, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}

	s.invalidateRole(current.Email)
	s.log.Info("user deleted", zap.String("user_id", userID))
	return nil
}

func (s *Service) invalidateRole(email string) {
	if s.roleCache != nil {
		s.roleCache.Invalidate(email)
	}
}
