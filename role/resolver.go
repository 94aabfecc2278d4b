package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"homeflow/auth"
)

// Lookup reads the stored role for a user id.
type Lookup interface {
	RoleByUserID(ctx context.Context, userID string) (auth.Role, error)
}

// Resolver determines the role of a signed-in identity, memoizing results
// per identity email in the injected cache so repeated gate checks within a
// session cost exactly one lookup.
type Resolver struct {
	lookup Lookup
	cache  Cache
	log    *zap.Logger
}

// NewResolver wires a resolver from a lookup, a cache and a logger.
func NewResolver(lookup Lookup, cache Cache, log *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{lookup: lookup, cache: cache, log: log}
}

// Resolve returns the role for the identity. An anonymous identity resolves
// to RoleNone immediately. A lookup failure also resolves to RoleNone — the
// resolver fails closed and logs, it never blocks the caller with an error.
func (r *Resolver) Resolve(ctx context.Context, userID, email string) auth.Role {
	if userID == "" {
		return auth.RoleNone
	}

	if cached, ok := r.cache.Get(email); ok {
		return cached
	}

	resolved, err := r.lookup.RoleByUserID(ctx, userID)
	if err != nil {
		r.log.Error("role lookup failed, denying by default",
			zap.String("user_id", userID),
			zap.Error(err))
		return auth.RoleNone
	}

	r.cache.Set(email, resolved)
	return resolved
}

// Invalidate forgets the cached role for an identity.
func (r *Resolver) Invalidate(email string) {
	r.cache.Invalidate(email)
}

// PGLookup implements Lookup against the users table.
type PGLookup struct {
	pool *pgxpool.Pool
}

// NewPGLookup creates a PostgreSQL-backed role lookup.
func NewPGLookup(pool *pgxpool.Pool) *PGLookup {
	return &PGLookup{pool: pool}
}

// RoleByUserID reads the role column for one user.
func (l *PGLookup) RoleByUserID(ctx context.Context, userID string) (auth.Role, error) {
	const query = `SELECT role FROM users WHERE id = $1`

	var role auth.Role
	if err := l.pool.QueryRow(ctx, query, userID).Scan(&role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.RoleNone, fmt.Errorf("role: user %s not found", userID)
		}
		return auth.RoleNone, fmt.Errorf("role: lookup: %w", err)
	}

	if !role.Valid() {
		return auth.RoleNone, fmt.Errorf("role: stored role %q is not recognized", role)
	}
	return role, nil
}
