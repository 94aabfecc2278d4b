package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"homeflow/auth"
)

var (
	// ErrNotFound signals the profile row does not exist.
	ErrNotFound = errors.New("profile: not found")
	// ErrAlreadyExists signals a provisioning conflict.
	ErrAlreadyExists = errors.New("profile: already exists")
)

const profileColumns = `id, email, name, phone, role, created_at, updated_at`

// Repository handles data access for user profiles.
type Repository interface {
	GetByID(ctx context.Context, userID string) (Profile, error)
	Provision(ctx context.Context, userID, email, name string) (Profile, error)
	UpdateInfo(ctx context.Context, userID string, params UpdateParams) (Profile, error)
	UpdateRole(ctx context.Context, userID string, role auth.Role) (Profile, error)
	ListByRole(ctx context.Context, role auth.Role) ([]Profile, error)
	Delete(ctx context.Context, userID string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed profile repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetByID fetches a profile by user id.
func (r *PGRepository) GetByID(ctx context.Context, userID string) (Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: get by id: %w", err)
	}
	return p, nil
}

// Provision inserts a minimal profile row for an identity that has none
// yet. New rows always start as plain users.
func (r *PGRepository) Provision(ctx context.Context, userID, email, name string) (Profile, error) {
	const insertSQL = `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ($1, $2, $3, '', $4)
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, insertSQL, userID, email, name, auth.RoleUser))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrAlreadyExists
		}
		return Profile{}, fmt.Errorf("profile: provision: %w", err)
	}
	return p, nil
}

// UpdateInfo updates the self-editable fields, leaving nil params untouched.
func (r *PGRepository) UpdateInfo(ctx context.Context, userID string, params UpdateParams) (Profile, error) {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID, params.Name, params.Phone))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: update info: %w", err)
	}
	return p, nil
}

// UpdateRole sets the stored role.
func (r *PGRepository) UpdateRole(ctx context.Context, userID string, role auth.Role) (Profile, error) {
	const query = `
		UPDATE users
		SET role = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("profile: update role: %w", err)
	}
	return p, nil
}

// ListByRole fetches all profiles holding the given role, ordered by name.
func (r *PGRepository) ListByRole(ctx context.Context, role auth.Role) ([]Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE role = $1 ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("profile: list by role: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("profile: scan row: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile: iterate rows: %w", err)
	}

	return profiles, nil
}

// Delete removes the user row. Owned listings and favorites go with it via
// foreign-key cascade.
func (r *PGRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("profile: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		p     Profile
		phone *string
	)
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&phone,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}

	p.Phone = phone
	return p, nil
}
