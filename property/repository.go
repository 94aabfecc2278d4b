package property

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound signals the requested property does not exist.
var ErrNotFound = errors.New("property: not found")

const propertyColumns = `id, title, description, price, location, image_urls, agent_id,
	property_type, listing_type, bedrooms, bathrooms, area, status, created_at, updated_at`

// Repository handles data access for properties.
type Repository interface {
	Create(ctx context.Context, p Property) (Property, error)
	GetByID(ctx context.Context, id string) (Property, error)
	Search(ctx context.Context, filters SearchFilters) ([]Property, int, error)
	ListByAgent(ctx context.Context, agentID string) ([]Property, error)
	ListByStatus(ctx context.Context, status Status) ([]Property, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Property, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed property repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a listing and returns the stored row.
func (r *PGRepository) Create(ctx context.Context, p Property) (Property, error) {
	const insertSQL = `
		INSERT INTO properties (id, title, description, price, location, image_urls, agent_id,
			property_type, listing_type, bedrooms, bathrooms, area, status)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + propertyColumns

	row := r.pool.QueryRow(ctx, insertSQL,
		p.ID,
		p.Title,
		p.Description,
		p.Price,
		p.Location,
		p.ImageURLs,
		p.AgentID,
		p.PropertyType,
		p.ListingType,
		p.Bedrooms,
		p.Bathrooms,
		p.Area,
		p.Status,
	)

	created, err := scanProperty(row)
	if err != nil {
		return Property{}, fmt.Errorf("property: create: %w", err)
	}
	return created, nil
}

// GetByID fetches a listing by primary key regardless of status.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: get by id: %w", err)
	}
	return p, nil
}

// Search lists approved listings matching the filters, newest first. Only
// approved rows ever leave this query; the public surface never sees
// pending or rejected listings.
func (r *PGRepository) Search(ctx context.Context, filters SearchFilters) ([]Property, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 || filters.PageSize > 100 {
		filters.PageSize = 20
	}

	where := []string{"status = 'approved'"}
	args := []any{}

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + q + "%"
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR location ILIKE $%d OR description ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1))
		args = append(args, pattern)
	}
	if filters.PropertyType != "" {
		where = append(where, fmt.Sprintf("property_type = $%d", len(args)+1))
		args = append(args, filters.PropertyType)
	}
	if filters.MinPrice > 0 {
		where = append(where, fmt.Sprintf("price >= $%d", len(args)+1))
		args = append(args, filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		where = append(where, fmt.Sprintf("price <= $%d", len(args)+1))
		args = append(args, filters.MaxPrice)
	}
	if filters.MinBedrooms > 0 {
		where = append(where, fmt.Sprintf("bedrooms >= $%d", len(args)+1))
		args = append(args, filters.MinBedrooms)
	}

	whereClause := " WHERE " + strings.Join(where, " AND ")
	limit := filters.PageSize
	offset := (filters.Page - 1) * filters.PageSize

	query := fmt.Sprintf(`SELECT %s FROM properties%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		propertyColumns, whereClause, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("property: search: %w", err)
	}
	defer rows.Close()

	list := []Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("property: scan search row: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("property: iterate search rows: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM properties" + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("property: count search: %w", err)
	}

	return list, total, nil
}

// ListByAgent fetches all of an agent's listings, any status, newest first.
func (r *PGRepository) ListByAgent(ctx context.Context, agentID string) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE agent_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, agentID)
}

// ListByStatus fetches all listings in one status, oldest first so the
// moderation queue is worked in arrival order.
func (r *PGRepository) ListByStatus(ctx context.Context, status Status) ([]Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE status = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, status)
}

func (r *PGRepository) list(ctx context.Context, query string, args ...any) ([]Property, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("property: list: %w", err)
	}
	defer rows.Close()

	list := []Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("property: scan list row: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("property: iterate list rows: %w", err)
	}

	return list, nil
}

// UpdateStatus sets the moderation status. Setting the same status twice is
// a no-op update, keeping the operation idempotent.
func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status Status) (Property, error) {
	const query = `
		UPDATE properties
		SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + propertyColumns

	p, err := scanProperty(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Property{}, ErrNotFound
		}
		return Property{}, fmt.Errorf("property: update status: %w", err)
	}
	return p, nil
}

// Delete removes a listing.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("property: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (Property, error) {
	var p Property
	return p, row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Location,
		&p.ImageURLs,
		&p.AgentID,
		&p.PropertyType,
		&p.ListingType,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.Area,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
