package favorite

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"homeflow/property"
)

// Repository handles data access for favorites.
type Repository interface {
	Toggle(ctx context.Context, userID, propertyID string) (favorited bool, err error)
	IsFavorited(ctx context.Context, userID, propertyID string) (bool, error)
	ListProperties(ctx context.Context, userID string) ([]property.Property, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed favorite repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Toggle removes the favorite row if present, otherwise inserts it. The
// unique constraint on (user_id, property_id) makes the insert a no-op when
// a concurrent toggle wins the race, so the pair can never hold more than
// one row.
func (r *PGRepository) Toggle(ctx context.Context, userID, propertyID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("favorite: toggle delete: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO favorites (user_id, property_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, property_id) DO NOTHING`,
		userID, propertyID)
	if err != nil {
		return false, fmt.Errorf("favorite: toggle insert: %w", err)
	}
	return true, nil
}

// IsFavorited reports whether the pair has a favorite row.
func (r *PGRepository) IsFavorited(ctx context.Context, userID, propertyID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND property_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, propertyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("favorite: exists: %w", err)
	}
	return exists, nil
}

// ListProperties returns the user's favorited listings, most recently
// favorited first. Only approved listings are returned: a listing pulled
// from public visibility disappears from the favorites surface too.
func (r *PGRepository) ListProperties(ctx context.Context, userID string) ([]property.Property, error) {
	const query = `
		SELECT p.id, p.title, p.description, p.price, p.location, p.image_urls, p.agent_id,
			p.property_type, p.listing_type, p.bedrooms, p.bathrooms, p.area, p.status, p.created_at, p.updated_at
		FROM favorites f
		JOIN properties p ON p.id = f.property_id
		WHERE f.user_id = $1 AND p.status = 'approved'
		ORDER BY f.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite: list properties: %w", err)
	}
	defer rows.Close()

	list := []property.Property{}
	for rows.Next() {
		var p property.Property
		err := rows.Scan(
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
		if err != nil {
			return nil, fmt.Errorf("favorite: scan property: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("favorite: iterate properties: %w", err)
	}

	return list, nil
}
