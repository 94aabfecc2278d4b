package oracles

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Oracle struct {
	Name string
	SQL  string
}

func All() []Oracle {
	return []Oracle{
		{
			Name: "O1_favorite_pair_unique",
			SQL: `SELECT user_id, property_id, COUNT(*) FROM favorites
                  GROUP BY user_id, property_id HAVING COUNT(*) > 1`,
		},
		{
			Name: "O2_email_unique",
			SQL: `SELECT email, COUNT(*) FROM users
                  GROUP BY email HAVING COUNT(*) > 1`,
		},
		{
			Name: "O3_listing_status_domain",
			SQL:  `SELECT id, status FROM properties WHERE status NOT IN ('pending','approved','rejected')`,
		},
		{
			Name: "O4_role_domain",
			SQL:  `SELECT id, role FROM users WHERE role NOT IN ('user','agent','admin')`,
		},
		{
			Name: "O5_price_non_negative",
			SQL:  `SELECT id, price FROM properties WHERE price < 0`,
		},
		{
			Name: "O6_listing_has_images",
			SQL:  `SELECT id FROM properties WHERE array_length(image_urls, 1) IS NULL`,
		},
		{
			Name: "O7_no_orphan_favorites",
			SQL: `SELECT f.id FROM favorites f
                  LEFT JOIN properties p ON p.id = f.property_id
                  LEFT JOIN users u ON u.id = f.user_id
                  WHERE p.id IS NULL OR u.id IS NULL`,
		},
		{
			Name: "O8_listing_owner_exists",
			SQL: `SELECT p.id FROM properties p
                  LEFT JOIN users u ON u.id = p.agent_id
                  WHERE u.id IS NULL`,
		},
	}
}

// Run executes all oracles and returns the first failure (name and sample row text) or empty name if all pass.
func Run(ctx context.Context, pool *pgxpool.Pool) (string, string, error) {
	for _, o := range All() {
		rows, err := pool.Query(ctx, o.SQL)
		if err != nil {
			return o.Name, "", fmt.Errorf("oracle %s: %w", o.Name, err)
		}
		has := rows.Next()
		if has {
			vals, err := rows.Values()
			rows.Close()
			if err != nil {
				return o.Name, "", err
			}
			return o.Name, fmt.Sprintf("%v", vals), nil
		}
		rows.Close()
	}
	return "", "", nil
}
