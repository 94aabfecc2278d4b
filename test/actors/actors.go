package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Toggler flips a favorite on and off for the same (user, property) pair, racing
// other togglers for the same pair. Delete-first, insert on conflict does nothing,
// so the pair can never hold more than one row.
func Toggler(ctx context.Context, pool *pgxpool.Pool, userID, propertyID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		tag, err := pool.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND property_id=$2`, userID, propertyID)
		if err != nil {
			return fmt.Errorf("toggler delete: %w", err)
		}
		if tag.RowsAffected() == 0 {
			_, err = pool.Exec(ctx, `INSERT INTO favorites (user_id, property_id)
                                     VALUES ($1,$2) ON CONFLICT (user_id, property_id) DO NOTHING`, userID, propertyID)
			if err != nil {
				return fmt.Errorf("toggler insert: %w", err)
			}
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Lister issues pending listings on behalf of an agent.
func Lister(ctx context.Context, pool *pgxpool.Pool, agentID string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `INSERT INTO properties
                   (agent_id, title, description, location, property_type, listing_type, price, bedrooms, bathrooms, area, image_urls, status)
                   VALUES ($1,$2,'Stress listing','Springfield','house','sale',$3,3,2,120,'{"https://img.example/1.jpg"}','pending')`,
			agentID, fmt.Sprintf("Listing %d", rand.Int63()), 100000+rand.Int63n(900000))
		if err != nil {
			return fmt.Errorf("lister insert: %w", err)
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Moderator claims pending listings and settles them, approving most.
func Moderator(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}
		var id string
		err = tx.QueryRow(ctx, `SELECT id FROM properties WHERE status='pending'
                                ORDER BY created_at LIMIT 1 FOR UPDATE SKIP LOCKED`).Scan(&id)
		if err == nil {
			verdict := "approved"
			if rand.Intn(5) == 0 {
				verdict = "rejected"
			}
			_, err = tx.Exec(ctx, `UPDATE properties SET status=$1, updated_at=NOW() WHERE id=$2`, verdict, id)
			if err == nil {
				_ = tx.Commit(ctx)
				time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
				continue
			}
		}
		_ = tx.Rollback(ctx)
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Searcher runs the public search while listings and favorites churn.
func Searcher(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		rows, err := pool.Query(ctx, `SELECT id, status FROM properties
                   WHERE status='approved' AND (title ILIKE $1 OR location ILIKE $1 OR description ILIKE $1)
                   ORDER BY created_at DESC LIMIT 20`, "%spring%")
		if err != nil {
			return fmt.Errorf("searcher query: %w", err)
		}
		for rows.Next() {
			var id, status string
			_ = rows.Scan(&id, &status)
			if status != "approved" {
				rows.Close()
				return fmt.Errorf("searcher saw non-approved listing %s (%s)", id, status)
			}
		}
		rows.Close()
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}

// Registrar races to sign up the same email over and over; only one row may win.
func Registrar(ctx context.Context, pool *pgxpool.Pool, email string, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `INSERT INTO users (email, name, password_hash, role)
                                   VALUES ($1,'Stress User','x','user')`, email)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique constraint
				// expected under contention
			} else {
				return fmt.Errorf("registrar insert: %w", err)
			}
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// RoleFlipper promotes and demotes a user between user and agent.
func RoleFlipper(ctx context.Context, pool *pgxpool.Pool, userID string, stop <-chan struct{}) error {
	next := "agent"
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `UPDATE users SET role=$1, updated_at=NOW() WHERE id=$2`, next, userID)
		if err != nil {
			return fmt.Errorf("role flip: %w", err)
		}
		if next == "agent" {
			next = "user"
		} else {
			next = "agent"
		}
		time.Sleep(time.Duration(50+rand.Intn(100)) * time.Millisecond)
	}
}

// Reaper deletes a random rejected listing; favorites must follow via cascade.
func Reaper(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		_, err := pool.Exec(ctx, `DELETE FROM properties WHERE id IN
                   (SELECT id FROM properties WHERE status='rejected' ORDER BY random() LIMIT 1)`)
		if err != nil {
			return fmt.Errorf("reaper delete: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
