package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetProfile retrieves the user's candidate profile as raw JSON. Returns
// (nil, nil) when the user has no profile yet.
func (db *DB) GetProfile(ctx context.Context, userID uuid.UUID) (json.RawMessage, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT profile FROM profiles WHERE user_id = $1`,
		userID,
	)

	var profile json.RawMessage
	if err := row.Scan(&profile); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpsertProfile stores or replaces the user's candidate profile.
func (db *DB) UpsertProfile(ctx context.Context, userID uuid.UUID, profile json.RawMessage) error {
	if !json.Valid(profile) {
		return fmt.Errorf("profile is not valid JSON")
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, profile, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = NOW()`,
		userID, profile,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
