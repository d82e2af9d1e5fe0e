package repository

import (
	"database/sql"
	"fmt"
)

// ensurePostgresSchema creates the tables and seeds the item catalog.
// Idempotent; called by every PostgreSQL repository constructor.
func ensurePostgresSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		discord_id BIGINT NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT 'unknown'
	);
	CREATE TABLE IF NOT EXISTS pets (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		hunger INT NOT NULL DEFAULT 100,
		happiness INT NOT NULL DEFAULT 100,
		cleanliness INT NOT NULL DEFAULT 100,
		health INT NOT NULL DEFAULT 100,
		energy INT NOT NULL DEFAULT 100,
		discipline INT NOT NULL DEFAULT 50,
		level INT NOT NULL DEFAULT 1,
		experience BIGINT NOT NULL DEFAULT 0,
		coins BIGINT NOT NULL DEFAULT 50,
		is_sick BOOLEAN NOT NULL DEFAULT FALSE,
		is_sleeping BOOLEAN NOT NULL DEFAULT FALSE,
		care_mistakes INT NOT NULL DEFAULT 0,
		games_won INT NOT NULL DEFAULT 0,
		games_lost INT NOT NULL DEFAULT 0,
		birth_time TIMESTAMPTZ NOT NULL,
		last_update TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pets_last_update ON pets(last_update);
	CREATE TABLE IF NOT EXISTS items (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		price BIGINT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pet_items (
		pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		item_id BIGINT NOT NULL REFERENCES items(id),
		quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		PRIMARY KEY (pet_id, item_id)
	);
	CREATE TABLE IF NOT EXISTS game_sessions (
		id BIGSERIAL PRIMARY KEY,
		pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		game_type TEXT NOT NULL,
		result TEXT NOT NULL,
		experience_gained BIGINT NOT NULL DEFAULT 0,
		coins_gained BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_game_sessions_pet ON game_sessions(pet_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	seed := `INSERT INTO items (name, category, price) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`
	for _, item := range defaultCatalog {
		if _, err := db.Exec(seed, item.Name, item.Category, item.Price); err != nil {
			return fmt.Errorf("failed to seed item %s: %w", item.Name, err)
		}
	}
	return nil
}
