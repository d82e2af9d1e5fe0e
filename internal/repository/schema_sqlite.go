package repository

import (
	"database/sql"
	"fmt"
)

// ensureSQLiteSchema creates the tables and seeds the item catalog.
// Timestamps are stored as unix milliseconds, the same numeric form
// the cache snapshot uses.
func ensureSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		discord_id INTEGER NOT NULL UNIQUE,
		username TEXT NOT NULL DEFAULT 'unknown'
	);
	CREATE TABLE IF NOT EXISTS pets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		name TEXT NOT NULL,
		hunger INTEGER NOT NULL DEFAULT 100,
		happiness INTEGER NOT NULL DEFAULT 100,
		cleanliness INTEGER NOT NULL DEFAULT 100,
		health INTEGER NOT NULL DEFAULT 100,
		energy INTEGER NOT NULL DEFAULT 100,
		discipline INTEGER NOT NULL DEFAULT 50,
		level INTEGER NOT NULL DEFAULT 1,
		experience INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 50,
		is_sick INTEGER NOT NULL DEFAULT 0,
		is_sleeping INTEGER NOT NULL DEFAULT 0,
		care_mistakes INTEGER NOT NULL DEFAULT 0,
		games_won INTEGER NOT NULL DEFAULT 0,
		games_lost INTEGER NOT NULL DEFAULT 0,
		birth_time INTEGER NOT NULL,
		last_update INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pets_last_update ON pets(last_update);
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category TEXT NOT NULL,
		price INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS pet_items (
		pet_id INTEGER NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		item_id INTEGER NOT NULL REFERENCES items(id),
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		PRIMARY KEY (pet_id, item_id)
	);
	CREATE TABLE IF NOT EXISTS game_sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pet_id INTEGER NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		game_type TEXT NOT NULL,
		result TEXT NOT NULL,
		experience_gained INTEGER NOT NULL DEFAULT 0,
		coins_gained INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_game_sessions_pet ON game_sessions(pet_id, created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	seed := `INSERT INTO items (name, category, price) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING`
	for _, item := range defaultCatalog {
		if _, err := db.Exec(seed, item.Name, item.Category, item.Price); err != nil {
			return fmt.Errorf("failed to seed item %s: %w", item.Name, err)
		}
	}
	return nil
}
