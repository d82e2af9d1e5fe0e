package repository

import (
	"database/sql"
	"fmt"
)

// mysqlSchema is split into one statement per Exec because the MySQL
// driver rejects multi-statement batches by default.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		discord_id BIGINT NOT NULL UNIQUE,
		username VARCHAR(255) NOT NULL DEFAULT 'unknown'
	)`,
	`CREATE TABLE IF NOT EXISTS pets (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		hunger INT NOT NULL DEFAULT 100,
		happiness INT NOT NULL DEFAULT 100,
		cleanliness INT NOT NULL DEFAULT 100,
		health INT NOT NULL DEFAULT 100,
		energy INT NOT NULL DEFAULT 100,
		discipline INT NOT NULL DEFAULT 50,
		level INT NOT NULL DEFAULT 1,
		experience BIGINT NOT NULL DEFAULT 0,
		coins BIGINT NOT NULL DEFAULT 50,
		is_sick TINYINT(1) NOT NULL DEFAULT 0,
		is_sleeping TINYINT(1) NOT NULL DEFAULT 0,
		care_mistakes INT NOT NULL DEFAULT 0,
		games_won INT NOT NULL DEFAULT 0,
		games_lost INT NOT NULL DEFAULT 0,
		birth_time DATETIME(3) NOT NULL,
		last_update DATETIME(3) NOT NULL,
		INDEX idx_pets_last_update (last_update)
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		category VARCHAR(64) NOT NULL,
		price BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pet_items (
		pet_id BIGINT NOT NULL,
		item_id BIGINT NOT NULL,
		quantity BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (pet_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS game_sessions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		pet_id BIGINT NOT NULL,
		game_type VARCHAR(64) NOT NULL,
		result VARCHAR(64) NOT NULL,
		experience_gained BIGINT NOT NULL DEFAULT 0,
		coins_gained BIGINT NOT NULL DEFAULT 0,
		created_at DATETIME(3) NOT NULL,
		INDEX idx_game_sessions_pet (pet_id, created_at)
	)`,
}

// ensureMySQLSchema creates the tables and seeds the item catalog.
func ensureMySQLSchema(db *sql.DB) error {
	for _, stmt := range mysqlSchema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}

	seed := `INSERT IGNORE INTO items (name, category, price) VALUES (?, ?, ?)`
	for _, item := range defaultCatalog {
		if _, err := db.Exec(seed, item.Name, item.Category, item.Price); err != nil {
			return fmt.Errorf("failed to seed item %s: %w", item.Name, err)
		}
	}
	return nil
}
