package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"tamapet-data-api/internal/database"
	"tamapet-data-api/internal/model"
)

// SQLitePetRepository implements PetRepository using SQLite. Intended
// for embedded and development deployments; the pool is capped at one
// connection so writes serialize in-process.
type SQLitePetRepository struct {
	mgr *database.Manager
	db  *sql.DB
}

// NewSQLitePetRepository creates a SQLite pet repository on the
// manager's pool and bootstraps the schema.
func NewSQLitePetRepository(mgr *database.Manager) (*SQLitePetRepository, error) {
	if err := ensureSQLiteSchema(mgr.DB()); err != nil {
		return nil, err
	}
	log.Printf("[PetRepository] sqlite backend ready")
	return &SQLitePetRepository{mgr: mgr, db: mgr.DB()}, nil
}

// GetByUser returns the user's pet with inventory, cache-aside.
func (r *SQLitePetRepository) GetByUser(ctx context.Context, userID int64) (*model.Pet, error) {
	if pet := cachedPet(ctx, r.mgr.Cache(), userID); pet != nil {
		return pet, nil
	}

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	pet := &model.Pet{Items: make(map[string]int64)}
	var birthMs, updateMs int64
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, user_id, name, hunger, happiness, cleanliness, health,
		       energy, discipline, level, experience, coins, is_sick,
		       is_sleeping, care_mistakes, games_won, games_lost,
		       birth_time, last_update
		FROM pets WHERE user_id = ?`, userID).Scan(
		&pet.ID, &pet.UserID, &pet.Name, &pet.Hunger, &pet.Happiness,
		&pet.Cleanliness, &pet.Health, &pet.Energy, &pet.Discipline,
		&pet.Level, &pet.Experience, &pet.Coins, &pet.IsSick,
		&pet.IsSleeping, &pet.CareMistakes, &pet.GamesWon, &pet.GamesLost,
		&birthMs, &updateMs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	pet.BirthTime = time.UnixMilli(birthMs).UTC()
	pet.LastUpdate = time.UnixMilli(updateMs).UTC()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT i.name, pi.quantity
		FROM pet_items pi JOIN items i ON pi.item_id = i.id
		WHERE pi.pet_id = ?`, pet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			name string
			qty  int64
		)
		if err := rows.Scan(&name, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan pet item: %w", err)
		}
		pet.Items[name] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pet items: %w", err)
	}

	storePet(ctx, r.mgr.Cache(), pet)
	return pet, nil
}

// Create inserts user, pet and seeded inventory in one transaction.
func (r *SQLitePetRepository) Create(ctx context.Context, userID int64, name string) (*model.Pet, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	nowMs := time.Now().UTC().UnixMilli()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(opCtx, `
		INSERT INTO users (discord_id, username) VALUES (?, 'unknown')
		ON CONFLICT(discord_id) DO NOTHING`, userID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var petID int64
	err = tx.QueryRowContext(opCtx, `
		INSERT INTO pets (user_id, name, birth_time, last_update)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING
		RETURNING id`, userID, name, nowMs, nowMs).Scan(&petID)
	if err == sql.ErrNoRows {
		// pet already exists, one pet per user; release the pool's
		// single connection before re-reading
		tx.Rollback()
		return r.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	if _, err := tx.ExecContext(opCtx, `
		INSERT INTO pet_items (pet_id, item_id, quantity)
		SELECT ?, id,
		       CASE WHEN name = ? THEN 1 WHEN name = ? THEN 1 ELSE 0 END
		FROM items`, petID, starterItemMedicine, starterItemToy); err != nil {
		return nil, fmt.Errorf("failed to seed inventory: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)
	return r.GetByUser(ctx, userID)
}

// Update applies the non-nil fields and bumps last_update.
func (r *SQLitePetRepository) Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error) {
	cols, vals := petUpdateColumns(upd)
	if len(cols) == 0 {
		return false, nil
	}

	set := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+2)
	for i, col := range cols {
		set = append(set, col+" = ?")
		args = append(args, vals[i])
	}
	set = append(set, "last_update = ?")
	args = append(args, time.Now().UTC().UnixMilli(), userID)

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx,
		"UPDATE pets SET "+strings.Join(set, ", ")+" WHERE user_id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("failed to update pet: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AdjustItemQuantity applies delta clamped at zero.
func (r *SQLitePetRepository) AdjustItemQuantity(ctx context.Context, userID int64, itemName string, delta int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		UPDATE pet_items SET quantity = MAX(0, quantity + ?)
		WHERE pet_id = (SELECT id FROM pets WHERE user_id = ?)
		  AND item_id = (SELECT id FROM items WHERE name = ?)`,
		delta, userID, itemName); err != nil {
		return fmt.Errorf("failed to adjust item quantity: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)
	return nil
}

// ListStale returns decay candidates, oldest first.
func (r *SQLitePetRepository) ListStale(ctx context.Context, thresholdHours int) ([]model.PetSummary, error) {
	cutoffMs := time.Now().UTC().Add(-time.Duration(thresholdHours) * time.Hour).UnixMilli()

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT user_id, id, name, hunger, happiness, cleanliness, health,
		       is_sick, last_update
		FROM pets
		WHERE last_update > ?
		ORDER BY last_update ASC`, cutoffMs)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pets: %w", err)
	}
	defer rows.Close()

	var out []model.PetSummary
	for rows.Next() {
		var (
			s        model.PetSummary
			updateMs int64
		)
		if err := rows.Scan(&s.UserID, &s.PetID, &s.Name, &s.Hunger,
			&s.Happiness, &s.Cleanliness, &s.Health, &s.IsSick, &updateMs); err != nil {
			return nil, fmt.Errorf("failed to scan pet summary: %w", err)
		}
		s.LastUpdate = time.UnixMilli(updateMs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordSession appends one game session row for the user's pet.
func (r *SQLitePetRepository) RecordSession(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		INSERT INTO game_sessions (pet_id, game_type, result, experience_gained, coins_gained, created_at)
		SELECT p.id, ?, ?, ?, ?, ? FROM pets p WHERE p.user_id = ?`,
		gameType, result, expGained, coinsGained, time.Now().UTC().UnixMilli(), userID); err != nil {
		return fmt.Errorf("failed to record game session: %w", err)
	}
	return nil
}

// ListSessions returns the user's most recent game sessions.
func (r *SQLitePetRepository) ListSessions(ctx context.Context, userID int64, limit int) ([]model.GameSession, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT gs.id, gs.pet_id, gs.game_type, gs.result,
		       gs.experience_gained, gs.coins_gained, gs.created_at
		FROM game_sessions gs JOIN pets p ON gs.pet_id = p.id
		WHERE p.user_id = ?
		ORDER BY gs.created_at DESC, gs.id DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var out []model.GameSession
	for rows.Next() {
		var (
			s         model.GameSession
			createdMs int64
		)
		if err := rows.Scan(&s.ID, &s.PetID, &s.GameType, &s.Result,
			&s.ExperienceGained, &s.CoinsGained, &createdMs); err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		s.CreatedAt = time.UnixMilli(createdMs).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

// Ensure SQLitePetRepository implements PetRepository
var _ PetRepository = (*SQLitePetRepository)(nil)
