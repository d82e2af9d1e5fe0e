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

// PostgresPetRepository implements PetRepository using PostgreSQL.
// This is the production backend.
type PostgresPetRepository struct {
	mgr *database.Manager
	db  *sql.DB
}

// NewPostgresPetRepository creates a PostgreSQL pet repository on the
// manager's pool and bootstraps the schema.
func NewPostgresPetRepository(mgr *database.Manager) (*PostgresPetRepository, error) {
	if err := ensurePostgresSchema(mgr.DB()); err != nil {
		return nil, err
	}
	log.Printf("[PetRepository] postgres backend ready")
	return &PostgresPetRepository{mgr: mgr, db: mgr.DB()}, nil
}

// GetByUser returns the user's pet with inventory, cache-aside.
func (r *PostgresPetRepository) GetByUser(ctx context.Context, userID int64) (*model.Pet, error) {
	if pet := cachedPet(ctx, r.mgr.Cache(), userID); pet != nil {
		return pet, nil
	}

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	pet := &model.Pet{Items: make(map[string]int64)}
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, user_id, name, hunger, happiness, cleanliness, health,
		       energy, discipline, level, experience, coins, is_sick,
		       is_sleeping, care_mistakes, games_won, games_lost,
		       birth_time, last_update
		FROM pets WHERE user_id = $1`, userID).Scan(
		&pet.ID, &pet.UserID, &pet.Name, &pet.Hunger, &pet.Happiness,
		&pet.Cleanliness, &pet.Health, &pet.Energy, &pet.Discipline,
		&pet.Level, &pet.Experience, &pet.Coins, &pet.IsSick,
		&pet.IsSleeping, &pet.CareMistakes, &pet.GamesWon, &pet.GamesLost,
		&pet.BirthTime, &pet.LastUpdate,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}

	rows, err := r.db.QueryContext(opCtx, `
		SELECT i.name, pi.quantity
		FROM pet_items pi JOIN items i ON pi.item_id = i.id
		WHERE pi.pet_id = $1`, pet.ID)
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
// Idempotent per user: the existing pet is returned unchanged.
func (r *PostgresPetRepository) Create(ctx context.Context, userID int64, name string) (*model.Pet, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(opCtx, `
		INSERT INTO users (discord_id, username) VALUES ($1, 'unknown')
		ON CONFLICT (discord_id) DO NOTHING`, userID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	var petID int64
	err = tx.QueryRowContext(opCtx, `
		INSERT INTO pets (user_id, name, birth_time, last_update)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id`, userID, name, now).Scan(&petID)
	if err == sql.ErrNoRows {
		// pet already exists, one pet per user
		tx.Rollback()
		return r.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	if _, err := tx.ExecContext(opCtx, `
		INSERT INTO pet_items (pet_id, item_id, quantity)
		SELECT $1, id,
		       CASE WHEN name = $2 THEN 1 WHEN name = $3 THEN 1 ELSE 0 END
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
func (r *PostgresPetRepository) Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error) {
	cols, vals := petUpdateColumns(upd)
	if len(cols) == 0 {
		return false, nil
	}

	set := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+2)
	args = append(args, userID)
	for i, col := range cols {
		set = append(set, fmt.Sprintf("%s = $%d", col, i+2))
	}
	args = append(args, vals...)
	set = append(set, fmt.Sprintf("last_update = $%d", len(cols)+2))
	args = append(args, time.Now().UTC())

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(opCtx,
		"UPDATE pets SET "+strings.Join(set, ", ")+" WHERE user_id = $1", args...)
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

// AdjustItemQuantity applies delta clamped at zero. Missing pairings
// are a silent no-op.
func (r *PostgresPetRepository) AdjustItemQuantity(ctx context.Context, userID int64, itemName string, delta int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		UPDATE pet_items SET quantity = GREATEST(0, pet_items.quantity + $3)
		FROM pets p, items i
		WHERE pet_items.pet_id = p.id AND pet_items.item_id = i.id
		  AND p.user_id = $1 AND i.name = $2`, userID, itemName, delta); err != nil {
		return fmt.Errorf("failed to adjust item quantity: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)
	return nil
}

// ListStale returns decay candidates, oldest first. Bulk scan, no cache.
func (r *PostgresPetRepository) ListStale(ctx context.Context, thresholdHours int) ([]model.PetSummary, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdHours) * time.Hour)

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT user_id, id, name, hunger, happiness, cleanliness, health,
		       is_sick, last_update
		FROM pets
		WHERE last_update > $1
		ORDER BY last_update ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale pets: %w", err)
	}
	defer rows.Close()

	var out []model.PetSummary
	for rows.Next() {
		var s model.PetSummary
		if err := rows.Scan(&s.UserID, &s.PetID, &s.Name, &s.Hunger,
			&s.Happiness, &s.Cleanliness, &s.Health, &s.IsSick, &s.LastUpdate); err != nil {
			return nil, fmt.Errorf("failed to scan pet summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RecordSession appends one game session row for the user's pet.
func (r *PostgresPetRepository) RecordSession(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		INSERT INTO game_sessions (pet_id, game_type, result, experience_gained, coins_gained, created_at)
		SELECT p.id, $2, $3, $4, $5, $6 FROM pets p WHERE p.user_id = $1`,
		userID, gameType, result, expGained, coinsGained, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record game session: %w", err)
	}
	return nil
}

// ListSessions returns the user's most recent game sessions.
func (r *PostgresPetRepository) ListSessions(ctx context.Context, userID int64, limit int) ([]model.GameSession, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT gs.id, gs.pet_id, gs.game_type, gs.result,
		       gs.experience_gained, gs.coins_gained, gs.created_at
		FROM game_sessions gs JOIN pets p ON gs.pet_id = p.id
		WHERE p.user_id = $1
		ORDER BY gs.created_at DESC, gs.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	defer rows.Close()

	var out []model.GameSession
	for rows.Next() {
		var s model.GameSession
		if err := rows.Scan(&s.ID, &s.PetID, &s.GameType, &s.Result,
			&s.ExperienceGained, &s.CoinsGained, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Ensure PostgresPetRepository implements PetRepository
var _ PetRepository = (*PostgresPetRepository)(nil)
