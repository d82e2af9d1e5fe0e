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

// MySQLPetRepository implements PetRepository using MySQL. Alternate
// hosted backend; requires parseTime=true on the DSN.
type MySQLPetRepository struct {
	mgr *database.Manager
	db  *sql.DB
}

// NewMySQLPetRepository creates a MySQL pet repository on the
// manager's pool and bootstraps the schema.
func NewMySQLPetRepository(mgr *database.Manager) (*MySQLPetRepository, error) {
	if err := ensureMySQLSchema(mgr.DB()); err != nil {
		return nil, err
	}
	log.Printf("[PetRepository] mysql backend ready")
	return &MySQLPetRepository{mgr: mgr, db: mgr.DB()}, nil
}

// GetByUser returns the user's pet with inventory, cache-aside.
func (r *MySQLPetRepository) GetByUser(ctx context.Context, userID int64) (*model.Pet, error) {
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
		FROM pets WHERE user_id = ?`, userID).Scan(
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
func (r *MySQLPetRepository) Create(ctx context.Context, userID int64, name string) (*model.Pet, error) {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(opCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(opCtx,
		`INSERT IGNORE INTO users (discord_id, username) VALUES (?, 'unknown')`,
		userID); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	res, err := tx.ExecContext(opCtx, `
		INSERT IGNORE INTO pets (user_id, name, birth_time, last_update)
		VALUES (?, ?, ?, ?)`, userID, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		// pet already exists, one pet per user
		tx.Rollback()
		return r.GetByUser(ctx, userID)
	}

	petID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read pet id: %w", err)
	}

	if _, err := tx.ExecContext(opCtx, `
		INSERT IGNORE INTO pet_items (pet_id, item_id, quantity)
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
func (r *MySQLPetRepository) Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error) {
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
	args = append(args, time.Now().UTC(), userID)

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
func (r *MySQLPetRepository) AdjustItemQuantity(ctx context.Context, userID int64, itemName string, delta int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		UPDATE pet_items pi
		JOIN pets p ON pi.pet_id = p.id
		JOIN items i ON pi.item_id = i.id
		SET pi.quantity = GREATEST(0, pi.quantity + ?)
		WHERE p.user_id = ? AND i.name = ?`,
		delta, userID, itemName); err != nil {
		return fmt.Errorf("failed to adjust item quantity: %w", err)
	}

	invalidatePet(ctx, r.mgr.Cache(), userID)
	return nil
}

// ListStale returns decay candidates, oldest first.
func (r *MySQLPetRepository) ListStale(ctx context.Context, thresholdHours int) ([]model.PetSummary, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(thresholdHours) * time.Hour)

	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT user_id, id, name, hunger, happiness, cleanliness, health,
		       is_sick, last_update
		FROM pets
		WHERE last_update > ?
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
func (r *MySQLPetRepository) RecordSession(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error {
	opCtx, cancel := r.mgr.OpContext(ctx)
	defer cancel()

	if _, err := r.db.ExecContext(opCtx, `
		INSERT INTO game_sessions (pet_id, game_type, result, experience_gained, coins_gained, created_at)
		SELECT p.id, ?, ?, ?, ?, ? FROM pets p WHERE p.user_id = ?`,
		gameType, result, expGained, coinsGained, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to record game session: %w", err)
	}
	return nil
}

// ListSessions returns the user's most recent game sessions.
func (r *MySQLPetRepository) ListSessions(ctx context.Context, userID int64, limit int) ([]model.GameSession, error) {
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
		var s model.GameSession
		if err := rows.Scan(&s.ID, &s.PetID, &s.GameType, &s.Result,
			&s.ExperienceGained, &s.CoinsGained, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Ensure MySQLPetRepository implements PetRepository
var _ PetRepository = (*MySQLPetRepository)(nil)
