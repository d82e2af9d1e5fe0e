package service

import (
	"context"
	"strings"

	"tamapet-data-api/internal/model"
	"tamapet-data-api/internal/repository"
	"tamapet-data-api/pkg/apierror"
)

const (
	// DefaultPetName is used when a pet is created without a name.
	DefaultPetName = "Tamagotchi"

	maxPetNameLen = 32

	// DefaultStaleHours is the decay-candidate window when the caller
	// does not pass one.
	DefaultStaleHours = 72
	maxStaleHours     = 24 * 30

	defaultSessionLimit = 10
	maxSessionLimit     = 50
)

// PetService validates inputs and delegates to the pet repository.
type PetService struct {
	pets repository.PetRepository
}

// NewPetService creates a new pet service.
// Returns nil if pets is nil (required dependency).
func NewPetService(pets repository.PetRepository) *PetService {
	if pets == nil {
		return nil
	}
	return &PetService{pets: pets}
}

// Get returns the user's pet, or (nil, nil) when the user has none.
func (s *PetService) Get(ctx context.Context, userID int64) (*model.Pet, error) {
	if userID <= 0 {
		return nil, apierror.BadRequest("invalid user id")
	}
	return s.pets.GetByUser(ctx, userID)
}

// Create adopts a pet for the user. An empty name falls back to
// DefaultPetName; a second call returns the already-adopted pet.
func (s *PetService) Create(ctx context.Context, userID int64, name string) (*model.Pet, error) {
	if userID <= 0 {
		return nil, apierror.BadRequest("invalid user id")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPetName
	}
	if len(name) > maxPetNameLen {
		return nil, apierror.BadRequest("pet name too long")
	}

	return s.pets.Create(ctx, userID, name)
}

// Update applies a partial stat update. Care stats are clamped into
// [0,100]; counters must not be negative.
func (s *PetService) Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error) {
	if userID <= 0 {
		return false, apierror.BadRequest("invalid user id")
	}
	if upd.IsEmpty() {
		return false, nil
	}

	for _, stat := range []**int{&upd.Hunger, &upd.Happiness, &upd.Cleanliness, &upd.Health, &upd.Energy, &upd.Discipline} {
		if *stat != nil {
			clamped := clampStat(**stat)
			*stat = &clamped
		}
	}

	if (upd.Level != nil && *upd.Level < 1) ||
		(upd.Experience != nil && *upd.Experience < 0) ||
		(upd.Coins != nil && *upd.Coins < 0) ||
		(upd.CareMistakes != nil && *upd.CareMistakes < 0) ||
		(upd.GamesWon != nil && *upd.GamesWon < 0) ||
		(upd.GamesLost != nil && *upd.GamesLost < 0) {
		return false, apierror.BadRequest("stat value out of range")
	}

	return s.pets.Update(ctx, userID, upd)
}

// AdjustItem changes the quantity of one inventory item, clamped at
// zero by the repository.
func (s *PetService) AdjustItem(ctx context.Context, userID int64, itemName string, delta int64) error {
	if userID <= 0 {
		return apierror.BadRequest("invalid user id")
	}
	if strings.TrimSpace(itemName) == "" {
		return apierror.BadRequest("item name is required")
	}
	return s.pets.AdjustItemQuantity(ctx, userID, itemName, delta)
}

// StaleCandidates returns decay-tick candidates for the external
// scheduler, oldest first.
func (s *PetService) StaleCandidates(ctx context.Context, hours int) ([]model.PetSummary, error) {
	if hours <= 0 {
		hours = DefaultStaleHours
	}
	if hours > maxStaleHours {
		hours = maxStaleHours
	}
	return s.pets.ListStale(ctx, hours)
}

// RecordGame appends one game session for the user's pet.
func (s *PetService) RecordGame(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error {
	if userID <= 0 {
		return apierror.BadRequest("invalid user id")
	}
	if strings.TrimSpace(gameType) == "" || strings.TrimSpace(result) == "" {
		return apierror.BadRequest("game type and result are required")
	}
	if expGained < 0 || coinsGained < 0 {
		return apierror.BadRequest("gains must not be negative")
	}
	return s.pets.RecordSession(ctx, userID, gameType, result, expGained, coinsGained)
}

// RecentGames returns the user's most recent game sessions.
func (s *PetService) RecentGames(ctx context.Context, userID int64, limit int) ([]model.GameSession, error) {
	if userID <= 0 {
		return nil, apierror.BadRequest("invalid user id")
	}
	if limit <= 0 {
		limit = defaultSessionLimit
	}
	if limit > maxSessionLimit {
		limit = maxSessionLimit
	}
	return s.pets.ListSessions(ctx, userID, limit)
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
