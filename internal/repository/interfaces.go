package repository

import (
	"context"
	"fmt"
	"time"

	"tamapet-data-api/internal/model"
)

// Cache TTLs and key space. Keys are deleted by every mutating
// operation that affects them, strictly after the store transaction
// commits.
const (
	petCacheTTL  = 300 * time.Second
	shopCacheTTL = 3600 * time.Second

	shopItemsKey = "shop:items"
)

func petCacheKey(userID int64) string {
	return fmt.Sprintf("pet:%d", userID)
}

// PetRepository defines all pet-entity reads and writes.
type PetRepository interface {
	// GetByUser returns the user's pet with its inventory quantities,
	// or (nil, nil) when the user has no pet. Cache-aside.
	GetByUser(ctx context.Context, userID int64) (*model.Pet, error)

	// Create inserts the user if absent, a pet row, and the seeded
	// inventory in one transaction, then returns the pet. Idempotent:
	// a second call for the same user returns the existing pet.
	Create(ctx context.Context, userID int64, name string) (*model.Pet, error)

	// Update applies the non-nil fields of upd and bumps last_update.
	// Returns whether at least one row changed.
	Update(ctx context.Context, userID int64, upd model.PetUpdate) (bool, error)

	// AdjustItemQuantity applies delta to the named item's quantity,
	// clamped at zero. No-op if the user/item pairing does not exist.
	AdjustItemQuantity(ctx context.Context, userID int64, itemName string, delta int64) error

	// ListStale returns pets whose last_update falls within the
	// trailing threshold window, oldest first. Bypasses the cache.
	ListStale(ctx context.Context, thresholdHours int) ([]model.PetSummary, error)

	// RecordSession appends one immutable game session row for the
	// user's pet.
	RecordSession(ctx context.Context, userID int64, gameType, result string, expGained, coinsGained int64) error

	// ListSessions returns the user's most recent game sessions,
	// newest first.
	ListSessions(ctx context.Context, userID int64, limit int) ([]model.GameSession, error)
}

// ShopRepository defines catalog reads and the purchase workflow.
type ShopRepository interface {
	// ListItems returns the full catalog ordered by category then
	// price. Cache-aside.
	ListItems(ctx context.Context) ([]model.Item, error)

	// Purchase checks the pet's balance, deducts the total cost and
	// upserts the inventory row in one transaction. Business failures
	// come back inside the result, not as errors.
	Purchase(ctx context.Context, userID int64, itemName string, quantity int64) (model.PurchaseResult, error)
}
