package repository

import (
	"context"
	"encoding/json"
	"log"

	"tamapet-data-api/internal/cache"
	"tamapet-data-api/internal/model"
)

// Cache helpers shared by the backends. Every failure here is logged
// and swallowed: a broken cache must degrade to direct store access,
// never fail the operation.

// cachedPet returns the cached snapshot for userID, or nil on miss,
// decode failure, or version drift.
func cachedPet(ctx context.Context, c cache.Cache, userID int64) *model.Pet {
	if c == nil {
		return nil
	}

	data, err := c.Get(ctx, petCacheKey(userID))
	if err != nil {
		if err != cache.ErrCacheMiss {
			log.Printf("[PetRepository] cache get failed: %v", err)
		}
		return nil
	}

	var snap model.PetSnapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != model.SnapshotVersion {
		// stale or foreign encoding, treat as a miss
		return nil
	}

	return snap.Pet()
}

// storePet writes the pet snapshot under its cache key.
func storePet(ctx context.Context, c cache.Cache, pet *model.Pet) {
	if c == nil || pet == nil {
		return
	}

	data, err := json.Marshal(pet.Snapshot())
	if err != nil {
		log.Printf("[PetRepository] snapshot encode failed: %v", err)
		return
	}

	if err := c.Set(ctx, petCacheKey(pet.UserID), data, petCacheTTL); err != nil {
		log.Printf("[PetRepository] cache set failed: %v", err)
	}
}

// invalidatePet deletes the pet's cache key.
func invalidatePet(ctx context.Context, c cache.Cache, userID int64) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, petCacheKey(userID)); err != nil {
		log.Printf("[PetRepository] cache invalidate failed: %v", err)
	}
}

// cachedCatalog returns the cached shop catalog, or nil on miss.
func cachedCatalog(ctx context.Context, c cache.Cache) []model.Item {
	if c == nil {
		return nil
	}

	data, err := c.Get(ctx, shopItemsKey)
	if err != nil {
		if err != cache.ErrCacheMiss {
			log.Printf("[ShopRepository] cache get failed: %v", err)
		}
		return nil
	}

	var snap model.CatalogSnapshot
	if err := json.Unmarshal(data, &snap); err != nil || snap.Version != model.SnapshotVersion {
		return nil
	}

	return snap.Items
}

// storeCatalog writes the catalog under its cache key.
func storeCatalog(ctx context.Context, c cache.Cache, items []model.Item) {
	if c == nil {
		return
	}

	data, err := json.Marshal(model.CatalogSnapshot{Version: model.SnapshotVersion, Items: items})
	if err != nil {
		log.Printf("[ShopRepository] catalog encode failed: %v", err)
		return
	}

	if err := c.Set(ctx, shopItemsKey, data, shopCacheTTL); err != nil {
		log.Printf("[ShopRepository] cache set failed: %v", err)
	}
}
