package repository

import (
	"fmt"

	"tamapet-data-api/internal/database"
)

// New builds the pet and shop repositories for the manager's
// configured store backend.
func New(mgr *database.Manager) (PetRepository, ShopRepository, error) {
	switch mgr.StoreType() {
	case "postgres", "postgresql":
		pets, err := NewPostgresPetRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		shop, err := NewPostgresShopRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		return pets, shop, nil
	case "mysql":
		pets, err := NewMySQLPetRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		shop, err := NewMySQLShopRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		return pets, shop, nil
	case "sqlite":
		pets, err := NewSQLitePetRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		shop, err := NewSQLiteShopRepository(mgr)
		if err != nil {
			return nil, nil, err
		}
		return pets, shop, nil
	default:
		return nil, nil, fmt.Errorf("unknown store type %q", mgr.StoreType())
	}
}
