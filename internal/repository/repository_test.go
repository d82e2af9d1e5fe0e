package repository

import (
	"testing"

	"tamapet-data-api/internal/config"
	"tamapet-data-api/internal/database"
)

// newTestManager opens an in-memory SQLite store with an in-process
// cache, the same wiring the repositories see in production minus the
// network.
func newTestManager(t *testing.T) *database.Manager {
	t.Helper()

	cfg := &config.Config{}
	cfg.Store.Type = "sqlite"
	cfg.Store.Path = ":memory:"
	cfg.Cache.Type = "memory"

	mgr, err := database.New(cfg)
	if err != nil {
		t.Fatalf("open test manager: %v", err)
	}
	t.Cleanup(func() {
		if err := mgr.Close(); err != nil {
			t.Errorf("close test manager: %v", err)
		}
	})
	return mgr
}

func newTestRepos(t *testing.T) (PetRepository, ShopRepository, *database.Manager) {
	t.Helper()

	mgr := newTestManager(t)
	pets, shop, err := New(mgr)
	if err != nil {
		t.Fatalf("build repositories: %v", err)
	}
	return pets, shop, mgr
}
