package database

import (
	"context"
	"testing"
	"time"

	"tamapet-data-api/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Store.Type = "sqlite"
	cfg.Store.Path = ":memory:"
	cfg.Cache.Type = "memory"
	return cfg
}

func TestNewWithSQLiteAndMemoryCache(t *testing.T) {
	mgr, err := New(testConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer mgr.Close()

	if mgr.StoreType() != "sqlite" {
		t.Errorf("store type = %q, want sqlite", mgr.StoreType())
	}
	if mgr.DB() == nil {
		t.Fatal("expected a store pool")
	}
	if mgr.Cache() == nil {
		t.Fatal("expected a cache client")
	}
}

func TestNewWithoutCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Type = "none"

	mgr, err := New(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer mgr.Close()

	if mgr.Cache() != nil {
		t.Fatal("cache type none should leave the cache nil")
	}
}

func TestNewRejectsUnknownBackends(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Type = "oracle"
	if _, err := New(cfg); err == nil {
		t.Fatal("unknown store type should fail")
	}

	cfg = testConfig()
	cfg.Cache.Type = "memcached"
	if _, err := New(cfg); err == nil {
		t.Fatal("unknown cache type should fail")
	}
}

func TestHealthCheck(t *testing.T) {
	mgr, err := New(testConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer mgr.Close()

	health := mgr.HealthCheck(context.Background())
	if !health.Store {
		t.Error("store probe should pass")
	}
	if !health.Cache {
		t.Error("cache probe should pass")
	}
	if !health.OK() {
		t.Error("healthy backends should report OK")
	}
}

func TestHealthCheckWithoutCache(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Type = "none"

	mgr, err := New(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer mgr.Close()

	health := mgr.HealthCheck(context.Background())
	if health.Cache {
		t.Error("absent cache should probe false")
	}
	if !health.OK() {
		t.Error("the cache must not gate readiness")
	}
}

func TestOpContextAppliesCommandTimeout(t *testing.T) {
	mgr, err := New(testConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	defer mgr.Close()

	ctx, cancel := mgr.OpContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("op context should carry a deadline")
	}
	if until := time.Until(deadline); until <= 0 || until > time.Minute {
		t.Errorf("deadline %v away, want within the 60s command timeout", until)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	mgr, err := New(testConfig())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	if err := mgr.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := mgr.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
