package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tamapet-data-api/internal/config"
	"tamapet-data-api/internal/database"
	"tamapet-data-api/internal/handler"
	"tamapet-data-api/internal/repository"
	"tamapet-data-api/internal/service"

	"github.com/go-chi/chi/v5"
)

// newTestRouter wires the full stack over an in-memory store.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	cfg := &config.Config{}
	cfg.Store.Type = "sqlite"
	cfg.Store.Path = ":memory:"
	cfg.Cache.Type = "memory"

	mgr, err := database.New(cfg)
	if err != nil {
		t.Fatalf("open manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	pets, shop, err := repository.New(mgr)
	if err != nil {
		t.Fatalf("build repositories: %v", err)
	}

	return New(Config{
		HealthHandler: handler.NewHealthHandler(mgr, "test"),
		PetHandler:    handler.NewPetHandler(service.NewPetService(pets)),
		ShopHandler:   handler.NewShopHandler(service.NewShopService(shop)),
	})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("response not successful: %s", rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
}

func TestPetLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	// Adopt.
	rec := doJSON(t, r, http.MethodPost, "/api/v1/pets/42", map[string]string{"name": "Mametchi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Name  string `json:"name"`
		Coins int64  `json:"coins"`
	}
	decodeData(t, rec, &created)
	if created.Name != "Mametchi" || created.Coins != 50 {
		t.Errorf("created pet = %+v", created)
	}

	// Fetch.
	rec = doJSON(t, r, http.MethodGet, "/api/v1/pets/42", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Partial update.
	rec = doJSON(t, r, http.MethodPatch, "/api/v1/pets/42", map[string]int{"hunger": 30})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}

	var upd struct {
		Updated bool `json:"updated"`
	}
	decodeData(t, rec, &upd)
	if !upd.Updated {
		t.Error("patch should report a change")
	}

	var fetched struct {
		Hunger int `json:"hunger"`
	}
	rec = doJSON(t, r, http.MethodGet, "/api/v1/pets/42", nil)
	decodeData(t, rec, &fetched)
	if fetched.Hunger != 30 {
		t.Errorf("hunger = %d, want 30", fetched.Hunger)
	}
}

func TestGetMissingPetReturns404(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/pets/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBadDiscordIDReturns400(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/pets/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestStaleRouteIsNotAnID(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/pets/stale?hours=72", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var summaries []struct {
		UserID int64 `json:"user_id"`
	}
	decodeData(t, rec, &summaries)
	if len(summaries) != 0 {
		t.Errorf("expected no candidates on a fresh store, got %d", len(summaries))
	}
}

func TestShopPurchaseOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/pets/7", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	// Catalog.
	rec = doJSON(t, r, http.MethodGet, "/api/v1/shop/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog status = %d", rec.Code)
	}
	var items []struct {
		Name string `json:"name"`
	}
	decodeData(t, rec, &items)
	if len(items) == 0 {
		t.Fatal("catalog should not be empty")
	}

	// 50 starting coins cover five candies.
	rec = doJSON(t, r, http.MethodPost, "/api/v1/shop/7/purchase",
		map[string]interface{}{"item": "candy", "quantity": 5})
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Success bool  `json:"success"`
		Cost    int64 `json:"cost"`
	}
	decodeData(t, rec, &result)
	if !result.Success || result.Cost != 25 {
		t.Errorf("result = %+v, want success at cost 25", result)
	}

	// The next oversized purchase must be refused.
	rec = doJSON(t, r, http.MethodPost, "/api/v1/shop/7/purchase",
		map[string]interface{}{"item": "toy", "quantity": 2})
	if rec.Code != http.StatusConflict {
		t.Fatalf("insufficient funds status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/v1/shop/7/purchase",
		map[string]interface{}{"item": "no-such-item", "quantity": 1})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown item status = %d, want 404", rec.Code)
	}
}

func TestGameSessionsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/pets/8", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/v1/pets/8/games", map[string]interface{}{
		"game_type":         "guess",
		"result":            "win",
		"experience_gained": 10,
		"coins_gained":      5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("record status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/pets/8/games?limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var sessions []struct {
		GameType string `json:"game_type"`
	}
	decodeData(t, rec, &sessions)
	if len(sessions) != 1 || sessions[0].GameType != "guess" {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var health struct {
		Status string `json:"status"`
	}
	decodeData(t, rec, &health)
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/v1/ready", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint = %d", rec.Code)
	}
}
