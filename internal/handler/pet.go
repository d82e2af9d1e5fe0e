package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tamapet-data-api/internal/model"
	"tamapet-data-api/internal/service"
	"tamapet-data-api/pkg/apierror"
	"tamapet-data-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// PetHandler handles pet-related HTTP requests. The bot command layer
// and the decay scheduler are the expected callers.
type PetHandler struct {
	petService *service.PetService
}

// NewPetHandler creates a new pet handler.
func NewPetHandler(petService *service.PetService) *PetHandler {
	return &PetHandler{petService: petService}
}

// userIDParam parses the discord_id URL parameter.
func userIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "discord_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.BadRequest("discord_id must be a positive integer")
	}
	return id, nil
}

// CreatePetRequest is the body of POST /pets/{discord_id}.
type CreatePetRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/pets/{discord_id}
func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req CreatePetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, apierror.BadRequest("invalid JSON"))
			return
		}
	}

	pet, err := h.petService.Create(r.Context(), userID, req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, pet)
}

// Get handles GET /api/v1/pets/{discord_id}
func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	pet, err := h.petService.Get(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if pet == nil {
		response.Error(w, apierror.NotFound("pet not found"))
		return
	}

	response.OK(w, pet)
}

// UpdateResponse reports whether the update changed a row.
type UpdateResponse struct {
	Updated bool `json:"updated"`
}

// Update handles PATCH /api/v1/pets/{discord_id}
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var upd model.PetUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	updated, err := h.petService.Update(r.Context(), userID, upd)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, UpdateResponse{Updated: updated})
}

// AdjustItemRequest is the body of the item adjustment endpoint.
type AdjustItemRequest struct {
	Delta int64 `json:"delta"`
}

// AdjustItem handles POST /api/v1/pets/{discord_id}/items/{item}/adjust
func (h *PetHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	itemName := chi.URLParam(r, "item")

	var req AdjustItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	if err := h.petService.AdjustItem(r.Context(), userID, itemName, req.Delta); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"item":  itemName,
		"delta": req.Delta,
	})
}

// Stale handles GET /api/v1/pets/stale?hours=72 — the decay
// scheduler's candidate query.
func (h *PetHandler) Stale(w http.ResponseWriter, r *http.Request) {
	hours := 0
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, apierror.BadRequest("hours must be an integer"))
			return
		}
		hours = parsed
	}

	pets, err := h.petService.StaleCandidates(r.Context(), hours)
	if err != nil {
		response.Error(w, err)
		return
	}
	if pets == nil {
		pets = []model.PetSummary{}
	}

	response.OK(w, pets)
}

// RecordGameRequest is the body of the game session endpoint.
type RecordGameRequest struct {
	GameType         string `json:"game_type"`
	Result           string `json:"result"`
	ExperienceGained int64  `json:"experience_gained"`
	CoinsGained      int64  `json:"coins_gained"`
}

// RecordGame handles POST /api/v1/pets/{discord_id}/games
func (h *PetHandler) RecordGame(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	var req RecordGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}

	if err := h.petService.RecordGame(r.Context(), userID, req.GameType, req.Result,
		req.ExperienceGained, req.CoinsGained); err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]string{"status": "recorded"})
}

// ListGames handles GET /api/v1/pets/{discord_id}/games?limit=10
func (h *PetHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		response.Error(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(w, apierror.BadRequest("limit must be an integer"))
			return
		}
		limit = parsed
	}

	sessions, err := h.petService.RecentGames(r.Context(), userID, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	if sessions == nil {
		sessions = []model.GameSession{}
	}

	response.OK(w, sessions)
}
