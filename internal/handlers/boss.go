package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/game"
	"github.com/keeper-realm/api/internal/middleware"
)

type BossHandler struct {
	db     *database.DB
	bosses *game.BossService
}

func NewBossHandler(db *database.DB, bosses *game.BossService) *BossHandler {
	return &BossHandler{db: db, bosses: bosses}
}

// DefeatBossRequest represents a settlement submission. The reward fields
// are accepted for wire compatibility but ignored: drops are always read
// from the boss record server-side.
type DefeatBossRequest struct {
	UserID   int `json:"userId"`
	CoinDrop int `json:"coinDrop"`
	GemDrop  int `json:"gemDrop"`
}

// EditBossRequest represents a partial boss update
type EditBossRequest struct {
	Name            *string `json:"bossName"`
	ImageLarge      *string `json:"bossImageLarge"`
	ImageSmall      *string `json:"bossImageSmall"`
	RequireTeamStr  *int    `json:"requireTeamStr"`
	RequireTeamInt  *int    `json:"requireTeamInt"`
	RequireTeamDex  *int    `json:"requireTeamDex"`
	RequireTeamWill *int    `json:"requireTeamWill"`
	CoinDrop        *int    `json:"coinDrop"`
	GemDrop         *int    `json:"gemDrop"`
	RespawnSeconds  *int    `json:"respawnTime"`
}

// ListBosses returns all boss records
func (h *BossHandler) ListBosses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	bosses, err := h.bosses.ListBosses(r.Context())
	if err != nil {
		log.Printf("[Boss] Failed to list bosses: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch bosses"})
		return
	}

	json.NewEncoder(w).Encode(bosses)
}

// EditBoss applies a partial admin update to a boss
func (h *BossHandler) EditBoss(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	bossID := r.PathValue("id")

	var req EditBossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if _, err := h.bosses.GetBoss(r.Context(), bossID); err != nil {
		if errors.Is(err, game.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Boss not found"})
			return
		}
		log.Printf("[Boss] Failed to fetch boss %s: %v", bossID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit boss"})
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImageLarge != nil {
		updates["image_large"] = *req.ImageLarge
	}
	if req.ImageSmall != nil {
		updates["image_small"] = *req.ImageSmall
	}
	if req.RequireTeamStr != nil {
		updates["require_str"] = *req.RequireTeamStr
	}
	if req.RequireTeamInt != nil {
		updates["require_int"] = *req.RequireTeamInt
	}
	if req.RequireTeamDex != nil {
		updates["require_dex"] = *req.RequireTeamDex
	}
	if req.RequireTeamWill != nil {
		updates["require_will"] = *req.RequireTeamWill
	}
	if req.CoinDrop != nil {
		updates["coin_drop"] = *req.CoinDrop
	}
	if req.GemDrop != nil {
		updates["gem_drop"] = *req.GemDrop
	}
	if req.RespawnSeconds != nil {
		updates["respawn_seconds"] = *req.RespawnSeconds
	}

	for column, value := range updates {
		if _, err := h.db.Exec(`UPDATE bosses SET `+column+` = $1 WHERE id = $2`, value, bossID); err != nil {
			log.Printf("[Boss] Failed to edit boss %s: %v", bossID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit boss"})
			return
		}
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// DefeatBoss settles a boss engagement for the authenticated player
func (h *BossHandler) DefeatBoss(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	claims, ok := middleware.GetPlayerClaims(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return
	}

	bossID := r.PathValue("id")

	var req DefeatBossRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	// The settling player is always the token holder
	if req.UserID != 0 && req.UserID != claims.PlayerID {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Cannot settle a boss for another player"})
		return
	}

	result, err := h.bosses.Settle(r.Context(), bossID, claims.PlayerID)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Boss not found"})
		case errors.Is(err, game.ErrBossNotAvailable):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Boss has not respawned yet"})
		case errors.Is(err, game.ErrTeamTooWeak):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Team does not meet boss requirements"})
		default:
			log.Printf("[Boss] Failed settlement for boss %s: %v", bossID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to process boss defeat"})
		}
		return
	}

	json.NewEncoder(w).Encode(map[string]any{
		"success":        true,
		"coinDrop":       result.CoinDrop,
		"gemDrop":        result.GemDrop,
		"lastDefeatTime": result.LastDefeatTime,
	})
}
