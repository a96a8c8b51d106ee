package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/keeper-realm/api/internal/game"
	redisClient "github.com/keeper-realm/api/internal/redis"
)

type SummonHandler struct {
	summons *game.SummonService
	redis   *redisClient.Client
}

func NewSummonHandler(summons *game.SummonService, redis *redisClient.Client) *SummonHandler {
	return &SummonHandler{summons: summons, redis: redis}
}

// SummonRequest represents the summon request body
type SummonRequest struct {
	Times int `json:"times"`
}

// Summon performs a 1-draw or 5-draw for the player and returns the new
// keepers
func (h *SummonHandler) Summon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	playerID, err := strconv.Atoi(r.PathValue("playerId"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid player ID"})
		return
	}

	var req SummonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	keepers, err := h.summons.Summon(r.Context(), playerID, req.Times)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrInvalidSummonCount):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
		case errors.Is(err, game.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Player not found"})
		case errors.Is(err, game.ErrInsufficientFunds):
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Not enough gems"})
		case errors.Is(err, game.ErrAccountBanned):
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "This account has been banned."})
		default:
			log.Printf("[Summon] Failed summon for player %d: %v", playerID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to summon keeper"})
		}
		return
	}

	// Leaderboard is a cache; a Redis hiccup must not fail the summon
	if err := h.redis.RecordSummons(r.Context(), playerID, req.Times); err != nil {
		log.Printf("[Summon] Failed to record summons on leaderboard: %v", err)
	}

	json.NewEncoder(w).Encode(keepers)
}
