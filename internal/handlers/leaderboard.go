package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/keeper-realm/api/internal/database"
	redisClient "github.com/keeper-realm/api/internal/redis"
)

type LeaderboardHandler struct {
	db    *database.DB
	redis *redisClient.Client
}

func NewLeaderboardHandler(db *database.DB, redis *redisClient.Client) *LeaderboardHandler {
	return &LeaderboardHandler{db: db, redis: redis}
}

const leaderboardSize = 10

// GetLeaderboard returns the top players by lifetime summons. Scores come
// from the Redis sorted set; display names are resolved from the database.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	top, err := h.redis.TopSummoners(r.Context(), leaderboardSize)
	if err != nil {
		log.Printf("[Leaderboard] Failed to fetch top summoners: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch leaderboard"})
		return
	}

	entries := []redisClient.SummonLeaderboardEntry{}
	for i, z := range top {
		playerID, err := strconv.Atoi(z.Member.(string))
		if err != nil {
			continue
		}

		var playerName string
		err = h.db.QueryRow(`SELECT player_name FROM players WHERE id = $1`, playerID).Scan(&playerName)
		if err != nil {
			playerName = "Unknown"
		}

		entries = append(entries, redisClient.SummonLeaderboardEntry{
			PlayerID:   playerID,
			PlayerName: playerName,
			Summons:    int(z.Score),
			Rank:       int64(i + 1),
		})
	}

	json.NewEncoder(w).Encode(map[string]any{"leaderboard": entries})
}
