package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/game"
	"github.com/keeper-realm/api/internal/models"
)

type PlayerHandler struct {
	db *database.DB
}

func NewPlayerHandler(db *database.DB) *PlayerHandler {
	return &PlayerHandler{db: db}
}

// UpdatePlayerRequest represents a partial player update. Absent fields are
// left untouched; asset keys that are present overwrite the stored value.
type UpdatePlayerRequest struct {
	PlayerName *string `json:"playerName"`
	Level      *int    `json:"level"`
	Experience *int    `json:"experience"`
	Assets     *struct {
		Coins *int `json:"coins"`
		Gems  *int `json:"gems"`
	} `json:"assets"`
	MainGuildKeeper *[]*int `json:"mainGuildKeeper"`
	IsBanned        *bool   `json:"isBanned"`
}

// GetPlayer returns the full player record with owned set and roster
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	playerID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid player ID"})
		return
	}

	player, err := h.fetchPlayer(playerID)
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Player not found"})
		return
	}
	if err != nil {
		log.Printf("[Player] Failed to fetch player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch player"})
		return
	}

	json.NewEncoder(w).Encode(player)
}

// UpdatePlayer merge-updates a player record. The guild roster, if present,
// is coerced to exactly 3 slots and checked against the player's owned,
// unbanned keepers.
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	playerID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid player ID"})
		return
	}

	var req UpdatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		log.Printf("[Player] Failed to begin update: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to update player"})
		return
	}
	defer tx.Rollback()

	// Lock the row so concurrent updates serialize
	var exists int
	err = tx.QueryRow(`SELECT 1 FROM players WHERE id = $1 FOR UPDATE`, playerID).Scan(&exists)
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Player not found"})
		return
	}
	if err != nil {
		log.Printf("[Player] Failed to lock player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to update player"})
		return
	}

	if err := applyPlayerUpdate(tx, playerID, &req); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: ve.Message})
			return
		}
		log.Printf("[Player] Failed to update player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to update player"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[Player] Failed to commit update: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to update player"})
		return
	}

	player, err := h.fetchPlayer(playerID)
	if err != nil {
		log.Printf("[Player] Failed to re-fetch player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch player"})
		return
	}

	json.NewEncoder(w).Encode(player)
}

func applyPlayerUpdate(tx *sql.Tx, playerID int, req *UpdatePlayerRequest) error {
	if req.PlayerName != nil {
		if _, err := tx.Exec(`UPDATE players SET player_name = $1 WHERE id = $2`, *req.PlayerName, playerID); err != nil {
			return err
		}
	}
	if req.Level != nil {
		if _, err := tx.Exec(`UPDATE players SET level = $1 WHERE id = $2`, *req.Level, playerID); err != nil {
			return err
		}
	}
	if req.Experience != nil {
		if _, err := tx.Exec(`UPDATE players SET experience = $1 WHERE id = $2`, *req.Experience, playerID); err != nil {
			return err
		}
	}
	if req.Assets != nil {
		if req.Assets.Coins != nil {
			if _, err := tx.Exec(`UPDATE players SET coins = $1 WHERE id = $2`, *req.Assets.Coins, playerID); err != nil {
				return err
			}
		}
		if req.Assets.Gems != nil {
			if _, err := tx.Exec(`UPDATE players SET gems = $1 WHERE id = $2`, *req.Assets.Gems, playerID); err != nil {
				return err
			}
		}
	}
	if req.IsBanned != nil {
		if _, err := tx.Exec(`UPDATE players SET is_banned = $1 WHERE id = $2`, *req.IsBanned, playerID); err != nil {
			return err
		}
	}
	if req.MainGuildKeeper != nil {
		roster := game.NormalizeRoster(*req.MainGuildKeeper)
		if err := validateRosterSlots(tx, playerID, roster); err != nil {
			return err
		}
		_, err := tx.Exec(
			`UPDATE players SET guild_slot_1 = $1, guild_slot_2 = $2, guild_slot_3 = $3 WHERE id = $4`,
			roster[0], roster[1], roster[2], playerID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// validateRosterSlots rejects slots that reference a keeper the player does
// not own, or one that is banned from active play.
func validateRosterSlots(tx *sql.Tx, playerID int, roster [3]*int) error {
	for _, slot := range roster {
		if slot == nil {
			continue
		}
		var banned bool
		err := tx.QueryRow(`
			SELECT k.is_banned FROM keepers k
			JOIN player_keepers pk ON pk.keeper_id = k.id
			WHERE k.id = $1 AND pk.player_id = $2
		`, *slot, playerID).Scan(&banned)
		if err == sql.ErrNoRows {
			return &ValidationError{Field: "mainGuildKeeper", Message: fmt.Sprintf("Keeper %d is not owned by this player", *slot)}
		}
		if err != nil {
			return err
		}
		if banned {
			return &ValidationError{Field: "mainGuildKeeper", Message: fmt.Sprintf("Keeper %d is banned", *slot)}
		}
	}
	return nil
}

// fetchPlayer loads the full player record including owned set and roster
func (h *PlayerHandler) fetchPlayer(playerID int) (*models.Player, error) {
	var player models.Player
	var slots [3]sql.NullInt64
	err := h.db.QueryRow(`
		SELECT id, email, player_name, level, experience, coins, gems,
			player_order, total_summons,
			guild_slot_1, guild_slot_2, guild_slot_3,
			is_banned, created_at, last_login
		FROM players WHERE id = $1
	`, playerID).Scan(
		&player.ID, &player.Email, &player.PlayerName, &player.Level, &player.Experience,
		&player.Assets.Coins, &player.Assets.Gems,
		&player.Order, &player.TotalSummons,
		&slots[0], &slots[1], &slots[2],
		&player.IsBanned, &player.CreatedAt, &player.LastLogin,
	)
	if err != nil {
		return nil, err
	}

	for i, slot := range slots {
		if slot.Valid {
			v := int(slot.Int64)
			player.MainGuildKeeper[i] = &v
		}
	}

	// Owned set in insertion order
	player.KeeperIDs = []int{}
	rows, err := h.db.Query(
		`SELECT keeper_id FROM player_keepers WHERE player_id = $1 ORDER BY position`,
		playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var keeperID int
		if err := rows.Scan(&keeperID); err != nil {
			return nil, err
		}
		player.KeeperIDs = append(player.KeeperIDs, keeperID)
	}

	return &player, rows.Err()
}
