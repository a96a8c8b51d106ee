package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/game"
	"github.com/keeper-realm/api/internal/middleware"
	"github.com/keeper-realm/api/internal/models"
	redisClient "github.com/keeper-realm/api/internal/redis"
)

type AdminHandler struct {
	db        *database.DB
	integrity *game.IntegrityService
	redis     *redisClient.Client
}

func NewAdminHandler(db *database.DB, integrity *game.IntegrityService, redis *redisClient.Client) *AdminHandler {
	return &AdminHandler{db: db, integrity: integrity, redis: redis}
}

// AdminPlayerSummary is the trimmed player view for the admin list
type AdminPlayerSummary struct {
	ID         int           `json:"id"`
	PlayerName string        `json:"playerName"`
	Level      int           `json:"level"`
	Assets     models.Assets `json:"assets"`
	Order      int           `json:"order"`
}

// AdminKeeper is a keeper record with the owner's display name resolved
type AdminKeeper struct {
	models.Keeper
	OwnerName string `json:"ownerName"`
}

// EditKeeperRequest represents a partial keeper update. The ordinal index
// has no field here: it is assigned once at summon time and never edited.
type EditKeeperRequest struct {
	OwnerID   *int  `json:"ownerId"`
	Class     *int  `json:"class"`
	Level     *int  `json:"level"`
	Tier      *int  `json:"tier"`
	Rarity    *int  `json:"rarity"`
	San       *int  `json:"san"`
	HP        *int  `json:"HP"`
	HPMax     *int  `json:"HPMax"`
	MP        *int  `json:"MP"`
	MPMax     *int  `json:"MPMax"`
	Str       *int  `json:"str"`
	Int       *int  `json:"int"`
	Will      *int  `json:"will"`
	Dex       *int  `json:"dex"`
	Luck      *int  `json:"luck"`
	Potential *int  `json:"potential"`
	IsBanned  *bool `json:"isBanned"`
}

// requireAdmin verifies the authenticated caller is on the admin allow-list.
// Writes the error response and returns false when not.
func requireAdmin(db *database.DB, w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetPlayerClaims(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Unauthorized"})
		return false
	}

	isAdmin, err := db.IsAdminEmail(claims.Email)
	if err != nil {
		log.Printf("[Admin] Failed to check admin allow-list: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal server error"})
		return false
	}
	if !isAdmin {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Not authorized as admin"})
		return false
	}
	return true
}

// ListPlayers returns all players in registration order
func (h *AdminHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, player_name, level, coins, gems, player_order
		FROM players ORDER BY player_order
	`)
	if err != nil {
		log.Printf("[Admin] Failed to list players: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch users"})
		return
	}
	defer rows.Close()

	players := []AdminPlayerSummary{}
	for rows.Next() {
		var p AdminPlayerSummary
		if err := rows.Scan(&p.ID, &p.PlayerName, &p.Level, &p.Assets.Coins, &p.Assets.Gems, &p.Order); err != nil {
			log.Printf("[Admin] Failed to scan player: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch users"})
			return
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[Admin] Failed to iterate players: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch users"})
		return
	}

	json.NewEncoder(w).Encode(players)
}

// ListKeepers returns all keepers with their owner's name resolved
func (h *AdminHandler) ListKeepers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	rows, err := h.db.Query(`
		SELECT k.id, k.keeper_order, k.owner_id, k.class, k.level, k.tier, k.rarity, k.san,
			k.hp, k.hp_max, k.mp, k.mp_max,
			k.str, k.intellect, k.will, k.dex, k.luck, k.potential,
			k.is_banned, k.summoned_at,
			p.player_name
		FROM keepers k
		LEFT JOIN players p ON p.id = k.owner_id
		ORDER BY k.keeper_order
	`)
	if err != nil {
		log.Printf("[Admin] Failed to list keepers: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch keepers"})
		return
	}
	defer rows.Close()

	keepers := []AdminKeeper{}
	for rows.Next() {
		var k AdminKeeper
		var ownerID sql.NullInt64
		var ownerName sql.NullString
		err := rows.Scan(
			&k.ID, &k.Order, &ownerID, &k.Class, &k.Level, &k.Tier, &k.Rarity, &k.San,
			&k.HP, &k.HPMax, &k.MP, &k.MPMax,
			&k.Str, &k.Int, &k.Will, &k.Dex, &k.Luck, &k.Potential,
			&k.IsBanned, &k.SummonedAt,
			&ownerName,
		)
		if err != nil {
			log.Printf("[Admin] Failed to scan keeper: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch keepers"})
			return
		}
		if ownerID.Valid {
			owner := int(ownerID.Int64)
			k.OwnerID = &owner
		}
		k.OwnerName = "Unknown"
		if ownerName.Valid {
			k.OwnerName = ownerName.String
		}
		keepers = append(keepers, k)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[Admin] Failed to iterate keepers: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch keepers"})
		return
	}

	json.NewEncoder(w).Encode(keepers)
}

// ToggleKeeperBan flips a keeper's ban flag, cascading roster eviction
func (h *AdminHandler) ToggleKeeperBan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	keeperID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid keeper ID"})
		return
	}

	banned, err := h.integrity.ToggleKeeperBan(r.Context(), keeperID)
	if err != nil {
		if errors.Is(err, game.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Keeper not found"})
			return
		}
		log.Printf("[Admin] Failed to toggle ban for keeper %d: %v", keeperID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to toggle keeper ban status"})
		return
	}

	json.NewEncoder(w).Encode(map[string]any{"success": true, "isBanned": banned})
}

// EditKeeper applies a partial admin update to a keeper. The ordinal index
// cannot be edited.
func (h *AdminHandler) EditKeeper(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	keeperID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid keeper ID"})
		return
	}

	var req EditKeeperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid request body"})
		return
	}

	if req.Class != nil && !models.IsValidClass(*req.Class) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid keeper class"})
		return
	}

	// A reassigned owner must exist
	if req.OwnerID != nil {
		var exists int
		err := h.db.QueryRow(`SELECT 1 FROM players WHERE id = $1`, *req.OwnerID).Scan(&exists)
		if err == sql.ErrNoRows {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid owner ID"})
			return
		}
		if err != nil {
			log.Printf("[Admin] Failed to check owner %d: %v", *req.OwnerID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit keeper"})
			return
		}
	}

	var exists int
	err = h.db.QueryRow(`SELECT 1 FROM keepers WHERE id = $1`, keeperID).Scan(&exists)
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Keeper not found"})
		return
	}
	if err != nil {
		log.Printf("[Admin] Failed to check keeper %d: %v", keeperID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit keeper"})
		return
	}

	updates := map[string]any{}
	if req.OwnerID != nil {
		updates["owner_id"] = *req.OwnerID
	}
	if req.Class != nil {
		updates["class"] = *req.Class
	}
	if req.Level != nil {
		updates["level"] = *req.Level
	}
	if req.Tier != nil {
		updates["tier"] = *req.Tier
	}
	if req.Rarity != nil {
		updates["rarity"] = *req.Rarity
	}
	if req.San != nil {
		updates["san"] = *req.San
	}
	if req.HP != nil {
		updates["hp"] = *req.HP
	}
	if req.HPMax != nil {
		updates["hp_max"] = *req.HPMax
	}
	if req.MP != nil {
		updates["mp"] = *req.MP
	}
	if req.MPMax != nil {
		updates["mp_max"] = *req.MPMax
	}
	if req.Str != nil {
		updates["str"] = *req.Str
	}
	if req.Int != nil {
		updates["intellect"] = *req.Int
	}
	if req.Will != nil {
		updates["will"] = *req.Will
	}
	if req.Dex != nil {
		updates["dex"] = *req.Dex
	}
	if req.Luck != nil {
		updates["luck"] = *req.Luck
	}
	if req.Potential != nil {
		updates["potential"] = *req.Potential
	}
	if req.IsBanned != nil {
		updates["is_banned"] = *req.IsBanned
	}

	for column, value := range updates {
		if _, err := h.db.Exec(`UPDATE keepers SET `+column+` = $1 WHERE id = $2`, value, keeperID); err != nil {
			log.Printf("[Admin] Failed to edit keeper %d: %v", keeperID, err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit keeper"})
			return
		}
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// EditPlayer applies a partial admin update to a player
func (h *AdminHandler) EditPlayer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

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
		log.Printf("[Admin] Failed to begin player edit: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit user"})
		return
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT 1 FROM players WHERE id = $1 FOR UPDATE`, playerID).Scan(&exists)
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Player not found"})
		return
	}
	if err != nil {
		log.Printf("[Admin] Failed to lock player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit user"})
		return
	}

	if err := applyPlayerUpdate(tx, playerID, &req); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{Error: ve.Message})
			return
		}
		log.Printf("[Admin] Failed to edit player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit user"})
		return
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[Admin] Failed to commit player edit: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to edit user"})
		return
	}

	// Banning an account ends its live sessions
	if req.IsBanned != nil && *req.IsBanned {
		if err := h.redis.InvalidatePlayerSessions(r.Context(), playerID); err != nil {
			log.Printf("[Admin] Failed to invalidate sessions for player %d: %v", playerID, err)
		}
	}

	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// Stats returns live counts for the admin dashboard
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !requireAdmin(h.db, w, r) {
		return
	}

	var totalPlayers, totalKeepers int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&totalPlayers); err != nil {
		log.Printf("[Admin] Failed to count players: %v", err)
	}
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM keepers`).Scan(&totalKeepers); err != nil {
		log.Printf("[Admin] Failed to count keepers: %v", err)
	}

	activePlayers, err := h.redis.ActivePlayerCount(r.Context())
	if err != nil {
		log.Printf("[Admin] Failed to count active players: %v", err)
		activePlayers = 0
	}

	json.NewEncoder(w).Encode(map[string]any{
		"totalPlayers":  totalPlayers,
		"totalKeepers":  totalKeepers,
		"activePlayers": activePlayers,
	})
}
