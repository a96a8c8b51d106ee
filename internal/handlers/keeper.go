package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/models"
)

type KeeperHandler struct {
	db *database.DB
}

func NewKeeperHandler(db *database.DB) *KeeperHandler {
	return &KeeperHandler{db: db}
}

// summonHistoryLimit caps the records returned per player, newest first
const summonHistoryLimit = 50

// SummonHistoryEntry is a summon record resolved with a keeper snapshot.
// Keeper is a stub with only a name and ID when the keeper row is missing.
type SummonHistoryEntry struct {
	PlayerID     int    `json:"playerId"`
	KeeperID     int    `json:"keeperId"`
	KeeperOrder  int    `json:"keeperOrder"`
	SummonMethod string `json:"summonMethod"`
	BatchID      string `json:"batchId"`
	SummonTime   string `json:"summonTime"`
	Keeper       any    `json:"keeper"`
}

const keeperColumns = `id, keeper_order, owner_id, class, level, tier, rarity, san,
	hp, hp_max, mp, mp_max,
	str, intellect, will, dex, luck, potential,
	is_banned, summoned_at`

func scanKeeper(row interface{ Scan(...any) error }) (models.Keeper, error) {
	var keeper models.Keeper
	var ownerID sql.NullInt64
	err := row.Scan(
		&keeper.ID, &keeper.Order, &ownerID, &keeper.Class, &keeper.Level, &keeper.Tier, &keeper.Rarity, &keeper.San,
		&keeper.HP, &keeper.HPMax, &keeper.MP, &keeper.MPMax,
		&keeper.Str, &keeper.Int, &keeper.Will, &keeper.Dex, &keeper.Luck, &keeper.Potential,
		&keeper.IsBanned, &keeper.SummonedAt,
	)
	if err != nil {
		return keeper, err
	}
	if ownerID.Valid {
		owner := int(ownerID.Int64)
		keeper.OwnerID = &owner
	}
	return keeper, nil
}

// GetKeeper returns a single keeper record
func (h *KeeperHandler) GetKeeper(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	keeperID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid keeper ID"})
		return
	}

	keeper, err := scanKeeper(h.db.QueryRow(`SELECT `+keeperColumns+` FROM keepers WHERE id = $1`, keeperID))
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Keeper not found"})
		return
	}
	if err != nil {
		log.Printf("[Keeper] Failed to fetch keeper %d: %v", keeperID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch keeper"})
		return
	}

	json.NewEncoder(w).Encode(keeper)
}

// GetKeeperClass returns the reference metadata for a keeper class
func (h *KeeperHandler) GetKeeperClass(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	classID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var class models.KeeperClass
	err = h.db.QueryRow(`
		SELECT id, name, description,
			str_required, int_required, dex_required,
			luck_required, will_required, level_required,
			image_l, image_s
		FROM keeper_classes WHERE id = $1
	`, classID).Scan(
		&class.ID, &class.Name, &class.Description,
		&class.StrRequired, &class.IntRequired, &class.DexRequired,
		&class.LuckRequired, &class.WillRequired, &class.LevelRequired,
		&class.ImageLarge, &class.ImageSmall,
	)
	if err == sql.ErrNoRows {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Keeper class not found"})
		return
	}
	if err != nil {
		log.Printf("[Keeper] Failed to fetch class %d: %v", classID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch keeper class"})
		return
	}

	json.NewEncoder(w).Encode(class)
}

// GetSummonHistory returns up to 50 of a player's most recent summon
// records, newest first, each resolved with a keeper snapshot
func (h *KeeperHandler) GetSummonHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	playerID, err := strconv.Atoi(r.PathValue("playerId"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid player ID"})
		return
	}

	rows, err := h.db.Query(`
		SELECT sr.player_id, sr.keeper_id, sr.keeper_order, sr.summon_method, sr.batch_id, sr.summoned_at,
			k.id, k.keeper_order, k.owner_id, k.class, k.level, k.tier, k.rarity, k.san,
			k.hp, k.hp_max, k.mp, k.mp_max,
			k.str, k.intellect, k.will, k.dex, k.luck, k.potential,
			k.is_banned, k.summoned_at
		FROM summon_records sr
		LEFT JOIN keepers k ON k.id = sr.keeper_id
		WHERE sr.player_id = $1
		ORDER BY sr.summoned_at DESC, sr.id DESC
		LIMIT $2
	`, playerID, summonHistoryLimit)
	if err != nil {
		log.Printf("[Keeper] Failed to fetch summon history for player %d: %v", playerID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch summon history"})
		return
	}
	defer rows.Close()

	records := []SummonHistoryEntry{}
	for rows.Next() {
		var entry SummonHistoryEntry
		var summonedAt sql.NullTime
		var keeper models.Keeper
		var kID, kOrder, kOwner, kClass, kLevel, kTier, kRarity, kSan sql.NullInt64
		var kHP, kHPMax, kMP, kMPMax sql.NullInt64
		var kStr, kInt, kWill, kDex, kLuck, kPotential sql.NullInt64
		var kBanned sql.NullBool
		var kSummonedAt sql.NullTime

		err := rows.Scan(
			&entry.PlayerID, &entry.KeeperID, &entry.KeeperOrder, &entry.SummonMethod, &entry.BatchID, &summonedAt,
			&kID, &kOrder, &kOwner, &kClass, &kLevel, &kTier, &kRarity, &kSan,
			&kHP, &kHPMax, &kMP, &kMPMax,
			&kStr, &kInt, &kWill, &kDex, &kLuck, &kPotential,
			&kBanned, &kSummonedAt,
		)
		if err != nil {
			log.Printf("[Keeper] Failed to scan summon record: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch summon history"})
			return
		}

		if summonedAt.Valid {
			entry.SummonTime = summonedAt.Time.UTC().Format("2006-01-02T15:04:05.000Z")
		}

		if kID.Valid {
			keeper = models.Keeper{
				ID:        int(kID.Int64),
				Order:     int(kOrder.Int64),
				Class:     int(kClass.Int64),
				Level:     int(kLevel.Int64),
				Tier:      int(kTier.Int64),
				Rarity:    int(kRarity.Int64),
				San:       int(kSan.Int64),
				HP:        int(kHP.Int64),
				HPMax:     int(kHPMax.Int64),
				MP:        int(kMP.Int64),
				MPMax:     int(kMPMax.Int64),
				Str:       int(kStr.Int64),
				Int:       int(kInt.Int64),
				Will:      int(kWill.Int64),
				Dex:       int(kDex.Int64),
				Luck:      int(kLuck.Int64),
				Potential: int(kPotential.Int64),
				IsBanned:  kBanned.Bool,
			}
			if kSummonedAt.Valid {
				keeper.SummonedAt = kSummonedAt.Time
			}
			if kOwner.Valid {
				owner := int(kOwner.Int64)
				keeper.OwnerID = &owner
			}
			entry.Keeper = keeper
		} else {
			// Keeper row is gone; return a stub so the history stays renderable
			log.Printf("[Keeper] Keeper %d referenced by summon record not found", entry.KeeperID)
			entry.Keeper = map[string]any{"name": "Unknown Keeper", "id": entry.KeeperID}
		}

		records = append(records, entry)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[Keeper] Failed to iterate summon history: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "Failed to fetch summon history"})
		return
	}

	json.NewEncoder(w).Encode(records)
}
