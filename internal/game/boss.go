package game

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/models"
)

// BossAvailable reports whether the respawn window has elapsed at the query
// time: available iff now - lastDefeat >= respawn duration.
func BossAvailable(boss models.Boss, now time.Time) bool {
	respawnAt := boss.LastDefeatTime.Add(time.Duration(boss.RespawnSeconds) * time.Second)
	return !now.Before(respawnAt)
}

// RemainingCooldown returns how long until the boss respawns, zero if it is
// already available.
func RemainingCooldown(boss models.Boss, now time.Time) time.Duration {
	respawnAt := boss.LastDefeatTime.Add(time.Duration(boss.RespawnSeconds) * time.Second)
	remaining := respawnAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MeetsRequirements checks the four gating thresholds. Luck and potential
// never gate.
func MeetsRequirements(boss models.Boss, team TeamStats) bool {
	return team.Str.Total >= boss.RequireTeamStr &&
		team.Int.Total >= boss.RequireTeamInt &&
		team.Dex.Total >= boss.RequireTeamDex &&
		team.Will.Total >= boss.RequireTeamWill
}

// SettlementResult is returned after a successful boss engagement.
type SettlementResult struct {
	BossID         string    `json:"bossId"`
	CoinDrop       int       `json:"coinDrop"`
	GemDrop        int       `json:"gemDrop"`
	LastDefeatTime time.Time `json:"lastDefeatTime"`
}

// BossService owns the boss gate and reward settlement.
type BossService struct {
	db *database.DB
}

func NewBossService(db *database.DB) *BossService {
	return &BossService{db: db}
}

const bossColumns = `id, name, image_large, image_small,
	require_str, require_int, require_dex, require_will,
	coin_drop, gem_drop, last_defeat_time, respawn_seconds`

func scanBoss(row interface{ Scan(...any) error }) (models.Boss, error) {
	var boss models.Boss
	err := row.Scan(
		&boss.ID, &boss.Name, &boss.ImageLarge, &boss.ImageSmall,
		&boss.RequireTeamStr, &boss.RequireTeamInt, &boss.RequireTeamDex, &boss.RequireTeamWill,
		&boss.CoinDrop, &boss.GemDrop, &boss.LastDefeatTime, &boss.RespawnSeconds,
	)
	return boss, err
}

// ListBosses returns all boss records.
func (s *BossService) ListBosses(ctx context.Context) ([]models.Boss, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bossColumns+` FROM bosses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bosses: %w", err)
	}
	defer rows.Close()

	var bosses []models.Boss
	for rows.Next() {
		boss, err := scanBoss(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan boss: %w", err)
		}
		bosses = append(bosses, boss)
	}
	return bosses, rows.Err()
}

// GetBoss returns a single boss record.
func (s *BossService) GetBoss(ctx context.Context, bossID string) (models.Boss, error) {
	boss, err := scanBoss(s.db.QueryRowContext(ctx, `SELECT `+bossColumns+` FROM bosses WHERE id = $1`, bossID))
	if err == sql.ErrNoRows {
		return models.Boss{}, ErrNotFound
	}
	if err != nil {
		return models.Boss{}, fmt.Errorf("failed to fetch boss: %w", err)
	}
	return boss, nil
}

// Settle resolves a boss engagement. The outcome is computed server-side at
// call time: the boss row is locked, availability and team thresholds are
// re-checked, rewards are credited from the boss record (client-sent amounts
// are ignored), and the respawn clock restarts at the settlement instant.
// Because the defeat timestamp moves inside the same transaction, a replayed
// settlement finds the boss cooling down and is rejected.
func (s *BossService) Settle(ctx context.Context, bossID string, playerID int) (*SettlementResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement transaction: %w", err)
	}
	defer tx.Rollback()

	boss, err := scanBoss(tx.QueryRow(`SELECT `+bossColumns+` FROM bosses WHERE id = $1 FOR UPDATE`, bossID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boss: %w", err)
	}

	now := time.Now().UTC()
	if !BossAvailable(boss, now) {
		return nil, ErrBossNotAvailable
	}

	roster, err := guildKeepers(tx, playerID)
	if err != nil {
		return nil, err
	}
	if !MeetsRequirements(boss, AggregateTeam(roster)) {
		return nil, ErrTeamTooWeak
	}

	_, err = tx.Exec(`UPDATE bosses SET last_defeat_time = $1 WHERE id = $2`, now, bossID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset respawn timer: %w", err)
	}

	if err := CreditAssets(tx, playerID, boss.CoinDrop, boss.GemDrop); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	log.Printf("[Game] Player %d defeated boss %s (+%d coins, +%d gems)", playerID, bossID, boss.CoinDrop, boss.GemDrop)
	return &SettlementResult{
		BossID:         bossID,
		CoinDrop:       boss.CoinDrop,
		GemDrop:        boss.GemDrop,
		LastDefeatTime: now,
	}, nil
}

// guildKeepers loads the player's 3-slot roster inside tx. Banned keepers
// are excluded from active play: a slot holding one counts as empty.
func guildKeepers(tx *sql.Tx, playerID int) ([3]*models.Keeper, error) {
	var slots [3]sql.NullInt64
	err := tx.QueryRow(
		`SELECT guild_slot_1, guild_slot_2, guild_slot_3 FROM players WHERE id = $1`,
		playerID,
	).Scan(&slots[0], &slots[1], &slots[2])
	if err == sql.ErrNoRows {
		return [3]*models.Keeper{}, ErrNotFound
	}
	if err != nil {
		return [3]*models.Keeper{}, fmt.Errorf("failed to read guild roster: %w", err)
	}

	var roster [3]*models.Keeper
	for i, slot := range slots {
		if !slot.Valid {
			continue
		}

		var keeper models.Keeper
		var ownerID sql.NullInt64
		err := tx.QueryRow(`
			SELECT id, keeper_order, owner_id, class, level, tier, rarity, san,
				hp, hp_max, mp, mp_max,
				str, intellect, will, dex, luck, potential,
				is_banned, summoned_at
			FROM keepers WHERE id = $1
		`, slot.Int64).Scan(
			&keeper.ID, &keeper.Order, &ownerID, &keeper.Class, &keeper.Level, &keeper.Tier, &keeper.Rarity, &keeper.San,
			&keeper.HP, &keeper.HPMax, &keeper.MP, &keeper.MPMax,
			&keeper.Str, &keeper.Int, &keeper.Will, &keeper.Dex, &keeper.Luck, &keeper.Potential,
			&keeper.IsBanned, &keeper.SummonedAt,
		)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return roster, fmt.Errorf("failed to read roster keeper: %w", err)
		}
		if keeper.IsBanned {
			continue
		}
		if ownerID.Valid {
			owner := int(ownerID.Int64)
			keeper.OwnerID = &owner
		}
		roster[i] = &keeper
	}
	return roster, nil
}
