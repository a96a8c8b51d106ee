package game

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/keeper-realm/api/internal/database"
	"github.com/keeper-realm/api/internal/models"
)

// Stat roll bounds for freshly summoned keepers
const (
	statMin   = 2
	statMax   = 100
	tierMax   = 5
	rarityMax = 5
)

// RollKeeper produces the randomized fields of a brand-new keeper: class
// uniform in [1,8], tier and rarity uniform in [1,5], and each of the six
// primary stats an independent uniform draw in [2,100]. Health and mana
// start full; sanity starts at zero. Ordinal, owner, and timestamps are
// assigned at persistence time.
func RollKeeper(rng *rand.Rand) models.Keeper {
	roll := func() int { return rng.Intn(statMax-statMin+1) + statMin }

	return models.Keeper{
		Class:     rng.Intn(models.ClassCount) + 1,
		Level:     1,
		Tier:      rng.Intn(tierMax) + 1,
		Rarity:    rng.Intn(rarityMax) + 1,
		San:       0,
		HP:        100,
		HPMax:     100,
		MP:        100,
		MPMax:     100,
		Str:       roll(),
		Int:       roll(),
		Will:      roll(),
		Dex:       roll(),
		Luck:      roll(),
		Potential: roll(),
	}
}

// InsertKeeper persists a rolled keeper inside tx, bound to its owner and
// stamped with the next global ordinal from the shared counter. Running the
// counter bump and the insert in one transaction keeps ordinal assignment
// gapless and duplicate-free under concurrent summons.
func InsertKeeper(tx *sql.Tx, keeper models.Keeper, ownerID int, now time.Time) (models.Keeper, error) {
	order, err := database.NextCounter(tx, database.CounterKeeperOrder)
	if err != nil {
		return models.Keeper{}, err
	}

	keeper.Order = order
	keeper.OwnerID = &ownerID
	keeper.SummonedAt = now

	err = tx.QueryRow(`
		INSERT INTO keepers (
			keeper_order, owner_id, class, level, tier, rarity, san,
			hp, hp_max, mp, mp_max,
			str, intellect, will, dex, luck, potential,
			is_banned, summoned_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`,
		keeper.Order, ownerID, keeper.Class, keeper.Level, keeper.Tier, keeper.Rarity, keeper.San,
		keeper.HP, keeper.HPMax, keeper.MP, keeper.MPMax,
		keeper.Str, keeper.Int, keeper.Will, keeper.Dex, keeper.Luck, keeper.Potential,
		keeper.IsBanned, keeper.SummonedAt,
	).Scan(&keeper.ID)
	if err != nil {
		return models.Keeper{}, fmt.Errorf("failed to insert keeper: %w", err)
	}

	return keeper, nil
}
