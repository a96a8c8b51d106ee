package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/keeper-realm/api/internal/models"
)

func TestRollKeeperStatBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10000; i++ {
		keeper := RollKeeper(rng)

		for name, stat := range map[string]int{
			"str":       keeper.Str,
			"int":       keeper.Int,
			"will":      keeper.Will,
			"dex":       keeper.Dex,
			"luck":      keeper.Luck,
			"potential": keeper.Potential,
		} {
			assert.GreaterOrEqual(t, stat, 2, "stat %s below minimum", name)
			assert.LessOrEqual(t, stat, 100, "stat %s above maximum", name)
		}

		assert.True(t, models.IsValidClass(keeper.Class))
		assert.GreaterOrEqual(t, keeper.Tier, 1)
		assert.LessOrEqual(t, keeper.Tier, 5)
		assert.GreaterOrEqual(t, keeper.Rarity, 1)
		assert.LessOrEqual(t, keeper.Rarity, 5)
	}
}

func TestRollKeeperDefaults(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	keeper := RollKeeper(rng)

	assert.Equal(t, 1, keeper.Level)
	assert.Equal(t, 0, keeper.San)
	assert.Equal(t, 100, keeper.HP)
	assert.Equal(t, 100, keeper.HPMax)
	assert.Equal(t, 100, keeper.MP)
	assert.Equal(t, 100, keeper.MPMax)
	assert.False(t, keeper.IsBanned)
	assert.Nil(t, keeper.OwnerID)
}

func TestRollKeeperCoversStatRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	seen := map[int]bool{}
	for i := 0; i < 20000; i++ {
		seen[RollKeeper(rng).Str] = true
	}

	// Both extremes must actually be reachable
	assert.True(t, seen[2], "minimum roll never produced")
	assert.True(t, seen[100], "maximum roll never produced")
	assert.False(t, seen[1])
	assert.False(t, seen[101])
}
