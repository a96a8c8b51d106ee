package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/keeper-realm/api/internal/models"
)

func testBoss(lastDefeat time.Time, respawnSeconds int) models.Boss {
	return models.Boss{
		ID:              "boss-forest-guardian",
		Name:            "Forest Guardian",
		RequireTeamStr:  150,
		RequireTeamInt:  100,
		RequireTeamDex:  120,
		RequireTeamWill: 80,
		CoinDrop:        500,
		GemDrop:         50,
		LastDefeatTime:  lastDefeat,
		RespawnSeconds:  respawnSeconds,
	}
}

func TestBossAvailability(t *testing.T) {
	defeated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	boss := testBoss(defeated, 10)

	tests := []struct {
		name      string
		now       time.Time
		available bool
	}{
		{"at defeat instant", defeated, false},
		{"mid cooldown", defeated.Add(5 * time.Second), false},
		{"just before respawn", defeated.Add(10*time.Second - time.Nanosecond), false},
		{"exactly at respawn", defeated.Add(10 * time.Second), true},
		{"after respawn", defeated.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.available, BossAvailable(boss, tt.now))
		})
	}
}

func TestRemainingCooldown(t *testing.T) {
	defeated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	boss := testBoss(defeated, 30)

	assert.Equal(t, 30*time.Second, RemainingCooldown(boss, defeated))
	assert.Equal(t, 20*time.Second, RemainingCooldown(boss, defeated.Add(10*time.Second)))
	assert.Equal(t, time.Duration(0), RemainingCooldown(boss, defeated.Add(30*time.Second)))
	assert.Equal(t, time.Duration(0), RemainingCooldown(boss, defeated.Add(time.Hour)))
}

func TestMeetsRequirements(t *testing.T) {
	boss := testBoss(time.Time{}, 10)

	meets := func(str, intellect, dex, will int) bool {
		return MeetsRequirements(boss, TeamStats{
			Str:  StatLine{Total: str},
			Int:  StatLine{Total: intellect},
			Dex:  StatLine{Total: dex},
			Will: StatLine{Total: will},
		})
	}

	// Equality on every threshold passes
	assert.True(t, meets(150, 100, 120, 80))
	assert.True(t, meets(999, 999, 999, 999))

	// Any single stat one short fails
	assert.False(t, meets(149, 100, 120, 80))
	assert.False(t, meets(150, 99, 120, 80))
	assert.False(t, meets(150, 100, 119, 80))
	assert.False(t, meets(150, 100, 120, 79))

	assert.False(t, meets(0, 0, 0, 0))
}

func TestMeetsRequirementsIgnoresLuck(t *testing.T) {
	boss := testBoss(time.Time{}, 10)

	team := TeamStats{
		Str:  StatLine{Total: 150},
		Int:  StatLine{Total: 100},
		Dex:  StatLine{Total: 120},
		Will: StatLine{Total: 80},
		Luck: StatLine{Total: 0},
	}

	assert.True(t, MeetsRequirements(boss, team))
}
