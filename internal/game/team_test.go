package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keeper-realm/api/internal/models"
)

func testKeeper(str, intellect, dex, will, luck int) *models.Keeper {
	return &models.Keeper{
		Str:       str,
		Int:       intellect,
		Dex:       dex,
		Will:      will,
		Luck:      luck,
		Potential: 99,
	}
}

func TestAggregateTeamEmptyRoster(t *testing.T) {
	stats := AggregateTeam([3]*models.Keeper{})

	assert.Equal(t, 0, stats.Str.Total)
	assert.Equal(t, 0, stats.Int.Total)
	assert.Equal(t, 0, stats.Dex.Total)
	assert.Equal(t, 0, stats.Will.Total)
	assert.Equal(t, 0, stats.Luck.Total)
	assert.Nil(t, stats.Str.Leader)
	assert.Nil(t, stats.Str.Member1)
	assert.Nil(t, stats.Str.Member2)
}

func TestAggregateTeamTotals(t *testing.T) {
	roster := [3]*models.Keeper{
		testKeeper(10, 20, 30, 40, 50),
		testKeeper(1, 2, 3, 4, 5),
		testKeeper(100, 200, 300, 400, 500),
	}

	stats := AggregateTeam(roster)

	assert.Equal(t, 111, stats.Str.Total)
	assert.Equal(t, 222, stats.Int.Total)
	assert.Equal(t, 333, stats.Dex.Total)
	assert.Equal(t, 444, stats.Will.Total)
	assert.Equal(t, 555, stats.Luck.Total)

	require.NotNil(t, stats.Str.Leader)
	require.NotNil(t, stats.Str.Member1)
	require.NotNil(t, stats.Str.Member2)
	assert.Equal(t, 10, *stats.Str.Leader)
	assert.Equal(t, 1, *stats.Str.Member1)
	assert.Equal(t, 100, *stats.Str.Member2)
}

func TestAggregateTeamTotalsPermutationInvariant(t *testing.T) {
	a := testKeeper(10, 20, 30, 40, 50)
	b := testKeeper(1, 2, 3, 4, 5)
	c := testKeeper(100, 200, 300, 400, 500)

	orderings := [][3]*models.Keeper{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}

	first := AggregateTeam(orderings[0])
	for _, roster := range orderings[1:] {
		stats := AggregateTeam(roster)
		assert.Equal(t, first.Str.Total, stats.Str.Total)
		assert.Equal(t, first.Int.Total, stats.Int.Total)
		assert.Equal(t, first.Dex.Total, stats.Dex.Total)
		assert.Equal(t, first.Will.Total, stats.Will.Total)
		assert.Equal(t, first.Luck.Total, stats.Luck.Total)
	}
}

func TestAggregateTeamSkipsEmptySlots(t *testing.T) {
	roster := [3]*models.Keeper{
		nil,
		testKeeper(7, 8, 9, 10, 11),
		nil,
	}

	stats := AggregateTeam(roster)

	assert.Equal(t, 7, stats.Str.Total)
	assert.Nil(t, stats.Str.Leader)
	require.NotNil(t, stats.Str.Member1)
	assert.Equal(t, 7, *stats.Str.Member1)
	assert.Nil(t, stats.Str.Member2)
}
