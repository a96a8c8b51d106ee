package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummonCost(t *testing.T) {
	cost, err := SummonCost(1)
	require.NoError(t, err)
	assert.Equal(t, 100, cost)

	cost, err = SummonCost(5)
	require.NoError(t, err)
	assert.Equal(t, 450, cost)
}

func TestSummonCostRejectsOtherCounts(t *testing.T) {
	for _, count := range []int{0, -1, 2, 3, 4, 6, 10, 500} {
		_, err := SummonCost(count)
		assert.ErrorIs(t, err, ErrInvalidSummonCount, "count %d", count)
	}
}

func TestSummonMethod(t *testing.T) {
	assert.Equal(t, "single", SummonMethod(1))
	assert.Equal(t, "five-draw", SummonMethod(5))
}
