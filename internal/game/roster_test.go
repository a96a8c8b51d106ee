package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalizeRosterPadsShortInput(t *testing.T) {
	roster := NormalizeRoster([]*int{intPtr(7)})

	require.NotNil(t, roster[0])
	assert.Equal(t, 7, *roster[0])
	assert.Nil(t, roster[1])
	assert.Nil(t, roster[2])
}

func TestNormalizeRosterTruncatesLongInput(t *testing.T) {
	roster := NormalizeRoster([]*int{intPtr(1), intPtr(2), intPtr(3), intPtr(4), intPtr(5)})

	require.NotNil(t, roster[0])
	require.NotNil(t, roster[1])
	require.NotNil(t, roster[2])
	assert.Equal(t, 1, *roster[0])
	assert.Equal(t, 2, *roster[1])
	assert.Equal(t, 3, *roster[2])
}

func TestNormalizeRosterKeepsNilSlots(t *testing.T) {
	roster := NormalizeRoster([]*int{nil, intPtr(9), nil})

	assert.Nil(t, roster[0])
	require.NotNil(t, roster[1])
	assert.Equal(t, 9, *roster[1])
	assert.Nil(t, roster[2])
}

func TestNormalizeRosterEmpty(t *testing.T) {
	roster := NormalizeRoster(nil)

	assert.Nil(t, roster[0])
	assert.Nil(t, roster[1])
	assert.Nil(t, roster[2])
}

func TestEvictFromRosterNullsOnlyMatchingSlot(t *testing.T) {
	roster := EvictFromRoster([3]*int{intPtr(1), intPtr(2), intPtr(3)}, 2)

	require.NotNil(t, roster[0])
	assert.Equal(t, 1, *roster[0])
	assert.Nil(t, roster[1])
	require.NotNil(t, roster[2])
	assert.Equal(t, 3, *roster[2])
}

func TestEvictFromRosterNoMatch(t *testing.T) {
	roster := EvictFromRoster([3]*int{intPtr(1), nil, intPtr(3)}, 99)

	require.NotNil(t, roster[0])
	assert.Equal(t, 1, *roster[0])
	assert.Nil(t, roster[1])
	require.NotNil(t, roster[2])
	assert.Equal(t, 3, *roster[2])
}

func TestEvictFromRosterDuplicateEntries(t *testing.T) {
	roster := EvictFromRoster([3]*int{intPtr(5), intPtr(5), intPtr(6)}, 5)

	assert.Nil(t, roster[0])
	assert.Nil(t, roster[1])
	require.NotNil(t, roster[2])
	assert.Equal(t, 6, *roster[2])
}
