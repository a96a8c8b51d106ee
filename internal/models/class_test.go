package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidClass(t *testing.T) {
	for id := 1; id <= 8; id++ {
		assert.True(t, IsValidClass(id), "class %d", id)
	}

	assert.False(t, IsValidClass(0))
	assert.False(t, IsValidClass(9))
	assert.False(t, IsValidClass(-1))
}

func TestGetClassDetails(t *testing.T) {
	knight := GetClassDetails(ClassKnight)
	require.NotNil(t, knight)
	assert.Equal(t, 1, knight.ID)
	assert.Equal(t, "Knight", knight.Name)
	assert.Equal(t, "class-1-l.webp", knight.ImageLarge)
	assert.Equal(t, "class-1-s.webp", knight.ImageSmall)

	farmer := GetClassDetails(ClassFarmer)
	require.NotNil(t, farmer)
	assert.Equal(t, 8, farmer.ID)
	assert.Equal(t, "Farmer", farmer.Name)

	assert.Nil(t, GetClassDetails(0))
	assert.Nil(t, GetClassDetails(99))
}

func TestGetAllClasses(t *testing.T) {
	classes := GetAllClasses()
	require.Len(t, classes, ClassCount)

	for i, class := range classes {
		require.NotNil(t, class)
		assert.Equal(t, i+1, class.ID)
		assert.NotEmpty(t, class.Name)
		assert.NotEmpty(t, class.Description)
		assert.NotEmpty(t, class.ImageLarge)
		assert.NotEmpty(t, class.ImageSmall)
	}
}
