package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringToSeed(t *testing.T) {
	a := StringToSeed("night-raid")
	assert.Equal(t, a, StringToSeed("night-raid"))
	assert.NotEqual(t, a, StringToSeed("night-raid-2"))
	assert.GreaterOrEqual(t, a, int64(0))
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GenerateID())
}
