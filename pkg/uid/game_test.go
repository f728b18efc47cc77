package uid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateGameID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateGameID()
		assert.Len(t, id, 32)
		assert.True(t, IsGameID(id))
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestIsGameID(t *testing.T) {
	assert.False(t, IsGameID(""))
	assert.False(t, IsGameID("not-a-game"))
	assert.False(t, IsGameID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.True(t, IsGameID("6ba7b8109dad11d180b400c04fd430c8"))
}
