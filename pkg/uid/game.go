package uid

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateGameID returns a random, URL-safe game identifier.
func GenerateGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// IsGameID reports whether s looks like an ID produced by GenerateGameID.
func IsGameID(s string) bool {
	if len(s) != 32 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
