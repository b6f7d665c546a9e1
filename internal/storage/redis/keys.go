package redis

import (
	"fmt"

	"github.com/cardfold/mayi-go/internal/model"
)

// Key prefix for all stored data
const keyPrefix = "mayi"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the SET of all game IDs
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}
