package redis

import (
	"fmt"

	"github.com/calram/skirmish/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "skirmish"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// addressIndexKey returns the Redis key for the address -> player_id index
func addressIndexKey(addr model.Address) string {
	return fmt.Sprintf("%s:idx:address:%s", keyPrefix, addr)
}

// fighterKey returns the Redis key for a SpaceFighter
func fighterKey(id model.FighterID) string {
	return fmt.Sprintf("%s:fighter:%s", keyPrefix, id)
}

// missileKey returns the Redis key for a Missile
func missileKey(id model.MissileID) string {
	return fmt.Sprintf("%s:missile:%s", keyPrefix, id)
}

// capabilityKey returns the Redis key for a Capability record
func capabilityKey(id model.CapabilityID) string {
	return fmt.Sprintf("%s:capability:%s", keyPrefix, id)
}

// ownerCapIndexKey returns the Redis key for the player_id -> owner capability index
func ownerCapIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:owner_cap:%s", keyPrefix, playerID)
}

// leaderboardKey returns the Redis key for the leaderboard sorted set
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
