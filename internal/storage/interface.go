package storage

import (
	"context"

	"github.com/calram/skirmish/internal/model"
)

// Storage defines the interface for data persistence.
//
// The multi-object save operations are the atomicity boundary of the core:
// either every object in the call is persisted or none is. Implementations
// must also serialize access per object (single mutex for the memory store,
// transactional pipeline for Redis) so a compound mutation such as the
// three-field upgrade is never partially observable.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByAddress(ctx context.Context, addr model.Address) (*model.Player, error)

	// Fighter operations
	SaveFighter(ctx context.Context, fighter *model.SpaceFighter) error
	GetFighter(ctx context.Context, id model.FighterID) (*model.SpaceFighter, error)

	// Missile operations
	SaveMissile(ctx context.Context, missile *model.Missile) error
	GetMissile(ctx context.Context, id model.MissileID) (*model.Missile, error)

	// Capability operations
	SaveCapability(ctx context.Context, cap *model.Capability) error
	GetCapability(ctx context.Context, id model.CapabilityID) (*model.Capability, error)
	GetOwnerCapability(ctx context.Context, playerID model.PlayerID) (*model.Capability, error)

	// Atomic multi-object saves
	SaveAccount(ctx context.Context, player *model.Player, fighter *model.SpaceFighter, caps []*model.Capability) error
	SavePlayerAndFighter(ctx context.Context, player *model.Player, fighter *model.SpaceFighter) error
	SaveFighterAndMissile(ctx context.Context, fighter *model.SpaceFighter, missile *model.Missile) error

	// Leaderboard operations. UpdateLeaderboard adds entry.Score to the
	// player's accumulated score and returns the new total.
	UpdateLeaderboard(ctx context.Context, entry model.LeaderboardEntry) (int, error)
	TopPlayers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}
