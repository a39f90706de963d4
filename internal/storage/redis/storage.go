package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface. The
// multi-object saves go through a transactional pipeline so a compound
// mutation commits as one unit.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	pipe := s.client.TxPipeline()
	if err := s.queuePlayer(ctx, pipe, player); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, playerKey(id), &player, model.ErrPlayerNotFound); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByAddress(ctx context.Context, addr model.Address) (*model.Player, error) {
	id, err := s.client.Get(ctx, addressIndexKey(addr)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

// Fighter operations

func (s *Storage) SaveFighter(ctx context.Context, fighter *model.SpaceFighter) error {
	return s.setJSON(ctx, fighterKey(fighter.ID), fighter)
}

func (s *Storage) GetFighter(ctx context.Context, id model.FighterID) (*model.SpaceFighter, error) {
	var fighter model.SpaceFighter
	if err := s.getJSON(ctx, fighterKey(id), &fighter, model.ErrFighterNotFound); err != nil {
		return nil, err
	}
	return &fighter, nil
}

// Missile operations

func (s *Storage) SaveMissile(ctx context.Context, missile *model.Missile) error {
	return s.setJSON(ctx, missileKey(missile.ID), missile)
}

func (s *Storage) GetMissile(ctx context.Context, id model.MissileID) (*model.Missile, error) {
	var missile model.Missile
	if err := s.getJSON(ctx, missileKey(id), &missile, model.ErrMissileNotFound); err != nil {
		return nil, err
	}
	return &missile, nil
}

// Capability operations

func (s *Storage) SaveCapability(ctx context.Context, cap *model.Capability) error {
	pipe := s.client.TxPipeline()
	if err := s.queueCapability(ctx, pipe, cap); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCapability(ctx context.Context, id model.CapabilityID) (*model.Capability, error) {
	var cap model.Capability
	if err := s.getJSON(ctx, capabilityKey(id), &cap, model.ErrCapabilityNotFound); err != nil {
		return nil, err
	}
	return &cap, nil
}

func (s *Storage) GetOwnerCapability(ctx context.Context, playerID model.PlayerID) (*model.Capability, error) {
	id, err := s.client.Get(ctx, ownerCapIndexKey(playerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCapabilityNotFound
		}
		return nil, err
	}
	return s.GetCapability(ctx, model.CapabilityID(id))
}

// Atomic multi-object saves

func (s *Storage) SaveAccount(ctx context.Context, player *model.Player, fighter *model.SpaceFighter, caps []*model.Capability) error {
	pipe := s.client.TxPipeline()
	if err := s.queuePlayer(ctx, pipe, player); err != nil {
		return err
	}
	if err := s.queueJSON(ctx, pipe, fighterKey(fighter.ID), fighter); err != nil {
		return err
	}
	for _, cap := range caps {
		if err := s.queueCapability(ctx, pipe, cap); err != nil {
			return err
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SavePlayerAndFighter(ctx context.Context, player *model.Player, fighter *model.SpaceFighter) error {
	pipe := s.client.TxPipeline()
	if err := s.queuePlayer(ctx, pipe, player); err != nil {
		return err
	}
	if err := s.queueJSON(ctx, pipe, fighterKey(fighter.ID), fighter); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) SaveFighterAndMissile(ctx context.Context, fighter *model.SpaceFighter, missile *model.Missile) error {
	pipe := s.client.TxPipeline()
	if err := s.queueJSON(ctx, pipe, fighterKey(fighter.ID), fighter); err != nil {
		return err
	}
	if err := s.queueJSON(ctx, pipe, missileKey(missile.ID), missile); err != nil {
		return err
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Leaderboard operations

func (s *Storage) UpdateLeaderboard(ctx context.Context, entry model.LeaderboardEntry) (int, error) {
	total, err := s.client.ZIncrBy(ctx, leaderboardKey(), float64(entry.Score), string(entry.PlayerID)).Result()
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	results, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			PlayerID: model.PlayerID(member),
			Score:    int(z.Score),
		})
	}

	// Redis returns tied scores in descending member order; normalize ties
	// to ascending player id, the ordering the memory backend produces
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	return entries, nil
}

// Pipeline helpers

func (s *Storage) queuePlayer(ctx context.Context, pipe redis.Pipeliner, player *model.Player) error {
	if err := s.queueJSON(ctx, pipe, playerKey(player.ID), player); err != nil {
		return err
	}
	pipe.Set(ctx, addressIndexKey(player.Address), string(player.ID), s.cfg.ObjectTTL)
	return nil
}

func (s *Storage) queueCapability(ctx context.Context, pipe redis.Pipeliner, cap *model.Capability) error {
	if err := s.queueJSON(ctx, pipe, capabilityKey(cap.ID), cap); err != nil {
		return err
	}
	if cap.Kind == model.CapabilityOwner {
		pipe.Set(ctx, ownerCapIndexKey(cap.PlayerID), string(cap.ID), s.cfg.ObjectTTL)
	}
	return nil
}

func (s *Storage) queueJSON(ctx context.Context, pipe redis.Pipeliner, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe.Set(ctx, key, data, s.cfg.ObjectTTL)
	return nil
}

func (s *Storage) setJSON(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, s.cfg.ObjectTTL).Err()
}

func (s *Storage) getJSON(ctx context.Context, key string, target any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, target)
}
