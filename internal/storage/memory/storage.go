package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. The single
// mutex doubles as the per-object serialization guard the core's atomicity
// contract relies on.
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	addressIndex  map[model.Address]model.PlayerID
	fighters      map[model.FighterID]*model.SpaceFighter
	missiles      map[model.MissileID]*model.Missile
	capabilities  map[model.CapabilityID]*model.Capability
	ownerCapIndex map[model.PlayerID]model.CapabilityID
	scores        map[model.PlayerID]int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		addressIndex:  make(map[model.Address]model.PlayerID),
		fighters:      make(map[model.FighterID]*model.SpaceFighter),
		missiles:      make(map[model.MissileID]*model.Missile),
		capabilities:  make(map[model.CapabilityID]*model.Capability),
		ownerCapIndex: make(map[model.PlayerID]model.CapabilityID),
		scores:        make(map[model.PlayerID]int),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(player), nil
}

func (s *Storage) GetPlayerByAddress(ctx context.Context, addr model.Address) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.addressIndex[addr]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return copyPlayer(player), nil
}

// Fighter operations

func (s *Storage) SaveFighter(ctx context.Context, fighter *model.SpaceFighter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fighters[fighter.ID] = copyFighter(fighter)
	return nil
}

func (s *Storage) GetFighter(ctx context.Context, id model.FighterID) (*model.SpaceFighter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fighter, ok := s.fighters[id]
	if !ok {
		return nil, model.ErrFighterNotFound
	}
	return copyFighter(fighter), nil
}

// Missile operations

func (s *Storage) SaveMissile(ctx context.Context, missile *model.Missile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := *missile
	s.missiles[missile.ID] = &m
	return nil
}

func (s *Storage) GetMissile(ctx context.Context, id model.MissileID) (*model.Missile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	missile, ok := s.missiles[id]
	if !ok {
		return nil, model.ErrMissileNotFound
	}
	m := *missile
	return &m, nil
}

// Capability operations

func (s *Storage) SaveCapability(ctx context.Context, cap *model.Capability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCapabilityLocked(cap)
	return nil
}

func (s *Storage) GetCapability(ctx context.Context, id model.CapabilityID) (*model.Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cap, ok := s.capabilities[id]
	if !ok {
		return nil, model.ErrCapabilityNotFound
	}
	return copyCapability(cap), nil
}

func (s *Storage) GetOwnerCapability(ctx context.Context, playerID model.PlayerID) (*model.Capability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ownerCapIndex[playerID]
	if !ok {
		return nil, model.ErrCapabilityNotFound
	}
	cap, ok := s.capabilities[id]
	if !ok {
		return nil, model.ErrCapabilityNotFound
	}
	return copyCapability(cap), nil
}

// Atomic multi-object saves

func (s *Storage) SaveAccount(ctx context.Context, player *model.Player, fighter *model.SpaceFighter, caps []*model.Capability) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	s.fighters[fighter.ID] = copyFighter(fighter)
	for _, cap := range caps {
		s.saveCapabilityLocked(cap)
	}
	return nil
}

func (s *Storage) SavePlayerAndFighter(ctx context.Context, player *model.Player, fighter *model.SpaceFighter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	s.fighters[fighter.ID] = copyFighter(fighter)
	return nil
}

func (s *Storage) SaveFighterAndMissile(ctx context.Context, fighter *model.SpaceFighter, missile *model.Missile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fighters[fighter.ID] = copyFighter(fighter)
	m := *missile
	s.missiles[missile.ID] = &m
	return nil
}

// Leaderboard operations

func (s *Storage) UpdateLeaderboard(ctx context.Context, entry model.LeaderboardEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[entry.PlayerID] += entry.Score
	return s.scores[entry.PlayerID], nil
}

func (s *Storage) TopPlayers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]model.LeaderboardEntry, 0, len(s.scores))
	for id, score := range s.scores {
		entries = append(entries, model.LeaderboardEntry{PlayerID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Locked helpers, callers must hold the write lock

func (s *Storage) savePlayerLocked(player *model.Player) {
	s.players[player.ID] = copyPlayer(player)
	s.addressIndex[player.Address] = player.ID
}

func (s *Storage) saveCapabilityLocked(cap *model.Capability) {
	s.capabilities[cap.ID] = copyCapability(cap)
	if cap.Kind == model.CapabilityOwner {
		s.ownerCapIndex[cap.PlayerID] = cap.ID
	}
}

// Deep copies keep callers from mutating stored state outside a Save call

func copyPlayer(p *model.Player) *model.Player {
	cp := *p
	return &cp
}

func copyFighter(f *model.SpaceFighter) *model.SpaceFighter {
	cp := *f
	cp.Missiles = append([]model.MissileID(nil), f.Missiles...)
	return &cp
}

func copyCapability(c *model.Capability) *model.Capability {
	cp := *c
	cp.SecretHash = append([]byte(nil), c.SecretHash...)
	return &cp
}
