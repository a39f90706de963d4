package fleet

import (
	"context"
	"log/slog"

	"github.com/calram/skirmish/internal/dependencies/clock"
	"github.com/calram/skirmish/internal/dependencies/random"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/locking"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/storage"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// Config holds the inventory and economy constants
type Config struct {
	MaxMissiles       int
	MissileDamage     int
	UpgradeCost       int
	UpgradeHealthGain int
	UpgradeDamageGain int
}

// DefaultConfig returns the standard game constants
func DefaultConfig() Config {
	return Config{
		MaxMissiles:       4,
		MissileDamage:     50,
		UpgradeCost:       30,
		UpgradeHealthGain: 30,
		UpgradeDamageGain: 15,
	}
}

// Service is the inventory and economy engine. Every mutation is gated by a
// capability check up front; nothing is mutated optimistically and rolled
// back. Compound writes go through the storage layer's atomic saves so a
// failed precondition leaves every object exactly as it was. Each mutation
// holds a per-object lock across its load, check, and save so concurrent
// callers observe them one at a time.
type Service struct {
	storage      storage.Storage
	capabilities *capability.Service
	clock        clock.Clock
	random       random.Random
	bus          events.Bus
	locks        *locking.KeyedMutex
	logger       *slog.Logger
	cfg          Config
}

// New creates a new fleet Service
func New(
	storage storage.Storage,
	capabilities *capability.Service,
	clock clock.Clock,
	random random.Random,
	bus events.Bus,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	return &Service{
		storage:      storage,
		capabilities: capabilities,
		clock:        clock,
		random:       random,
		bus:          bus,
		locks:        locking.NewKeyedMutex(),
		logger:       logger,
		cfg:          cfg,
	}
}

// Lock keys for per-object serialization

func playerLockKey(id model.PlayerID) string   { return "player/" + string(id) }
func fighterLockKey(id model.FighterID) string { return "fighter/" + string(id) }
func missileLockKey(id model.MissileID) string { return "missile/" + string(id) }

// MintMissile creates a free-standing missile. Pure allocation: no fighter or
// player state is touched, and an unattached missile has no effect on the
// game until it is moved into an inventory.
func (s *Service) MintMissile(ctx context.Context) (*model.Missile, error) {
	missile := &model.Missile{
		ID:        model.MissileID("m_" + s.random.String(idLength, idAlphabet)),
		Damage:    s.cfg.MissileDamage,
		CreatedAt: s.clock.Now(),
	}

	if err := s.storage.SaveMissile(ctx, missile); err != nil {
		return nil, err
	}

	s.logger.Info("missile minted",
		slog.String("missile_id", string(missile.ID)),
		slog.Int("damage", missile.Damage),
	)

	return missile, nil
}

// GetMissile retrieves a missile by ID
func (s *Service) GetMissile(ctx context.Context, id model.MissileID) (*model.Missile, error) {
	return s.storage.GetMissile(ctx, id)
}

// AddMissileToFighter moves a free-standing missile into the fighter's
// inventory. The caller must present the ownership capability of the
// fighter's owning player; the inventory is bounded at MaxMissiles and
// preserves insertion order.
func (s *Service) AddMissileToFighter(ctx context.Context, ownerToken string, caller model.Address, fighterID model.FighterID, missileID model.MissileID) error {
	unlock := s.locks.Lock(fighterLockKey(fighterID), missileLockKey(missileID))
	defer unlock()

	fighter, err := s.storage.GetFighter(ctx, fighterID)
	if err != nil {
		return err
	}

	if err := s.capabilities.AuthorizeOwner(ctx, ownerToken, caller, fighter.OwnerID); err != nil {
		return err
	}

	if !fighter.HasCapacity(s.cfg.MaxMissiles) {
		return model.ErrInventoryFull
	}

	missile, err := s.storage.GetMissile(ctx, missileID)
	if err != nil {
		return err
	}
	if missile.Attached() {
		return model.ErrMissileAttached
	}

	now := s.clock.Now()
	fighter.Missiles = append(fighter.Missiles, missileID)
	fighter.UpdatedAt = now
	missile.FighterID = fighterID

	// One atomic save: the inventory append and the ownership move commit
	// together or not at all
	if err := s.storage.SaveFighterAndMissile(ctx, fighter, missile); err != nil {
		s.logger.Error("failed to attach missile",
			slog.String("fighter_id", string(fighterID)),
			slog.String("missile_id", string(missileID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("missile attached",
		slog.String("fighter_id", string(fighterID)),
		slog.String("missile_id", string(missileID)),
		slog.Int("missile_count", len(fighter.Missiles)),
	)

	s.bus.Emit(model.Event{
		Type:      model.EventMissileAttached,
		Timestamp: now,
		PlayerID:  fighter.OwnerID,
		Payload: model.MissileAttachedPayload{
			FighterID:    fighterID,
			MissileID:    missileID,
			MissileCount: len(fighter.Missiles),
		},
	})

	return nil
}

// UpgradeFighter deducts the upgrade cost from the player and raises the
// fighter's stats. Admin-gated. The gold deduction and both stat increases
// are one indivisible unit: if the funds check passes, all three apply
// through a single atomic save; if it fails, nothing changes.
func (s *Service) UpgradeFighter(ctx context.Context, adminToken string, fighterID model.FighterID, playerID model.PlayerID) error {
	if err := s.capabilities.AuthorizeAdmin(ctx, adminToken); err != nil {
		return err
	}

	unlock := s.locks.Lock(playerLockKey(playerID), fighterLockKey(fighterID))
	defer unlock()

	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	fighter, err := s.storage.GetFighter(ctx, fighterID)
	if err != nil {
		return err
	}

	if player.Gold < s.cfg.UpgradeCost {
		return model.ErrInsufficientGold
	}

	now := s.clock.Now()
	player.Gold -= s.cfg.UpgradeCost
	player.UpdatedAt = now
	fighter.Health += s.cfg.UpgradeHealthGain
	fighter.Damage += s.cfg.UpgradeDamageGain
	fighter.UpdatedAt = now

	if err := s.storage.SavePlayerAndFighter(ctx, player, fighter); err != nil {
		s.logger.Error("failed to apply upgrade",
			slog.String("fighter_id", string(fighterID)),
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("fighter upgraded",
		slog.String("fighter_id", string(fighterID)),
		slog.String("player_id", string(playerID)),
		slog.Int("new_health", fighter.Health),
		slog.Int("new_damage", fighter.Damage),
		slog.Int("remaining_gold", player.Gold),
	)

	s.bus.Emit(model.Event{
		Type:      model.EventUpgradeApplied,
		Timestamp: now,
		PlayerID:  playerID,
		Payload: model.UpgradeAppliedPayload{
			FighterID: fighterID,
			NewHealth: fighter.Health,
			NewDamage: fighter.Damage,
		},
	})

	return nil
}

// AwardGold adds an externally supplied amount to the player's balance.
// Admin-gated: handing out gold is an operator action, not something any
// caller may do.
func (s *Service) AwardGold(ctx context.Context, adminToken string, playerID model.PlayerID, amount int) error {
	if err := s.capabilities.AuthorizeAdmin(ctx, adminToken); err != nil {
		return err
	}
	return s.GrantReward(ctx, playerID, amount)
}

// GrantReward credits gold without a capability check. It is the settlement
// path for in-process collaborators such as combat resolution; external
// callers go through AwardGold. The addition is monotonic: negative amounts
// are rejected rather than clamped.
func (s *Service) GrantReward(ctx context.Context, playerID model.PlayerID, amount int) error {
	if amount < 0 {
		return model.ErrInvalidReward
	}

	unlock := s.locks.Lock(playerLockKey(playerID))
	defer unlock()

	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	player.Gold += amount
	player.UpdatedAt = now

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return err
	}

	s.logger.Info("gold awarded",
		slog.String("player_id", string(playerID)),
		slog.Int("amount", amount),
		slog.Int("new_gold", player.Gold),
	)

	s.bus.Emit(model.Event{
		Type:      model.EventGoldAwarded,
		Timestamp: now,
		PlayerID:  playerID,
		Payload: model.GoldAwardedPayload{
			PlayerID: playerID,
			Amount:   amount,
			NewGold:  player.Gold,
		},
	})

	return nil
}
