package account

import (
	"context"
	"log/slog"

	"github.com/calram/skirmish/internal/dependencies/clock"
	"github.com/calram/skirmish/internal/dependencies/random"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/storage"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 12
)

// Bundle is everything account creation produces: the player, their fighter,
// and the two capability tokens. The tokens are returned exactly once; only
// digests are stored.
type Bundle struct {
	Player     *model.Player
	Fighter    *model.SpaceFighter
	AdminToken string
	OwnerToken string
}

// Config holds the starting stats for new accounts
type Config struct {
	InitialLevel  int
	InitialGold   int
	InitialHealth int
	InitialDamage int
}

// DefaultConfig returns the standard starting stats
func DefaultConfig() Config {
	return Config{
		InitialLevel:  1,
		InitialGold:   0,
		InitialHealth: 100,
		InitialDamage: 20,
	}
}

// Service is the lifecycle manager: it creates the initial object graph for
// a new player as a single atomic unit.
type Service struct {
	storage      storage.Storage
	capabilities *capability.Service
	clock        clock.Clock
	random       random.Random
	bus          events.Bus
	logger       *slog.Logger
	cfg          Config
}

// New creates a new account Service
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
		logger:       logger,
		cfg:          cfg,
	}
}

// CreateAccount builds a player, their fighter, and both capabilities, and
// persists all four in one atomic save. No intermediate state is observable:
// either the whole bundle exists or none of it does.
func (s *Service) CreateAccount(ctx context.Context, caller model.Address) (*Bundle, error) {
	now := s.clock.Now()
	playerID := model.PlayerID("p_" + s.random.String(idLength, idAlphabet))
	fighterID := model.FighterID("f_" + s.random.String(idLength, idAlphabet))

	fighter := &model.SpaceFighter{
		ID:        fighterID,
		OwnerID:   playerID,
		Health:    s.cfg.InitialHealth,
		Damage:    s.cfg.InitialDamage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	player := &model.Player{
		ID:        playerID,
		Address:   caller,
		Level:     s.cfg.InitialLevel,
		Gold:      s.cfg.InitialGold,
		FighterID: fighterID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	adminCap, adminToken := s.capabilities.Mint(model.CapabilityAdmin, playerID, caller)
	ownerCap, ownerToken := s.capabilities.Mint(model.CapabilityOwner, playerID, caller)

	caps := []*model.Capability{adminCap, ownerCap}
	if err := s.storage.SaveAccount(ctx, player, fighter, caps); err != nil {
		s.logger.Error("failed to save account",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("account created",
		slog.String("player_id", string(playerID)),
		slog.String("fighter_id", string(fighterID)),
		slog.String("address", string(caller)),
	)

	s.bus.Emit(model.Event{
		Type:      model.EventPlayerCreated,
		Timestamp: now,
		PlayerID:  playerID,
		Payload: model.PlayerCreatedPayload{
			PlayerID:  playerID,
			FighterID: fighterID,
			Address:   caller,
		},
	})

	return &Bundle{
		Player:     player,
		Fighter:    fighter,
		AdminToken: adminToken,
		OwnerToken: ownerToken,
	}, nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// GetPlayerByAddress retrieves a player by their bound address
func (s *Service) GetPlayerByAddress(ctx context.Context, addr model.Address) (*model.Player, error) {
	return s.storage.GetPlayerByAddress(ctx, addr)
}

// GetFighter retrieves a fighter by ID
func (s *Service) GetFighter(ctx context.Context, id model.FighterID) (*model.SpaceFighter, error) {
	return s.storage.GetFighter(ctx, id)
}
