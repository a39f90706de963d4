package combat

import (
	"context"
	"log/slog"

	"github.com/calram/skirmish/internal/dependencies/clock"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/services/fleet"
	"github.com/calram/skirmish/internal/services/leaderboard"
	"github.com/calram/skirmish/internal/storage"
)

// Outcome summarizes a resolved engagement
type Outcome struct {
	PlayerID      model.PlayerID
	TargetFighter model.FighterID
	PlayerDamage  int
	Won           bool
	GoldReward    int
	NewScore      int
}

// Service orchestrates a combat engagement: it feeds object state through
// the Rules collaborator, hands the reward to the economy engine, and pushes
// the score to the leaderboard. Leaderboard and event emission are
// best-effort; only the gold award is part of the consistency contract.
type Service struct {
	storage      storage.Storage
	capabilities *capability.Service
	fleet        *fleet.Service
	leaderboard  *leaderboard.Service
	rules        Rules
	clock        clock.Clock
	bus          events.Bus
	logger       *slog.Logger
}

// New creates a new combat Service
func New(
	storage storage.Storage,
	capabilities *capability.Service,
	fleetService *fleet.Service,
	leaderboardService *leaderboard.Service,
	rules Rules,
	clock clock.Clock,
	bus events.Bus,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:      storage,
		capabilities: capabilities,
		fleet:        fleetService,
		leaderboard:  leaderboardService,
		rules:        rules,
		clock:        clock,
		bus:          bus,
		logger:       logger,
	}
}

// ResolveCombat pits the player's fighter against the target fighter and
// settles the consequences: gold is awarded through the economy engine and
// the gold amount is added to the player's leaderboard score. The caller
// must prove ownership of the attacking player; nobody fights on someone
// else's behalf.
func (s *Service) ResolveCombat(ctx context.Context, ownerToken string, caller model.Address, playerID model.PlayerID, targetFighterID model.FighterID) (*Outcome, error) {
	if err := s.capabilities.AuthorizeOwner(ctx, ownerToken, caller, playerID); err != nil {
		return nil, err
	}

	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	attacker, err := s.storage.GetFighter(ctx, player.FighterID)
	if err != nil {
		return nil, err
	}
	target, err := s.storage.GetFighter(ctx, targetFighterID)
	if err != nil {
		return nil, err
	}

	base := attacker.Damage
	for _, missileID := range attacker.Missiles {
		missile, err := s.storage.GetMissile(ctx, missileID)
		if err != nil {
			return nil, err
		}
		base += missile.Damage
	}

	playerDamage := s.rules.CalculateDamage(player.Level, base)
	won := s.rules.IsPlayerWinning(playerDamage, target.Health)
	reward := s.rules.CalculateGoldReward(won)

	if err := s.fleet.GrantReward(ctx, playerID, reward); err != nil {
		return nil, err
	}

	outcome := &Outcome{
		PlayerID:      playerID,
		TargetFighter: targetFighterID,
		PlayerDamage:  playerDamage,
		Won:           won,
		GoldReward:    reward,
	}

	now := s.clock.Now()
	s.bus.Emit(model.Event{
		Type:      model.EventCombatResolved,
		Timestamp: now,
		PlayerID:  playerID,
		Payload: model.CombatResolvedPayload{
			PlayerID:      playerID,
			TargetFighter: targetFighterID,
			PlayerDamage:  playerDamage,
			Won:           won,
			GoldReward:    reward,
		},
	})

	// Score and leaderboard updates are telemetry: a failure here never
	// unwinds the settled combat
	entry := model.LeaderboardEntry{PlayerID: playerID, Score: reward}
	total, err := s.leaderboard.RecordScore(ctx, entry)
	if err != nil {
		s.logger.Warn("leaderboard update failed",
			slog.String("player_id", string(playerID)),
			slog.String("error", err.Error()),
		)
		return outcome, nil
	}
	outcome.NewScore = total

	s.bus.Emit(model.Event{
		Type:      model.EventScoreUpdated,
		Timestamp: now,
		PlayerID:  playerID,
		Payload: model.ScoreUpdatedPayload{
			PlayerID: playerID,
			Score:    total,
		},
	})

	return outcome, nil
}
