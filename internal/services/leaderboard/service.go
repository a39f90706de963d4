package leaderboard

import (
	"context"
	"log/slog"

	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/storage"
)

// Service maintains the external ranking structure the core feeds after
// score-relevant events. Scores accumulate per player.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new leaderboard Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// RecordScore adds the entry's score to the player's total and returns the
// new total
func (s *Service) RecordScore(ctx context.Context, entry model.LeaderboardEntry) (int, error) {
	total, err := s.storage.UpdateLeaderboard(ctx, entry)
	if err != nil {
		return 0, err
	}

	s.logger.Info("leaderboard updated",
		slog.String("player_id", string(entry.PlayerID)),
		slog.Int("delta", entry.Score),
		slog.Int("total", total),
	)

	return total, nil
}

// Top returns the highest-scoring players, best first. A non-positive limit
// returns the full board.
func (s *Service) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	return s.storage.TopPlayers(ctx, limit)
}
