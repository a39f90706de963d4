package combat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/calram/skirmish/internal/dependencies/mocks"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/account"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/services/fleet"
	"github.com/calram/skirmish/internal/services/leaderboard"
	"github.com/calram/skirmish/internal/storage/memory"
	"github.com/calram/skirmish/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	accounts *account.Service
	fleet    *fleet.Service
	service  *Service
	ctx      context.Context

	attacker *account.Bundle
	defender *account.Bundle
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	rnd := mocks.NewMockRandom()
	logger := testutil.NopLogger()
	caps, err := capability.New(s.storage, clk, rnd, capability.Config{}, logger)
	s.Require().NoError(err)
	s.accounts = account.New(s.storage, caps, clk, rnd, events.NopBus{}, account.DefaultConfig(), logger)
	s.fleet = fleet.New(s.storage, caps, clk, rnd, events.NopBus{}, fleet.DefaultConfig(), logger)
	boards := leaderboard.New(s.storage, logger)
	rules := NewDefaultRules(DefaultRulesConfig())
	s.service = New(s.storage, caps, s.fleet, boards, rules, clk, events.NopBus{}, logger)
	s.ctx = context.Background()

	s.attacker, err = s.accounts.CreateAccount(s.ctx, "addr-a")
	s.Require().NoError(err)
	s.defender, err = s.accounts.CreateAccount(s.ctx, "addr-b")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestResolveCombatLoss() {
	// Level 1, base damage 20 against health 100: loss, consolation reward
	outcome, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.Require().NoError(err)

	s.False(outcome.Won)
	s.Equal(20, outcome.PlayerDamage)
	s.Equal(5, outcome.GoldReward)

	player, err := s.storage.GetPlayer(s.ctx, s.attacker.Player.ID)
	s.Require().NoError(err)
	s.Equal(5, player.Gold)
}

func (s *ServiceSuite) TestResolveCombatWinWithMissiles() {
	// Two missiles raise base damage to 20 + 2*50 = 120 >= 100
	for i := 0; i < 2; i++ {
		missile, err := s.fleet.MintMissile(s.ctx)
		s.Require().NoError(err)
		err = s.fleet.AddMissileToFighter(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Fighter.ID, missile.ID)
		s.Require().NoError(err)
	}

	outcome, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.Require().NoError(err)

	s.True(outcome.Won)
	s.Equal(120, outcome.PlayerDamage)
	s.Equal(20, outcome.GoldReward)

	player, err := s.storage.GetPlayer(s.ctx, s.attacker.Player.ID)
	s.Require().NoError(err)
	s.Equal(20, player.Gold)
}

func (s *ServiceSuite) TestResolveCombatUpdatesLeaderboard() {
	_, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.Require().NoError(err)
	outcome, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.Require().NoError(err)

	s.Equal(10, outcome.NewScore)

	top, err := s.storage.TopPlayers(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(s.attacker.Player.ID, top[0].PlayerID)
	s.Equal(10, top[0].Score)
}

func (s *ServiceSuite) TestResolveCombatUnknownTargetFails() {
	_, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, "f_unknown")
	s.ErrorIs(err, model.ErrFighterNotFound)

	// No reward was settled
	player, _ := s.storage.GetPlayer(s.ctx, s.attacker.Player.ID)
	s.Equal(0, player.Gold)
}

func (s *ServiceSuite) TestResolveCombatLeavesDefenderUntouched() {
	_, err := s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-a", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.Require().NoError(err)

	// Damage-from-combat is settled outside this core
	fighter, err := s.storage.GetFighter(s.ctx, s.defender.Fighter.ID)
	s.Require().NoError(err)
	s.Equal(100, fighter.Health)
}

func (s *ServiceSuite) TestResolveCombatRequiresOwnership() {
	// The defender's own valid token does not authorize fighting as the
	// attacker
	_, err := s.service.ResolveCombat(s.ctx, s.defender.OwnerToken, "addr-b", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.ErrorIs(err, model.ErrUnauthorized)

	// The attacker's token presented from the wrong address fails too
	_, err = s.service.ResolveCombat(s.ctx, s.attacker.OwnerToken, "addr-b", s.attacker.Player.ID, s.defender.Fighter.ID)
	s.ErrorIs(err, model.ErrUnauthorized)

	// No reward was settled either way
	player, _ := s.storage.GetPlayer(s.ctx, s.attacker.Player.ID)
	s.Equal(0, player.Gold)
}
