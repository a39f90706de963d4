package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/calram/skirmish/internal/dependencies/mocks"
	"github.com/calram/skirmish/internal/events"
	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/account"
	"github.com/calram/skirmish/internal/services/capability"
	"github.com/calram/skirmish/internal/storage/memory"
	"github.com/calram/skirmish/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage      *memory.Storage
	capabilities *capability.Service
	accounts     *account.Service
	service      *Service
	clock        *mocks.MockClock
	random       *mocks.MockRandom
	ctx          context.Context

	bundle *account.Bundle
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	logger := testutil.NopLogger()
	capabilities, err := capability.New(s.storage, s.clock, s.random, capability.Config{}, logger)
	s.Require().NoError(err)
	s.capabilities = capabilities
	s.accounts = account.New(s.storage, s.capabilities, s.clock, s.random, events.NopBus{}, account.DefaultConfig(), logger)
	s.service = New(s.storage, s.capabilities, s.clock, s.random, events.NopBus{}, DefaultConfig(), logger)
	s.ctx = context.Background()

	bundle, err := s.accounts.CreateAccount(s.ctx, "addr-a")
	s.Require().NoError(err)
	s.bundle = bundle
}

// MintMissile tests

func (s *ServiceSuite) TestMintMissileIsPureAllocation() {
	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	s.Equal(50, missile.Damage)
	s.False(missile.Attached())

	// Minting without attaching leaves all fighter and player state alone
	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Empty(fighter.Missiles)

	player, err := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Require().NoError(err)
	s.Equal(0, player.Gold)
}

// AddMissileToFighter tests

func (s *ServiceSuite) mintAndAttach() model.MissileID {
	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)
	err = s.service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID, missile.ID)
	s.Require().NoError(err)
	return missile.ID
}

func (s *ServiceSuite) TestAddMissilePreservesOrder() {
	first := s.mintAndAttach()
	second := s.mintAndAttach()
	third := s.mintAndAttach()

	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Equal([]model.MissileID{first, second, third}, fighter.Missiles)
}

func (s *ServiceSuite) TestAddMissileSetsBackLink() {
	missileID := s.mintAndAttach()

	missile, err := s.storage.GetMissile(s.ctx, missileID)
	s.Require().NoError(err)
	s.Equal(s.bundle.Fighter.ID, missile.FighterID)
}

func (s *ServiceSuite) TestFifthMissileFailsInventoryFull() {
	var attached []model.MissileID
	for i := 0; i < 4; i++ {
		attached = append(attached, s.mintAndAttach())
	}

	extra, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	err = s.service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID, extra.ID)
	s.ErrorIs(err, model.ErrInventoryFull)

	// The list is unchanged: same length, same elements, same order
	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Equal(attached, fighter.Missiles)

	// The rejected missile stays free-standing
	missile, err := s.storage.GetMissile(s.ctx, extra.ID)
	s.Require().NoError(err)
	s.False(missile.Attached())
}

func (s *ServiceSuite) TestAddMissileFailsForWrongCaller() {
	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	err = s.service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-b", s.bundle.Fighter.ID, missile.ID)
	s.ErrorIs(err, model.ErrUnauthorized)

	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Empty(fighter.Missiles)
}

func (s *ServiceSuite) TestAddMissileFailsForOtherPlayersCapability() {
	other, err := s.accounts.CreateAccount(s.ctx, "addr-b")
	s.Require().NoError(err)

	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	// addr-b presents their own valid capability against addr-a's fighter
	err = s.service.AddMissileToFighter(s.ctx, other.OwnerToken, "addr-b", s.bundle.Fighter.ID, missile.ID)
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *ServiceSuite) TestAddMissileFailsWhenAlreadyAttached() {
	missileID := s.mintAndAttach()

	other, err := s.accounts.CreateAccount(s.ctx, "addr-b")
	s.Require().NoError(err)

	err = s.service.AddMissileToFighter(s.ctx, other.OwnerToken, "addr-b", other.Fighter.ID, missileID)
	s.ErrorIs(err, model.ErrMissileAttached)
}

func (s *ServiceSuite) TestAddMissileFailsForUnknownFighter() {
	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	err = s.service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", "f_unknown", missile.ID)
	s.ErrorIs(err, model.ErrFighterNotFound)
}

// UpgradeFighter tests

func (s *ServiceSuite) TestUpgradeFailsWithInsufficientGold() {
	err := s.service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.ErrorIs(err, model.ErrInsufficientGold)

	// Gold, health, and damage are untouched
	player, err := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Require().NoError(err)
	s.Equal(0, player.Gold)

	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Equal(100, fighter.Health)
	s.Equal(20, fighter.Damage)
}

func (s *ServiceSuite) TestUpgradeAppliesAllThreeMutations() {
	s.Require().NoError(s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 30))

	err := s.service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.Require().NoError(err)

	player, err := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Require().NoError(err)
	s.Equal(0, player.Gold)

	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.Equal(130, fighter.Health)
	s.Equal(35, fighter.Damage)
}

func (s *ServiceSuite) TestUpgradeAfterTopUpScenario() {
	// gold=0: upgrade fails; set gold=30: upgrade succeeds with 130/35/0
	err := s.service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.ErrorIs(err, model.ErrInsufficientGold)

	s.Require().NoError(s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 30))

	err = s.service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.Require().NoError(err)

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	fighter, _ := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Equal(0, player.Gold)
	s.Equal(130, fighter.Health)
	s.Equal(35, fighter.Damage)
}

func (s *ServiceSuite) TestUpgradeRequiresAdminCapability() {
	s.Require().NoError(s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 30))

	err := s.service.UpgradeFighter(s.ctx, s.bundle.OwnerToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.ErrorIs(err, model.ErrUnauthorized)

	// A rejected capability check gates entry: nothing was deducted
	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Equal(30, player.Gold)
}

func (s *ServiceSuite) TestUpgradeEmitsEvent() {
	logger := testutil.NopLogger()
	broadcaster := events.NewBroadcaster(logger)
	go broadcaster.Run()
	defer broadcaster.Close()

	sub := broadcaster.Subscribe()
	defer sub.Close()

	service := New(s.storage, s.capabilities, s.clock, s.random, broadcaster, DefaultConfig(), logger)
	s.Require().NoError(service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 30))

	err := service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
	s.Require().NoError(err)

	deadline := time.After(time.Second)
	for {
		select {
		case event := <-sub.C:
			if event.Type != model.EventUpgradeApplied {
				continue
			}
			payload, ok := event.Payload.(model.UpgradeAppliedPayload)
			s.Require().True(ok)
			s.Equal(s.bundle.Fighter.ID, payload.FighterID)
			s.Equal(130, payload.NewHealth)
			s.Equal(35, payload.NewDamage)
			return
		case <-deadline:
			s.Fail("expected upgrade applied event")
			return
		}
	}
}

// AwardGold tests

func (s *ServiceSuite) TestAwardGoldAccumulates() {
	s.Require().NoError(s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 10))
	s.Require().NoError(s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 25))

	player, err := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Require().NoError(err)
	s.Equal(35, player.Gold)
}

func (s *ServiceSuite) TestAwardGoldRejectsNegativeAmount() {
	err := s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, -1)
	s.ErrorIs(err, model.ErrInvalidReward)

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Equal(0, player.Gold)
}

func (s *ServiceSuite) TestAwardGoldZeroIsNoop() {
	err := s.service.AwardGold(s.ctx, s.bundle.AdminToken, s.bundle.Player.ID, 0)
	s.Require().NoError(err)

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Equal(0, player.Gold)
}

func (s *ServiceSuite) TestAwardGoldRequiresAdminCapability() {
	err := s.service.AwardGold(s.ctx, s.bundle.OwnerToken, s.bundle.Player.ID, 30)
	s.ErrorIs(err, model.ErrUnauthorized)

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Equal(0, player.Gold)
}

func (s *ServiceSuite) TestGrantRewardSkipsCapabilityCheck() {
	s.Require().NoError(s.service.GrantReward(s.ctx, s.bundle.Player.ID, 5))

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	s.Equal(5, player.Gold)
}

// Concurrency: mutations on the same objects are serialized, so a pair of
// racing callers sees them one at a time

func (s *ServiceSuite) TestConcurrentUpgradesSpendGoldOnce() {
	s.Require().NoError(s.service.GrantReward(s.ctx, s.bundle.Player.ID, 30))

	start := make(chan struct{})
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			errs <- s.service.UpgradeFighter(s.ctx, s.bundle.AdminToken, s.bundle.Fighter.ID, s.bundle.Player.ID)
		}()
	}
	close(start)

	var succeeded, rejected int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrInsufficientGold):
			rejected++
		default:
			s.Require().NoError(err)
		}
	}

	// With 30 gold exactly one upgrade can be paid for
	s.Equal(1, succeeded)
	s.Equal(1, rejected)

	player, _ := s.storage.GetPlayer(s.ctx, s.bundle.Player.ID)
	fighter, _ := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Equal(0, player.Gold)
	s.Equal(130, fighter.Health)
	s.Equal(35, fighter.Damage)
}

func (s *ServiceSuite) TestConcurrentAttachesKeepInventoryConsistent() {
	first, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)
	second, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	start := make(chan struct{})
	errs := make(chan error, 2)
	for _, id := range []model.MissileID{first.ID, second.ID} {
		go func(missileID model.MissileID) {
			<-start
			errs <- s.service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID, missileID)
		}(id)
	}
	close(start)

	for i := 0; i < 2; i++ {
		s.Require().NoError(<-errs)
	}

	// Neither append was lost, and every back-link matches the list
	fighter, err := s.storage.GetFighter(s.ctx, s.bundle.Fighter.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]model.MissileID{first.ID, second.ID}, fighter.Missiles)

	for _, id := range fighter.Missiles {
		missile, err := s.storage.GetMissile(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(s.bundle.Fighter.ID, missile.FighterID)
	}
}

func (s *ServiceSuite) TestConcurrentAttachOfSameMissile() {
	other, err := s.accounts.CreateAccount(s.ctx, "addr-b")
	s.Require().NoError(err)

	missile, err := s.service.MintMissile(s.ctx)
	s.Require().NoError(err)

	type attempt struct {
		token   string
		caller  model.Address
		fighter model.FighterID
	}
	attempts := []attempt{
		{s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID},
		{other.OwnerToken, "addr-b", other.Fighter.ID},
	}

	start := make(chan struct{})
	errs := make(chan error, 2)
	for _, a := range attempts {
		go func(a attempt) {
			<-start
			errs <- s.service.AddMissileToFighter(s.ctx, a.token, a.caller, a.fighter, missile.ID)
		}(a)
	}
	close(start)

	var succeeded, rejected int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			succeeded++
		case errors.Is(err, model.ErrMissileAttached):
			rejected++
		default:
			s.Require().NoError(err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, rejected)

	// The missile ended up in exactly one inventory, and its back-link
	// points there
	stored, err := s.storage.GetMissile(s.ctx, missile.ID)
	s.Require().NoError(err)
	holder, err := s.storage.GetFighter(s.ctx, stored.FighterID)
	s.Require().NoError(err)
	s.Contains(holder.Missiles, missile.ID)

	for _, fighterID := range []model.FighterID{s.bundle.Fighter.ID, other.Fighter.ID} {
		if fighterID == stored.FighterID {
			continue
		}
		loser, err := s.storage.GetFighter(s.ctx, fighterID)
		s.Require().NoError(err)
		s.NotContains(loser.Missiles, missile.ID)
	}
}

// Boundary-value configuration

func (s *ServiceSuite) TestConfiguredCapacityBound() {
	logger := testutil.NopLogger()
	cfg := DefaultConfig()
	cfg.MaxMissiles = 1
	service := New(s.storage, s.capabilities, s.clock, s.random, events.NopBus{}, cfg, logger)

	first, err := service.MintMissile(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID, first.ID))

	second, err := service.MintMissile(s.ctx)
	s.Require().NoError(err)
	err = service.AddMissileToFighter(s.ctx, s.bundle.OwnerToken, "addr-a", s.bundle.Fighter.ID, second.ID)
	s.ErrorIs(err, model.ErrInventoryFull)
}
