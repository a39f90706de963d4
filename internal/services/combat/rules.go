package combat

// Rules is the combat-outcome collaborator. The core only depends on these
// signatures; the calculations themselves are pure and side-effect free.
type Rules interface {
	// CalculateDamage derives effective damage from a player level and a
	// base damage value
	CalculateDamage(level, base int) int

	// IsPlayerWinning reports whether the given damage defeats the target
	IsPlayerWinning(playerDamage, targetHealth int) bool

	// CalculateGoldReward computes the gold reward for a combat outcome
	CalculateGoldReward(won bool) int
}

// RulesConfig holds tuning for the default rules
type RulesConfig struct {
	DamagePerLevel int
	WinReward      int
	LossReward     int
}

// DefaultRulesConfig returns the standard tuning
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		DamagePerLevel: 5,
		WinReward:      20,
		LossReward:     5,
	}
}

// DefaultRules is the reference implementation of Rules
type DefaultRules struct {
	cfg RulesConfig
}

// Ensure DefaultRules implements Rules
var _ Rules = (*DefaultRules)(nil)

// NewDefaultRules creates rules with the given tuning
func NewDefaultRules(cfg RulesConfig) *DefaultRules {
	if cfg == (RulesConfig{}) {
		cfg = DefaultRulesConfig()
	}
	return &DefaultRules{cfg: cfg}
}

// CalculateDamage scales base damage by levels above the first
func (r *DefaultRules) CalculateDamage(level, base int) int {
	if level < 1 {
		level = 1
	}
	return base + (level-1)*r.cfg.DamagePerLevel
}

// IsPlayerWinning reports whether the damage would defeat the target outright
func (r *DefaultRules) IsPlayerWinning(playerDamage, targetHealth int) bool {
	return playerDamage >= targetHealth
}

// CalculateGoldReward pays the win reward or the consolation reward
func (r *DefaultRules) CalculateGoldReward(won bool) int {
	if won {
		return r.cfg.WinReward
	}
	return r.cfg.LossReward
}
