package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Lifecycle events
	EventPlayerCreated EventType = "player_created"

	// Inventory and economy events
	EventMissileAttached EventType = "missile_attached"
	EventUpgradeApplied  EventType = "upgrade_applied"
	EventGoldAwarded     EventType = "gold_awarded"

	// Combat events
	EventCombatResolved EventType = "combat_resolved"
	EventScoreUpdated   EventType = "score_updated"
)

// Event is the base structure for all domain events. Events are emitted
// strictly after a mutation commits; they are best-effort telemetry and never
// part of the consistency contract.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  PlayerID  `json:"player_id,omitempty"`
	Payload   any       `json:"payload,omitempty"`
}

// PlayerCreatedPayload contains data for player created events
type PlayerCreatedPayload struct {
	PlayerID  PlayerID  `json:"player_id"`
	FighterID FighterID `json:"fighter_id"`
	Address   Address   `json:"address"`
}

// MissileAttachedPayload contains data for missile attached events
type MissileAttachedPayload struct {
	FighterID    FighterID `json:"fighter_id"`
	MissileID    MissileID `json:"missile_id"`
	MissileCount int       `json:"missile_count"`
}

// UpgradeAppliedPayload contains data for upgrade applied events
type UpgradeAppliedPayload struct {
	FighterID FighterID `json:"fighter_id"`
	NewHealth int       `json:"new_health"`
	NewDamage int       `json:"new_damage"`
}

// GoldAwardedPayload contains data for gold awarded events
type GoldAwardedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Amount   int      `json:"amount"`
	NewGold  int      `json:"new_gold"`
}

// CombatResolvedPayload contains data for combat resolved events
type CombatResolvedPayload struct {
	PlayerID      PlayerID  `json:"player_id"`
	TargetFighter FighterID `json:"target_fighter"`
	PlayerDamage  int       `json:"player_damage"`
	Won           bool      `json:"won"`
	GoldReward    int       `json:"gold_reward"`
}

// ScoreUpdatedPayload contains data for score updated events
type ScoreUpdatedPayload struct {
	PlayerID PlayerID `json:"player_id"`
	Score    int      `json:"score"`
}
