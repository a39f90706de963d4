package model

import "time"

// FighterID uniquely identifies a space fighter
type FighterID string

// SpaceFighter is a player's combat unit. It carries a bounded, order-preserving
// missile inventory and back-links to its owning player.
type SpaceFighter struct {
	ID        FighterID
	OwnerID   PlayerID
	Health    int      // >= 0; only increases via upgrades in this core
	Damage    int      // >= 0; only increases via upgrades in this core
	PilotID   PlayerID // optional; empty when no pilot is assigned
	Missiles  []MissileID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacity reports whether the fighter can take another missile
func (f *SpaceFighter) HasCapacity(max int) bool {
	return len(f.Missiles) < max
}
