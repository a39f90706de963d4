package model

import "time"

// MissileID uniquely identifies a missile
type MissileID string

// Missile is a consumable attachment. Damage is fixed at mint time; the only
// mutation after creation is the move into a fighter's inventory, recorded as
// the FighterID back-link.
type Missile struct {
	ID        MissileID
	Damage    int
	FighterID FighterID // empty while free-standing
	CreatedAt time.Time
}

// Attached reports whether the missile has been moved into a fighter's inventory
func (m *Missile) Attached() bool {
	return m.FighterID != ""
}
