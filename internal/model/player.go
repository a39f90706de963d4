package model

import "time"

// Address is the authenticated identity of a caller (account address)
type Address string

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player is a game participant and the ledger of their resources.
// The fighter is a separately addressable object: Player holds its id,
// never a direct pointer.
type Player struct {
	ID        PlayerID
	Address   Address // identity the ownership capability is bound to
	Level     int     // >= 1
	Gold      int     // >= 0; a deduction that would underflow fails the whole operation
	FighterID FighterID
	CreatedAt time.Time
	UpdatedAt time.Time
}
