package model

import "time"

// CapabilityID uniquely identifies an issued capability
type CapabilityID string

// CapabilityKind distinguishes the two authorization roles
type CapabilityKind string

const (
	// CapabilityAdmin marks the administrative capability, authorized for
	// privileged operations such as fighter upgrades
	CapabilityAdmin CapabilityKind = "admin"
	// CapabilityOwner marks the per-player ownership capability, bound to the
	// address that created the account
	CapabilityOwner CapabilityKind = "owner"
)

// Capability is the stored half of an issued capability token. The secret half
// is returned to the caller exactly once at issue time and never stored in the
// clear; only a keyed digest is kept, so a storage dump cannot be replayed as
// proof of possession.
type Capability struct {
	ID           CapabilityID
	Kind         CapabilityKind
	PlayerID     PlayerID
	BoundAddress Address // set for owner capabilities
	SecretHash   []byte
	CreatedAt    time.Time
}
