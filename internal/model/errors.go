package model

import "errors"

// Common errors used across the application
var (
	// Authorization errors
	ErrUnauthorized = errors.New("capability does not authorize this caller")

	// Inventory errors
	ErrInventoryFull   = errors.New("fighter missile inventory is full")
	ErrMissileAttached = errors.New("missile is already attached to a fighter")

	// Economy errors
	ErrInsufficientGold = errors.New("player does not have enough gold")
	ErrInvalidReward    = errors.New("reward amount must not be negative")

	// Lookup errors
	ErrPlayerNotFound     = errors.New("player not found")
	ErrFighterNotFound    = errors.New("fighter not found")
	ErrMissileNotFound    = errors.New("missile not found")
	ErrCapabilityNotFound = errors.New("capability not found")
)
