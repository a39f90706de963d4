package request

// CreateAccountRequest is the request body for creating an account
type CreateAccountRequest struct {
	Address string `json:"address"`
}

// AttachMissileRequest is the request body for attaching a missile to a fighter
type AttachMissileRequest struct {
	MissileID string `json:"missile_id"`
}

// UpgradeFighterRequest is the request body for upgrading a fighter
type UpgradeFighterRequest struct {
	PlayerID string `json:"player_id"`
}

// AwardGoldRequest is the request body for awarding gold to a player
type AwardGoldRequest struct {
	Amount int `json:"amount"`
}

// ResolveCombatRequest is the request body for resolving a combat engagement
type ResolveCombatRequest struct {
	PlayerID        string `json:"player_id"`
	TargetFighterID string `json:"target_fighter_id"`
}
