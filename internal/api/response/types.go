package response

import (
	"time"

	"github.com/calram/skirmish/internal/model"
	"github.com/calram/skirmish/internal/services/account"
	"github.com/calram/skirmish/internal/services/combat"
)

// Player represents a player in API responses
type Player struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Level     int       `json:"level"`
	Gold      int       `json:"gold"`
	FighterID string    `json:"fighter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        string(p.ID),
		Address:   string(p.Address),
		Level:     p.Level,
		Gold:      p.Gold,
		FighterID: string(p.FighterID),
		CreatedAt: p.CreatedAt,
	}
}

// Fighter represents a space fighter in API responses
type Fighter struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	Health   int      `json:"health"`
	Damage   int      `json:"damage"`
	PilotID  string   `json:"pilot_id,omitempty"`
	Missiles []string `json:"missiles"`
}

// FighterFromModel converts a model.SpaceFighter to a response Fighter
func FighterFromModel(f *model.SpaceFighter) Fighter {
	missiles := make([]string, 0, len(f.Missiles))
	for _, id := range f.Missiles {
		missiles = append(missiles, string(id))
	}
	return Fighter{
		ID:       string(f.ID),
		OwnerID:  string(f.OwnerID),
		Health:   f.Health,
		Damage:   f.Damage,
		PilotID:  string(f.PilotID),
		Missiles: missiles,
	}
}

// Missile represents a missile in API responses
type Missile struct {
	ID        string `json:"id"`
	Damage    int    `json:"damage"`
	FighterID string `json:"fighter_id,omitempty"`
}

// MissileFromModel converts a model.Missile to a response Missile
func MissileFromModel(m *model.Missile) Missile {
	return Missile{
		ID:        string(m.ID),
		Damage:    m.Damage,
		FighterID: string(m.FighterID),
	}
}

// Account is the response for account creation. The two tokens appear here
// and nowhere else; they cannot be retrieved again.
type Account struct {
	Player     Player  `json:"player"`
	Fighter    Fighter `json:"fighter"`
	AdminToken string  `json:"admin_token"`
	OwnerToken string  `json:"owner_token"`
}

// AccountFromBundle creates an Account from a creation bundle
func AccountFromBundle(b *account.Bundle) Account {
	return Account{
		Player:     PlayerFromModel(b.Player),
		Fighter:    FighterFromModel(b.Fighter),
		AdminToken: b.AdminToken,
		OwnerToken: b.OwnerToken,
	}
}

// CombatOutcome is the response for a resolved engagement
type CombatOutcome struct {
	PlayerID      string `json:"player_id"`
	TargetFighter string `json:"target_fighter"`
	PlayerDamage  int    `json:"player_damage"`
	Won           bool   `json:"won"`
	GoldReward    int    `json:"gold_reward"`
	NewScore      int    `json:"new_score"`
}

// CombatOutcomeFromModel converts a combat.Outcome
func CombatOutcomeFromModel(o *combat.Outcome) CombatOutcome {
	return CombatOutcome{
		PlayerID:      string(o.PlayerID),
		TargetFighter: string(o.TargetFighter),
		PlayerDamage:  o.PlayerDamage,
		Won:           o.Won,
		GoldReward:    o.GoldReward,
		NewScore:      o.NewScore,
	}
}

// LeaderboardEntry represents one ranked player
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
}

// Leaderboard is the response for the leaderboard endpoint
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromEntries converts ranked entries to a response
func LeaderboardFromEntries(entries []model.LeaderboardEntry) Leaderboard {
	out := Leaderboard{Entries: make([]LeaderboardEntry, 0, len(entries))}
	for i, e := range entries {
		out.Entries = append(out.Entries, LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: string(e.PlayerID),
			Score:    e.Score,
		})
	}
	return out
}
