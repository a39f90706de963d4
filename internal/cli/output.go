package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Account:
		o.printAccount(v)
	case Player:
		o.printPlayer(v)
	case Fighter:
		o.printFighter(v)
	case Missile:
		o.printMissile(v)
	case CombatOutcome:
		o.printCombatOutcome(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	Level     int    `json:"level"`
	Gold      int    `json:"gold"`
	FighterID string `json:"fighter_id"`
}

// Fighter response type
type Fighter struct {
	ID       string   `json:"id"`
	OwnerID  string   `json:"owner_id"`
	Health   int      `json:"health"`
	Damage   int      `json:"damage"`
	PilotID  string   `json:"pilot_id,omitempty"`
	Missiles []string `json:"missiles"`
}

// Missile response type
type Missile struct {
	ID        string `json:"id"`
	Damage    int    `json:"damage"`
	FighterID string `json:"fighter_id,omitempty"`
}

// Account response type: player, fighter, and the one-time tokens
type Account struct {
	Player     Player  `json:"player"`
	Fighter    Fighter `json:"fighter"`
	AdminToken string  `json:"admin_token"`
	OwnerToken string  `json:"owner_token"`
}

// CombatOutcome response type
type CombatOutcome struct {
	PlayerID      string `json:"player_id"`
	TargetFighter string `json:"target_fighter"`
	PlayerDamage  int    `json:"player_damage"`
	Won           bool   `json:"won"`
	GoldReward    int    `json:"gold_reward"`
	NewScore      int    `json:"new_score"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Score    int    `json:"score"`
}

// Leaderboard response type
type Leaderboard struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s\n", p.ID)
	fmt.Printf("Address: %s\n", p.Address)
	fmt.Printf("Level: %d\n", p.Level)
	fmt.Printf("Gold: %d\n", p.Gold)
	fmt.Printf("Fighter: %s\n", p.FighterID)
}

func (o *Output) printFighter(f Fighter) {
	fmt.Printf("Fighter: %s\n", f.ID)
	fmt.Printf("Owner: %s\n", f.OwnerID)
	fmt.Printf("Health: %d\n", f.Health)
	fmt.Printf("Damage: %d\n", f.Damage)
	if f.PilotID != "" {
		fmt.Printf("Pilot: %s\n", f.PilotID)
	}
	if len(f.Missiles) == 0 {
		fmt.Println("Missiles: none")
	} else {
		fmt.Printf("Missiles (%d): %s\n", len(f.Missiles), strings.Join(f.Missiles, ", "))
	}
}

func (o *Output) printMissile(m Missile) {
	fmt.Printf("Missile: %s\n", m.ID)
	fmt.Printf("Damage: %d\n", m.Damage)
	if m.FighterID != "" {
		fmt.Printf("Attached to: %s\n", m.FighterID)
	} else {
		fmt.Println("Attached to: (free-standing)")
	}
}

func (o *Output) printAccount(a Account) {
	o.printPlayer(a.Player)
	fmt.Println()
	o.printFighter(a.Fighter)
	fmt.Println()
	fmt.Printf("Owner token: %s\n", a.OwnerToken)
	fmt.Printf("Admin token: %s\n", a.AdminToken)
	fmt.Println("Keep these tokens safe; they cannot be retrieved again.")
}

func (o *Output) printCombatOutcome(c CombatOutcome) {
	result := "LOSS"
	if c.Won {
		result = "WIN"
	}
	fmt.Printf("Result: %s\n", result)
	fmt.Printf("Player: %s\n", c.PlayerID)
	fmt.Printf("Target fighter: %s\n", c.TargetFighter)
	fmt.Printf("Damage dealt: %d\n", c.PlayerDamage)
	fmt.Printf("Gold reward: %d\n", c.GoldReward)
	fmt.Printf("Score: %d\n", c.NewScore)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	fmt.Println("Leaderboard:")
	for _, e := range l.Entries {
		fmt.Printf("  %d. %s - %d\n", e.Rank, e.PlayerID, e.Score)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
