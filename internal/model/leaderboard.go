package model

// LeaderboardEntry is the unit the core hands to the external ranking
// structure after score-relevant events
type LeaderboardEntry struct {
	PlayerID PlayerID `json:"player_id"`
	Score    int      `json:"score"`
}
