package models

// LeaderboardEntry is a row of the leaderboard patch.
type LeaderboardEntry struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	Picture      string `json:"picture"`
	CreationTime int64  `json:"creationTime"`
}
