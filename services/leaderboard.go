package services

import (
	"sort"

	"mystery-tiles/models"
)

// Leaderboard lists users with a positive score, best first.
//
// Ranking divides score by account creation time (unix millis), not by time
// played, so newer accounts rank higher at equal score.
func Leaderboard(users []models.User) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		if u.Score <= 0 {
			continue
		}
		entries = append(entries, models.LeaderboardEntry{
			Name:         u.DisplayName,
			Score:        u.Score,
			Picture:      u.Picture,
			CreationTime: u.CreationTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return rankRatio(entries[i]) > rankRatio(entries[j])
	})
	return entries
}

func rankRatio(e models.LeaderboardEntry) float64 {
	created := e.CreationTime
	if created <= 0 {
		created = 1
	}
	return float64(e.Score) / float64(created)
}
