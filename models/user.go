package models

// User is a player record. Created on first successful login and never deleted.
// Score only grows; Stamina stays within [0, max stamina].
type User struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	Picture      string `json:"picture"`
	Score        int    `json:"score"`
	Stamina      int    `json:"stamina"`
	CreationTime int64  `json:"creationTime"` // unix millis
}

// Player is the public shape of a user used for spawn events.
type Player struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AsPlayer strips private fields.
func (u User) AsPlayer() Player {
	return Player{UID: u.UID, Name: u.DisplayName, Picture: u.Picture}
}
