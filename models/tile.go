package models

// Tile is a single-award piece of the board. CoverImageURL is what clients see;
// it starts as the hidden image and is swapped to UnveiledImageURL on award.
//
// AwardeeUID is set exactly once and never cleared.
type Tile struct {
	Name             string `json:"name"`
	CoverImageURL    string `json:"coverImageUrl"`
	UnveiledImageURL string `json:"unveiledImageUrl,omitempty"`
	AwardeeAvatarURL string `json:"awardeeAvatarUrl,omitempty"`
	AwardeeUID       string `json:"awardeeUid,omitempty"`
}

// Awarded reports whether the tile has been claimed.
func (t Tile) Awarded() bool {
	return t.AwardeeUID != ""
}

// PublicTile is what tiles/_synced exposes. The awardee uid never leaves the server.
type PublicTile struct {
	Name             string `json:"name"`
	CoverImageURL    string `json:"coverImageUrl"`
	AwardeeAvatarURL string `json:"awardeeAvatarUrl,omitempty"`
}

// Public returns the client-facing view of the tile.
func (t Tile) Public() PublicTile {
	return PublicTile{
		Name:             t.Name,
		CoverImageURL:    t.CoverImageURL,
		AwardeeAvatarURL: t.AwardeeAvatarURL,
	}
}
