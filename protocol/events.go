package protocol

import "mystery-tiles/models"

// Inbound events (client -> server).
const (
	EventLogin        = "auth/_login"
	EventSubmitAnswer = "answer/_submit"
	EventTileClicked  = "tile/_click"
	EventMenuClicked  = "menu/_click"
	EventFetchTiles   = "titles/_fetch"
)

// Outbound events (server -> client).
const (
	EventUpdateGameStore   = "game/_update"
	EventUpdateStamina     = "stamina/_update"
	EventUpdateTile        = "tile/_update"
	EventSpawnPlayer       = "player/_spawn"
	EventRemovePlayer      = "player/_remove"
	EventInAppNotification = "in-app-notificaion"
	EventTilesSynced       = "tiles/_synced"
	EventRenderCanvas      = "canvas/_render"
	EventFocusOnGame       = "game/_focus"
	EventFocusOnMenu       = "menu/_focus"
	EventFocusOnPrize      = "prize/_focus"
)

// Menu ids carried by menu/_click.
const (
	MenuMain        = "menu"
	MenuHelp        = "help"
	MenuLeaderboard = "leaderboard"
	MenuProfile     = "profile"
	MenuSettings    = "settings"
	MenuPrizes      = "prizes"
	MenuGame        = "game"
)

type LoginRequest struct {
	Token string `json:"token"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer"`
}

type TileClickRequest struct {
	TileName string `json:"tileName"`
}

type MenuClickRequest struct {
	MenuID string `json:"menuId"`
}

// Animation tags shown with an attempt result.
type Animation string

const (
	AnimationNone    Animation = "none"
	AnimationCorrect Animation = "correct"
	AnimationWrong   Animation = "wrong"
	AnimationLate    Animation = "late"
)

type AttemptResult struct {
	Animation Animation `json:"animation"`
	Message   string    `json:"message"`
}

type QuizPrompt struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
}

// GameStorePatch is a sparse update of the client's game store. Nil fields are
// left untouched on the client.
type GameStorePatch struct {
	Stamina                 *int                       `json:"stamina,omitempty"`
	Score                   *int                       `json:"score,omitempty"`
	ShouldShowLoginModal    *bool                      `json:"shouldShowLoginModal,omitempty"`
	ShouldShowModalQuiz     *bool                      `json:"shouldShowModalQuiz,omitempty"`
	ShouldShowHelpModal     *bool                      `json:"shouldShowHelpModal,omitempty"`
	ShouldShowProfileModal  *bool                      `json:"shouldShowProfileModal,omitempty"`
	ShouldShowSettingsModal *bool                      `json:"shouldShowSettingsModal,omitempty"`
	ShouldShowLeaderBoard   *bool                      `json:"shouldShowLeaderBoard,omitempty"`
	IsQuestionSubmitting    *bool                      `json:"isQuestionSubmitting,omitempty"`
	CurrentQuiz             *QuizPrompt                `json:"currentQuiz,omitempty"`
	LastAttemptResult       *AttemptResult             `json:"lastAttemptResult,omitempty"`
	// Pointer so an empty board still encodes as [].
	LeaderBoard             *[]models.LeaderboardEntry `json:"leaderBoard,omitempty"`
}

type StaminaUpdate struct {
	Stamina int `json:"stamina"`
}

type TileUpdate struct {
	TileName      string `json:"tileName"`
	CoverImageURL string `json:"coverImageUrl"`
}

type RemovePlayer struct {
	UID string `json:"uid"`
}

type TilesSynced struct {
	Tiles []models.PublicTile `json:"tiles"`
}

// Tone is the severity of an in-app notification.
type Tone string

const (
	ToneInfo     Tone = "info"
	ToneSuccess  Tone = "success"
	ToneWarning  Tone = "warning"
	ToneCritical Tone = "critical"
)

type Notification struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
	TTL       int64  `json:"ttl"`
	Tone      Tone   `json:"tone"`
}

// Ptr is a small helper for building sparse patches.
func Ptr[T any](v T) *T {
	return &v
}
