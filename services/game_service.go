package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"runtime/debug"
	"strings"
	"time"

	"mystery-tiles/models"
	"mystery-tiles/protocol"
	"mystery-tiles/repository"
	"mystery-tiles/utils"

	"github.com/google/uuid"
)

// GameConfig carries the tunables the dispatcher needs.
type GameConfig struct {
	MaxStamina          int
	StaminaRecoveryRate int
	RecoveryInterval    time.Duration
	SpawnListCap        int
	NotificationTTL     time.Duration
}

// GameService turns inbound connection events into registry, arbiter and
// store operations, and reports every outcome through the gateway. Each
// handler converts its errors into notifications; only auth failures close
// the connection.
type GameService struct {
	store    *repository.Store
	auth     *Authenticator
	sessions *SessionRegistry
	arbiter  *Arbiter
	gateway  *Gateway
	messages *Messages
	cfg      GameConfig
	now      func() time.Time
}

type GameDeps struct {
	Store         *repository.Store
	Authenticator *Authenticator
	Sessions      *SessionRegistry
	Arbiter       *Arbiter
	Gateway       *Gateway
	Messages      *Messages
}

func NewGameService(deps GameDeps, cfg GameConfig) *GameService {
	return &GameService{
		store:    deps.Store,
		auth:     deps.Authenticator,
		sessions: deps.Sessions,
		arbiter:  deps.Arbiter,
		gateway:  deps.Gateway,
		messages: deps.Messages,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Connect registers a new connection and resets the client's view.
func (g *GameService) Connect(conn Conn) *Client {
	c := NewClient(conn)
	g.gateway.Register(c)

	g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
		CurrentQuiz:          &protocol.QuizPrompt{Question: "", Choices: []string{}},
		IsQuestionSubmitting: protocol.Ptr(false),
		ShouldShowModalQuiz:  protocol.Ptr(false),
		LastAttemptResult:    &protocol.AttemptResult{Animation: protocol.AnimationNone},
	})
	g.gateway.Send(c.ID, protocol.EventRenderCanvas, nil)
	return c
}

// Disconnect tears down the connection's session and attempt. Safe to call twice.
func (g *GameService) Disconnect(c *Client) {
	if !c.markClosed() {
		return
	}
	g.gateway.Unregister(c.ID)
	id, _ := g.sessions.Remove(c.ID)
	g.arbiter.Discard(c.ID)

	g.gateway.Broadcast(protocol.EventRemovePlayer, protocol.RemovePlayer{UID: id.UID}, c.ID)
	log.Printf("[WS] Client %s disconnected (uid=%q)", c.ID, id.UID)
}

// HandleFrame decodes one inbound frame and dispatches it. A panic in a
// handler is reported to the client as a generic failure.
func (g *GameService) HandleFrame(ctx context.Context, c *Client, frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WS] ❌ Panic handling frame from %s: %v\n%s", c.ID, r, debug.Stack())
			g.notify(c.ID, g.messages.Sprintf(MsgGenericFailure), protocol.ToneCritical)
		}
	}()

	env, err := protocol.DecodeEnvelope(frame)
	if err != nil {
		log.Printf("[WS] ⚠️ Bad frame from %s: %v", c.ID, err)
		g.notify(c.ID, g.messages.Sprintf(MsgGenericFailure), protocol.ToneCritical)
		return
	}

	switch env.T {
	case protocol.EventLogin:
		token, err := decodeLoginToken(env)
		if err != nil {
			g.fail(c, ErrInvalidToken)
			return
		}
		_ = g.Login(ctx, c, token)
	case protocol.EventTileClicked:
		req, err := protocol.DecodePayload[protocol.TileClickRequest](env)
		if err != nil {
			g.fail(c, ErrTileNotFound)
			return
		}
		g.ClickTile(c, req.TileName)
	case protocol.EventSubmitAnswer:
		req, err := protocol.DecodePayload[protocol.SubmitAnswerRequest](env)
		if err != nil {
			log.Printf("[WS] ⚠️ Bad answer payload from %s: %v", c.ID, err)
			g.arbiter.Discard(c.ID)
			g.fail(c, err)
			g.closeQuiz(c)
			return
		}
		g.SubmitAnswer(c, req.Answer)
	case protocol.EventMenuClicked:
		req, err := protocol.DecodePayload[protocol.MenuClickRequest](env)
		if err != nil {
			log.Printf("[WS] ⚠️ Bad menu payload from %s: %v", c.ID, err)
			g.notify(c.ID, g.messages.Sprintf(MsgGenericFailure), protocol.ToneCritical)
			return
		}
		g.ClickMenu(c, req.MenuID)
	case protocol.EventFetchTiles:
		g.SyncTiles(c)
	default:
		log.Printf("[WS] Ignoring unknown event %q from %s", env.T, c.ID)
	}
}

// decodeLoginToken accepts either a bare JSON string or {"token": "..."}.
func decodeLoginToken(env protocol.Envelope) (string, error) {
	var raw string
	if err := json.Unmarshal(env.P, &raw); err == nil {
		return raw, nil
	}
	req, err := protocol.DecodePayload[protocol.LoginRequest](env)
	if err != nil {
		return "", err
	}
	return req.Token, nil
}

// Login verifies the token, binds the session and creates the user on first login.
func (g *GameService) Login(ctx context.Context, c *Client, token string) error {
	id, err := g.auth.Authenticate(ctx, token)
	if err != nil {
		g.fail(c, err)
		return err
	}

	if err := g.sessions.Register(c, *id); err != nil {
		log.Printf("[SESSION] Client %s closed before login of %s completed", c.ID, id.UID)
		return err
	}

	user, created, err := g.ensureUser(*id)
	if err != nil {
		log.Printf("[SESSION] ❌ Failed to load user %s: %v", id.UID, err)
		g.notify(c.ID, g.messages.Sprintf(MsgAuthError), protocol.ToneCritical)
		_ = c.Close()
		return err
	}
	if created {
		log.Printf("[SESSION] ✅ Created user %s (%s)", user.UID, user.Email)
	}
	log.Printf("[SESSION] ✅ Client %s logged in as %s", c.ID, user.UID)

	g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
		ShouldShowLoginModal: protocol.Ptr(false),
		Stamina:              protocol.Ptr(user.Stamina),
		Score:                protocol.Ptr(user.Score),
	})
	g.notify(c.ID, g.messages.Sprintf(MsgWelcome), protocol.ToneInfo)

	g.gateway.Broadcast(protocol.EventSpawnPlayer, user.AsPlayer(), c.ID)
	for _, p := range g.spawnList() {
		g.gateway.Send(c.ID, protocol.EventSpawnPlayer, p)
	}
	return nil
}

// ensureUser finds or creates the user in a single update, so two connections
// logging in with the same identity cannot both create it.
func (g *GameService) ensureUser(id Identity) (models.User, bool, error) {
	var (
		user    models.User
		created bool
	)
	err := g.store.Update(func(doc *models.Document) error {
		if u := doc.FindUser(id.UID); u != nil {
			user = *u
			return nil
		}
		user = models.User{
			UID:          id.UID,
			Email:        id.Email,
			DisplayName:  id.Name,
			Picture:      id.Picture,
			Score:        0,
			Stamina:      g.cfg.MaxStamina,
			CreationTime: g.now().UnixMilli(),
		}
		doc.Users = append(doc.Users, user)
		created = true
		return nil
	})
	return user, created, err
}

// spawnList is a shuffled sample of players, capped to bound the login burst.
func (g *GameService) spawnList() []models.Player {
	var players []models.Player
	g.store.View(func(doc *models.Document) {
		players = make([]models.Player, 0, len(doc.Users))
		for _, u := range doc.Users {
			players = append(players, u.AsPlayer())
		}
	})
	players = utils.Shuffled(players)
	if len(players) > g.cfg.SpawnListCap {
		players = players[:g.cfg.SpawnListCap]
	}
	return players
}

// ClickTile starts a claim and shows the quiz.
func (g *GameService) ClickTile(c *Client, tileName string) {
	res, err := g.arbiter.Claim(c, normalizeTileName(tileName))
	if err != nil {
		g.fail(c, err)
		return
	}

	g.gateway.Send(c.ID, protocol.EventUpdateStamina, protocol.StaminaUpdate{Stamina: res.Stamina})
	g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
		ShouldShowModalQuiz: protocol.Ptr(true),
		Stamina:             protocol.Ptr(res.Stamina),
		LastAttemptResult:   &protocol.AttemptResult{Animation: protocol.AnimationNone},
		CurrentQuiz:         &res.Prompt,
	})
}

// SubmitAnswer resolves the pending attempt and fans out a win.
func (g *GameService) SubmitAnswer(c *Client, answer string) {
	res, err := g.arbiter.Answer(c, answer)
	if err != nil {
		g.fail(c, err)
		g.closeQuiz(c)
		return
	}

	switch res.Outcome {
	case OutcomeLate:
		name := res.AwardeeName
		if name == "" {
			name = g.messages.Sprintf(MsgAnotherPlayer)
		}
		g.showAttemptResult(c, res.Outcome, g.messages.Sprintf(MsgLate, name))
	case OutcomeWrong:
		g.showAttemptResult(c, res.Outcome, g.messages.WrongAnswer())
	case OutcomeCorrect:
		g.showAttemptResult(c, res.Outcome, g.messages.Congratulation())
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
			IsQuestionSubmitting: protocol.Ptr(false),
			Score:                protocol.Ptr(res.Score),
		})

		winner := g.messages.Sprintf(MsgPlayerOpenedTile, res.Winner.Name)
		g.notify(c.ID, winner, protocol.ToneSuccess)
		g.gateway.NotifyOthers(c.ID, g.notification(winner, protocol.ToneSuccess))

		g.gateway.Broadcast(protocol.EventUpdateTile, protocol.TileUpdate{
			TileName:      res.TileName,
			CoverImageURL: res.CoverImageURL,
		}, "")
	}
}

// ClickMenu handles navigation. Only the profile menu needs a session.
func (g *GameService) ClickMenu(c *Client, menuID string) {
	switch menuID {
	case protocol.MenuMain:
		g.gateway.Send(c.ID, protocol.EventFocusOnMenu, nil)
	case protocol.MenuHelp:
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{ShouldShowHelpModal: protocol.Ptr(true)})
	case protocol.MenuLeaderboard:
		board := g.Leaderboard()
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
			ShouldShowLeaderBoard: protocol.Ptr(true),
			LeaderBoard:           &board,
		})
	case protocol.MenuProfile:
		if !g.sessions.IsAuthenticated(c.ID) {
			g.fail(c, ErrAuthRequired)
			return
		}
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{ShouldShowProfileModal: protocol.Ptr(true)})
	case protocol.MenuSettings:
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{ShouldShowSettingsModal: protocol.Ptr(true)})
	case protocol.MenuPrizes:
		g.gateway.Send(c.ID, protocol.EventFocusOnPrize, nil)
	case protocol.MenuGame:
		g.gateway.Send(c.ID, protocol.EventFocusOnGame, nil)
		g.SyncTiles(c)
	default:
		log.Printf("[WS] Ignoring unknown menu %q from %s", menuID, c.ID)
	}
}

// SyncTiles sends the full public tile list.
func (g *GameService) SyncTiles(c *Client) {
	g.gateway.Send(c.ID, protocol.EventTilesSynced, protocol.TilesSynced{Tiles: g.PublicTiles()})
}

// PublicTiles lists tiles without awardee uids.
func (g *GameService) PublicTiles() []models.PublicTile {
	var tiles []models.PublicTile
	g.store.View(func(doc *models.Document) {
		tiles = make([]models.PublicTile, 0, len(doc.Tiles))
		for _, t := range doc.Tiles {
			tiles = append(tiles, t.Public())
		}
	})
	return tiles
}

func (g *GameService) Leaderboard() []models.LeaderboardEntry {
	var users []models.User
	g.store.View(func(doc *models.Document) {
		users = append([]models.User(nil), doc.Users...)
	})
	return Leaderboard(users)
}

// Stats counts open connections and logged-in sessions.
type Stats struct {
	Connections int
	Sessions    int
}

func (g *GameService) Stats() Stats {
	return Stats{Connections: g.gateway.Count(), Sessions: g.sessions.Count()}
}

// fail reports err to the connection. Auth errors also close it.
func (g *GameService) fail(c *Client, err error) {
	var (
		claimed *AlreadyClaimedError
		low     *InsufficientStaminaError
	)

	switch {
	case IsAuthError(err):
		log.Printf("[AUTH] ❌ Client %s rejected: %v", c.ID, err)
		g.notify(c.ID, g.messages.Sprintf(authMessage(err)), protocol.ToneCritical)
		_ = c.Close()
	case errors.Is(err, ErrAuthRequired):
		g.notify(c.ID, g.messages.Sprintf(MsgLoginRequired), protocol.ToneCritical)
		g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{ShouldShowLoginModal: protocol.Ptr(true)})
	case errors.As(err, &claimed):
		name := claimed.AwardeeName
		if name == "" {
			name = g.messages.Sprintf(MsgAnotherPlayer)
		}
		g.notify(c.ID, g.messages.Sprintf(MsgTileAlreadyOpened, name), protocol.ToneWarning)
	case errors.As(err, &low):
		g.notify(c.ID, g.messages.Sprintf(MsgInsufficientStamina,
			low.Stamina, g.cfg.StaminaRecoveryRate, recoveryMinutes(g.cfg.RecoveryInterval), g.cfg.MaxStamina), protocol.ToneWarning)
	case errors.Is(err, ErrTileNotFound):
		g.notify(c.ID, g.messages.Sprintf(MsgTileNotFound), protocol.ToneCritical)
	case errors.Is(err, ErrNoActiveAttempt):
		g.notify(c.ID, g.messages.Sprintf(MsgNoActiveAttempt), protocol.ToneCritical)
	case errors.Is(err, ErrNoQuizzes):
		g.notify(c.ID, g.messages.Sprintf(MsgNoQuizzes), protocol.ToneWarning)
	case IsConsistencyFault(err):
		log.Printf("[ARBITER] ❌ Anomaly for client %s: %v", c.ID, err)
		g.notify(c.ID, g.messages.Sprintf(MsgGenericFailure), protocol.ToneCritical)
	case errors.Is(err, ErrUserNotFound):
		g.notify(c.ID, g.messages.Sprintf(MsgUserNotFound), protocol.ToneCritical)
	case errors.Is(err, ErrConnectionClosed):
		// nobody left to tell
	default:
		log.Printf("[WS] ❌ Unexpected error for client %s: %v", c.ID, err)
		g.notify(c.ID, g.messages.Sprintf(MsgGenericFailure), protocol.ToneCritical)
	}
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, ErrUnverifiedContact):
		return MsgEmailNotVerified
	case errors.Is(err, ErrDomainNotAllowed):
		return MsgEmailNotAllowed
	default:
		return MsgInvalidToken
	}
}

func (g *GameService) showAttemptResult(c *Client, outcome Outcome, msg string) {
	g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
		IsQuestionSubmitting: protocol.Ptr(false),
		LastAttemptResult:    &protocol.AttemptResult{Animation: outcome.Animation(), Message: msg},
	})
}

func (g *GameService) closeQuiz(c *Client) {
	g.gateway.Send(c.ID, protocol.EventUpdateGameStore, protocol.GameStorePatch{
		ShouldShowModalQuiz:  protocol.Ptr(false),
		IsQuestionSubmitting: protocol.Ptr(false),
	})
}

func (g *GameService) notification(msg string, tone protocol.Tone) protocol.Notification {
	return protocol.Notification{
		ID:        uuid.NewString(),
		Message:   msg,
		Timestamp: g.now().UnixMilli(),
		TTL:       g.cfg.NotificationTTL.Milliseconds(),
		Tone:      tone,
	}
}

func (g *GameService) notify(clientID, msg string, tone protocol.Tone) {
	g.gateway.Notify(clientID, g.notification(msg, tone))
}

// recoveryMinutes rounds the stamina interval up to whole minutes, never below one.
func recoveryMinutes(d time.Duration) int {
	return max(1, int(math.Ceil(d.Minutes())))
}

// normalizeTileName trims stray whitespace some clients send with tile ids.
func normalizeTileName(name string) string {
	return strings.TrimSpace(name)
}
