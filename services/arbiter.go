package services

import (
	"log"
	"slices"

	"mystery-tiles/models"
	"mystery-tiles/protocol"
	"mystery-tiles/repository"
	"mystery-tiles/utils"
)

// Outcome of an answered attempt.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeLate    Outcome = "late"
)

// Animation maps the outcome to the client's result animation.
func (o Outcome) Animation() protocol.Animation {
	switch o {
	case OutcomeCorrect:
		return protocol.AnimationCorrect
	case OutcomeWrong:
		return protocol.AnimationWrong
	case OutcomeLate:
		return protocol.AnimationLate
	default:
		return protocol.AnimationNone
	}
}

// ClaimResult is what a successful claim hands back to the connection.
type ClaimResult struct {
	TileName string
	Stamina  int
	Prompt   protocol.QuizPrompt
}

// Resolution is the result of an answer submission.
type Resolution struct {
	Outcome  Outcome
	TileName string

	// Set for OutcomeLate.
	AwardeeName string

	// Set for OutcomeCorrect.
	CoverImageURL string
	Score         int
	Winner        Identity
}

// Arbiter runs the claim → quiz → award state machine. Every check-and-mutate
// happens inside a single Store.Update so two connections racing for the same
// tile cannot both win.
type Arbiter struct {
	store    *repository.Store
	sessions *SessionRegistry
	attempts *AttemptTable
	cost     int
}

func NewArbiter(store *repository.Store, sessions *SessionRegistry, attempts *AttemptTable, staminaCost int) *Arbiter {
	return &Arbiter{store: store, sessions: sessions, attempts: attempts, cost: staminaCost}
}

// Claim debits stamina, picks a random quiz and records the attempt. A rejected
// claim leaves the client's previous attempt untouched.
func (a *Arbiter) Claim(c *Client, tileName string) (*ClaimResult, error) {
	id, ok := a.sessions.Lookup(c.ID)
	if !ok {
		return nil, ErrAuthRequired
	}

	var (
		quiz    models.Quiz
		stamina int
	)
	err := a.store.Update(func(doc *models.Document) error {
		tile := doc.FindTile(tileName)
		if tile == nil {
			return ErrTileNotFound
		}
		if tile.Awarded() {
			return &AlreadyClaimedError{TileName: tileName, AwardeeName: awardeeName(doc, tile.AwardeeUID)}
		}
		user := doc.FindUser(id.UID)
		if user == nil {
			return ErrUserNotFound
		}
		if user.Stamina <= a.cost {
			return &InsufficientStaminaError{Stamina: user.Stamina, Cost: a.cost}
		}
		if len(doc.Quizzes) == 0 {
			return ErrNoQuizzes
		}

		quiz = doc.Quizzes[utils.PickIndex(len(doc.Quizzes))]
		quiz.Choices = slices.Clone(quiz.Choices)
		user.Stamina -= a.cost
		stamina = user.Stamina
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := a.attempts.Record(c, Attempt{TileName: tileName, QuizName: quiz.Name}); err != nil {
		log.Printf("[ARBITER] Client %s closed during claim of %s; stamina already spent", c.ID, tileName)
		return nil, err
	}

	return &ClaimResult{
		TileName: tileName,
		Stamina:  stamina,
		Prompt: protocol.QuizPrompt{
			Question: quiz.Question,
			Choices:  utils.Shuffled(quiz.Choices),
		},
	}, nil
}

// Answer consumes the client's attempt and resolves it. The tile is checked
// again inside the award update: whoever enters second sees it awarded and
// resolves late.
func (a *Arbiter) Answer(c *Client, answer string) (*Resolution, error) {
	id, ok := a.sessions.Lookup(c.ID)
	if !ok {
		return nil, ErrAuthRequired
	}
	attempt, ok := a.attempts.Take(c.ID)
	if !ok {
		return nil, ErrNoActiveAttempt
	}

	res := &Resolution{TileName: attempt.TileName}
	err := a.store.Update(func(doc *models.Document) error {
		tile := doc.FindTile(attempt.TileName)
		if tile == nil {
			return &ConsistencyError{Op: "answer", Err: ErrTileNotFound}
		}
		if tile.Awarded() {
			res.Outcome = OutcomeLate
			res.AwardeeName = awardeeName(doc, tile.AwardeeUID)
			return nil
		}
		quiz := doc.FindQuiz(attempt.QuizName)
		if quiz == nil {
			return &ConsistencyError{Op: "answer", Err: ErrQuizNotFound}
		}
		user := doc.FindUser(id.UID)
		if user == nil {
			return &ConsistencyError{Op: "answer", Err: ErrUserNotFound}
		}
		if !quiz.IsCorrect(answer) {
			res.Outcome = OutcomeWrong
			return nil
		}

		tile.AwardeeUID = user.UID
		tile.AwardeeAvatarURL = id.Picture
		tile.CoverImageURL = tile.UnveiledImageURL
		user.Score++

		res.Outcome = OutcomeCorrect
		res.CoverImageURL = tile.CoverImageURL
		res.Score = user.Score
		res.Winner = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ARBITER] %s answered tile %s: %s", id.UID, attempt.TileName, res.Outcome)
	return res, nil
}

// Discard drops the client's pending attempt, if any.
func (a *Arbiter) Discard(clientID string) {
	a.attempts.Discard(clientID)
}

func awardeeName(doc *models.Document, uid string) string {
	if u := doc.FindUser(uid); u != nil {
		return u.DisplayName
	}
	return ""
}
