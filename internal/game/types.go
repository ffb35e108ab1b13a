// internal/game/types.go
//
// Core type definitions for the puzzle session.
// Defines:
//   - Status:   derived session state (in progress / solved / exhausted).
//   - Outcome:  result of one submitted guess.
//   - Mark:     per-slot result used for the share summary.
//   - Overlay:  shape + colour token handed to the map renderer.

package game

import (
	"context"
	"errors"

	"github.com/robalobadob/routle/internal/routes"
)

// DefaultMaxGuesses is the attempt budget per PuzzleDay.
const DefaultMaxGuesses = 5

// Status is the session state. Solved and Exhausted are terminal.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSolved     Status = "solved"
	StatusExhausted  Status = "exhausted"
)

// Outcome is what a caller reacts to after Submit.
type Outcome string

const (
	OutcomeCorrect        Outcome = "correct"
	OutcomeIncorrectRetry Outcome = "incorrect_retry" // wrong, attempts remain
	OutcomeIncorrectFinal Outcome = "incorrect_final" // wrong, budget now spent
	OutcomeRejected       Outcome = "rejected"        // invalid input, nothing changed
)

// Mark is one slot of the share summary.
//   - "hit":   the guess in this slot was the answer.
//   - "miss":  the guess in this slot was wrong.
//   - "empty": the slot was never used.
type Mark string

const (
	MarkHit   Mark = "hit"
	MarkMiss  Mark = "miss"
	MarkEmpty Mark = "empty"
)

// Colour tokens for map overlays.
const (
	ColorAnswer = "#bf2b45"
	ColorGuess  = "#005695"
)

// Rejection reasons. Each leaves the session and ledger untouched.
var (
	ErrGameOver       = errors.New("game over")
	ErrUnknownRoute   = errors.New("unknown route")
	ErrDuplicateGuess = errors.New("already guessed")
)

// Overlay is a route shape the renderer should draw.
type Overlay struct {
	Route  routes.Route
	Color  string
	Answer bool // true for the puzzle shape itself
}

// Renderer receives drawing instructions. The core never draws anything.
type Renderer interface {
	OnAnswerSelected(o Overlay)
	OnGuessAdded(o Overlay)
}

// Recorder persists accepted guesses; *ledger.Ledger satisfies it.
type Recorder interface {
	AddGuess(ctx context.Context, id string) error
}
