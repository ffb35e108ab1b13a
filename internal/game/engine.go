// internal/game/engine.go
//
// Puzzle session state machine.
// Responsibilities:
//   - Hold today's answer and the ordered guess history.
//   - Validate guesses (known route, not repeated, session not over).
//   - Persist accepted guesses through a Recorder before applying them.
//   - Derive status: solved when the answer was guessed, exhausted when the
//     budget is spent, in progress otherwise.
//   - Emit overlays to a Renderer and build the share summary.
//
// A Session is cheap and built per interaction from the ledger's current
// guesses; once terminal it refuses every further guess for the rest of the day.

package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/routes"
)

// Config carries everything a session needs.
type Config struct {
	Day        daily.PuzzleDay
	Answer     routes.Route
	Catalog    *routes.Catalog
	MaxGuesses int      // <= 0 means DefaultMaxGuesses
	Guesses    []string // restored from the ledger, oldest first
	Ledger     Recorder // optional
	Renderer   Renderer // optional
}

// Session is one player's puzzle for one day.
type Session struct {
	day      daily.PuzzleDay
	answer   routes.Route
	catalog  *routes.Catalog
	max      int
	guesses  []string
	seen     mapset.Set[string]
	ledger   Recorder
	renderer Renderer
}

// New builds a session and replays the answer and any restored guesses to the
// renderer. Restored histories are taken as-is, even when they hold ids the
// current catalog no longer knows.
func New(cfg Config) *Session {
	limit := cfg.MaxGuesses
	if limit <= 0 {
		limit = DefaultMaxGuesses
	}
	s := &Session{
		day:      cfg.Day,
		answer:   cfg.Answer,
		catalog:  cfg.Catalog,
		max:      limit,
		guesses:  append([]string{}, cfg.Guesses...),
		seen:     mapset.New[string](),
		ledger:   cfg.Ledger,
		renderer: cfg.Renderer,
	}
	for _, g := range s.guesses {
		s.seen.Put(g)
	}

	if s.renderer != nil {
		s.renderer.OnAnswerSelected(Overlay{Route: s.answer, Color: ColorAnswer, Answer: true})
		for _, g := range s.guesses {
			s.emitGuess(g)
		}
	}
	return s
}

// Submit validates and applies one guess.
//
// Rejections return OutcomeRejected with ErrGameOver, ErrUnknownRoute or
// ErrDuplicateGuess and change nothing. A ledger failure is returned as-is and
// also leaves the session unchanged.
func (s *Session) Submit(ctx context.Context, id string) (Outcome, error) {
	if s.Over() {
		return OutcomeRejected, ErrGameOver
	}
	if s.catalog == nil || !s.catalog.Has(id) {
		return OutcomeRejected, fmt.Errorf("%w: %q", ErrUnknownRoute, id)
	}
	if s.seen.Has(id) {
		return OutcomeRejected, fmt.Errorf("%w: %q", ErrDuplicateGuess, id)
	}

	if s.ledger != nil {
		if err := s.ledger.AddGuess(ctx, id); err != nil {
			return OutcomeRejected, fmt.Errorf("record guess: %w", err)
		}
	}
	s.guesses = append(s.guesses, id)
	s.seen.Put(id)
	s.emitGuess(id)

	switch s.Status() {
	case StatusSolved:
		return OutcomeCorrect, nil
	case StatusExhausted:
		return OutcomeIncorrectFinal, nil
	default:
		return OutcomeIncorrectRetry, nil
	}
}

// Status derives the current state from answer and history.
func (s *Session) Status() Status {
	if s.seen.Has(s.answer.ID) {
		return StatusSolved
	}
	if len(s.guesses) >= s.max {
		return StatusExhausted
	}
	return StatusInProgress
}

// Over reports whether the session is terminal.
func (s *Session) Over() bool { return s.Status() != StatusInProgress }

// Day returns the puzzle day.
func (s *Session) Day() daily.PuzzleDay { return s.day }

// Answer returns the answer route. Shells should only reveal its name once Over.
func (s *Session) Answer() routes.Route { return s.answer }

// MaxGuesses returns the attempt budget.
func (s *Session) MaxGuesses() int { return s.max }

// Guesses returns a copy of the history, oldest first.
func (s *Session) Guesses() []string { return append([]string{}, s.guesses...) }

// Remaining returns the number of unused attempts, zero once terminal.
func (s *Session) Remaining() int {
	if s.Over() {
		return 0
	}
	return s.max - len(s.guesses)
}

// Used reports whether id has already been guessed.
func (s *Session) Used(id string) bool { return s.seen.Has(id) }

// Marks returns the share marks for this session.
func (s *Session) Marks() []Mark { return Marks(s.answer.ID, s.guesses, s.max) }

// Share renders the shareable result text.
func (s *Session) Share() string { return ShareText(s.day, s.Marks(), s.Status()) }

func (s *Session) emitGuess(id string) {
	if s.renderer == nil || s.catalog == nil {
		return
	}
	r, ok := s.catalog.Route(id)
	if !ok {
		return
	}
	color := ColorGuess
	if id == s.answer.ID {
		color = ColorAnswer
	}
	s.renderer.OnGuessAdded(Overlay{Route: r, Color: color})
}

// Marks produces one mark per slot: hit where the guess equals the answer,
// miss for any other guess, empty for unused slots.
func Marks(answerID string, guesses []string, budget int) []Mark {
	if len(guesses) > budget {
		budget = len(guesses)
	}
	out := make([]Mark, budget)
	for i := range out {
		switch {
		case i >= len(guesses):
			out[i] = MarkEmpty
		case guesses[i] == answerID:
			out[i] = MarkHit
		default:
			out[i] = MarkMiss
		}
	}
	return out
}

// ShareText renders a result like:
//
//	Routle 2024-01-01 2/5
//	❌✅⬜⬜⬜
func ShareText(day daily.PuzzleDay, marks []Mark, status Status) string {
	used := 0
	for _, m := range marks {
		if m != MarkEmpty {
			used++
		}
	}
	score := "-"
	switch status {
	case StatusSolved:
		score = fmt.Sprint(used)
	case StatusExhausted:
		score = "X"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Routle %s %s/%d\n", day, score, len(marks))
	for _, m := range marks {
		b.WriteString(m.Symbol())
	}
	return b.String()
}

// Symbol returns the emoji for a mark.
func (m Mark) Symbol() string {
	switch m {
	case MarkHit:
		return "✅"
	case MarkMiss:
		return "❌"
	default:
		return "⬜"
	}
}
