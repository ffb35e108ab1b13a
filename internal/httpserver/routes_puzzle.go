// internal/httpserver/routes_puzzle.go
//
// HTTP routes for today's puzzle. Exposes three endpoints under /puzzle:
//   - GET  /puzzle        → current state for this device
//   - POST /puzzle/guess  → submit a route id
//   - GET  /puzzle/share  → shareable result text
//
// Each request rebuilds the session from the device's guess ledger, so the
// puzzle day is re-evaluated on every interaction. A tab left open across
// midnight sees the new puzzle on its next request.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/game"
	"github.com/robalobadob/routle/internal/ledger"
	"github.com/robalobadob/routle/internal/routes"
)

// mountPuzzle registers all /puzzle routes.
func (s *Server) mountPuzzle(r chi.Router) {
	r.Route("/puzzle", func(r chi.Router) {
		r.Get("/", s.handlePuzzle)
		r.Post("/guess", s.handleGuess)
		r.Get("/share", s.handleShare)
	})
}

// overlays collects renderer callbacks so they can be serialized.
type overlays struct {
	list []game.Overlay
}

func (o *overlays) OnAnswerSelected(ov game.Overlay) { o.list = append(o.list, ov) }
func (o *overlays) OnGuessAdded(ov game.Overlay)     { o.list = append(o.list, ov) }

// openSession builds today's session for the requesting device.
func (s *Server) openSession(w http.ResponseWriter, r *http.Request, rnd game.Renderer) (*game.Session, error) {
	device := s.ensureDeviceID(w, r)
	day := s.deps.Calendar.Today()
	answer, err := daily.SelectAnswer(day, s.deps.Catalog, s.deps.Source)
	if err != nil {
		return nil, err
	}
	l := ledger.New(s.deps.Store, ledger.DefaultKey+":"+device, s.deps.Calendar)
	guesses, err := l.CurrentGuesses(r.Context())
	if err != nil {
		return nil, err
	}
	return game.New(game.Config{
		Day:        day,
		Answer:     answer,
		Catalog:    s.deps.Catalog,
		MaxGuesses: s.deps.MaxGuesses,
		Guesses:    guesses,
		Ledger:     l,
		Renderer:   rnd,
	}), nil
}

// -----------------------------------------------------------------------------
// GET /puzzle

type guessRow struct {
	RouteID string    `json:"routeId"`
	Name    string    `json:"name"`
	Mark    game.Mark `json:"mark"`
}

type overlayRes struct {
	RouteID string                     `json:"routeId,omitempty"` // omitted for the answer until game over
	Color   string                     `json:"color"`
	Answer  bool                       `json:"answer"`
	Shape   *geojson.FeatureCollection `json:"shape"`
}

type choice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

// puzzleRes is the full state a renderer needs to draw the board.
type puzzleRes struct {
	Date       string       `json:"date"`
	Status     game.Status  `json:"status"`
	MaxGuesses int          `json:"maxGuesses"`
	Remaining  int          `json:"remaining"`
	Guesses    []guessRow   `json:"guesses"`
	Marks      []game.Mark  `json:"marks"`
	Overlays   []overlayRes `json:"overlays"`
	Choices    []choice     `json:"choices"`
	Answer     *routeRef    `json:"answer,omitempty"` // revealed once terminal
}

func (s *Server) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	ov := &overlays{}
	sess, err := s.openSession(w, r, ov)
	if err != nil {
		s.ledgerFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildState(sess, ov))
}

func (s *Server) buildState(sess *game.Session, ov *overlays) puzzleRes {
	over := sess.Over()
	marks := sess.Marks()

	res := puzzleRes{
		Date:       sess.Day().String(),
		Status:     sess.Status(),
		MaxGuesses: sess.MaxGuesses(),
		Remaining:  sess.Remaining(),
		Guesses:    []guessRow{},
		Marks:      marks,
		Overlays:   []overlayRes{},
		Choices:    []choice{},
	}
	for i, id := range sess.Guesses() {
		name := id
		if rt, ok := s.deps.Catalog.Route(id); ok {
			name = rt.Name
		}
		res.Guesses = append(res.Guesses, guessRow{RouteID: id, Name: name, Mark: marks[i]})
	}
	for _, o := range ov.list {
		item := overlayRes{RouteID: o.Route.ID, Color: o.Color, Answer: o.Answer, Shape: o.Route.Collection()}
		if o.Answer && !over {
			item.RouteID = ""
			item.Shape = unlabeled(o.Route)
		}
		res.Overlays = append(res.Overlays, item)
	}
	for _, rt := range s.deps.Catalog.Routes() {
		res.Choices = append(res.Choices, choice{ID: rt.ID, Name: rt.Name, Disabled: over || sess.Used(rt.ID)})
	}
	if over {
		a := sess.Answer()
		res.Answer = &routeRef{ID: a.ID, Name: a.Name}
	}
	return res
}

// unlabeled copies the route's geometry without any feature properties, so the
// mystery shape carries nothing that names it.
func unlabeled(r routes.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range r.Features {
		fc.Append(geojson.NewFeature(f.Geometry))
	}
	return fc
}

// -----------------------------------------------------------------------------
// POST /puzzle/guess

type guessReq struct {
	RouteID string `json:"routeId"`
}

type guessRes struct {
	Outcome game.Outcome `json:"outcome"`
	Puzzle  puzzleRes    `json:"puzzle"`
}

// handleGuess validates and applies a guess for today's puzzle.
//   - 400 unknown_route / duplicate_guess, 409 game_over: nothing changed.
//   - 200 with the outcome and the updated state otherwise.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	req.RouteID = strings.TrimSpace(req.RouteID)

	ov := &overlays{}
	sess, err := s.openSession(w, r, ov)
	if err != nil {
		s.ledgerFailure(w, r, err)
		return
	}

	out, err := sess.Submit(r.Context(), req.RouteID)
	if err != nil {
		status, code := http.StatusInternalServerError, "save_failed"
		switch {
		case errors.Is(err, game.ErrUnknownRoute):
			status, code = http.StatusBadRequest, "unknown_route"
		case errors.Is(err, game.ErrDuplicateGuess):
			status, code = http.StatusBadRequest, "duplicate_guess"
		case errors.Is(err, game.ErrGameOver):
			status, code = http.StatusConflict, "game_over"
		default:
			s.ledgerFailure(w, r, err)
			return
		}
		if m := s.deps.Metrics; m != nil {
			m.Rejections.WithLabelValues(code).Inc()
		}
		writeError(w, status, code)
		return
	}

	if m := s.deps.Metrics; m != nil {
		m.Guesses.WithLabelValues(string(out)).Inc()
		if sess.Over() {
			m.Finished(string(sess.Status()))
		}
	}
	hlog.FromRequest(r).Debug().
		Str("date", sess.Day().String()).
		Str("route", req.RouteID).
		Str("outcome", string(out)).
		Msg("guess applied")

	writeJSON(w, http.StatusOK, guessRes{Outcome: out, Puzzle: s.buildState(sess, ov)})
}

// -----------------------------------------------------------------------------
// GET /puzzle/share

type shareRes struct {
	Date   string      `json:"date"`
	Status game.Status `json:"status"`
	Marks  []game.Mark `json:"marks"`
	Text   string      `json:"text"`
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	sess, err := s.openSession(w, r, nil)
	if err != nil {
		s.ledgerFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareRes{
		Date:   sess.Day().String(),
		Status: sess.Status(),
		Marks:  sess.Marks(),
		Text:   sess.Share(),
	})
}

// ledgerFailure logs and reports a storage error.
func (s *Server) ledgerFailure(w http.ResponseWriter, r *http.Request, err error) {
	if m := s.deps.Metrics; m != nil {
		m.LedgerErrors.Inc()
	}
	hlog.FromRequest(r).Error().Err(err).Msg("guess ledger")
	writeError(w, http.StatusInternalServerError, "ledger_error")
}
