// Command routle-term plays today's puzzle in a terminal.
//
// Guesses are kept in a local SQLite ledger (DB_PATH, default ./routle.db)
// under the single device key, so quitting and relaunching on the same day
// resumes the game.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/routle/internal/config"
	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/game"
	"github.com/robalobadob/routle/internal/ledger"
	"github.com/robalobadob/routle/internal/routes"
	"github.com/robalobadob/routle/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Enable = false
	}

	catalog, err := routes.Open(cfg.RoutesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load route catalog")
	}
	cal, err := daily.LoadCalendar(cfg.Zone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle zone")
	}
	src, err := daily.SourceFor(cfg.RNG, cfg.Salt)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to pick puzzle rng")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "routle.db"
	}
	db, err := store.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("failed to open ledger database")
	}

	p := &player{
		catalog: catalog,
		cal:     cal,
		src:     src,
		ledger:  ledger.New(db, ledger.DefaultKey, cal),
		max:     cfg.MaxGuesses,
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
	}
	err = p.run(context.Background())
	_ = db.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}
}

var (
	styleTitle  = color.Style{color.FgYellow, color.OpBold}
	styleHit    = color.Style{color.FgGreen, color.OpBold}
	styleMiss   = color.Style{color.FgRed, color.OpBold}
	styleSubtle = color.Style{color.FgGray}
	styleShape  = color.Style{color.FgMagenta}
)

type player struct {
	catalog *routes.Catalog
	cal     *daily.Calendar
	src     daily.Source
	ledger  *ledger.Ledger
	max     int
	in      *bufio.Scanner
	out     io.Writer
}

func (p *player) run(ctx context.Context) error {
	day := p.cal.Today()
	answer, err := daily.SelectAnswer(day, p.catalog, p.src)
	if err != nil {
		return err
	}
	guesses, err := p.ledger.CurrentGuesses(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(p.out, styleTitle.Sprintf("ROUTLE %s", day))
	sess := game.New(game.Config{
		Day:        day,
		Answer:     answer,
		Catalog:    p.catalog,
		MaxGuesses: p.max,
		Guesses:    guesses,
		Ledger:     p.ledger,
		Renderer:   termRenderer{out: p.out},
	})

	for !sess.Over() {
		p.printChoices(sess)
		fmt.Fprintf(p.out, "guess (%d left)> ", sess.Remaining())
		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			return p.in.Err()
		}
		id := p.resolve(strings.TrimSpace(p.in.Text()))

		out, err := sess.Submit(ctx, id)
		switch {
		case errors.Is(err, game.ErrUnknownRoute):
			fmt.Fprintln(p.out, styleMiss.Sprint("no such route"))
			continue
		case errors.Is(err, game.ErrDuplicateGuess):
			fmt.Fprintln(p.out, styleSubtle.Sprint("already guessed"))
			continue
		case err != nil:
			return err
		}

		switch out {
		case game.OutcomeCorrect:
			fmt.Fprintln(p.out, styleHit.Sprint("wow, correct!"))
		case game.OutcomeIncorrectFinal:
			fmt.Fprintln(p.out, styleMiss.Sprintf("out of guesses, it was %s", answer.Name))
		default:
			fmt.Fprintln(p.out, styleMiss.Sprint("nope"))
		}
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, sess.Share())
	return nil
}

// resolve accepts a route id (case-insensitive) or a picker number. Route ids
// such as "5" win over the picker entry with the same number.
func (p *player) resolve(s string) string {
	if p.catalog.Has(s) {
		return s
	}
	if up := strings.ToUpper(s); p.catalog.Has(up) {
		return up
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= p.catalog.Len() {
		return p.catalog.At(n - 1).ID
	}
	return s
}

func (p *player) printChoices(sess *game.Session) {
	for i, r := range p.catalog.Routes() {
		label := fmt.Sprintf("%2d) %-3s %s", i+1, r.ID, r.Name)
		if sess.Used(r.ID) {
			label = styleSubtle.Sprint(label)
		}
		fmt.Fprintln(p.out, label)
	}
}

// termRenderer describes overlays in text since a terminal has no map.
type termRenderer struct {
	out io.Writer
}

func (t termRenderer) OnAnswerSelected(o game.Overlay) {
	fmt.Fprintln(t.out, styleShape.Sprintf("mystery route: %d segment(s), %s", len(o.Route.Features), extent(o.Route)))
}

func (t termRenderer) OnGuessAdded(o game.Overlay) {
	st := styleMiss
	if o.Color == game.ColorAnswer {
		st = styleHit
	}
	fmt.Fprintln(t.out, st.Sprintf("guessed %s (%s)", o.Route.Name, extent(o.Route)))
}

// extent summarises a route's bounding box.
func extent(r routes.Route) string {
	fc := r.Collection()
	if len(fc.Features) == 0 || fc.Features[0].Geometry == nil {
		return "no geometry"
	}
	b := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		if f.Geometry != nil {
			b = b.Union(f.Geometry.Bound())
		}
	}
	return fmt.Sprintf("lon %.3f..%.3f lat %.3f..%.3f", b.Min.Lon(), b.Max.Lon(), b.Min.Lat(), b.Max.Lat())
}
