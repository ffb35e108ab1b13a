// internal/daily/daily.go
//
// Daily puzzle selection.
// Responsibilities:
//   - Map instants onto a PuzzleDay (calendar date in a fixed reference zone).
//   - Derive a reproducible answer index from the day string and catalog size.
//
// Notes:
//   - The reference zone is America/Los_Angeles so every player rolls over at
//     the same real-world instant, whatever their local zone.
//   - Clock and zone are injected through Calendar; nothing here reads
//     time.Now directly except as Calendar's default.

package daily

import (
	"errors"
	"fmt"
	"math"
	"time"
	_ "time/tzdata" // reference zone must resolve on hosts without zoneinfo

	"github.com/robalobadob/routle/internal/routes"
)

// DefaultZone is the reference zone for puzzle rotation.
const DefaultZone = "America/Los_Angeles"

// ErrEmptyCatalog means there is nothing to pick from.
var ErrEmptyCatalog = errors.New("daily: route catalog is empty")

// PuzzleDay is a calendar date evaluated in the reference zone.
type PuzzleDay struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the day as YYYY-MM-DD. This is also the PRNG seed.
func (d PuzzleDay) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Calendar evaluates "now" against the reference zone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar builds a calendar. A nil now defaults to time.Now, a nil loc to UTC.
func NewCalendar(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, now: now}
}

// LoadCalendar resolves a named zone and uses the wall clock.
func LoadCalendar(zone string) (*Calendar, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", zone, err)
	}
	return NewCalendar(loc, nil), nil
}

// Now returns the current instant from the injected clock.
func (c *Calendar) Now() time.Time { return c.now() }

// Location returns the reference zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// DayOf maps an instant to its PuzzleDay.
func (c *Calendar) DayOf(t time.Time) PuzzleDay {
	y, m, d := t.In(c.loc).Date()
	return PuzzleDay{Year: y, Month: m, Day: d}
}

// Today is DayOf(Now()).
func (c *Calendar) Today() PuzzleDay { return c.DayOf(c.now()) }

// Index returns floor(src(day) * n), the catalog index for day.
func Index(day PuzzleDay, n int, src Source) (int, error) {
	if n <= 0 {
		return 0, ErrEmptyCatalog
	}
	i := int(math.Floor(src.Float64(day.String()) * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i, nil
}

// SelectAnswer picks the day's answer route from the catalog.
func SelectAnswer(day PuzzleDay, c *routes.Catalog, src Source) (routes.Route, error) {
	if c == nil {
		return routes.Route{}, ErrEmptyCatalog
	}
	i, err := Index(day, c.Len(), src)
	if err != nil {
		return routes.Route{}, err
	}
	return c.At(i), nil
}
