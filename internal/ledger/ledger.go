// Package ledger persists the day-scoped guess history.
//
// A single record lives under one storage key:
//
//	{"createdAt": <epoch ms>, "guesses": ["N", "J"]}
//
// The record belongs to the PuzzleDay its createdAt falls on. Reads on a later
// day see no guesses; the first write on a later day replaces the record.
// Every mutation is a whole-record read-modify-write with no coordination
// between writers, so two processes (or tabs) writing the same key at once
// can lose an update. Last write wins.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/routle/internal/daily"
	"github.com/robalobadob/routle/internal/store"
)

// DefaultKey is the storage key used by single-device hosts.
const DefaultKey = "mr-guesses"

// Record is the persisted shape.
type Record struct {
	CreatedAt int64    `json:"createdAt"` // epoch milliseconds
	Guesses   []string `json:"guesses"`
}

// Created returns CreatedAt as a time.
func (r Record) Created() time.Time { return time.UnixMilli(r.CreatedAt) }

// Encode renders the record as JSON. A nil guess list encodes as [].
func (r Record) Encode() ([]byte, error) {
	if r.Guesses == nil {
		r.Guesses = []string{}
	}
	return json.Marshal(r)
}

// Decode parses a JSON record.
func Decode(b []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, err
	}
	if r.Guesses == nil {
		r.Guesses = []string{}
	}
	return r, nil
}

// Ledger reads and writes one record through a KV store.
type Ledger struct {
	kv  store.KV
	key string
	cal *daily.Calendar
}

// New builds a ledger for key. An empty key falls back to DefaultKey.
func New(kv store.KV, key string, cal *daily.Calendar) *Ledger {
	if key == "" {
		key = DefaultKey
	}
	return &Ledger{kv: kv, key: key, cal: cal}
}

// Load returns the stored record. A missing or undecodable record is replaced
// by a fresh empty one stamped now, which is persisted before returning.
func (l *Ledger) Load(ctx context.Context) (Record, error) {
	b, err := l.kv.Get(ctx, l.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return l.reset(ctx, nil)
	case err != nil:
		return Record{}, fmt.Errorf("load %s: %w", l.key, err)
	}
	rec, err := Decode(b)
	if err != nil {
		log.Debug().Err(err).Str("key", l.key).Msg("discarding corrupt guess record")
		return l.reset(ctx, nil)
	}
	return rec, nil
}

// CurrentGuesses returns today's guesses, or an empty list when the record
// belongs to an earlier day.
func (l *Ledger) CurrentGuesses(ctx context.Context) ([]string, error) {
	rec, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !l.isToday(rec) {
		return []string{}, nil
	}
	return append([]string{}, rec.Guesses...), nil
}

// AddGuess appends id to today's record, or starts a new record for today
// containing only id when the stored one is stale.
func (l *Ledger) AddGuess(ctx context.Context, id string) error {
	rec, err := l.Load(ctx)
	if err != nil {
		return err
	}
	if !l.isToday(rec) {
		_, err := l.reset(ctx, []string{id})
		return err
	}
	rec.Guesses = append(rec.Guesses, id)
	return l.save(ctx, rec)
}

func (l *Ledger) isToday(rec Record) bool {
	return l.cal.DayOf(rec.Created()) == l.cal.Today()
}

func (l *Ledger) reset(ctx context.Context, guesses []string) (Record, error) {
	if guesses == nil {
		guesses = []string{}
	}
	rec := Record{CreatedAt: l.cal.Now().UnixMilli(), Guesses: guesses}
	return rec, l.save(ctx, rec)
}

func (l *Ledger) save(ctx context.Context, rec Record) error {
	b, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encode %s: %w", l.key, err)
	}
	if err := l.kv.Put(ctx, l.key, b); err != nil {
		return fmt.Errorf("save %s: %w", l.key, err)
	}
	return nil
}
