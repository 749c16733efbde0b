package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

const badgerKeyPrefix = "session/"

// BadgerStore keeps records in an embedded badger database. Expiry uses
// badger's native entry TTL.
type BadgerStore struct {
	db   *badger.DB
	opts Options
}

// OpenBadger opens (or creates) a badger database in dir. An empty dir opens
// an in-memory database.
func OpenBadger(dir string, opts Options, logger zerolog.Logger) (*BadgerStore, error) {
	bo := badger.DefaultOptions(dir)
	if dir == "" {
		bo = bo.WithInMemory(true)
	}
	bo = bo.WithLogger(badgerLogger{l: logger.With().Str("component", "badger").Logger()})
	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, opts: opts}, nil
}

func badgerKey(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

func (s *BadgerStore) Create(ctx context.Context, t *analysis.Table, filename string) (string, error) {
	r, err := s.opts.newRecord(t, filename)
	if err != nil {
		return "", err
	}
	val, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(r.SessionID), val)
		if s.opts.TTL > 0 {
			e = e.WithTTL(s.opts.TTL)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("sessionID", r.SessionID).Str("filename", filename).Msg("session created")
	return r.SessionID, nil
}

func (s *BadgerStore) Get(_ context.Context, id string) (*Record, error) {
	if !validID(id) {
		return nil, ErrSessionNotFound
	}
	var r Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	// TTL in badger has one-second resolution
	if r.Expired(s.opts.now()) {
		return nil, ErrSessionNotFound
	}
	return &r, nil
}

// Sweep reclaims value-log space. Expired entries are already invisible to
// reads, so it never reports removals.
func (s *BadgerStore) Sweep(ctx context.Context) (int, error) {
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("value log gc: %w", err)
		}
	}
	return 0, ctx.Err()
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(f string, v ...interface{}) {
	b.l.Error().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (b badgerLogger) Warningf(f string, v ...interface{}) {
	b.l.Warn().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (b badgerLogger) Infof(f string, v ...interface{}) {
	b.l.Debug().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}

func (b badgerLogger) Debugf(f string, v ...interface{}) {
	b.l.Trace().Msg(strings.TrimSpace(fmt.Sprintf(f, v...)))
}
