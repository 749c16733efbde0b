package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

// MemoryStore keeps records in process memory. Reads never block each other
// or a concurrent create.
type MemoryStore struct {
	opts    Options
	records sync.Map // id -> *Record
}

func NewMemoryStore(opts Options) *MemoryStore {
	return &MemoryStore{opts: opts}
}

func (s *MemoryStore) Create(ctx context.Context, t *analysis.Table, filename string) (string, error) {
	r, err := s.opts.newRecord(t, filename)
	if err != nil {
		return "", err
	}
	s.records.Store(r.SessionID, r)
	zerolog.Ctx(ctx).Debug().Str("sessionID", r.SessionID).Str("filename", filename).Msg("session created")
	return r.SessionID, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	v, ok := s.records.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	r := v.(*Record)
	if r.Expired(s.opts.now()) {
		s.records.Delete(id)
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	now := s.opts.now()
	n := 0
	s.records.Range(func(k, v any) bool {
		if v.(*Record).Expired(now) {
			s.records.Delete(k)
			n++
		}
		return ctx.Err() == nil
	})
	return n, ctx.Err()
}

func (s *MemoryStore) Close() error { return nil }
