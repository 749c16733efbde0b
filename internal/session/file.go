package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

const recordExt = ".json"

// FileStore keeps one JSON document per session in a directory.
type FileStore struct {
	dir  string
	opts Options
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, opts Options) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory not set")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	return &FileStore{dir: dir, opts: opts}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

func (s *FileStore) Create(ctx context.Context, t *analysis.Table, filename string) (string, error) {
	r, err := s.opts.newRecord(t, filename)
	if err != nil {
		return "", err
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return "", err
	}
	if err := utils.SafeWriteFile(s.path(r.SessionID), data); err != nil {
		return "", fmt.Errorf("write session: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("sessionID", r.SessionID).Str("filename", filename).Msg("session created")
	return r.SessionID, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*Record, error) {
	if !validID(id) {
		return nil, ErrSessionNotFound
	}
	r, err := s.load(s.path(id))
	if err != nil {
		return nil, err
	}
	if r.Expired(s.opts.now()) {
		_ = os.Remove(s.path(id))
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (s *FileStore) load(path string) (*Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

func (s *FileStore) Sweep(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	now := s.opts.now()
	n := 0
	for _, e := range entries {
		if ctx.Err() != nil {
			return n, ctx.Err()
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		p := filepath.Join(s.dir, e.Name())
		r, err := s.load(p)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", p).Msg("skipping unreadable session")
			continue
		}
		if r.Expired(now) {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return n, fmt.Errorf("remove session: %w", err)
			}
			n++
		}
	}
	return n, nil
}

func (s *FileStore) Close() error { return nil }
