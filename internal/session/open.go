package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/KaramelBytes/sheetlens/internal/utils"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendBadger Backend = "badger"
	BackendSQLite Backend = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend Backend
	// Dir holds on-disk state: JSON files, the badger directory or sessions.db.
	Dir string
	// TTL is the session lifetime; zero keeps sessions forever.
	TTL      time.Duration
	IDFormat string
}

// Open builds the configured Store. An empty backend means memory.
func Open(cfg Config, logger zerolog.Logger) (Store, error) {
	f, err := utils.ParseIDFormat(cfg.IDFormat)
	if err != nil {
		return nil, err
	}
	opts := Options{TTL: cfg.TTL, IDFormat: f}

	var (
		s       Store
		openErr error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(opts), nil
	case BackendFile:
		s, openErr = NewFileStore(cfg.Dir, opts)
	case BackendBadger:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("badger backend: directory not set")
		}
		s, openErr = OpenBadger(filepath.Join(cfg.Dir, "badger"), opts, logger)
	case BackendSQLite:
		if err := utils.EnsureDir(cfg.Dir); err != nil {
			return nil, fmt.Errorf("ensure dir: %w", err)
		}
		s, openErr = OpenSQLite(filepath.Join(cfg.Dir, "sessions.db"), opts)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
	if openErr != nil {
		return nil, openErr
	}
	return s, nil
}
