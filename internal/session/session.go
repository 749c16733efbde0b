// Package session keeps uploaded tables addressable by an opaque id so later
// requests can analyze them without re-uploading.
package session

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Record is one stored upload.
type Record struct {
	SessionID string          `json:"sessionId"`
	Filename  string          `json:"filename"`
	Preview   *analysis.Table `json:"preview"`
	Full      *analysis.Table `json:"full"`
	CreatedAt time.Time       `json:"createdAt"`
	// ExpiresAt is zero for sessions that never expire.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether r is past its expiry at now.
func (r *Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Store persists session records. Records are written once and never mutated.
type Store interface {
	// Create stores t under a fresh id and returns the id once the record is durable.
	Create(ctx context.Context, t *analysis.Table, filename string) (string, error)
	// Get returns the record for id or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// Sweep drops expired records and reports how many were removed.
	Sweep(ctx context.Context) (int, error)
	Close() error
}

// Options are shared by every backend.
type Options struct {
	// TTL is the session lifetime; zero keeps sessions forever.
	TTL      time.Duration
	IDFormat utils.IDFormat
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) newRecord(t *analysis.Table, filename string) (*Record, error) {
	if t == nil {
		return nil, errors.New("create session: nil table")
	}
	now := o.now().UTC()
	r := &Record{
		SessionID: utils.NewID(o.IDFormat),
		Filename:  filename,
		Preview:   t.Preview(),
		Full:      t,
		CreatedAt: now,
	}
	if o.TTL > 0 {
		r.ExpiresAt = now.Add(o.TTL)
	}
	return r, nil
}

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// validID rejects ids no generator produces, which also keeps them safe as
// file names and keys.
func validID(id string) bool {
	return idPattern.MatchString(id)
}
