package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/utils"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now().UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type backend struct {
	name string
	open func(t *testing.T, opts Options) Store
	// sweeps reports whether Sweep counts removed records.
	sweeps bool
}

var backends = []backend{
	{name: "memory", sweeps: true, open: func(t *testing.T, opts Options) Store {
		return NewMemoryStore(opts)
	}},
	{name: "file", sweeps: true, open: func(t *testing.T, opts Options) Store {
		s, err := NewFileStore(filepath.Join(t.TempDir(), "sessions"), opts)
		require.NoError(t, err)
		return s
	}},
	{name: "badger", open: func(t *testing.T, opts Options) Store {
		s, err := OpenBadger("", opts, zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}},
	{name: "sqlite", sweeps: true, open: func(t *testing.T, opts Options) Store {
		s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), opts)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	}},
}

// createTestTable has 7 rows mixing numbers, text and missing cells.
func createTestTable(t *testing.T) *analysis.Table {
	t.Helper()
	var rows [][]analysis.Cell
	for i := 0; i < 7; i++ {
		note := analysis.Text(fmt.Sprintf("row %d", i))
		if i == 3 {
			note = analysis.Missing()
		}
		rows = append(rows, []analysis.Cell{analysis.Number(float64(i) + 0.5), note})
	}
	tbl, err := analysis.NewTable([]string{"value", "note"}, rows)
	require.NoError(t, err)
	return tbl
}

func TestStoreCreateGet(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t, Options{TTL: time.Hour})
			tbl := createTestTable(t)

			id, err := s.Create(ctx, tbl, "data.csv")
			require.NoError(t, err)
			require.NotEmpty(t, id)

			rec, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, rec.SessionID)
			assert.Equal(t, "data.csv", rec.Filename)
			assert.Equal(t, tbl.Columns, rec.Preview.Columns)
			assert.Len(t, rec.Preview.Rows, analysis.PreviewRows)
			assert.Equal(t, tbl.Preview().Matrix(), rec.Preview.Matrix())
			assert.Equal(t, tbl.Matrix(), rec.Full.Matrix())
			assert.False(t, rec.ExpiresAt.IsZero())

			again, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, rec.Full.Matrix(), again.Full.Matrix())
		})
	}
}

func TestStoreUnknownID(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, Options{})
			for _, id := range []string{"missing", "", "../etc/passwd"} {
				_, err := s.Get(context.Background(), id)
				assert.ErrorIs(t, err, ErrSessionNotFound, "id %q", id)
			}
		})
	}
}

func TestStoreDistinctIDs(t *testing.T) {
	for _, format := range []utils.IDFormat{utils.IDFormatUUID, utils.IDFormatNanoID, utils.IDFormatKSUID} {
		t.Run(string(format), func(t *testing.T) {
			s := NewMemoryStore(Options{IDFormat: format})
			tbl := createTestTable(t)
			seen := map[string]bool{}
			for i := 0; i < 50; i++ {
				id, err := s.Create(context.Background(), tbl, "x.csv")
				require.NoError(t, err)
				require.False(t, seen[id], "duplicate id %s", id)
				require.True(t, validID(id), "id %q", id)
				seen[id] = true
			}
		})
	}
}

func TestStoreExpiry(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			s := b.open(t, Options{TTL: time.Hour, Now: clock.Now})

			id, err := s.Create(ctx, createTestTable(t), "old.csv")
			require.NoError(t, err)

			clock.Advance(30 * time.Minute)
			_, err = s.Get(ctx, id)
			require.NoError(t, err)

			clock.Advance(31 * time.Minute)
			_, err = s.Get(ctx, id)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestStoreSweep(t *testing.T) {
	for _, b := range backends {
		if !b.sweeps {
			continue
		}
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			s := b.open(t, Options{TTL: time.Minute, Now: clock.Now})
			tbl := createTestTable(t)

			_, err := s.Create(ctx, tbl, "a.csv")
			require.NoError(t, err)
			_, err = s.Create(ctx, tbl, "b.csv")
			require.NoError(t, err)

			n, err := s.Sweep(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)

			clock.Advance(2 * time.Minute)
			n, err = s.Sweep(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}

func TestStoreNoTTLNeverExpires(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newFakeClock()
			s := b.open(t, Options{Now: clock.Now})
			id, err := s.Create(ctx, createTestTable(t), "keep.csv")
			require.NoError(t, err)

			clock.Advance(365 * 24 * time.Hour)
			rec, err := s.Get(ctx, id)
			require.NoError(t, err)
			assert.True(t, rec.ExpiresAt.IsZero())
		})
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			s := b.open(t, Options{})
			tbl := createTestTable(t)
			first, err := s.Create(ctx, tbl, "first.csv")
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make(chan error, 40)
			for i := 0; i < 20; i++ {
				wg.Add(2)
				go func(i int) {
					defer wg.Done()
					_, err := s.Create(ctx, tbl, fmt.Sprintf("f%d.csv", i))
					errs <- err
				}(i)
				go func() {
					defer wg.Done()
					_, err := s.Get(ctx, first)
					errs <- err
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, Options{})
	require.NoError(t, err)
	id, err := s.Create(context.Background(), createTestTable(t), "data.csv")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, id+".json"))
	require.NoError(t, err)
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []Backend{"", BackendMemory, BackendFile, BackendBadger, BackendSQLite} {
		s, err := Open(Config{Backend: name, Dir: filepath.Join(dir, string(name)+"x")}, zerolog.Nop())
		require.NoError(t, err, "backend %q", name)
		require.NoError(t, s.Close())
	}
	_, err := Open(Config{Backend: "redis"}, zerolog.Nop())
	assert.Error(t, err)
	_, err = Open(Config{IDFormat: "serial"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunJanitorSweeps(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(Options{TTL: time.Minute, Now: clock.Now})
	id, err := s.Create(context.Background(), createTestTable(t), "a.csv")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunJanitor(ctx, s, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, ok := s.records.Load(id)
		return !ok
	}, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
