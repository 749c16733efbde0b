package session

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - sessions table
const currentSchemaVersion = 1

// SQLiteStore keeps records in a SQLite database in WAL mode.
type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

// OpenSQLite creates or opens the database at path and applies the schema.
func OpenSQLite(path string, opts Options) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLiteStore{db: db, opts: opts}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, t *analysis.Table, filename string) (string, error) {
	r, err := s.opts.newRecord(t, filename)
	if err != nil {
		return "", err
	}
	preview, err := json.Marshal(r.Preview)
	if err != nil {
		return "", fmt.Errorf("marshal preview: %w", err)
	}
	full, err := json.Marshal(r.Full)
	if err != nil {
		return "", fmt.Errorf("marshal table: %w", err)
	}
	var expires sql.NullInt64
	if !r.ExpiresAt.IsZero() {
		expires = sql.NullInt64{Int64: r.ExpiresAt.UnixNano(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, filename, preview, full_table, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.SessionID, r.Filename, string(preview), string(full), r.CreatedAt.UnixNano(), expires)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("sessionID", r.SessionID).Str("filename", filename).Msg("session created")
	return r.SessionID, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var (
		r             Record
		preview, full string
		created       int64
		expires       sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, filename, preview, full_table, created_at, expires_at
		FROM sessions
		WHERE id = ? AND (expires_at IS NULL OR expires_at > ?)
	`, id, s.opts.now().UnixNano()).Scan(&r.SessionID, &r.Filename, &preview, &full, &created, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	r.Preview = &analysis.Table{}
	if err := json.Unmarshal([]byte(preview), r.Preview); err != nil {
		return nil, fmt.Errorf("parse preview: %w", err)
	}
	r.Full = &analysis.Table{}
	if err := json.Unmarshal([]byte(full), r.Full); err != nil {
		return nil, fmt.Errorf("parse table: %w", err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	if expires.Valid {
		r.ExpiresAt = time.Unix(0, expires.Int64).UTC()
	}
	return &r, nil
}

func (s *SQLiteStore) Sweep(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.opts.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
