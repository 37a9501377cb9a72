// Package sqlitecache provides a SQLite-backed cache.Cache implementation.
package sqlitecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	_ "modernc.org/sqlite"

	"github.com/jonwraymond/gqlpatch/cache"
)

const schema = `CREATE TABLE IF NOT EXISTS entries (
	key TEXT PRIMARY KEY,
	value BLOB,
	expires_at INTEGER NOT NULL
)`

// Store persists serialized query results in SQLite.
type Store struct {
	sqlDB  *sql.DB
	policy cache.Policy
	reads  singleflight.Group
	now    func() time.Time
}

type entry struct {
	value []byte
	found bool
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite cache at path and creates the entries table.
// TTLs passed to Set are clamped to policy.MaxTTL.
func Open(path string, policy cache.Policy) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, policy: policy, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the stored value for key. Expired rows read as a miss.
// Concurrent reads of the same key share one query; the shared query is not
// canceled with any single caller, and each caller stops waiting when its
// own ctx is done.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if ctx.Err() != nil || s == nil || s.sqlDB == nil {
		return nil, false
	}
	shared := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(key, func() (any, error) {
		return s.load(shared, key)
	})
	select {
	case <-ctx.Done():
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			return nil, false
		}
		e := res.Val.(entry)
		return e.value, e.found
	}
}

func (s *Store) load(ctx context.Context, key string) (entry, error) {
	now := toMillis(s.now())
	var (
		value     []byte
		expiresAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT value, expires_at FROM entries WHERE key = ?`,
		key,
	).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return entry{}, nil
	}
	if err != nil {
		return entry{}, fmt.Errorf("get entry: %w", err)
	}
	if now >= expiresAt {
		return entry{}, nil
	}
	return entry{value: value, found: true}, nil
}

// Set stores value under key. TTL<=0 means no caching.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if err := cache.ValidateKey(key); err != nil {
		return err
	}
	if ttl <= 0 {
		return nil
	}
	ttl = s.policy.Clamp(ttl)

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO entries (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   expires_at = excluded.expires_at`,
		key,
		value,
		toMillis(s.now().Add(ttl)),
	)
	if err != nil {
		return fmt.Errorf("put entry: %w", err)
	}
	return nil
}

// Delete removes key. Idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// Purge removes expired rows and reports how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM entries WHERE expires_at <= ?`, toMillis(s.now()))
	if err != nil {
		return 0, fmt.Errorf("purge entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge entries: %w", err)
	}
	return n, nil
}

var _ cache.Cache = (*Store)(nil)
