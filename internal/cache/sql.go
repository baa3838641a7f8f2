package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Fato07/mcp-server-generator/internal/logging"
	"github.com/Fato07/mcp-server-generator/internal/metrics"
	"github.com/Fato07/mcp-server-generator/providers"
)

// SQL is the shared cache store, backed by SQLite or Postgres. Entries carry
// a TTL; a hit performs sliding expiration, rewriting the row with a fresh
// deadline and an incremented hit counter. Concurrent writers converge under
// last-write-wins, which is safe because entries are content-addressed.
//
// Backend failures are never fatal: a connection or query error is logged
// and reported as a miss, so the orchestrator simply pays for a fresh call.
type SQL struct {
	db      *sql.DB
	dialect string
	stats   stats
}

// NewSQLite opens (or creates) a SQLite-backed shared cache at dsn.
func NewSQLite(dsn string) (*SQL, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = "mcpgen-cache.db"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	s := &SQL{db: db, dialect: "sqlite"}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgres connects to a Postgres-backed shared cache.
func NewPostgres(dsn string) (*SQL, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres cache: %w", err)
	}
	s := &SQL{db: db, dialect: "postgres"}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) init() error {
	if err := s.db.Ping(); err != nil {
		return fmt.Errorf("ping %s cache: %w", s.dialect, err)
	}

	ddl := `
CREATE TABLE IF NOT EXISTS enhancement_cache (
	cache_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	accessed_at TIMESTAMP NOT NULL,
	hits INTEGER NOT NULL,
	cost REAL NOT NULL,
	ttl_seconds INTEGER NOT NULL,
	expires_at TIMESTAMP NOT NULL
);`
	if s.dialect == "postgres" {
		ddl = `
CREATE TABLE IF NOT EXISTS enhancement_cache (
	cache_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	accessed_at TIMESTAMPTZ NOT NULL,
	hits BIGINT NOT NULL,
	cost DOUBLE PRECISION NOT NULL,
	ttl_seconds BIGINT NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);`
	}

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("initialize %s cache schema: %w", s.dialect, err)
	}
	return nil
}

// rebind converts ?-style placeholders to $n for Postgres.
func (s *SQL) rebind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Get returns the cached response for the tuple, or false on miss, expiry,
// corruption, or backend failure.
func (s *SQL) Get(ctx context.Context, prompt, model string, p Params) (*providers.Response, bool) {
	key := Key(prompt, model, p)

	var payload []byte
	var hits, ttlSeconds int64
	var cost float64
	var expiresAt time.Time

	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT payload, hits, cost, ttl_seconds, expires_at FROM enhancement_cache WHERE cache_key = ?`),
		key,
	).Scan(&payload, &hits, &cost, &ttlSeconds, &expiresAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.miss()
		return nil, false
	case err != nil:
		// Backend unreachable is a miss, never a failure.
		logging.FromContext(ctx).Warn("cache lookup failed, treating as miss",
			"backend", s.dialect, "error", err)
		s.stats.recordMiss()
		metrics.CacheOps.WithLabelValues(s.dialect, "error").Inc()
		return nil, false
	}

	if time.Now().After(expiresAt) {
		s.purge(ctx, key)
		s.miss()
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		// Corrupt row: purge it and treat the lookup as a miss.
		logging.FromContext(ctx).Warn("purging corrupt cache entry",
			"backend", s.dialect, "key", key, "error", err)
		s.purge(ctx, key)
		s.miss()
		return nil, false
	}

	// Sliding expiration: refresh the deadline and bump the hit counter.
	// The persisted payload metadata is rewritten alongside the columns so
	// the two never disagree.
	now := time.Now().UTC()
	entry.Metadata.Hits = hits + 1
	entry.Metadata.Accessed = now
	updated, merr := json.Marshal(entry)
	if merr == nil {
		_, err = s.db.ExecContext(ctx,
			s.rebind(`UPDATE enhancement_cache SET payload = ?, accessed_at = ?, hits = ?, expires_at = ? WHERE cache_key = ?`),
			updated, now, hits+1, now.Add(time.Duration(ttlSeconds)*time.Second), key,
		)
	} else {
		err = merr
	}
	if err != nil {
		logging.FromContext(ctx).Warn("cache hit bookkeeping failed",
			"backend", s.dialect, "error", err)
	}

	s.stats.recordHit(cost)
	metrics.CacheOps.WithLabelValues(s.dialect, "hit").Inc()
	return &entry.Value, true
}

// Set stores a response under the derived key. An existing row is replaced
// wholesale (last-write-wins).
func (s *SQL) Set(ctx context.Context, prompt, model string, resp *providers.Response, p Params, ttl time.Duration) error {
	key := Key(prompt, model, p)
	now := time.Now().UTC()

	payload, err := json.Marshal(Entry{
		Key:   key,
		Value: *resp,
		Metadata: Metadata{
			Created:  now,
			Accessed: now,
			Cost:     resp.Usage.Cost,
		},
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	query := `INSERT OR REPLACE INTO enhancement_cache
	(cache_key, payload, created_at, accessed_at, hits, cost, ttl_seconds, expires_at)
	VALUES (?, ?, ?, ?, 0, ?, ?, ?)`
	if s.dialect == "postgres" {
		query = `INSERT INTO enhancement_cache
	(cache_key, payload, created_at, accessed_at, hits, cost, ttl_seconds, expires_at)
	VALUES (?, ?, ?, ?, 0, ?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE SET
	payload = EXCLUDED.payload, created_at = EXCLUDED.created_at,
	accessed_at = EXCLUDED.accessed_at, hits = 0, cost = EXCLUDED.cost,
	ttl_seconds = EXCLUDED.ttl_seconds, expires_at = EXCLUDED.expires_at`
	}

	_, err = s.db.ExecContext(ctx, s.rebind(query),
		key, payload, now, now, resp.Usage.Cost, int64(ttl.Seconds()), now.Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Stats returns a snapshot of cache counters. StorageUsed is refreshed from
// the backing table; a failed query leaves the previous value in place.
func (s *SQL) Stats() Statistics {
	var size sql.NullInt64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(LENGTH(payload)), 0) FROM enhancement_cache`).Scan(&size)
	if err == nil && size.Valid {
		s.stats.setStorage(size.Int64)
	}
	return s.stats.snapshot()
}

// Clear removes entries whose key starts with pattern; an empty pattern
// clears the whole mcpgen namespace.
func (s *SQL) Clear(ctx context.Context, pattern string) error {
	if pattern == "" {
		pattern = KeyPrefix
	}
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM enhancement_cache WHERE cache_key LIKE ?`),
		pattern+"%",
	)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) miss() {
	s.stats.recordMiss()
	metrics.CacheOps.WithLabelValues(s.dialect, "miss").Inc()
}

func (s *SQL) purge(ctx context.Context, key string) {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM enhancement_cache WHERE cache_key = ?`), key)
	if err != nil {
		logging.FromContext(ctx).Warn("cache purge failed",
			"backend", s.dialect, "key", key, "error", err)
	}
}
