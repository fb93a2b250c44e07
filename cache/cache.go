package cache

import (
	"context"
	"database/sql"
	_ "embed"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/internal/ident"
	"github.com/wippyai/dyntype/target"
)

//go:embed schema.sql
var schemaSQL string

// Key addresses one artifact. Label distinguishes artifacts generated from
// the same type under different options.
type Key struct {
	Digest string
	Target string
	Label  string
}

// KeyOf returns the key of t generated for tgt.
func KeyOf(t dyn.Type, tgt target.Target, label string) Key {
	return Key{Digest: ident.Hex(dyn.Digest(t)), Target: tgt.String(), Label: label}
}

// Cache is a SQLite backed artifact store. It is safe for concurrent use.
type Cache struct {
	db     atomic.Pointer[sql.DB]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.PhaseCache, errors.KindInvalidInput, err, "connect to database")
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		schemaSQL,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, errors.Wrap(errors.PhaseCache, errors.KindInvalidData, err, "initialize schema")
		}
	}

	Logger().Debug("cache opened", zap.String("path", path))
	c := &Cache{}
	c.db.Store(db)
	return c, nil
}

func (c *Cache) conn() (*sql.DB, error) {
	db := c.db.Load()
	if db == nil {
		return nil, errors.Closed(errors.PhaseCache, "cache")
	}
	return db, nil
}

// fail reports err, or Closed when the cache was closed while the statement ran.
func (c *Cache) fail(err error, detail string) error {
	if c.db.Load() == nil {
		return errors.Closed(errors.PhaseCache, "cache")
	}
	return errors.Wrap(errors.PhaseCache, errors.KindInvalidData, err, detail)
}

// Put stores the source generated for t on tgt, replacing any earlier entry.
func (c *Cache) Put(ctx context.Context, t dyn.Type, tgt target.Target, source string) error {
	return c.PutKey(ctx, KeyOf(t, tgt, ""), t.Name(), source)
}

// Get returns the source stored for t on tgt. ok is false on a miss.
func (c *Cache) Get(ctx context.Context, t dyn.Type, tgt target.Target) (string, bool, error) {
	return c.GetKey(ctx, KeyOf(t, tgt, ""))
}

// PutKey stores source under k. name is kept for inspection only.
func (c *Cache) PutKey(ctx context.Context, k Key, name, source string) error {
	db, err := c.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO artifacts (digest, target, label, name, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (digest, target, label) DO UPDATE SET
		     name = excluded.name,
		     source = excluded.source,
		     created_at = excluded.created_at`,
		k.Digest, k.Target, k.Label, name, source, time.Now().Unix())
	if err != nil {
		return c.fail(err, "store artifact")
	}
	Logger().Debug("artifact stored",
		zap.String("name", name),
		zap.String("target", k.Target),
		zap.Int("bytes", len(source)))
	return nil
}

// GetKey returns the source stored under k.
func (c *Cache) GetKey(ctx context.Context, k Key) (string, bool, error) {
	db, err := c.conn()
	if err != nil {
		return "", false, err
	}
	var source string
	err = db.QueryRowContext(ctx,
		`SELECT source FROM artifacts WHERE digest = ? AND target = ? AND label = ?`,
		k.Digest, k.Target, k.Label).Scan(&source)
	if err == sql.ErrNoRows {
		c.misses.Add(1)
		return "", false, nil
	}
	if err != nil {
		return "", false, c.fail(err, "load artifact")
	}
	c.hits.Add(1)
	return source, true, nil
}

// Len returns the number of stored artifacts.
func (c *Cache) Len(ctx context.Context) (int, error) {
	db, err := c.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts`).Scan(&n); err != nil {
		return 0, c.fail(err, "count artifacts")
	}
	return n, nil
}

// Stats reports lookups served and missed since Open.
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Close closes the database. Close is idempotent and may race with other
// calls, which then report Closed.
func (c *Cache) Close() error {
	db := c.db.Swap(nil)
	if db == nil {
		return nil
	}
	return db.Close()
}
