package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache implements the Cache interface using SQLite as storage.
// It gives the memo table a lifetime beyond a single run: distances
// computed in one run are available to the next.
type SQLiteCache struct {
	db     *sql.DB
	config CacheConfig
	stats  CacheStats
	mu     sync.Mutex // guards stats.LastAccess
}

// NewSQLiteCache creates a new SQLite-based cache.
func NewSQLiteCache(config CacheConfig) (*SQLiteCache, error) {
	if config.SQLiteConfig.Path == "" {
		config.SQLiteConfig.Path = "textevolve_memo.db"
	}

	db, err := sql.Open("sqlite3", config.SQLiteConfig.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if config.SQLiteConfig.MaxConnections > 0 {
		db.SetMaxOpenConns(config.SQLiteConfig.MaxConnections)
	} else {
		db.SetMaxOpenConns(10)
	}
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	cache := &SQLiteCache{
		db:     db,
		config: config,
	}

	if err := cache.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	// Enable WAL mode for better concurrent performance
	if config.SQLiteConfig.EnableWAL {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	pragmas := []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	cache.loadStats()

	return cache, nil
}

func (c *SQLiteCache) initDB() error {
	query := `
	CREATE TABLE IF NOT EXISTS memo_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		created_at INTEGER NOT NULL
	);
	`

	_, err := c.db.Exec(query)
	return err
}

func (c *SQLiteCache) loadStats() {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM memo_entries`).Scan(&count); err == nil {
		atomic.StoreInt64(&c.stats.Entries, count)
	}
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value FROM memo_entries WHERE key = ?`

	var value []byte
	err := c.db.QueryRowContext(ctx, query, HashKey(key)).Scan(&value)
	if err == sql.ErrNoRows {
		atomic.AddInt64(&c.stats.Misses, 1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get memo entry: %w", err)
	}

	atomic.AddInt64(&c.stats.Hits, 1)
	c.touch()

	return value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte) error {
	// Write-once semantics: an existing key keeps its original value.
	query := `
	INSERT OR IGNORE INTO memo_entries (key, value, created_at)
	VALUES (?, ?, ?)
	`

	result, err := c.db.ExecContext(ctx, query, HashKey(key), value, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set memo entry: %w", err)
	}

	if inserted, err := result.RowsAffected(); err == nil && inserted > 0 {
		atomic.AddInt64(&c.stats.Sets, 1)
		atomic.AddInt64(&c.stats.Entries, 1)
	}
	c.touch()

	return nil
}

func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM memo_entries`); err != nil {
		return fmt.Errorf("failed to clear memo entries: %w", err)
	}

	atomic.StoreInt64(&c.stats.Hits, 0)
	atomic.StoreInt64(&c.stats.Misses, 0)
	atomic.StoreInt64(&c.stats.Sets, 0)
	atomic.StoreInt64(&c.stats.Entries, 0)

	return nil
}

func (c *SQLiteCache) Stats() CacheStats {
	c.mu.Lock()
	lastAccess := c.stats.LastAccess
	c.mu.Unlock()

	return CacheStats{
		Hits:       atomic.LoadInt64(&c.stats.Hits),
		Misses:     atomic.LoadInt64(&c.stats.Misses),
		Sets:       atomic.LoadInt64(&c.stats.Sets),
		Entries:    atomic.LoadInt64(&c.stats.Entries),
		LastAccess: lastAccess,
	}
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache) touch() {
	c.mu.Lock()
	c.stats.LastAccess = time.Now()
	c.mu.Unlock()
}
