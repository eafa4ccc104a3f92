// Package sqlite provides a SQLite-backed implementation of storage.RecognitionCache.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/duosplit/internal/models"
	"github.com/mmynk/duosplit/internal/ocr"
	"github.com/mmynk/duosplit/internal/storage"
)

// Ensure SQLiteStore implements storage.RecognitionCache
var _ storage.RecognitionCache = (*SQLiteStore)(nil)

// SQLiteStore implements storage.RecognitionCache using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Concurrent region jobs write from several goroutines.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the cached result for key, if any.
func (s *SQLiteStore) Get(ctx context.Context, key string) (ocr.Result, bool, error) {
	var text, wordsJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT text, words FROM ocr_cache WHERE key = ?",
		key,
	).Scan(&text, &wordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return ocr.Result{}, false, nil
	}
	if err != nil {
		return ocr.Result{}, false, fmt.Errorf("failed to get cache entry: %w", err)
	}

	var words []models.Word
	if err := json.Unmarshal([]byte(wordsJSON), &words); err != nil {
		return ocr.Result{}, false, fmt.Errorf("failed to decode cached words: %w", err)
	}
	return ocr.Result{Text: text, Words: words}, true, nil
}

// Put stores res under key, replacing any earlier entry.
func (s *SQLiteStore) Put(ctx context.Context, key, engine string, res ocr.Result) error {
	words := res.Words
	if words == nil {
		words = []models.Word{}
	}
	wordsJSON, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("failed to encode words: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO ocr_cache (key, engine, text, words, created_at) VALUES (?, ?, ?, ?, ?)",
		key, engine, res.Text, string(wordsJSON), s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Prune deletes entries created before the cutoff.
func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM ocr_cache WHERE created_at < ?",
		before.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}
	return n, nil
}
