// Package store persists benchmarks, voice profiles, and the reply queue
// in a local SQLite database. Benchmarks and profiles are stored as JSON
// documents; queue items get real columns so review tooling can filter by
// status without unmarshaling.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"capturekit/internal/core"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store represents the SQLite-backed persistence layer.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "capturekit.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	benchmarksTable := `
	CREATE TABLE IF NOT EXISTS benchmarks (
		name TEXT PRIMARY KEY,
		data TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`

	profilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
		username TEXT PRIMARY KEY,
		data TEXT,
		updated_at DATETIME
	);`

	queueTable := `
	CREATE TABLE IF NOT EXISTS queue_items (
		id TEXT PRIMARY KEY,
		user TEXT,
		platform TEXT,
		source_url TEXT,
		text TEXT,
		strategy TEXT,
		score REAL,
		status TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`

	tables := []string{benchmarksTable, profilesTable, queueTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBenchmark stores a benchmark, replacing any existing one with the
// same name.
func (s *Store) SaveBenchmark(data core.BenchmarkData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal benchmark %q: %w", data.Name, err)
	}

	query := `
	INSERT OR REPLACE INTO benchmarks (name, data, created_at, updated_at)
	VALUES (?, ?, ?, ?)`

	_, err = s.db.Exec(query, data.Name, string(doc), data.CreatedAt, data.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save benchmark %q: %w", data.Name, err)
	}
	return nil
}

// LoadBenchmark retrieves a benchmark by name.
func (s *Store) LoadBenchmark(name string) (*core.BenchmarkData, error) {
	var doc string
	err := s.db.QueryRow(`SELECT data FROM benchmarks WHERE name = ?`, name).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("benchmark %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmark %q: %w", name, err)
	}

	var data core.BenchmarkData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal benchmark %q: %w", name, err)
	}
	return &data, nil
}

// ListBenchmarks returns stored benchmark names, most recently updated
// first.
func (s *Store) ListBenchmarks() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM benchmarks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list benchmarks: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DeleteBenchmark removes a benchmark by name.
func (s *Store) DeleteBenchmark(name string) error {
	res, err := s.db.Exec(`DELETE FROM benchmarks WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete benchmark %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("benchmark %q: %w", name, ErrNotFound)
	}
	return nil
}

// SaveProfile stores a voice profile keyed by username.
func (s *Store) SaveProfile(profile core.VoiceProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %q: %w", profile.Username, err)
	}

	query := `
	INSERT OR REPLACE INTO profiles (username, data, updated_at)
	VALUES (?, ?, ?)`

	_, err = s.db.Exec(query, profile.Username, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save profile %q: %w", profile.Username, err)
	}
	return nil
}

// LoadProfile retrieves a voice profile by username.
func (s *Store) LoadProfile(username string) (*core.VoiceProfile, error) {
	var doc string
	err := s.db.QueryRow(`SELECT data FROM profiles WHERE username = ?`, username).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %q: %w", username, err)
	}

	var profile core.VoiceProfile
	if err := json.Unmarshal([]byte(doc), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %q: %w", username, err)
	}
	return &profile, nil
}

// EnqueueReply inserts a queue item.
func (s *Store) EnqueueReply(item core.QueueItem) error {
	query := `
	INSERT OR REPLACE INTO queue_items
	(id, user, platform, source_url, text, strategy, score, status, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.Exec(query,
		item.ID, item.User, item.Platform, item.SourceURL, item.Text,
		string(item.Strategy), item.Score, string(item.Status),
		item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue reply %q: %w", item.ID, err)
	}
	return nil
}

// ListQueue returns queue items, newest first. An empty status returns
// all items.
func (s *Store) ListQueue(status core.QueueStatus) ([]core.QueueItem, error) {
	query := `
	SELECT id, user, platform, source_url, text, strategy, score, status, created_at, updated_at
	FROM queue_items`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue: %w", err)
	}
	defer rows.Close()

	items := []core.QueueItem{}
	for rows.Next() {
		var item core.QueueItem
		var strategy, itemStatus string
		if err := rows.Scan(&item.ID, &item.User, &item.Platform, &item.SourceURL,
			&item.Text, &strategy, &item.Score, &itemStatus,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		item.Strategy = core.Strategy(strategy)
		item.Status = core.QueueStatus(itemStatus)
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateQueueStatus moves a queue item to a new review status.
func (s *Store) UpdateQueueStatus(id string, status core.QueueStatus) error {
	res, err := s.db.Exec(`UPDATE queue_items SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update queue item %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("queue item %q: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteQueueItem removes a queue item.
func (s *Store) DeleteQueueItem(id string) error {
	res, err := s.db.Exec(`DELETE FROM queue_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete queue item %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("queue item %q: %w", id, ErrNotFound)
	}
	return nil
}

// Stats reports row counts and database size.
func (s *Store) Stats() (*core.StoreStats, error) {
	stats := &core.StoreStats{LastUpdated: time.Now().UTC()}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM benchmarks`).Scan(&stats.BenchmarkCount); err != nil {
		return nil, fmt.Errorf("failed to count benchmarks: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&stats.ProfileCount); err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM queue_items`).Scan(&stats.QueueCount); err != nil {
		return nil, fmt.Errorf("failed to count queue items: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		stats.StoreSize = info.Size()
	}

	return stats, nil
}
