// Package history persists completed assessments so the dashboard layer can
// show how synthetic-data quality evolves across generation runs.
package history

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/pensionworks/realism/internal/realism"
)

// Assessment is one stored scoring run.
type Assessment struct {
	ID        string                `json:"id"`
	Source    string                `json:"source,omitempty"`
	RowCount  int                   `json:"row_count"`
	Score     float64               `json:"score"`
	Grade     realism.Grade         `json:"grade,omitempty"`
	Status    realism.OverallStatus `json:"status"`
	Result    realism.OverallResult `json:"result"`
	CreatedAt time.Time             `json:"created_at"`
}

// Store is the SQLite-backed assessment history.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and migrates the history database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "assessments.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("Assessment history initialized", "path", dbPath)
	return store, nil
}

func (s *Store) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id TEXT PRIMARY KEY,
			source TEXT,
			row_count INTEGER NOT NULL,
			score REAL NOT NULL,
			grade TEXT,
			status TEXT NOT NULL,
			result TEXT NOT NULL, -- JSON OverallResult
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_created ON assessments(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_score ON assessments(score DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}
	return nil
}

// Save persists one assessment and returns its generated ID.
func (s *Store) Save(source string, result realism.OverallResult) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode assessment result: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO assessments (id, source, row_count, score, grade, status, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, source, result.RowCount, result.Score, string(result.Grade), string(result.Status),
		string(payload), time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert assessment: %w", err)
	}
	return id, nil
}

// List returns the most recent assessments, newest first. The stored result
// JSON is not expanded here; Get returns the full report.
func (s *Store) List(limit int) ([]Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT id, source, row_count, score, grade, status, created_at
		 FROM assessments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	out := make([]Assessment, 0, limit)
	for rows.Next() {
		var a Assessment
		var grade, status string
		if err := rows.Scan(&a.ID, &a.Source, &a.RowCount, &a.Score, &grade, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		a.Grade = realism.Grade(grade)
		a.Status = realism.OverallStatus(status)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get returns one assessment with its full report, or sql.ErrNoRows.
func (s *Store) Get(id string) (*Assessment, error) {
	var a Assessment
	var grade, status, payload string

	err := s.db.QueryRow(
		`SELECT id, source, row_count, score, grade, status, result, created_at
		 FROM assessments WHERE id = ?`, id).
		Scan(&a.ID, &a.Source, &a.RowCount, &a.Score, &grade, &status, &payload, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Grade = realism.Grade(grade)
	a.Status = realism.OverallStatus(status)
	if err := json.Unmarshal([]byte(payload), &a.Result); err != nil {
		return nil, fmt.Errorf("failed to decode stored assessment %s: %w", id, err)
	}
	return &a, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func newID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate assessment id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
