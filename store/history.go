// Package store persists completed analyses with SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avestoai/avesto-go/core"
)

// SQLiteHistory records analysis results for later retrieval.
type SQLiteHistory struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteHistory opens (or creates) the history database at dbPath.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	h := &SQLiteHistory{db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return h, nil
}

func (h *SQLiteHistory) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		analysis_type TEXT NOT NULL,
		total_annual_value REAL NOT NULL,
		confidence_score REAL NOT NULL,
		fallback_mode INTEGER NOT NULL,
		data_source TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_user_id ON analyses(user_id);
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
	`

	_, err := h.db.Exec(schema)
	return err
}

// Record stores one analysis result. Satisfies the engine's Recorder.
func (h *SQLiteHistory) Record(ctx context.Context, result *core.AnalysisResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO analyses (id, user_id, analysis_type, total_annual_value, confidence_score, fallback_mode, data_source, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.AnalysisID, result.UserID, result.AnalysisType, result.TotalAnnualValue,
		result.ConfidenceScore, result.FallbackMode, result.DataSource, string(raw), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to record analysis: %w", err)
	}
	return nil
}

// Get retrieves one analysis by ID.
func (h *SQLiteHistory) Get(ctx context.Context, analysisID string) (*core.AnalysisResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var raw string
	err := h.db.QueryRowContext(ctx, `
		SELECT result_json FROM analyses WHERE id = ?
	`, analysisID).Scan(&raw)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var result core.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &result, nil
}

// ListByUser returns a user's analyses, newest first, up to limit.
func (h *SQLiteHistory) ListByUser(ctx context.Context, userID string, limit int) ([]*core.AnalysisResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT result_json FROM analyses
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var results []*core.AnalysisResult
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		var result core.AnalysisResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to decode analysis: %w", err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
