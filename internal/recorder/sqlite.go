// Package recorder persists completed analyses for later review.
package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/types"
)

// SQLite appends one row per completed analysis. Failures here must never
// fail the analysis that produced the row; callers log and move on.
type SQLite struct {
	db *sql.DB
	mu sync.Mutex
}

var _ interfaces.Recorder = (*SQLite)(nil)

// NewSQLite opens (or creates) the database and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads of past analyses do not block writers.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLite{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info(context.Background(), "SQLite recorder opened", "path", dbPath)
	return r, nil
}

func (r *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp          INTEGER NOT NULL,
			symbol             TEXT NOT NULL,
			asset_name         TEXT,
			verdict            TEXT NOT NULL,
			verdict_reason     TEXT,
			current_price      REAL,
			predicted_price    REAL,
			growth_percentage  REAL,
			risk_score         REAL,
			headline_count     INTEGER,
			positive_count     INTEGER,
			negative_count     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_ts ON analyses(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol ON analyses(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLite) Record(ctx context.Context, rec *types.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var positive, negative int
	for _, item := range rec.NewsFeed {
		switch item.Sentiment {
		case types.SentimentPositive:
			positive++
		case types.SentimentNegative:
			negative++
		}
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO analyses
		(timestamp, symbol, asset_name, verdict, verdict_reason,
		 current_price, predicted_price, growth_percentage, risk_score,
		 headline_count, positive_count, negative_count)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Symbol, rec.AssetName,
		string(rec.Verdict), rec.VerdictReason,
		rec.Metrics.CurrentPrice, rec.Metrics.PredictedPrice,
		rec.Metrics.GrowthPercentage, rec.Metrics.RiskScore,
		len(rec.NewsFeed), positive, negative,
	)
	return err
}

func (r *SQLite) Close() error {
	return r.db.Close()
}
