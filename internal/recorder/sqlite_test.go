package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"asset-insight/internal/types"
)

func testResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		Symbol:        "RELIANCE.NS",
		AssetName:     "Reliance Industries",
		Verdict:       types.VerdictBuy,
		VerdictReason: "Technical trend is up, neutral news.",
		NewsFeed: []types.NewsItem{
			{Title: "a", Sentiment: types.SentimentPositive, Score: 0.8},
			{Title: "b", Sentiment: types.SentimentNegative, Score: 0.7},
			{Title: "c", Sentiment: types.SentimentNeutral, Score: 0.5},
		},
		Metrics: types.Metrics{
			CurrentPrice:     100.5,
			PredictedPrice:   104.2,
			GrowthPercentage: 3.68,
			RiskScore:        4.1,
		},
	}
}

func TestSQLiteRecordAndReadBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")

	r, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if err := r.Record(context.Background(), testResult()); err != nil {
		t.Fatalf("record: %v", err)
	}

	var symbol, verdict string
	var growth float64
	var headlines, positive, negative int
	row := r.db.QueryRow(`SELECT symbol, verdict, growth_percentage,
		headline_count, positive_count, negative_count FROM analyses`)
	if err := row.Scan(&symbol, &verdict, &growth, &headlines, &positive, &negative); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if symbol != "RELIANCE.NS" || verdict != "Buy" {
		t.Errorf("unexpected row: symbol=%q verdict=%q", symbol, verdict)
	}
	if growth != 3.68 {
		t.Errorf("growth = %v", growth)
	}
	if headlines != 3 || positive != 1 || negative != 1 {
		t.Errorf("counts = %d/%d/%d", headlines, positive, negative)
	}
}

func TestSQLiteMigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analyses.db")

	r, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	r.Close()

	r2, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	r2.Close()
}

func TestNoopRecorder(t *testing.T) {
	n := NewNoop()
	if err := n.Record(context.Background(), testResult()); err != nil {
		t.Errorf("noop record: %v", err)
	}
	if err := n.Close(); err != nil {
		t.Errorf("noop close: %v", err)
	}
}
