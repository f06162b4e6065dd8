package analyzer

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-insight/internal/history"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

type fakeForecast struct {
	graph   []types.ForecastPoint
	metrics types.Metrics
	err     error
	delay   time.Duration
}

func (f *fakeForecast) Run(ctx context.Context, symbol string, assetType types.AssetType) ([]types.ForecastPoint, types.Metrics, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, types.Metrics{}, ctx.Err()
		}
	}
	return f.graph, f.metrics, f.err
}

type fakeSentiment struct {
	feed  []types.NewsItem
	score float64
	err   error
}

func (f *fakeSentiment) Analyze(ctx context.Context, symbol, assetName string, assetType types.AssetType) ([]types.NewsItem, float64, error) {
	return f.feed, f.score, f.err
}

type captureRecorder struct {
	recorded []*types.AnalysisResult
	err      error
}

func (r *captureRecorder) Record(ctx context.Context, rec *types.AnalysisResult) error {
	r.recorded = append(r.recorded, rec)
	return r.err
}

func (r *captureRecorder) Close() error { return nil }

func testGraph() []types.ForecastPoint {
	return []types.ForecastPoint{
		{Date: "2026-08-01", Price: 100, Kind: types.KindHistory},
		{Date: "2026-08-02", Price: 104, Kind: types.KindForecast},
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	fc := &fakeForecast{
		graph: testGraph(),
		metrics: types.Metrics{
			CurrentPrice:     100,
			PredictedPrice:   104,
			GrowthPercentage: 4.0,
			RiskScore:        3.1,
		},
	}
	sn := &fakeSentiment{
		feed: []types.NewsItem{
			{Title: "Record profits", Source: "Wire", Sentiment: types.SentimentPositive, Score: 0.9},
		},
		score: 0.6,
	}
	rec := &captureRecorder{}

	eng := New(store.Default(), fc, sn, rec)
	result, err := eng.Analyze(context.Background(), types.AssetStock, "RELIANCE.NS", "Reliance Industries")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if result.Verdict != types.VerdictStrongBuy {
		t.Errorf("expected Strong Buy for growth 4.0 / sentiment 0.6, got %q", result.Verdict)
	}
	if result.Symbol != "RELIANCE.NS" || result.AssetName != "Reliance Industries" {
		t.Errorf("identity fields not carried through: %+v", result)
	}
	if len(result.GraphData) != 2 || len(result.NewsFeed) != 1 {
		t.Errorf("payload not assembled: graph=%d feed=%d", len(result.GraphData), len(result.NewsFeed))
	}
	if result.Metrics.GrowthPercentage != 4.0 {
		t.Errorf("metrics not carried through: %+v", result.Metrics)
	}
	if len(rec.recorded) != 1 || rec.recorded[0] != result {
		t.Errorf("expected result handed to recorder once, got %d", len(rec.recorded))
	}
}

func TestAnalyzeForecastFailureFailsRequest(t *testing.T) {
	fc := &fakeForecast{err: history.ErrInsufficientData}
	sn := &fakeSentiment{score: 0.8}

	eng := New(store.Default(), fc, sn, nil)
	_, err := eng.Analyze(context.Background(), types.AssetStock, "XYZ.NS", "Xyz")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, history.ErrInsufficientData) {
		t.Errorf("sentinel must survive wrapping, got %v", err)
	}
}

func TestAnalyzeSentimentFailureIsAbsorbed(t *testing.T) {
	fc := &fakeForecast{
		graph:   testGraph(),
		metrics: types.Metrics{GrowthPercentage: 5.0},
	}
	sn := &fakeSentiment{err: errors.New("news upstream down")}

	eng := New(store.Default(), fc, sn, nil)
	result, err := eng.Analyze(context.Background(), types.AssetStock, "TCS.NS", "TCS")
	if err != nil {
		t.Fatalf("sentiment failure must not fail the request: %v", err)
	}

	if result.NewsFeed == nil || len(result.NewsFeed) != 0 {
		t.Errorf("expected empty non-nil feed, got %#v", result.NewsFeed)
	}
	// Neutral sentiment on an up-leg resolves to plain Buy.
	if result.Verdict != types.VerdictBuy {
		t.Errorf("expected Buy with neutral fallback sentiment, got %q", result.Verdict)
	}
}

func TestAnalyzeRecorderFailureIsNonFatal(t *testing.T) {
	fc := &fakeForecast{graph: testGraph(), metrics: types.Metrics{GrowthPercentage: 1.0}}
	sn := &fakeSentiment{feed: []types.NewsItem{}}
	rec := &captureRecorder{err: errors.New("disk full")}

	eng := New(store.Default(), fc, sn, rec)
	result, err := eng.Analyze(context.Background(), types.AssetGold, "GC=F", "Gold")
	if err != nil {
		t.Fatalf("recorder failure must not fail the request: %v", err)
	}
	if result.Verdict != types.VerdictHold {
		t.Errorf("expected Hold in the flat band, got %q", result.Verdict)
	}
}

func TestAnalyzeForecastTimeout(t *testing.T) {
	cfg := store.Default()
	cfg.Analysis.ForecastTimeoutSeconds = 1

	fc := &fakeForecast{delay: 3 * time.Second}
	sn := &fakeSentiment{}

	eng := New(cfg, fc, sn, nil)

	start := time.Now()
	_, err := eng.Analyze(context.Background(), types.AssetStock, "SLOW.NS", "Slow")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout did not bound the request, took %v", elapsed)
	}
}
