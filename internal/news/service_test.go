package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

type fakeSource struct {
	headlines []types.Headline
	err       error
	calls     int
	lastLimit int
}

func (f *fakeSource) Search(ctx context.Context, query string, limit int) ([]types.Headline, error) {
	f.calls++
	f.lastLimit = limit
	return f.headlines, f.err
}

type scriptedClassifier struct {
	labels []types.Sentiment
	errAt  map[int]error
	calls  int
}

func (s *scriptedClassifier) Classify(ctx context.Context, headline string) (types.Sentiment, float64, error) {
	i := s.calls
	s.calls++
	if err, ok := s.errAt[i]; ok {
		return types.SentimentNeutral, 0, err
	}
	return s.labels[i], 0.9, nil
}

func headlines(n int) []types.Headline {
	hs := make([]types.Headline, n)
	for i := range hs {
		hs[i] = types.Headline{Title: "headline", Source: "Google News"}
	}
	return hs
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name  string
		items []types.NewsItem
		want  float64
	}{
		{"empty feed is exactly zero", nil, 0.0},
		{"all positive", []types.NewsItem{
			{Sentiment: types.SentimentPositive},
			{Sentiment: types.SentimentPositive},
		}, 1.0},
		{"all negative", []types.NewsItem{
			{Sentiment: types.SentimentNegative},
			{Sentiment: types.SentimentNegative},
		}, -1.0},
		{"3 positive 1 negative 1 neutral", []types.NewsItem{
			{Sentiment: types.SentimentPositive},
			{Sentiment: types.SentimentPositive},
			{Sentiment: types.SentimentPositive},
			{Sentiment: types.SentimentNegative},
			{Sentiment: types.SentimentNeutral},
		}, 0.4},
		{"neutral widens the denominator", []types.NewsItem{
			{Sentiment: types.SentimentPositive},
			{Sentiment: types.SentimentNeutral},
		}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.items); got != tt.want {
				t.Errorf("Aggregate = %v, want %v", got, tt.want)
			}
			if got := Aggregate(tt.items); got < -1 || got > 1 {
				t.Errorf("Aggregate out of [-1, 1]: %v", got)
			}
		})
	}
}

func TestAnalyzeCountsLabels(t *testing.T) {
	src := &fakeSource{headlines: headlines(5)}
	cls := &scriptedClassifier{labels: []types.Sentiment{
		types.SentimentPositive,
		types.SentimentPositive,
		types.SentimentPositive,
		types.SentimentNegative,
		types.SentimentNeutral,
	}}

	svc := NewService(store.Default(), src, cls)
	items, score, err := svc.Analyze(context.Background(), "TCS.NS", "Tata Consultancy", types.AssetStock)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	if score != 0.4 {
		t.Errorf("normalized sentiment = %v, want 0.4", score)
	}
	if src.lastLimit != 5 {
		t.Errorf("expected top-5 cutoff passed to source, got %d", src.lastLimit)
	}
}

func TestAnalyzePerHeadlineFailureDegradesToNeutral(t *testing.T) {
	src := &fakeSource{headlines: headlines(3)}
	cls := &scriptedClassifier{
		labels: []types.Sentiment{types.SentimentPositive, "", types.SentimentPositive},
		errAt:  map[int]error{1: errors.New("classifier down")},
	}

	svc := NewService(store.Default(), src, cls)
	items, score, err := svc.Analyze(context.Background(), "X", "X Corp", types.AssetStock)
	if err != nil {
		t.Fatalf("one failed headline must not abort the batch: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[1].Sentiment != types.SentimentNeutral || items[1].Score != 0.0 {
		t.Errorf("failed headline should be neutral/0.0, got %s/%.2f",
			items[1].Sentiment, items[1].Score)
	}
	// (2-0)/3
	if diff := score - 2.0/3.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("normalized sentiment = %v, want 2/3", score)
	}
}

func TestAnalyzeEmptyFeed(t *testing.T) {
	src := &fakeSource{headlines: nil}
	svc := NewService(store.Default(), src, &scriptedClassifier{})

	items, score, err := svc.Analyze(context.Background(), "X", "X Corp", types.AssetStock)
	if err != nil {
		t.Fatalf("zero results is not an error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty feed, got %d items", len(items))
	}
	if score != 0.0 {
		t.Errorf("empty feed sentiment must be exactly 0.0, got %v", score)
	}
}

func TestAnalyzeSourceFailurePropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("news source unreachable")}
	svc := NewService(store.Default(), src, &scriptedClassifier{})

	_, _, err := svc.Analyze(context.Background(), "X", "X Corp", types.AssetStock)
	if err == nil {
		t.Fatal("expected error when the source is unreachable; the orchestrator absorbs it")
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	src := &fakeSource{headlines: headlines(2)}
	cls := &scriptedClassifier{labels: []types.Sentiment{
		types.SentimentPositive, types.SentimentPositive,
	}}

	svc := NewService(store.Default(), src, cls)
	ctx := context.Background()

	if _, _, err := svc.Analyze(ctx, "X", "X Corp", types.AssetStock); err != nil {
		t.Fatal(err)
	}
	if _, score, err := svc.Analyze(ctx, "X", "X Corp", types.AssetStock); err != nil {
		t.Fatal(err)
	} else if score != 1.0 {
		t.Errorf("cached score = %v, want 1.0", score)
	}

	if src.calls != 1 {
		t.Errorf("expected 1 source fetch thanks to the cache, got %d", src.calls)
	}
}

func TestSentimentCacheExpiry(t *testing.T) {
	cache := newSentimentCache(50 * time.Millisecond)
	cache.set("q", []types.NewsItem{{Title: "x"}}, 0.5)

	if _, _, ok := cache.get("q"); !ok {
		t.Fatal("expected cache hit")
	}

	time.Sleep(80 * time.Millisecond)
	if _, _, ok := cache.get("q"); ok {
		t.Error("expected cache entry to expire")
	}

	cache.cleanup()
	cache.mu.RLock()
	n := len(cache.data)
	cache.mu.RUnlock()
	if n != 0 {
		t.Errorf("expected 0 entries after cleanup, got %d", n)
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		assetType types.AssetType
		name      string
		want      string
	}{
		{types.AssetGold, "Gold ETF", "Gold Price India"},
		{types.AssetMutualFund, "SBI Small Cap", "SBI Small Cap Mutual Fund"},
		{types.AssetStock, "Reliance Industries", "Reliance Industries share news"},
	}
	for _, tt := range tests {
		if got := BuildQuery(tt.name, tt.assetType); got != tt.want {
			t.Errorf("BuildQuery(%q, %s) = %q, want %q", tt.name, tt.assetType, got, tt.want)
		}
	}
}
