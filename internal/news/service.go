package news

import (
	"context"
	"sync"
	"time"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/store"
	"asset-insight/internal/trace"
	"asset-insight/internal/types"
)

// Service runs the qualitative half of an analysis: retrieval, per-headline
// classification, and reduction to one normalized score.
type Service struct {
	source       interfaces.NewsSource
	classifier   interfaces.Classifier
	cache        *sentimentCache
	maxHeadlines int
}

func NewService(cfg *store.Config, source interfaces.NewsSource, classifier interfaces.Classifier) *Service {
	return &Service{
		source:       source,
		classifier:   classifier,
		cache:        newSentimentCache(time.Duration(cfg.News.CacheMinutes) * time.Minute),
		maxHeadlines: cfg.News.MaxHeadlines,
	}
}

// Analyze fetches and classifies headlines for an asset, returning the feed
// and the normalized sentiment (positive - negative) / total, exactly 0.0
// for an empty feed. Per-headline classification is confidence-blind in the
// aggregate; only the label counts.
func (s *Service) Analyze(ctx context.Context, symbol, assetName string, assetType types.AssetType) ([]types.NewsItem, float64, error) {
	ctx, span := trace.StartSpan(ctx, "news.Analyze")
	defer span.End()

	query := BuildQuery(assetName, assetType)

	if items, score, ok := s.cache.get(query); ok {
		logger.Debug(ctx, "Using cached sentiment", "query", query, "items", len(items))
		return items, score, nil
	}

	logger.Info(ctx, "Searching news", "symbol", symbol, "query", query)
	headlines, err := s.source.Search(ctx, query, s.maxHeadlines)
	if err != nil {
		return nil, 0, err
	}
	if len(headlines) == 0 {
		logger.Warn(ctx, "No news found", "query", query)
		s.cache.set(query, []types.NewsItem{}, 0)
		return []types.NewsItem{}, 0, nil
	}

	items := make([]types.NewsItem, 0, len(headlines))
	for _, h := range headlines {
		sentiment, score, err := s.classifier.Classify(ctx, h.Title)
		if err != nil {
			// One bad headline must never abort the batch.
			logger.ErrorWithErr(ctx, "Failed to classify headline", err, "headline", h.Title)
			sentiment, score = types.SentimentNeutral, 0.0
		}
		items = append(items, types.NewsItem{
			Title:     h.Title,
			Source:    h.Source,
			Sentiment: sentiment,
			Score:     score,
		})
	}

	normalized := Aggregate(items)
	s.cache.set(query, items, normalized)

	logger.Info(ctx, "Sentiment analysis completed",
		"symbol", symbol, "items", len(items), "normalized", normalized)
	return items, normalized, nil
}

// Aggregate reduces classified items to (positives - negatives) / total.
// Neutral items widen the denominator but contribute no sign; confidence
// scores are deliberately ignored.
func Aggregate(items []types.NewsItem) float64 {
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, item := range items {
		switch item.Sentiment {
		case types.SentimentPositive:
			total++
		case types.SentimentNegative:
			total--
		}
	}
	return float64(total) / float64(len(items))
}

// sentimentCache keeps recent query results so repeated analyses of hot
// symbols don't hammer the news source.
type sentimentCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	items     []types.NewsItem
	score     float64
	timestamp time.Time
}

func newSentimentCache(ttl time.Duration) *sentimentCache {
	cache := &sentimentCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
	go cache.cleanupLoop()
	return cache
}

func (c *sentimentCache) get(query string) ([]types.NewsItem, float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[query]
	if !exists || time.Since(entry.timestamp) > c.ttl {
		return nil, 0, false
	}
	return entry.items, entry.score, true
}

func (c *sentimentCache) set(query string, items []types.NewsItem, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[query] = &cacheEntry{items: items, score: score, timestamp: time.Now()}
}

func (c *sentimentCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *sentimentCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for query, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, query)
		}
	}
}
