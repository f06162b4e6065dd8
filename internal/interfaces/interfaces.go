package interfaces

import (
	"context"

	"asset-insight/internal/types"
)

// HistorySource retrieves the trailing price/NAV series for a symbol,
// normalized to ascending calendar-day points regardless of provider.
type HistorySource interface {
	History(ctx context.Context, symbol string, assetType types.AssetType) ([]types.TimeSeriesPoint, error)
}

// Forecaster extends an observed series horizon periods forward, each point
// carrying an uncertainty band. The fitting internals are a black box.
type Forecaster interface {
	Forecast(ctx context.Context, series []types.TimeSeriesPoint, horizon int) ([]types.Estimate, error)
}

// NewsSource retrieves recent headlines for a free-text query, most recent
// first per the source's default ordering.
type NewsSource interface {
	Search(ctx context.Context, query string, limit int) ([]types.Headline, error)
}

// Classifier labels a single headline with a polarity and a confidence in
// that label (0..1).
type Classifier interface {
	Classify(ctx context.Context, headline string) (types.Sentiment, float64, error)
}

// ForecastEngine runs the full price pipeline for one symbol: history fetch,
// projection, derived metrics, and the combined graph series.
type ForecastEngine interface {
	Run(ctx context.Context, symbol string, assetType types.AssetType) ([]types.ForecastPoint, types.Metrics, error)
}

// SentimentService runs the news retrieval + classification pipeline and
// reduces it to a feed plus one normalized score in [-1, 1].
type SentimentService interface {
	Analyze(ctx context.Context, symbol, assetName string, assetType types.AssetType) ([]types.NewsItem, float64, error)
}

// Analyzer is the engine entry point: both pipelines, the verdict, and the
// assembled response.
type Analyzer interface {
	Analyze(ctx context.Context, assetType types.AssetType, symbol, assetName string) (*types.AnalysisResult, error)
}

// Recorder persists completed analyses for later review. Implementations
// must never fail the analysis that fed them.
type Recorder interface {
	Record(ctx context.Context, rec *types.AnalysisResult) error
	Close() error
}
