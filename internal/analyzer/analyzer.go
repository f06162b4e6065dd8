// Package analyzer joins the price and news pipelines into one verdict.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
	"asset-insight/internal/verdict"
)

// Engine fans out to the forecast and sentiment pipelines concurrently and
// reduces their outputs through the verdict table. The price pipeline is
// load-bearing; the sentiment pipeline degrades to a neutral signal on
// failure so a news outage never blocks an analysis.
type Engine struct {
	forecast  interfaces.ForecastEngine
	sentiment interfaces.SentimentService
	recorder  interfaces.Recorder

	forecastTimeout time.Duration
	newsTimeout     time.Duration
}

var _ interfaces.Analyzer = (*Engine)(nil)

func New(cfg *store.Config, forecast interfaces.ForecastEngine, sentiment interfaces.SentimentService, recorder interfaces.Recorder) *Engine {
	return &Engine{
		forecast:        forecast,
		sentiment:       sentiment,
		recorder:        recorder,
		forecastTimeout: time.Duration(cfg.Analysis.ForecastTimeoutSeconds) * time.Second,
		newsTimeout:     time.Duration(cfg.Analysis.NewsTimeoutSeconds) * time.Second,
	}
}

type forecastOut struct {
	graph   []types.ForecastPoint
	metrics types.Metrics
	err     error
}

type sentimentOut struct {
	feed  []types.NewsItem
	score float64
	err   error
}

// Analyze runs both pipelines for one asset and assembles the response.
// A forecast failure fails the request; a sentiment failure is absorbed as
// an empty feed with a neutral score.
func (e *Engine) Analyze(ctx context.Context, assetType types.AssetType, symbol, assetName string) (*types.AnalysisResult, error) {
	op := logger.StartOperation(ctx, "analyzer.Analyze")
	ctx = op.GetContext()

	forecastCh := make(chan forecastOut, 1)
	sentimentCh := make(chan sentimentOut, 1)

	go func() {
		fctx, cancel := context.WithTimeout(ctx, e.forecastTimeout)
		defer cancel()
		graph, metrics, err := e.forecast.Run(fctx, symbol, assetType)
		forecastCh <- forecastOut{graph: graph, metrics: metrics, err: err}
	}()

	go func() {
		nctx, cancel := context.WithTimeout(ctx, e.newsTimeout)
		defer cancel()
		feed, score, err := e.sentiment.Analyze(nctx, symbol, assetName, assetType)
		sentimentCh <- sentimentOut{feed: feed, score: score, err: err}
	}()

	fo := <-forecastCh
	so := <-sentimentCh

	if fo.err != nil {
		op.EndWithError(fo.err)
		return nil, fmt.Errorf("price pipeline for %s: %w", symbol, fo.err)
	}

	if so.err != nil {
		logger.Warn(ctx, "Sentiment pipeline failed, proceeding neutral",
			"symbol", symbol, "error", so.err.Error())
		so.feed = []types.NewsItem{}
		so.score = 0.0
	}
	if so.feed == nil {
		so.feed = []types.NewsItem{}
	}

	decision, reason := verdict.Decide(fo.metrics.GrowthPercentage, so.score)
	logger.Verdict(ctx, symbol, string(decision), fo.metrics.GrowthPercentage, so.score, reason)

	result := &types.AnalysisResult{
		Symbol:        symbol,
		AssetName:     assetName,
		Verdict:       decision,
		VerdictReason: reason,
		GraphData:     fo.graph,
		NewsFeed:      so.feed,
		Metrics:       fo.metrics,
	}

	if e.recorder != nil {
		if err := e.recorder.Record(ctx, result); err != nil {
			logger.Warn(ctx, "Failed to record analysis", "symbol", symbol, "error", err.Error())
		}
	}

	op.End()
	return result, nil
}
