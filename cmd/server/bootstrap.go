package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"asset-insight/internal/analyzer"
	"asset-insight/internal/classify/classifyobs"
	"asset-insight/internal/classify/lexicon"
	"asset-insight/internal/classify/openai"
	"asset-insight/internal/forecast"
	"asset-insight/internal/history"
	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/news"
	"asset-insight/internal/recorder"
	"asset-insight/internal/store"
	"asset-insight/internal/trace"
)

// initializeSystem initializes environment, logger, and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration, falling back to defaults when no
// config file is present
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "No config.yaml found - using defaults")
			return store.Default(), nil
		}
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeClassifier returns the headline classifier with observability
func initializeClassifier(ctx context.Context, cfg *store.Config) interfaces.Classifier {
	var classifier interfaces.Classifier

	switch cfg.Classifier.Provider {
	case "OPENAI":
		classifier = openai.NewClassifier(cfg)
		if os.Getenv("OPENAI_API_KEY") == "" {
			logger.Warn(ctx, "OPENAI provider configured but OPENAI_API_KEY is not set")
		}
	default:
		classifier = lexicon.NewClassifier()
		logger.Warn(ctx, "No remote classifier configured - using offline lexicon classifier")
	}

	// Wrap with observability middleware
	return classifyobs.Wrap(classifier)
}

// initializeRecorder returns the analysis recorder, Noop when disabled
func initializeRecorder(ctx context.Context, cfg *store.Config) interfaces.Recorder {
	if cfg.Recorder.SQLitePath == "" {
		logger.Info(ctx, "Analysis recording disabled")
		return recorder.NewNoop()
	}

	r, err := recorder.NewSQLite(cfg.Recorder.SQLitePath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open recorder, recording disabled", err)
		return recorder.NewNoop()
	}
	return r
}

// initializeAnalyzer wires both pipelines into the analysis engine
func initializeAnalyzer(ctx context.Context, cfg *store.Config, rec interfaces.Recorder) interfaces.Analyzer {
	source := history.NewSource(cfg)
	engine := forecast.NewEngine(source, forecast.NewSeasonalModel(), cfg.Analysis.ForecastHorizonDays)

	classifier := initializeClassifier(ctx, cfg)
	sentiment := news.NewService(cfg, news.NewFetcher(cfg), classifier)

	return analyzer.New(cfg, engine, sentiment, rec)
}
