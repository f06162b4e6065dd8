package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port         int `yaml:"port"`
		ReadTimeout  int `yaml:"read_timeout_seconds"`
		WriteTimeout int `yaml:"write_timeout_seconds"`
	} `yaml:"server"`

	History struct {
		YahooBaseURL   string `yaml:"yahoo_base_url"`
		MFAPIBaseURL   string `yaml:"mfapi_base_url"`
		LookbackDays   int    `yaml:"lookback_days"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		RatePerMinute  int    `yaml:"rate_per_minute"`
		RetryAttempts  int    `yaml:"retry_attempts"`
	} `yaml:"history"`

	News struct {
		BaseURL        string `yaml:"base_url"`
		Region         string `yaml:"region"` // e.g. "IN"
		Language       string `yaml:"language"`
		MaxHeadlines   int    `yaml:"max_headlines"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		CacheMinutes   int    `yaml:"cache_minutes"`
	} `yaml:"news"`

	Classifier struct {
		Provider       string  `yaml:"provider"` // OPENAI or LEXICON
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
	} `yaml:"classifier"`

	Analysis struct {
		ForecastHorizonDays    int `yaml:"forecast_horizon_days"`
		ForecastTimeoutSeconds int `yaml:"forecast_timeout_seconds"`
		NewsTimeoutSeconds     int `yaml:"news_timeout_seconds"`
	} `yaml:"analysis"`

	Recorder struct {
		SQLitePath string `yaml:"sqlite_path"` // empty disables recording
	} `yaml:"recorder"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.History.LookbackDays < 30 {
		return fmt.Errorf("history.lookback_days must be at least 30, got %d", c.History.LookbackDays)
	}
	if c.News.MaxHeadlines <= 0 {
		return fmt.Errorf("news.max_headlines must be positive, got %d", c.News.MaxHeadlines)
	}
	if c.Classifier.Provider != "OPENAI" && c.Classifier.Provider != "LEXICON" {
		return fmt.Errorf("classifier.provider must be 'OPENAI' or 'LEXICON', got '%s'", c.Classifier.Provider)
	}
	if c.Analysis.ForecastHorizonDays <= 0 {
		return fmt.Errorf("analysis.forecast_horizon_days must be positive, got %d", c.Analysis.ForecastHorizonDays)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// Default returns a configuration usable without a config file.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 120
	}
	if c.History.YahooBaseURL == "" {
		c.History.YahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.History.MFAPIBaseURL == "" {
		c.History.MFAPIBaseURL = "https://api.mfapi.in/mf"
	}
	if c.History.LookbackDays == 0 {
		c.History.LookbackDays = 730
	}
	if c.History.TimeoutSeconds == 0 {
		c.History.TimeoutSeconds = 20
	}
	if c.History.RatePerMinute == 0 {
		c.History.RatePerMinute = 30
	}
	if c.History.RetryAttempts == 0 {
		c.History.RetryAttempts = 3
	}
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://news.google.com"
	}
	if c.News.Region == "" {
		c.News.Region = "IN"
	}
	if c.News.Language == "" {
		c.News.Language = "en"
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 15
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 15
	}
	if c.Classifier.Provider == "" {
		c.Classifier.Provider = "LEXICON"
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = "gpt-4o-mini"
	}
	if c.Classifier.MaxTokens == 0 {
		c.Classifier.MaxTokens = 200
	}
	if c.Classifier.TimeoutSeconds == 0 {
		c.Classifier.TimeoutSeconds = 10
	}
	if c.Analysis.ForecastHorizonDays == 0 {
		c.Analysis.ForecastHorizonDays = 30
	}
	if c.Analysis.ForecastTimeoutSeconds == 0 {
		c.Analysis.ForecastTimeoutSeconds = 30
	}
	if c.Analysis.NewsTimeoutSeconds == 0 {
		c.Analysis.NewsTimeoutSeconds = 20
	}
}
