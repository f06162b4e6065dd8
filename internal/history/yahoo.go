package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"asset-insight/internal/api"
	"asset-insight/internal/ratelimit"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

// YahooSource fetches daily close prices from the Yahoo Finance chart API
// (unofficial, no API key). Used for stocks and commodities.
type YahooSource struct {
	client   *api.Client
	limiter  *ratelimit.Limiter
	baseURL  string
	lookback int
	attempts int
}

func NewYahooSource(cfg *store.Config) *YahooSource {
	return &YahooSource{
		client: api.NewClient(
			api.WithTimeout(time.Duration(cfg.History.TimeoutSeconds) * time.Second),
		),
		limiter:  ratelimit.NewLimiter("yahoo", cfg.History.RatePerMinute),
		baseURL:  cfg.History.YahooBaseURL,
		lookback: cfg.History.LookbackDays,
		attempts: cfg.History.RetryAttempts,
	}
}

// chartResponse mirrors the chart API payload; only closes are consumed.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns the trailing daily close series for a symbol.
func (s *YahooSource) History(ctx context.Context, symbol string) ([]types.TimeSeriesPoint, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	start := now.AddDate(0, 0, -s.lookback)
	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d&includePrePost=false",
		s.baseURL, symbol, start.Unix(), now.Unix())

	resp, err := s.client.GETWithRetry(ctx, url, s.attempts, api.YahooFinanceHeaders())
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
			s.limiter.SignalRateLimited()
		}
		return nil, fmt.Errorf("yahoo fetch for %s: %w", symbol, err)
	}
	s.limiter.ResetBackoff()

	var data chartResponse
	if err := resp.ParseJSON(&data); err != nil {
		return nil, fmt.Errorf("yahoo decode for %s: %w", symbol, err)
	}

	if data.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, data.Chart.Error.Description)
	}
	if len(data.Chart.Result) == 0 || len(data.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo returned no data for %s", symbol)
	}

	result := data.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	series := make([]types.TimeSeriesPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		series = append(series, types.TimeSeriesPoint{
			Date:  day(time.Unix(ts, 0)),
			Value: closes[i],
		})
	}
	return series, nil
}
