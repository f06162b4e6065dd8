package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"asset-insight/internal/api"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

// MFAPISource fetches mutual fund NAV history from mfapi.in. Entries arrive
// newest-first with string-encoded NAVs and DD-MM-YYYY dates.
type MFAPISource struct {
	client   *api.Client
	baseURL  string
	lookback int
	attempts int
}

func NewMFAPISource(cfg *store.Config) *MFAPISource {
	return &MFAPISource{
		client: api.NewClient(
			api.WithTimeout(time.Duration(cfg.History.TimeoutSeconds) * time.Second),
		),
		baseURL:  cfg.History.MFAPIBaseURL,
		lookback: cfg.History.LookbackDays,
		attempts: cfg.History.RetryAttempts,
	}
}

type navResponse struct {
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
}

// History returns the trailing NAV series for a fund scheme code.
func (s *MFAPISource) History(ctx context.Context, schemeCode string) ([]types.TimeSeriesPoint, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, schemeCode)

	resp, err := s.client.GETWithRetry(ctx, url, s.attempts, api.BrowserHeaders())
	if err != nil {
		return nil, fmt.Errorf("mfapi fetch for %s: %w", schemeCode, err)
	}

	var data navResponse
	if err := resp.ParseJSON(&data); err != nil {
		return nil, fmt.Errorf("mfapi decode for %s: %w", schemeCode, err)
	}

	cutoff := day(time.Now().AddDate(0, 0, -s.lookback))

	series := make([]types.TimeSeriesPoint, 0, len(data.Data))
	for _, entry := range data.Data {
		date, err := time.Parse("02-01-2006", entry.Date)
		if err != nil {
			continue
		}
		nav, err := strconv.ParseFloat(entry.NAV, 64)
		if err != nil || nav <= 0 {
			continue
		}
		d := day(date)
		if !d.After(cutoff) {
			continue
		}
		series = append(series, types.TimeSeriesPoint{Date: d, Value: nav})
	}
	return series, nil
}
