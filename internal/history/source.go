package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"asset-insight/internal/logger"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

// ErrInsufficientData is returned when a symbol has fewer than MinPoints
// observations. It is the only recoverable, client-correctable failure in
// the forecast path.
var ErrInsufficientData = errors.New("not enough historical data to predict")

// MinPoints is the minimum series length a forecast can be fitted on.
const MinPoints = 30

// Source produces a uniform daily series regardless of the upstream
// provider: market quotes for stocks and gold, NAV history for funds.
type Source struct {
	yahoo *YahooSource
	mfapi *MFAPISource
}

// NewSource builds the asset-class dispatching source from config.
func NewSource(cfg *store.Config) *Source {
	return &Source{
		yahoo: NewYahooSource(cfg),
		mfapi: NewMFAPISource(cfg),
	}
}

// History fetches the trailing series for a symbol, ascending by date.
// Fewer than MinPoints observations is ErrInsufficientData, not a crash.
func (s *Source) History(ctx context.Context, symbol string, assetType types.AssetType) ([]types.TimeSeriesPoint, error) {
	var (
		series []types.TimeSeriesPoint
		err    error
	)
	switch assetType {
	case types.AssetMutualFund:
		series, err = s.mfapi.History(ctx, symbol)
	default:
		series, err = s.yahoo.History(ctx, symbol)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	if len(series) < MinPoints {
		logger.Warn(ctx, "Insufficient history", "symbol", symbol, "points", len(series))
		return nil, fmt.Errorf("%w: got %d points for %s", ErrInsufficientData, len(series), symbol)
	}
	return series, nil
}

// day strips the time-of-day and timezone components; series dates are
// calendar days.
func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
