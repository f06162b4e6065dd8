package forecast

import (
	"context"
	"fmt"
	"math"

	"asset-insight/internal/history"
	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/trace"
	"asset-insight/internal/types"
)

// graphHistoryPoints limits how much observed history the graph carries; the
// forecast band reads cleanly against a month of actuals.
const graphHistoryPoints = 30

// volatilityWindow is the trailing observation count for the risk proxy.
const volatilityWindow = 30

// Engine runs the numeric half of an analysis: fetch history, fit, project,
// and derive the metric card.
type Engine struct {
	source     interfaces.HistorySource
	forecaster interfaces.Forecaster
	horizon    int
}

func NewEngine(source interfaces.HistorySource, forecaster interfaces.Forecaster, horizon int) *Engine {
	return &Engine{source: source, forecaster: forecaster, horizon: horizon}
}

// Run produces the graph series and metrics for a symbol.
// history.ErrInsufficientData passes through unwrapped so callers can map it
// to a client-correctable failure; everything else is a computation failure.
func (e *Engine) Run(ctx context.Context, symbol string, assetType types.AssetType) ([]types.ForecastPoint, types.Metrics, error) {
	ctx, span := trace.StartSpan(ctx, "forecast.Run")
	defer span.End()

	series, err := e.source.History(ctx, symbol, assetType)
	if err != nil {
		return nil, types.Metrics{}, err
	}
	if len(series) < history.MinPoints {
		return nil, types.Metrics{}, fmt.Errorf("%w: got %d points for %s", history.ErrInsufficientData, len(series), symbol)
	}

	estimates, err := e.forecaster.Forecast(ctx, series, e.horizon)
	if err != nil {
		return nil, types.Metrics{}, fmt.Errorf("forecast fit for %s: %w", symbol, err)
	}
	if len(estimates) == 0 {
		return nil, types.Metrics{}, fmt.Errorf("forecast for %s produced no points", symbol)
	}

	currentPrice := series[len(series)-1].Value
	if currentPrice <= 0 {
		return nil, types.Metrics{}, fmt.Errorf("non-positive latest price %.4f for %s", currentPrice, symbol)
	}
	futurePrice := estimates[len(estimates)-1].Value
	growth := ((futurePrice - currentPrice) / currentPrice) * 100

	volatility := trailingVolatility(series, volatilityWindow)
	risk := math.Min(volatility*2, 10)
	if risk < 0 || math.IsNaN(risk) {
		risk = 0
	}

	metrics := types.Metrics{
		CurrentPrice:     round2(currentPrice),
		PredictedPrice:   round2(futurePrice),
		GrowthPercentage: round2(growth),
		RiskScore:        round1(risk),
	}

	graph := buildGraph(series, estimates)

	logger.Debug(ctx, "Forecast computed",
		"symbol", symbol,
		"points", len(series),
		"growth_pct", metrics.GrowthPercentage,
		"risk", metrics.RiskScore,
	)
	return graph, metrics, nil
}

// trailingVolatility is the sample standard deviation of day-over-day
// percentage returns over the last window observations, as a percentage.
func trailingVolatility(series []types.TimeSeriesPoint, window int) float64 {
	if len(series) < window {
		window = len(series)
	}
	tail := series[len(series)-window:]

	returns := make([]float64, 0, len(tail)-1)
	for i := 1; i < len(tail); i++ {
		prev := tail[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, (tail[i].Value-prev)/prev)
	}
	sd := sampleStdDev(returns)
	if math.IsNaN(sd) {
		return 0
	}
	return sd * 100
}

// buildGraph concatenates the last observed month with the projection into
// one continuous, date-ordered series. Bounds are set only on forecast
// points.
func buildGraph(series []types.TimeSeriesPoint, estimates []types.Estimate) []types.ForecastPoint {
	histTail := series
	if len(histTail) > graphHistoryPoints {
		histTail = histTail[len(histTail)-graphHistoryPoints:]
	}

	graph := make([]types.ForecastPoint, 0, len(histTail)+len(estimates))
	for _, p := range histTail {
		graph = append(graph, types.ForecastPoint{
			Date:  p.Date.Format("2006-01-02"),
			Price: round2(p.Value),
			Kind:  types.KindHistory,
		})
	}
	for _, est := range estimates {
		lower := round2(est.Lower)
		upper := round2(est.Upper)
		graph = append(graph, types.ForecastPoint{
			Date:            est.Date.Format("2006-01-02"),
			Price:           round2(est.Value),
			Kind:            types.KindForecast,
			ConfidenceLower: &lower,
			ConfidenceUpper: &upper,
		})
	}
	return graph
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
