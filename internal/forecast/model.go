package forecast

import (
	"context"
	"errors"
	"math"

	"asset-insight/internal/types"
)

// SeasonalModel is the default Forecaster: a linear trend fitted by least
// squares over days-since-start, plus weekly and yearly seasonal components
// estimated from trend residuals. The uncertainty band is a 90%-style
// interval from the residual standard deviation, widening with horizon.
type SeasonalModel struct{}

func NewSeasonalModel() *SeasonalModel {
	return &SeasonalModel{}
}

// quantile of the standard normal for a two-sided 90% interval
const z90 = 1.645

// Forecast extends the series horizon calendar days past the last
// observation.
func (m *SeasonalModel) Forecast(ctx context.Context, series []types.TimeSeriesPoint, horizon int) ([]types.Estimate, error) {
	if len(series) < 2 {
		return nil, errors.New("series too short to fit")
	}
	if horizon <= 0 {
		return nil, errors.New("horizon must be positive")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origin := series[0].Date
	n := len(series)

	// Least-squares trend over fractional days since origin. Using dates
	// rather than indices keeps weekend/holiday gaps from skewing the slope.
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series {
		xs[i] = p.Date.Sub(origin).Hours() / 24
		ys[i] = p.Value
	}
	slope, intercept := leastSquares(xs, ys)

	// Weekly seasonality from trend residuals.
	residual := make([]float64, n)
	var weekSum [7]float64
	var weekCount [7]int
	for i, p := range series {
		residual[i] = ys[i] - (intercept + slope*xs[i])
		wd := int(p.Date.Weekday())
		weekSum[wd] += residual[i]
		weekCount[wd]++
	}
	var weekly [7]float64
	for d := 0; d < 7; d++ {
		if weekCount[d] > 0 {
			weekly[d] = weekSum[d] / float64(weekCount[d])
		}
	}

	// Yearly seasonality (by month) from what the weekly component leaves.
	var monthSum [13]float64
	var monthCount [13]int
	for i, p := range series {
		r := residual[i] - weekly[int(p.Date.Weekday())]
		mo := int(p.Date.Month())
		monthSum[mo] += r
		monthCount[mo]++
	}
	var yearly [13]float64
	for mo := 1; mo <= 12; mo++ {
		if monthCount[mo] > 0 {
			yearly[mo] = monthSum[mo] / float64(monthCount[mo])
		}
	}

	// Residual spread after both components, for the band.
	var sq float64
	for i, p := range series {
		r := residual[i] - weekly[int(p.Date.Weekday())] - yearly[int(p.Date.Month())]
		sq += r * r
	}
	sigma := math.Sqrt(sq / float64(n-1))

	last := series[n-1].Date
	out := make([]types.Estimate, 0, horizon)
	for h := 1; h <= horizon; h++ {
		date := last.AddDate(0, 0, h)
		x := date.Sub(origin).Hours() / 24
		yhat := intercept + slope*x +
			weekly[int(date.Weekday())] + yearly[int(date.Month())]

		spread := z90 * sigma * math.Sqrt(1+float64(h)/float64(n))
		out = append(out, types.Estimate{
			Date:  date,
			Value: yhat,
			Lower: yhat - spread,
			Upper: yhat + spread,
		})
	}
	return out, nil
}

func leastSquares(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// sampleStdDev is the n-1 weighted standard deviation.
func sampleStdDev(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(vals)-1))
}
