package forecast

import (
	"context"
	"testing"
	"time"

	"asset-insight/internal/types"
)

func dailySeries(start time.Time, n int, value func(i int) float64) []types.TimeSeriesPoint {
	series := make([]types.TimeSeriesPoint, n)
	for i := 0; i < n; i++ {
		series[i] = types.TimeSeriesPoint{
			Date:  start.AddDate(0, 0, i),
			Value: value(i),
		}
	}
	return series
}

func TestSeasonalModelFollowsTrend(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := dailySeries(start, 120, func(i int) float64 { return 100 + float64(i)*0.5 })

	model := NewSeasonalModel()
	estimates, err := model.Forecast(context.Background(), series, 30)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	if len(estimates) != 30 {
		t.Fatalf("expected 30 estimates, got %d", len(estimates))
	}

	last := series[len(series)-1]
	if estimates[0].Date.Sub(last.Date) != 24*time.Hour {
		t.Errorf("first forecast date should be the day after the last observation")
	}
	if estimates[29].Value <= last.Value {
		t.Errorf("uptrend should project above last value: got %.2f vs %.2f",
			estimates[29].Value, last.Value)
	}
	// A clean linear series should be projected near-exactly
	want := 100 + float64(119+30)*0.5
	if diff := estimates[29].Value - want; diff > 1 || diff < -1 {
		t.Errorf("expected ~%.2f at +30d, got %.2f", want, estimates[29].Value)
	}
}

func TestSeasonalModelBand(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	// Noisy-ish sawtooth around a flat level
	series := dailySeries(start, 90, func(i int) float64 { return 200 + float64(i%5) })

	model := NewSeasonalModel()
	estimates, err := model.Forecast(context.Background(), series, 30)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}

	for i, est := range estimates {
		if est.Lower >= est.Value || est.Upper <= est.Value {
			t.Fatalf("estimate %d: band [%.2f, %.2f] does not bracket %.2f",
				i, est.Lower, est.Upper, est.Value)
		}
	}

	near := estimates[0].Upper - estimates[0].Lower
	far := estimates[29].Upper - estimates[29].Lower
	if far <= near {
		t.Errorf("band should widen with horizon: +1d width %.4f, +30d width %.4f", near, far)
	}
}

func TestSeasonalModelRejectsShortSeries(t *testing.T) {
	model := NewSeasonalModel()
	_, err := model.Forecast(context.Background(), []types.TimeSeriesPoint{
		{Date: time.Now(), Value: 1},
	}, 30)
	if err == nil {
		t.Error("expected error for single-point series")
	}
}

func TestSampleStdDev(t *testing.T) {
	// Known sample std: {2,4,4,4,5,5,7,9} has sample variance 32/7
	got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := 2.138089935
	if diff := got - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("sampleStdDev = %.9f, want %.9f", got, want)
	}
}
