package types

import "time"

// AssetType selects the upstream price source and the news query shape.
type AssetType string

const (
	AssetStock      AssetType = "stock"
	AssetMutualFund AssetType = "mutual_fund"
	AssetGold       AssetType = "gold"
)

// ParseAssetType validates a URL path segment into an AssetType.
func ParseAssetType(s string) (AssetType, bool) {
	switch AssetType(s) {
	case AssetStock, AssetMutualFund, AssetGold:
		return AssetType(s), true
	}
	return "", false
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type Verdict string

const (
	VerdictStrongBuy  Verdict = "Strong Buy"
	VerdictBuy        Verdict = "Buy"
	VerdictHold       Verdict = "Hold"
	VerdictSell       Verdict = "Sell"
	VerdictStrongSell Verdict = "Strong Sell"
)

// TimeSeriesPoint is one observed (calendar day, value) sample. Series are
// ordered ascending by date and immutable once fetched.
type TimeSeriesPoint struct {
	Date  time.Time
	Value float64
}

// Estimate is one forecasted value with its uncertainty band.
type Estimate struct {
	Date  time.Time
	Value float64
	Lower float64
	Upper float64
}

// Graph point kinds.
const (
	KindHistory  = "history"
	KindForecast = "forecast"
)

// ForecastPoint is one point of the 60-point graph series the client renders.
// Confidence bounds are present only for forecast points.
type ForecastPoint struct {
	Date            string   `json:"date"` // YYYY-MM-DD
	Price           float64  `json:"price"`
	Kind            string   `json:"type"`
	ConfidenceLower *float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper *float64 `json:"confidence_upper,omitempty"`
}

// Metrics are computed once per analysis request and never persisted.
type Metrics struct {
	CurrentPrice     float64 `json:"current_price"`
	PredictedPrice   float64 `json:"predicted_price_30d"`
	GrowthPercentage float64 `json:"growth_percentage"`
	RiskScore        float64 `json:"risk_score"` // 0..10
}

// Headline is a raw retrieved news item, before classification.
type Headline struct {
	Title  string
	Source string
}

// NewsItem is a classified headline. Score is the classifier's confidence in
// its own label (0..1), not a signed sentiment magnitude.
type NewsItem struct {
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Sentiment Sentiment `json:"sentiment"`
	Score     float64   `json:"score"`
}

// AnalysisResult is the transient root aggregate returned to the client. It
// is built fresh per request and has no storage lifecycle.
type AnalysisResult struct {
	Symbol        string          `json:"symbol"`
	AssetName     string          `json:"asset_name"`
	Verdict       Verdict         `json:"verdict"`
	VerdictReason string          `json:"verdict_reason"`
	GraphData     []ForecastPoint `json:"graph_data"`
	NewsFeed      []NewsItem      `json:"news_feed"`
	Metrics       Metrics         `json:"metrics"`
}
