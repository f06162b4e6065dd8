package lexicon

import (
	"context"
	"math"
	"strings"

	"asset-insight/internal/types"
)

// Classifier is an offline word-list sentiment classifier, used when no
// remote classifier is configured. Crude next to a fine-tuned model, but it
// keeps the service answering without an API key.
type Classifier struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

var positiveWords = []string{
	"gain", "gains", "surge", "surges", "rally", "rallies", "jump", "jumps",
	"rise", "rises", "soar", "soars", "record", "profit", "profits", "beat",
	"beats", "upgrade", "upgraded", "growth", "strong", "bullish", "boost",
	"boosts", "outperform", "dividend", "buyback", "expansion", "wins", "win",
	"approval", "breakthrough", "high", "highs", "recover", "recovery",
}

var negativeWords = []string{
	"loss", "losses", "fall", "falls", "drop", "drops", "plunge", "plunges",
	"crash", "crashes", "slump", "slumps", "decline", "declines", "miss",
	"misses", "downgrade", "downgraded", "weak", "bearish", "fraud", "probe",
	"lawsuit", "default", "bankruptcy", "layoff", "layoffs", "cut", "cuts",
	"warning", "scandal", "penalty", "fine", "fined", "low", "lows", "scam",
}

func NewClassifier() *Classifier {
	c := &Classifier{
		positive: make(map[string]struct{}, len(positiveWords)),
		negative: make(map[string]struct{}, len(negativeWords)),
	}
	for _, w := range positiveWords {
		c.positive[w] = struct{}{}
	}
	for _, w := range negativeWords {
		c.negative[w] = struct{}{}
	}
	return c
}

// Classify counts signal words in the headline. The label follows the
// majority; the confidence is the majority share of matched words, or a weak
// 0.5 for a headline with no signal words at all.
func (c *Classifier) Classify(ctx context.Context, headline string) (types.Sentiment, float64, error) {
	var pos, neg int
	for _, word := range strings.Fields(strings.ToLower(headline)) {
		word = strings.Trim(word, ".,;:!?'\"()[]%")
		if _, ok := c.positive[word]; ok {
			pos++
		}
		if _, ok := c.negative[word]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 || pos == neg {
		return types.SentimentNeutral, 0.5, nil
	}

	score := round2(float64(max(pos, neg)) / float64(total))
	if pos > neg {
		return types.SentimentPositive, score, nil
	}
	return types.SentimentNegative, score, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
