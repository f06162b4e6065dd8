package classifyobs

import (
	"context"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/logger"
	"asset-insight/internal/trace"
	"asset-insight/internal/types"
)

// observableClassifier wraps a Classifier with logging and tracing
type observableClassifier struct {
	classifier interfaces.Classifier
}

// Compile-time interface check
var _ interfaces.Classifier = (*observableClassifier)(nil)

// Wrap wraps a classifier with observability middleware
func Wrap(classifier interfaces.Classifier) interfaces.Classifier {
	return &observableClassifier{classifier: classifier}
}

func (oc *observableClassifier) Classify(ctx context.Context, headline string) (types.Sentiment, float64, error) {
	ctx, span := trace.StartSpan(ctx, "classify.Classify")
	defer span.End()

	sentiment, score, err := oc.classifier.Classify(ctx, headline)
	if err != nil {
		// Use Skip(1) so logs report the actual caller, not this wrapper
		logger.ErrorWithErrSkip(ctx, 1, "Headline classification failed", err, "headline", headline)
		return sentiment, score, err
	}

	logger.DebugSkip(ctx, 1, "Headline classified",
		"headline", headline,
		"sentiment", string(sentiment),
		"score", score,
	)
	return sentiment, score, nil
}
