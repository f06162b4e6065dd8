package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"asset-insight/internal/api"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

const systemPrompt = "You are a financial news sentiment classifier. " +
	"Label the headline positive, negative, or neutral for investors in the asset it mentions. " +
	"Respond ONLY with valid JSON."

const responseSchema = `{"label": "positive|negative|neutral", "score": 0.0 to 1.0}`

// Classifier labels headlines through the OpenAI chat completions API.
type Classifier struct {
	client      *api.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewClassifier(cfg *store.Config) *Classifier {
	return &Classifier{
		client: api.NewClient(
			api.WithBaseURL("https://api.openai.com"),
			api.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second),
		),
		model:       cfg.Classifier.Model,
		maxTokens:   cfg.Classifier.MaxTokens,
		temperature: cfg.Classifier.Temperature,
	}
}

// Classify returns the polarity label and the model's confidence in it.
func (c *Classifier) Classify(ctx context.Context, headline string) (types.Sentiment, float64, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return types.SentimentNeutral, 0, errors.New("OPENAI_API_KEY missing")
	}

	prompt := fmt.Sprintf("Headline: %s\n\nRespond with JSON matching this schema:\n%s", headline, responseSchema)

	body := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	resp, err := c.client.POST(ctx, "/v1/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		return types.SentimentNeutral, 0, err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return types.SentimentNeutral, 0, err
	}
	if len(r.Choices) == 0 {
		return types.SentimentNeutral, 0, errors.New("no choices")
	}

	content := strings.TrimSpace(r.Choices[0].Message.Content)

	var result struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return types.SentimentNeutral, 0, fmt.Errorf("invalid JSON response: %w", err)
	}

	label, ok := parseLabel(result.Label)
	if !ok {
		return types.SentimentNeutral, 0, fmt.Errorf("unknown label %q", result.Label)
	}
	if result.Score < 0 || result.Score > 1 {
		return types.SentimentNeutral, 0, fmt.Errorf("score %.2f out of range", result.Score)
	}
	return label, result.Score, nil
}

func parseLabel(s string) (types.Sentiment, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return types.SentimentPositive, true
	case "negative":
		return types.SentimentNegative, true
	case "neutral":
		return types.SentimentNeutral, true
	}
	return types.SentimentNeutral, false
}
