package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"asset-insight/internal/logger"
	"asset-insight/internal/store"
	"asset-insight/internal/types"
)

const defaultSourceName = "Google News"

// Fetcher retrieves recent headlines from the Google News search page.
type Fetcher struct {
	baseURL  string
	region   string
	language string
	timeout  time.Duration
}

func NewFetcher(cfg *store.Config) *Fetcher {
	return &Fetcher{
		baseURL:  cfg.News.BaseURL,
		region:   cfg.News.Region,
		language: cfg.News.Language,
		timeout:  time.Duration(cfg.News.TimeoutSeconds) * time.Second,
	}
}

// Search returns up to limit headlines for a query, in the source's default
// (recency) ordering. Zero results is an empty slice, not an error.
func (f *Fetcher) Search(ctx context.Context, query string, limit int) ([]types.Headline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headlines := []types.Headline{}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(f.baseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(headlines) >= limit {
			return
		}

		title := strings.TrimSpace(e.ChildText("h3, h4, a.JtKRv"))
		if title == "" {
			return
		}

		source := strings.TrimSpace(e.ChildText("div.vr1PYe, div.wEwyrc"))
		if source == "" {
			source = defaultSourceName
		}

		headlines = append(headlines, types.Headline{
			Title:  title,
			Source: source,
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = err
	})

	searchURL := fmt.Sprintf("%s/search?q=%s&hl=%s-%s&gl=%s&ceid=%s:%s",
		f.baseURL, url.QueryEscape(query),
		f.language, f.region, f.region, f.region, f.language)

	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("news search %q: %w", query, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, fmt.Errorf("news search %q: %w", query, visitErr)
	}

	logger.Debug(ctx, "News search completed", "query", query, "headlines", len(headlines))
	return headlines, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
