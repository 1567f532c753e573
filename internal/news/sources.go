// internal/news/sources.go
package news

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"gridiron-workers/internal/common/config"
	"gridiron-workers/internal/common/logger"
	"gridiron-workers/internal/common/metrics"
	"gridiron-workers/internal/models"
)

const defaultSourceTimeout = 5 * time.Second

// Fetcher pulls articles from the configured RSS feeds in parallel. One
// slow or dead source never blocks the rest; it just contributes nothing.
type Fetcher struct {
	parser  *gofeed.Parser
	logger  logger.Logger
	timeout time.Duration
}

func NewFetcher(log logger.Logger, perSourceTimeout time.Duration) *Fetcher {
	if perSourceTimeout <= 0 {
		perSourceTimeout = defaultSourceTimeout
	}
	return &Fetcher{
		parser:  gofeed.NewParser(),
		logger:  log.WithFields(map[string]interface{}{"component": "news_fetcher"}),
		timeout: perSourceTimeout,
	}
}

// FetchAll fans out to every source concurrently and merges the results,
// deduplicating by article URL across sources. Per-source failures are logged
// and counted, not propagated; the batch is whatever the healthy sources
// returned. The second return value is the number of sources that responded,
// so callers can tell a quiet news day from a full outage.
func (f *Fetcher) FetchAll(ctx context.Context, sources []config.NewsSourceConfig) ([]models.NewsArticle, int) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		articles []models.NewsArticle
		healthy  int
		seen     = make(map[string]bool)
	)

	for _, src := range sources {
		wg.Add(1)
		go func(src config.NewsSourceConfig) {
			defer wg.Done()

			fetched, err := f.fetchSource(ctx, src)
			if err != nil {
				metrics.NewsSourceFailures.WithLabelValues(src.Name).Inc()
				f.logger.Warn("news source fetch failed", map[string]interface{}{
					"source": src.Name,
					"url":    src.URL,
					"error":  err.Error(),
				})
				return
			}
			metrics.NewsArticlesFetched.WithLabelValues(src.Name).Add(float64(len(fetched)))

			mu.Lock()
			healthy++
			for _, a := range fetched {
				if a.URL != "" && seen[a.URL] {
					continue
				}
				seen[a.URL] = true
				articles = append(articles, a)
			}
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	// Goroutine completion order is nondeterministic; fix the batch order
	// before scoring so equal-score ties break the same way every run.
	sort.SliceStable(articles, func(i, j int) bool {
		ai, aj := publishedOrZero(articles[i]), publishedOrZero(articles[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return articles[i].URL < articles[j].URL
	})
	return articles, healthy
}

func (f *Fetcher) fetchSource(ctx context.Context, src config.NewsSourceConfig) ([]models.NewsArticle, error) {
	srcCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(src.URL, srcCtx)
	if err != nil {
		return nil, err
	}

	out := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		out = append(out, models.NewsArticle{
			Title:       strings.TrimSpace(item.Title),
			URL:         strings.TrimSpace(item.Link),
			SourceName:  src.Name,
			PublishedAt: item.PublishedParsed,
			BodySnippet: snippet(item),
		})
	}
	return out, nil
}

// snippet prefers the item description and falls back to content. Feeds that
// ship full HTML bodies get truncated; the scorer only needs mention counts,
// not the whole article.
const maxSnippetLen = 2000

func snippet(item *gofeed.Item) string {
	body := strings.TrimSpace(item.Description)
	if body == "" {
		body = strings.TrimSpace(item.Content)
	}
	if len(body) > maxSnippetLen {
		body = body[:maxSnippetLen]
	}
	return body
}
