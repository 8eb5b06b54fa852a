// Package ingest pulls notices from each category's RSS/Atom feed into the notice store.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kunotice/notice-backend/internal/common"
	"github.com/kunotice/notice-backend/internal/domain"
	"github.com/kunotice/notice-backend/internal/repository"
	"github.com/kunotice/notice-backend/pkg/logger"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// DefaultFetchInterval 피드 요청 간 최소 간격
const DefaultFetchInterval = 500 * time.Millisecond

// Result summarises one ingestion pass
type Result struct {
	Feeds    int
	Inserted int
	Failed   int
}

// Ingester fetches category feeds and stores unseen notices
type Ingester struct {
	categories repository.CategoryRepository
	notices    repository.NoticeRepository
	parser     *gofeed.Parser
	limiter    *rate.Limiter
	now        func() time.Time
}

// New creates an Ingester. fetchInterval <= 0 disables pacing.
func New(categories repository.CategoryRepository, notices repository.NoticeRepository, timeout, fetchInterval time.Duration) *Ingester {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}

	limit := rate.Inf
	if fetchInterval > 0 {
		limit = rate.Every(fetchInterval)
	}

	return &Ingester{
		categories: categories,
		notices:    notices,
		parser:     parser,
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
	}
}

// RunOnce ingests every category with a feed. A failing feed is logged and skipped.
func (i *Ingester) RunOnce(ctx context.Context) (Result, error) {
	var res Result

	categories, err := i.categories.ListWithFeed(ctx)
	if err != nil {
		return res, fmt.Errorf("list feeds: %w", err)
	}

	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Feeds++

		n, err := i.IngestCategory(ctx, c)
		res.Inserted += n
		if err != nil {
			res.Failed++
			logger.Warn("ingest category %d (%s): %v", c.ID, c.FeedURL, err)
		}
	}

	logger.GetLogger().Info().
		Int("feeds", res.Feeds).
		Int("inserted", res.Inserted).
		Int("failed", res.Failed).
		Msg("ingest pass finished")
	return res, nil
}

// IngestCategory fetches one category feed and returns how many new notices were stored
func (i *Ingester) IngestCategory(ctx context.Context, c *domain.Category) (int, error) {
	if err := i.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	feed, err := i.parser.ParseURLWithContext(c.FeedURL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed: %w", err)
	}

	inserted := 0
	for _, item := range feed.Items {
		notice, ok := i.toNotice(c.ID, item)
		if !ok {
			continue
		}
		created, err := i.notices.CreateIfAbsent(ctx, notice)
		if err != nil {
			return inserted, fmt.Errorf("store %s: %w", notice.URL, err)
		}
		if created {
			inserted++
		}
	}
	return inserted, nil
}

// Run repeats RunOnce every interval until ctx is cancelled
func (i *Ingester) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := i.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Error("ingest pass failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (i *Ingester) toNotice(categoryID int64, item *gofeed.Item) (*domain.Notice, bool) {
	link := strings.TrimSpace(item.Link)
	if err := common.ValidateSourceLink(link); err != nil {
		return nil, false
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}

	var writer string
	if item.Author != nil {
		writer = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		writer = item.Authors[0].Name
	}

	date := i.now()
	if item.PublishedParsed != nil {
		date = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		date = *item.UpdatedParsed
	}

	return &domain.Notice{
		Title:      truncate(strings.TrimSpace(item.Title), 255),
		Content:    content,
		Writer:     truncate(writer, 100),
		URL:        link,
		Date:       date.UTC(),
		CategoryID: categoryID,
	}, true
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
