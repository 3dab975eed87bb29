package feed

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/newsloom/newsloom/internal/summarize"
	"github.com/sirupsen/logrus"
)

// CategorySubtopics expands a broad category query into subtopic keywords so
// a category tab shows a mixed feed instead of one generic search.
var CategorySubtopics = map[string][]string{
	models.CategoryTech:          {"Artificial Intelligence News", "Latest Gadgets", "Silicon Valley News", "Cybersecurity Updates", "Tech Industry Trends"},
	models.CategoryPolitics:      {"Global Politics", "Election News", "Government Policy", "Senate Updates", "International Relations"},
	models.CategoryBusiness:      {"Stock Market News", "Global Economy", "Startup News", "Cryptocurrency updates", "Business Trends"},
	models.CategoryEntertainment: {"Hollywood News", "Celebrity Gossip", "New Movie Releases", "Music Industry News", "Netflix Trends"},
	models.CategorySports:        {"Football News", "NBA Updates", "Cricket Match Results", "Tennis News", "F1 Racing"},
	models.CategoryScience:       {"Space Exploration", "New Scientific Discoveries", "Health and Medicine", "Climate Change News", "NASA Updates"},
}

// trendingCacheKey is the cache key for the query-less first page.
const trendingCacheKey = "trending"

// TrendProvider supplies the keyword universe for query-less requests.
type TrendProvider interface {
	TrendingKeywords(ctx context.Context) models.TrendSet
}

// ArticleResolver resolves one keyword to an article, nil when the search had
// no candidates.
type ArticleResolver interface {
	ScrapeNews(ctx context.Context, keyword string) (*models.Article, error)
}

// SummaryProvider produces a Summary for article text; it never fails.
type SummaryProvider interface {
	Summarize(ctx context.Context, text string) models.Summary
}

// InteractionReader is the read side of the interaction store.
type InteractionReader interface {
	FindByURL(ctx context.Context, articleURL string) ([]models.Interaction, error)
	Ping(ctx context.Context) error
}

// Assembler orchestrates the feed pipeline: keyword window selection, the
// per-keyword resolve/summarize/interaction chain, and pagination metadata.
type Assembler struct {
	trends     TrendProvider
	resolver   ArticleResolver
	summarizer SummaryProvider
	store      InteractionReader
	cache      Cache // optional
}

// NewAssembler wires the pipeline. cache may be nil.
func NewAssembler(trends TrendProvider, resolver ArticleResolver, summarizer SummaryProvider, store InteractionReader, cache Cache) *Assembler {
	return &Assembler{
		trends:     trends,
		resolver:   resolver,
		summarizer: summarizer,
		store:      store,
		cache:      cache,
	}
}

// GetFeedPage builds one feed page. Individual keyword failures silently
// shrink the page; an error is returned only when the request as a whole
// cannot be served.
func (a *Assembler) GetFeedPage(ctx context.Context, page, limit int, query string) (*models.FeedPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	cacheKey := ""
	if query != "" {
		cacheKey = query
	} else if page == 1 {
		cacheKey = trendingCacheKey
	}

	if a.cache != nil && cacheKey != "" {
		if cached, ok := a.cache.Get(ctx, cacheKey); ok {
			logrus.Debugf("Feed cache hit for %q", cacheKey)
			return cached, nil
		}
	}

	// The store is the only shared dependency a page cannot be served
	// without; losing a single keyword is fine, losing the store is not.
	if err := a.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("interaction store unreachable: %w", err)
	}

	universe, bySource := a.keywordUniverse(ctx, query)

	var window []string
	offset := 0
	if query != "" {
		// Query/category lists are short; serve them whole.
		window = universe
	} else {
		offset = (page - 1) * limit
		end := offset + limit
		if offset < len(universe) {
			if end > len(universe) {
				end = len(universe)
			}
			window = universe[offset:end]
		}
	}

	result := &models.FeedPage{
		Feed:            []models.FeedItem{},
		Trending:        universe,
		TrendingSources: bySource,
		HasMore:         query == "" && offset+limit < len(universe),
	}

	if len(window) == 0 {
		return result, nil
	}

	// Per-keyword fan-out. Results stay index-aligned with the window so
	// the page order never depends on task completion order.
	items := make([]*models.FeedItem, len(window))
	var wg sync.WaitGroup

	for i, keyword := range window {
		wg.Add(1)
		go func(idx int, kw string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Feed pipeline panicked for keyword %q: %v", kw, r)
				}
			}()

			items[idx] = a.buildItem(ctx, kw)
		}(i, keyword)
	}

	wg.Wait()

	for _, item := range items {
		if item != nil {
			result.Feed = append(result.Feed, *item)
		}
	}

	if a.cache != nil && cacheKey != "" {
		a.cache.Set(ctx, cacheKey, result)
	}

	return result, nil
}

// keywordUniverse determines the keywords a request draws from and, for
// trending requests, the per-source breakdown.
func (a *Assembler) keywordUniverse(ctx context.Context, query string) ([]string, map[string][]string) {
	if query != "" {
		if subtopics, ok := CategorySubtopics[query]; ok {
			return subtopics, map[string][]string{}
		}
		return []string{query}, map[string][]string{}
	}

	set := a.trends.TrendingKeywords(ctx)
	return set.All, set.BySource
}

// buildItem runs the full pipeline for one keyword. Any failure returns nil;
// the caller drops nils from the page.
func (a *Assembler) buildItem(ctx context.Context, keyword string) *models.FeedItem {
	article, err := a.resolver.ScrapeNews(ctx, keyword)
	if err != nil {
		logrus.Warnf("Article resolution failed for %q: %v", keyword, err)
		return nil
	}
	if article == nil {
		logrus.Debugf("No article found for %q", keyword)
		return nil
	}

	summary := a.summarizer.Summarize(ctx, article.Text)
	category := summarize.Recategorize(article.Title+" "+summary.Summary, summary.Category)

	likes := 0
	comments := []models.Comment{}
	interactions, err := a.store.FindByURL(ctx, article.URL)
	if err != nil {
		// A transient lookup failure only degrades this item's counters.
		logrus.Warnf("Interaction lookup failed for %s: %v", article.URL, err)
	} else {
		for _, in := range interactions {
			switch in.Type {
			case models.InteractionLike:
				likes++
			case models.InteractionComment:
				comments = append(comments, models.Comment{Text: in.Content, Timestamp: in.CreatedAt})
			}
		}
	}

	return &models.FeedItem{
		ID:        ItemID(article.URL),
		Keyword:   keyword,
		Title:     article.Title,
		Summary:   summary.Summary,
		Category:  category,
		Sentiment: summary.Sentiment,
		URL:       article.URL,
		Source:    article.Source,
		Likes:     likes,
		Comments:  comments,
	}
}

// ItemID derives the stable feed item identifier from an article URL. The
// same URL always encodes to the same ID, which is what client-side
// de-duplication keys on.
func ItemID(articleURL string) string {
	return base64.StdEncoding.EncodeToString([]byte(articleURL))
}
