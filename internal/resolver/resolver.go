package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
	"github.com/newsloom/newsloom/internal/extract"
	"github.com/newsloom/newsloom/internal/models"
	"github.com/sirupsen/logrus"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// paragraphDenylist drops boilerplate blocks that survive element stripping.
var paragraphDenylist = []string{"cookie", "subscribe"}

// Options are the thresholds of the resolution chain.
type Options struct {
	SearchCandidates   int           // RSS entries considered per keyword
	ScrapeCandidates   int           // entries attempted with a full page fetch
	MinParagraphLength int           // chars a paragraph must exceed to count
	MaxParagraphs      int           // paragraphs concatenated per article
	MinContentLength   int           // chars the concatenation must exceed
	SearchTimeout      time.Duration // RSS fetch budget
	ArticleTimeout     time.Duration // per-page fetch budget
	Language           string        // Google News hl parameter
	Country            string        // Google News gl parameter
	Edition            string        // Google News ceid parameter
}

// candidate is one search result entry before resolution.
type candidate struct {
	Title     string
	Link      string
	Published string
	Source    string
	Snippet   string
}

// Resolver turns one keyword into an Article via Google News RSS search and a
// tiered scrape/fallback chain.
type Resolver struct {
	searchBaseURL string
	feedParser    *gofeed.Parser
	pageClient    *resty.Client
	opts          Options
}

// New creates a Resolver with the given thresholds.
func New(opts Options) *Resolver {
	parser := gofeed.NewParser()
	parser.UserAgent = browserUserAgent
	parser.Client = &http.Client{Timeout: opts.SearchTimeout}

	return &Resolver{
		searchBaseURL: "https://news.google.com/rss/search",
		feedParser:    parser,
		pageClient: resty.New().
			SetTimeout(opts.ArticleTimeout).
			SetHeader("User-Agent", browserUserAgent).
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
			SetHeader("Accept-Language", "en-US,en;q=0.9"),
		opts: opts,
	}
}

// ScrapeNews resolves a keyword to an Article. It returns (nil, nil) only when
// the search yields zero candidates; every other degradation ends in the
// snippet-synthesis tier, which always produces a non-empty Text.
func (r *Resolver) ScrapeNews(ctx context.Context, keyword string) (*models.Article, error) {
	candidates, err := r.search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("news search failed for %q: %w", keyword, err)
	}
	if len(candidates) == 0 {
		logrus.Debugf("No search results for keyword %q", keyword)
		return nil, nil
	}

	attempts := r.opts.ScrapeCandidates
	if attempts > len(candidates) {
		attempts = len(candidates)
	}

	for i := 0; i < attempts; i++ {
		cand := candidates[i]

		text, err := r.fetchFullText(ctx, cand.Link)
		if err != nil {
			logrus.Debugf("Full scrape failed for %s: %v", cand.Link, err)
			continue
		}

		if len(text) > r.opts.MinContentLength {
			return &models.Article{
				Title:  cand.Title,
				Text:   text,
				URL:    cand.Link,
				Source: cand.Source,
			}, nil
		}

		logrus.Debugf("Content too short (%d chars) for %s, trying next candidate", len(text), cand.Link)
	}

	// Snippet synthesis from the first result: full-page scraping is blocked
	// or thin often enough that "at least a snippet" has to be the floor.
	first := candidates[0]
	snippet := extract.StripTags(first.Snippet)
	combined := fmt.Sprintf("%s.\n\n%s\n\n(Source: %s - %s)", first.Title, snippet, first.Source, first.Published)

	return &models.Article{
		Title:  first.Title,
		Text:   combined,
		URL:    first.Link,
		Source: first.Source,
	}, nil
}

// search queries the Google News RSS search feed for the keyword.
func (r *Resolver) search(ctx context.Context, keyword string) ([]candidate, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s",
		r.searchBaseURL, url.QueryEscape(keyword),
		r.opts.Language, r.opts.Country, r.opts.Edition)

	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	max := r.opts.SearchCandidates
	var candidates []candidate
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		title, source := splitPublisher(item.Title)
		candidates = append(candidates, candidate{
			Title:     title,
			Link:      item.Link,
			Published: item.Published,
			Source:    source,
			Snippet:   item.Description,
		})
		if len(candidates) >= max {
			break
		}
	}

	return candidates, nil
}

// fetchFullText fetches a candidate page and concatenates its qualifying
// paragraphs.
func (r *Resolver) fetchFullText(ctx context.Context, link string) (string, error) {
	resp, err := r.pageClient.R().
		SetContext(ctx).
		Get(link)

	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("article page returned status %d", resp.StatusCode())
	}

	paragraphs := extract.Paragraphs(string(resp.Body()), r.opts.MinParagraphLength, paragraphDenylist)
	if len(paragraphs) > r.opts.MaxParagraphs {
		paragraphs = paragraphs[:r.opts.MaxParagraphs]
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

// splitPublisher separates a Google News item title from its trailing
// " - Publisher" attribution. The feed carries the publisher in the title;
// items without the separator fall back to a generic source name.
func splitPublisher(title string) (string, string) {
	if idx := strings.LastIndex(title, " - "); idx > 0 {
		headline := strings.TrimSpace(title[:idx])
		publisher := strings.TrimSpace(title[idx+3:])
		if headline != "" && publisher != "" {
			return headline, publisher
		}
	}
	return strings.TrimSpace(title), "Google News"
}
