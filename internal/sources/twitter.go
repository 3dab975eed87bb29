package sources

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const maxTrendsPerSource = 10

// TwitterTrendsSource scrapes trends24.in, an aggregator of regional Twitter
// trending topics. The site serves plain HTML; trend entries are anchors
// pointing at a twitter.com/x.com search.
type TwitterTrendsSource struct {
	baseURL string
	region  string
	client  *resty.Client
}

// NewTwitterTrendsSource creates a trends24 scraper for the given region path
// segment (e.g. "india").
func NewTwitterTrendsSource(region string, timeout time.Duration) *TwitterTrendsSource {
	return &TwitterTrendsSource{
		baseURL: "https://trends24.in",
		region:  region,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", browserUserAgent),
	}
}

func (t *TwitterTrendsSource) Name() string {
	return "twitter"
}

func (t *TwitterTrendsSource) IsEnabled() bool {
	return t.region != ""
}

// Fetch returns the region's trending topics in page order, de-duplicated and
// capped at maxTrendsPerSource.
func (t *TwitterTrendsSource) Fetch(ctx context.Context) ([]string, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/%s/", t.baseURL, t.region))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("trends24 returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse trends24 page: %w", err)
	}

	seen := make(map[string]bool)
	var trends []string

	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.Contains(href, "twitter.com/search") && !strings.Contains(href, "x.com/search") {
			return true
		}

		text := strings.TrimSpace(s.Text())
		if len(text) <= 1 || seen[text] {
			return true
		}

		seen[text] = true
		trends = append(trends, text)
		return len(trends) < maxTrendsPerSource
	})

	return trends, nil
}
