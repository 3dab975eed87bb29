package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RedditSource reads the day's top posts from a public subreddit listing
// (r/popular by default). The .json listing endpoints need no credentials,
// only a realistic User-Agent; Reddit throttles the default Go one.
type RedditSource struct {
	baseURL string
	listing string
	client  *resty.Client
}

type redditListingResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Permalink string `json:"permalink"`
	Score     int    `json:"score"`
}

// NewRedditSource creates a Reddit trend source over the given listing.
func NewRedditSource(listing string, timeout time.Duration) *RedditSource {
	return &RedditSource{
		baseURL: "https://www.reddit.com",
		listing: listing,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", browserUserAgent),
	}
}

func (r *RedditSource) Name() string {
	return "reddit"
}

func (r *RedditSource) IsEnabled() bool {
	return r.listing != ""
}

// Fetch returns the titles of the listing's top posts of the day, in rank
// order, capped at maxTrendsPerSource.
func (r *RedditSource) Fetch(ctx context.Context) ([]string, error) {
	url := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=day", r.baseURL, r.listing, maxTrendsPerSource)

	resp, err := r.client.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var listing redditListingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, fmt.Errorf("failed to decode reddit listing: %w", err)
	}

	var trends []string
	for _, child := range listing.Data.Children {
		if child.Data.Title == "" {
			continue
		}
		trends = append(trends, child.Data.Title)
		if len(trends) >= maxTrendsPerSource {
			break
		}
	}

	return trends, nil
}
