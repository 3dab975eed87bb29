package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwitterTrendsSource_GetName(t *testing.T) {
	source := NewTwitterTrendsSource("india", time.Second)
	assert.Equal(t, "twitter", source.Name())
}

func TestTwitterTrendsSource_IsEnabled(t *testing.T) {
	assert.True(t, NewTwitterTrendsSource("india", time.Second).IsEnabled())
	assert.False(t, NewTwitterTrendsSource("", time.Second).IsEnabled())
}

func TestTwitterTrendsSource_Fetch(t *testing.T) {
	page := `<html><body>
		<a href="https://twitter.com/search?q=%23AI">#AI</a>
		<a href="https://x.com/search?q=Cricket">Cricket</a>
		<a href="https://twitter.com/search?q=%23AI">#AI</a>
		<a href="/india/timeline">Timeline</a>
		<a href="https://twitter.com/search?q=x">x</a>
	</body></html>`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer ts.Close()

	source := NewTwitterTrendsSource("india", time.Second)
	source.baseURL = ts.URL

	trends, err := source.Fetch(context.Background())
	require.NoError(t, err)

	// Search anchors only, de-duplicated, single-char texts dropped.
	assert.Equal(t, []string{"#AI", "Cricket"}, trends)
}

func TestTwitterTrendsSource_FetchErrorOnBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	source := NewTwitterTrendsSource("india", time.Second)
	source.baseURL = ts.URL

	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}

func TestRedditSource_GetName(t *testing.T) {
	source := NewRedditSource("popular", time.Second)
	assert.Equal(t, "reddit", source.Name())
}

func TestRedditSource_IsEnabled(t *testing.T) {
	assert.True(t, NewRedditSource("popular", time.Second).IsEnabled())
	assert.False(t, NewRedditSource("", time.Second).IsEnabled())
}

func TestRedditSource_Fetch(t *testing.T) {
	listing := `{
		"data": {
			"children": [
				{"data": {"title": "Election results are in", "subreddit": "news", "score": 4021}},
				{"data": {"title": "New AI model released", "subreddit": "technology", "score": 1337}},
				{"data": {"title": ""}}
			]
		}
	}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/popular/top.json", r.URL.Path)
		assert.Equal(t, "day", r.URL.Query().Get("t"))
		w.Write([]byte(listing))
	}))
	defer ts.Close()

	source := NewRedditSource("popular", time.Second)
	source.baseURL = ts.URL

	trends, err := source.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Election results are in", "New AI model released"}, trends)
}

func TestRedditSource_FetchErrorOnMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer ts.Close()

	source := NewRedditSource("popular", time.Second)
	source.baseURL = ts.URL

	_, err := source.Fetch(context.Background())
	assert.Error(t, err)
}
