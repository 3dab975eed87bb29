package notifications

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newsloom/newsloom/internal/config"
	"github.com/newsloom/newsloom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTrends() models.TrendSet {
	return models.TrendSet{
		All: []string{"#AI", "Cricket", "Election"},
		BySource: map[string][]string{
			"twitter": {"#AI", "Election"},
			"reddit":  {"Cricket"},
		},
	}
}

func TestSendDigest_NoChannelsIsNoOp(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.NoError(t, svc.SendDigest(testTrends(), time.Now()))
}

func TestSendDigest_PostsTeamsMessageCard(t *testing.T) {
	var received TeamsMessage
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusOK)
	}))
	defer webhook.Close()

	svc := NewService(&config.Config{TeamsWebhookURL: webhook.URL})
	generatedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SendDigest(testTrends(), generatedAt))

	assert.Equal(t, "MessageCard", received.Type)
	assert.Equal(t, "Trending Topics Digest", received.Title)
	assert.Contains(t, received.Text, "3 trending keywords")
	require.Len(t, received.Sections, 1)
	assert.Len(t, received.Sections[0].Facts, 2)
}

func TestSendDigest_WebhookFailureIsReturned(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer webhook.Close()

	svc := NewService(&config.Config{TeamsWebhookURL: webhook.URL})

	err := svc.SendDigest(testTrends(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Teams")
}

func TestEmailTemplate_RendersKeywords(t *testing.T) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, map[string]interface{}{
		"GeneratedAt": "2026-08-01 10:00 UTC",
		"Keywords":    testTrends().All,
		"BySource":    testTrends().BySource,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<li>#AI</li>")
	assert.Contains(t, out, "<li>Cricket</li>")
	assert.Contains(t, out, "<h3>twitter</h3>")
}
