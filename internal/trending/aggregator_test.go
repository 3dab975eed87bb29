package trending

import (
	"context"
	"testing"
	"time"

	"github.com/newsloom/newsloom/internal/sources"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	name     string
	keywords []string
	err      error
	delay    time.Duration
	disabled bool
	panics   bool
}

func (s *stubSource) Name() string    { return s.name }
func (s *stubSource) IsEnabled() bool { return !s.disabled }

func (s *stubSource) Fetch(ctx context.Context) ([]string, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.panics {
		panic("source blew up")
	}
	return s.keywords, s.err
}

var fallback = []string{"#India", "#Tech", "#Bollywood", "#Cricket", "#News"}

func newTestAggregator(srcs ...sources.Source) *Aggregator {
	return NewAggregator(srcs, "twitter", fallback, time.Second)
}

func TestAggregator_InterleavesByRank(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", keywords: []string{"AI", "Cricket"}},
		&stubSource{name: "reddit", keywords: []string{"Election"}},
	)

	set := agg.TrendingKeywords(context.Background())

	assert.Equal(t, []string{"AI", "Election", "Cricket"}, set.All)
	assert.Equal(t, []string{"AI", "Cricket"}, set.BySource["twitter"])
	assert.Equal(t, []string{"Election"}, set.BySource["reddit"])
}

func TestAggregator_DeduplicatesPreservingFirstSeen(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", keywords: []string{"AI", "Cricket", "AI"}},
		&stubSource{name: "reddit", keywords: []string{"Cricket", "Election"}},
	)

	set := agg.TrendingKeywords(context.Background())

	assert.Equal(t, []string{"AI", "Cricket", "Election"}, set.All)

	seen := make(map[string]int)
	for _, kw := range set.All {
		seen[kw]++
	}
	for kw, count := range seen {
		assert.Equal(t, 1, count, "keyword %q appears more than once", kw)
	}
}

func TestAggregator_DeterministicRegardlessOfCompletionOrder(t *testing.T) {
	// The first-configured source finishes last; its keywords must still
	// lead the interleave.
	agg := newTestAggregator(
		&stubSource{name: "twitter", keywords: []string{"AI", "Cricket"}, delay: 50 * time.Millisecond},
		&stubSource{name: "reddit", keywords: []string{"Election"}},
	)

	set := agg.TrendingKeywords(context.Background())
	assert.Equal(t, []string{"AI", "Election", "Cricket"}, set.All)
}

func TestAggregator_FallbackWhenAllSourcesEmpty(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", err: assert.AnError},
		&stubSource{name: "reddit", keywords: nil},
	)

	set := agg.TrendingKeywords(context.Background())

	assert.Equal(t, fallback, set.All)
	assert.Equal(t, fallback, set.BySource["twitter"], "primary source inherits the fallback list")
	assert.Empty(t, set.BySource["reddit"])
}

func TestAggregator_FailingSourceDoesNotAbortSiblings(t *testing.T) {
	tests := []struct {
		name   string
		broken *stubSource
	}{
		{"source error", &stubSource{name: "twitter", err: assert.AnError}},
		{"source panic", &stubSource{name: "twitter", panics: true}},
		{"source timeout", &stubSource{name: "twitter", delay: 5 * time.Second, keywords: []string{"Late"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(
				[]sources.Source{tt.broken, &stubSource{name: "reddit", keywords: []string{"Election"}}},
				"twitter", fallback, 100*time.Millisecond,
			)

			set := agg.TrendingKeywords(context.Background())
			assert.Equal(t, []string{"Election"}, set.All)
		})
	}
}

func TestAggregator_SkipsDisabledSources(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", keywords: []string{"AI"}, disabled: true},
		&stubSource{name: "reddit", keywords: []string{"Election"}},
	)

	set := agg.TrendingKeywords(context.Background())
	assert.Equal(t, []string{"Election"}, set.All)
}

func TestAggregator_NeverReturnsEmpty(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", err: assert.AnError},
		&stubSource{name: "reddit", err: assert.AnError},
	)

	set := agg.TrendingKeywords(context.Background())
	assert.NotEmpty(t, set.All)
}

func TestAggregator_MetricsReflectLastRun(t *testing.T) {
	agg := newTestAggregator(
		&stubSource{name: "twitter", keywords: []string{"AI", "Cricket"}},
		&stubSource{name: "reddit", err: assert.AnError},
	)

	agg.TrendingKeywords(context.Background())

	metrics := agg.GetMetrics()
	assert.Contains(t, metrics, `"total_keywords": 2`)
	assert.Contains(t, metrics, `"error_count": 1`)
}
