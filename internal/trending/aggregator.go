package trending

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/newsloom/newsloom/internal/sources"
	"github.com/sirupsen/logrus"
)

// Aggregator merges trending keywords from every configured source into one
// ranked TrendSet. It never fails: a broken source only empties its own
// branch, and a fully empty merge falls back to a static keyword list.
type Aggregator struct {
	sources       []sources.Source
	primarySource string
	fallback      []string
	sourceTimeout time.Duration

	metrics *Metrics
	mu      sync.RWMutex
}

// Metrics holds counters for the most recent aggregation run.
type Metrics struct {
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	SourceKeywords  map[string]int `json:"source_keywords"`
	TotalKeywords   int            `json:"total_keywords"`
	ErrorCount      int            `json:"error_count"`
	UsedFallback    bool           `json:"used_fallback"`
}

// NewAggregator creates an aggregator over the given sources. primarySource
// names the source rendered as the trending sidebar; it alone inherits the
// fallback list when the whole merge comes up empty.
func NewAggregator(srcs []sources.Source, primarySource string, fallback []string, sourceTimeout time.Duration) *Aggregator {
	return &Aggregator{
		sources:       srcs,
		primarySource: primarySource,
		fallback:      fallback,
		sourceTimeout: sourceTimeout,
		metrics: &Metrics{
			SourceKeywords: make(map[string]int),
		},
	}
}

// TrendingKeywords fetches all sources concurrently and returns the merged
// TrendSet. Source failures are swallowed here; ordering of the merge is
// deterministic regardless of which branch finishes first.
func (a *Aggregator) TrendingKeywords(ctx context.Context) models.TrendSet {
	start := time.Now()

	perSource := make([][]string, len(a.sources))
	errorCount := 0

	var wg sync.WaitGroup
	var errMu sync.Mutex

	for i, source := range a.sources {
		if !source.IsEnabled() {
			logrus.Debugf("Trend source %s disabled, skipping", source.Name())
			continue
		}

		wg.Add(1)
		go func(idx int, src sources.Source) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("Trend source %s panicked: %v", src.Name(), r)
					errMu.Lock()
					errorCount++
					errMu.Unlock()
				}
			}()

			srcCtx, cancel := context.WithTimeout(ctx, a.sourceTimeout)
			defer cancel()

			keywords, err := src.Fetch(srcCtx)
			if err != nil {
				logrus.Errorf("Error fetching trends from %s: %v", src.Name(), err)
				errMu.Lock()
				errorCount++
				errMu.Unlock()
				return
			}

			logrus.Infof("Found %d trending keywords from %s", len(keywords), src.Name())
			perSource[idx] = keywords
		}(i, source)
	}

	wg.Wait()

	set := a.merge(perSource)
	a.updateMetrics(set, time.Since(start), errorCount)
	return set
}

// merge interleaves the per-source lists round-robin by rank, de-duplicates
// preserving first occurrence, then applies the fallback when nothing
// survived.
func (a *Aggregator) merge(perSource [][]string) models.TrendSet {
	set := models.TrendSet{
		BySource: make(map[string][]string),
	}
	for i, source := range a.sources {
		set.BySource[source.Name()] = perSource[i]
	}

	maxLen := 0
	for _, list := range perSource {
		if len(list) > maxLen {
			maxLen = len(list)
		}
	}

	seen := make(map[string]bool)
	for rank := 0; rank < maxLen; rank++ {
		for _, list := range perSource {
			if rank >= len(list) {
				continue
			}
			keyword := list[rank]
			if keyword == "" || seen[keyword] {
				continue
			}
			seen[keyword] = true
			set.All = append(set.All, keyword)
		}
	}

	if len(set.All) == 0 {
		logrus.Warn("All trend sources came up empty, using fallback keywords")
		set.All = append([]string(nil), a.fallback...)
		if _, ok := set.BySource[a.primarySource]; ok {
			set.BySource[a.primarySource] = append([]string(nil), a.fallback...)
		}
	}

	return set
}

func (a *Aggregator) updateMetrics(set models.TrendSet, duration time.Duration, errorCount int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.metrics.LastRun = time.Now()
	a.metrics.LastRunDuration = duration.String()
	a.metrics.TotalKeywords = len(set.All)
	a.metrics.ErrorCount = errorCount
	a.metrics.UsedFallback = false

	a.metrics.SourceKeywords = make(map[string]int)
	for name, list := range set.BySource {
		a.metrics.SourceKeywords[name] = len(list)
	}

	// Fallback runs are recognizable by the sidebar list matching the static set.
	if len(set.All) == len(a.fallback) {
		same := true
		for i, kw := range a.fallback {
			if set.All[i] != kw {
				same = false
				break
			}
		}
		a.metrics.UsedFallback = same
	}
}

// GetMetrics returns the latest run metrics as indented JSON.
func (a *Aggregator) GetMetrics() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	data, _ := json.MarshalIndent(a.metrics, "", "  ")
	return string(data)
}
