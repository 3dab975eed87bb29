package sources

import "context"

// Source is the contract for a trend source: one external origin of ranked
// trending keywords. Implementations own their HTTP client and timeout and
// are swappable without touching the aggregator.
type Source interface {
	Name() string
	IsEnabled() bool
	Fetch(ctx context.Context) ([]string, error)
}
