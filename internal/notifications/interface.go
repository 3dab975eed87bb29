package notifications

import (
	"time"

	"github.com/newsloom/newsloom/internal/models"
)

// Notifier delivers the scheduled trending digest.
type Notifier interface {
	SendDigest(trends models.TrendSet, generatedAt time.Time) error
}
