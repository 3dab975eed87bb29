package trending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/newsloom/newsloom/internal/notifications"
	"github.com/newsloom/newsloom/internal/storage"
	"github.com/sirupsen/logrus"
)

// RefreshJob is the scheduled task: pull fresh trends, archive a snapshot and
// send the digest. It keeps the trend pipeline warm outside request traffic.
type RefreshJob struct {
	aggregator *Aggregator
	archive    storage.StorageInterface
	notifier   notifications.Notifier
	timeout    time.Duration
}

// snapshot is the archived form of one refresh run.
type snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Trends      models.TrendSet `json:"trends"`
}

// NewRefreshJob wires the refresh task. archive and notifier may be nil.
func NewRefreshJob(aggregator *Aggregator, archive storage.StorageInterface, notifier notifications.Notifier, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		aggregator: aggregator,
		archive:    archive,
		notifier:   notifier,
		timeout:    timeout,
	}
}

// Run executes one refresh. Archival and digest failures are reported but do
// not undo the refresh itself.
func (j *RefreshJob) Run() error {
	start := time.Now()
	logrus.Info("Starting trend refresh")

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	trends := j.aggregator.TrendingKeywords(ctx)
	generatedAt := time.Now().UTC()

	if j.archive != nil {
		data, err := json.Marshal(snapshot{GeneratedAt: generatedAt, Trends: trends})
		if err != nil {
			return fmt.Errorf("failed to marshal trend snapshot: %w", err)
		}

		filename := fmt.Sprintf("trends-%s.json", generatedAt.Format("2006-01-02-15-04-05"))
		if err := j.archive.Store(filename, data); err != nil {
			logrus.Errorf("Failed to archive trend snapshot: %v", err)
			return err
		}
	}

	if j.notifier != nil {
		if err := j.notifier.SendDigest(trends, generatedAt); err != nil {
			logrus.Errorf("Failed to send trending digest: %v", err)
			return err
		}
	}

	logrus.Infof("Trend refresh completed in %v (%d keywords)", time.Since(start), len(trends.All))
	return nil
}
