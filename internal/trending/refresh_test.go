package trending

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/newsloom/newsloom/internal/models"
	"github.com/newsloom/newsloom/internal/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchive struct {
	files    map[string][]byte
	storeErr error
}

func (f *fakeArchive) Store(filename string, data []byte) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[filename] = data
	return nil
}

func (f *fakeArchive) Retrieve(filename string) ([]byte, error) { return f.files[filename], nil }
func (f *fakeArchive) List(prefix string) ([]string, error)     { return nil, nil }
func (f *fakeArchive) Delete(filename string) error             { return nil }

type fakeNotifier struct {
	sent    []models.TrendSet
	sendErr error
}

func (f *fakeNotifier) SendDigest(trends models.TrendSet, _ time.Time) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, trends)
	return nil
}

func refreshAggregator() *Aggregator {
	return NewAggregator(
		[]sources.Source{&stubSource{name: "twitter", keywords: []string{"#AI", "Cricket"}}},
		"twitter",
		[]string{"#Fallback"},
		time.Second,
	)
}

func TestRefreshJob_ArchivesSnapshotAndSendsDigest(t *testing.T) {
	archive := &fakeArchive{}
	notifier := &fakeNotifier{}
	job := NewRefreshJob(refreshAggregator(), archive, notifier, time.Second)

	require.NoError(t, job.Run())

	require.Len(t, archive.files, 1)
	for name, data := range archive.files {
		assert.Regexp(t, `^trends-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.json$`, name)

		var snap snapshot
		require.NoError(t, json.Unmarshal(data, &snap))
		assert.Equal(t, []string{"#AI", "Cricket"}, snap.Trends.All)
		assert.False(t, snap.GeneratedAt.IsZero())
	}

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, []string{"#AI", "Cricket"}, notifier.sent[0].All)
}

func TestRefreshJob_NilArchiveAndNotifierAreOptional(t *testing.T) {
	job := NewRefreshJob(refreshAggregator(), nil, nil, time.Second)
	assert.NoError(t, job.Run())
}

func TestRefreshJob_ArchiveFailureIsReported(t *testing.T) {
	archive := &fakeArchive{storeErr: errors.New("container unavailable")}
	notifier := &fakeNotifier{}
	job := NewRefreshJob(refreshAggregator(), archive, notifier, time.Second)

	assert.Error(t, job.Run())
	assert.Empty(t, notifier.sent, "digest is skipped when archival fails")
}

func TestRefreshJob_DigestFailureIsReported(t *testing.T) {
	notifier := &fakeNotifier{sendErr: errors.New("smtp down")}
	job := NewRefreshJob(refreshAggregator(), &fakeArchive{}, notifier, time.Second)

	assert.Error(t, job.Run())
}
