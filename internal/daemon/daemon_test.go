package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/didymo/lrvsp"
	"github.com/didymo/lrvsp/internal/store"
	"github.com/didymo/lrvsp/layout"
)

// fakeQueue is an in-memory Queue
type fakeQueue struct {
	mu        sync.Mutex
	paths     []store.Path
	failed    map[int64]bool
	committed map[int64]store.Document
	remaining []int
	pendErr   error
	commitErr error
}

func newFakeQueue(paths ...store.Path) *fakeQueue {
	return &fakeQueue{
		paths:     paths,
		failed:    make(map[int64]bool),
		committed: make(map[int64]store.Document),
	}
}

func (q *fakeQueue) PendingPaths(_ context.Context, limit int) ([]store.Path, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pendErr != nil {
		return nil, q.pendErr
	}
	var out []store.Path
	for _, p := range q.paths {
		if _, done := q.committed[p.ID]; done || q.failed[p.ID] {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (q *fakeQueue) MarkFailed(_ context.Context, id int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.failed[id] = true
	return nil
}

func (q *fakeQueue) Commit(_ context.Context, id int64, doc store.Document) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.commitErr != nil {
		q.failed[id] = true
		return q.commitErr
	}
	q.committed[id] = doc
	return nil
}

func (q *fakeQueue) Remaining(context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.remaining) == 0 {
		return 0, nil
	}
	n := q.remaining[0]
	q.remaining = q.remaining[1:]
	return n, nil
}

type countingNotifier struct {
	calls  atomic.Int32
	limits chan int
}

func (n *countingNotifier) Notify(_ context.Context, limit int) error {
	n.calls.Add(1)
	if n.limits != nil {
		n.limits <- limit
	}
	return nil
}

func testSettings() Settings {
	return Settings{
		CycleTime:   time.Minute,
		ParseLimit:  10,
		CreateLimit: 1200,
		Workers:     2,
	}
}

// recordFor extracts a record named after the file, failing for names
// starting with "bad"
func recordFor(_ context.Context, path string) (*lrvsp.Record, error) {
	name := filepath.Base(path)
	if len(name) >= 3 && name[:3] == "bad" {
		return nil, errors.New("cannot parse")
	}
	return &lrvsp.Record{Name: lrvsp.DocumentName(path), Metadata: map[string]string{}, Links: []string{"Crimes Act 1900"}}, nil
}

func TestCycleCommitsAndMarksFailures(t *testing.T) {
	t.Parallel()

	q := newFakeQueue(
		store.Path{ID: 1, PDFPath: "/in/Alpha_Act_1990_3.pdf", EntityID: 31},
		store.Path{ID: 2, PDFPath: "/in/bad.pdf", EntityID: 32},
		store.Path{ID: 3, PDFPath: "/in/orig.pdf", ProcessPath: "/work/Beta_Act_2001_9.xml", EntityID: 33},
	)
	n := &countingNotifier{limits: make(chan int, 1)}
	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor), WithNotifier(n))

	stats, err := d.Cycle(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, stats.ID)
	assert.Equal(t, 3, stats.Taken)
	assert.Equal(t, 2, stats.Committed)
	assert.Equal(t, 1, stats.Failed)

	assert.Equal(t, store.Document{
		Title:    "Alpha_Act_1990",
		Metadata: map[string]string{},
		EntityID: 31,
		Links:    []string{"Crimes Act 1900"},
	}, q.committed[1])
	assert.Equal(t, "Beta_Act_2001", q.committed[3].Title, "process path is preferred")
	assert.True(t, q.failed[2])

	assert.Equal(t, int32(1), n.calls.Load())
	assert.Equal(t, 1200, <-n.limits)
}

func TestCycleCommitFailure(t *testing.T) {
	t.Parallel()

	q := newFakeQueue(store.Path{ID: 1, PDFPath: "/in/a.pdf"})
	q.commitErr = errors.New("disk full")
	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor))

	stats, err := d.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, q.failed[1])
}

func TestCycleQueueError(t *testing.T) {
	t.Parallel()

	q := newFakeQueue()
	q.pendErr = errors.New("database is locked")
	n := &countingNotifier{}
	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor), WithNotifier(n))

	_, err := d.Cycle(context.Background())
	assert.ErrorIs(t, err, q.pendErr)
	assert.Zero(t, n.calls.Load())
}

func TestCycleDocumentTimeout(t *testing.T) {
	t.Parallel()

	q := newFakeQueue(store.Path{ID: 1, PDFPath: "/in/slow.pdf"})
	settings := testSettings()
	settings.DocumentTimeout = 20 * time.Millisecond

	slow := func(ctx context.Context, _ string) (*lrvsp.Record, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	d := New(q, settings, layout.DefaultConfig(), WithExtractor(slow))

	stats, err := d.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.True(t, q.failed[1])
}

func TestCycleRespectsWorkerLimit(t *testing.T) {
	t.Parallel()

	var paths []store.Path
	for i := int64(1); i <= 8; i++ {
		paths = append(paths, store.Path{ID: i, PDFPath: "/in/doc.pdf"})
	}
	q := newFakeQueue(paths...)

	var running, peak atomic.Int32
	extract := func(ctx context.Context, path string) (*lrvsp.Record, error) {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return recordFor(ctx, path)
	}

	settings := testSettings()
	settings.Workers = 3
	d := New(q, settings, layout.DefaultConfig(), WithExtractor(extract))

	stats, err := d.Cycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Committed)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestCycleLogs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	q := newFakeQueue(store.Path{ID: 1, PDFPath: "/in/bad.pdf"})
	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor), WithLogger(zap.New(core)))

	stats, err := d.Cycle(context.Background())
	require.NoError(t, err)

	failed := logs.FilterMessage("file processing failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, stats.ID, failed[0].ContextMap()["cycle"])
	assert.Equal(t, 1, logs.FilterMessage("end processing").Len())
}

func TestRunSleepsWhenIdle(t *testing.T) {
	t.Parallel()

	q := newFakeQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor))
	var waited []time.Duration
	d.wait = func(_ context.Context, dur time.Duration) error {
		waited = append(waited, dur)
		cancel()
		return context.Canceled
	}

	require.NoError(t, d.Run(ctx))
	require.Len(t, waited, 1)
	assert.Greater(t, waited[0], time.Duration(0))
	assert.LessOrEqual(t, waited[0], time.Minute)
}

func TestRunSleepsWhenIdleWithStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "lrvsp.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Enqueue(context.Background(), "/in/Alpha_Act_1990_3.pdf", "", 31)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	core, logs := observer.New(zap.InfoLevel)
	settings := testSettings()
	settings.CycleTime = time.Hour
	d := New(s, settings, layout.DefaultConfig(), WithExtractor(recordFor), WithLogger(zap.New(core)))

	var waited []time.Duration
	d.wait = func(_ context.Context, dur time.Duration) error {
		waited = append(waited, dur)
		cancel()
		return context.Canceled
	}

	require.NoError(t, d.Run(ctx))

	// committed rows stay in the store until the CMS takes them
	remaining, err := s.Remaining(context.Background())
	require.NoError(t, err)
	assert.Positive(t, remaining)

	assert.Equal(t, 2, logs.FilterMessage("end processing").Len(), "one working cycle then one idle cycle")
	require.Len(t, waited, 1)
	assert.Greater(t, waited[0], 59*time.Minute)
}

func TestRunContinuesWhileBacklog(t *testing.T) {
	t.Parallel()

	q := newFakeQueue()
	q.remaining = []int{5, 3, 0}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := &countingNotifier{}
	d := New(q, testSettings(), layout.DefaultConfig(), WithExtractor(recordFor), WithNotifier(n))
	d.wait = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	require.NoError(t, d.Run(ctx))
	assert.Equal(t, int32(3), n.calls.Load(), "two busy cycles and one idle cycle")
}

func TestRunWithStoreAndMarkup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	s, err := store.Open(filepath.Join(dir, "lrvsp.db"))
	require.NoError(t, err)
	defer s.Close()

	xmlPath := filepath.Join(dir, "Example_Act_1990_10.xml")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<?xml version="1.0"?>
<exdoc>
  <parentattributes>
    <attrib name="id" value="act-1990-010"/>
    <attrib name="title" value="Example Act 1990"/>
  </parentattributes>
  <body><p>See <legref docid="act-1900-040">Crimes Act 1900 No 40</legref>.</p></body>
</exdoc>`), 0600))
	txtPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("not a document"), 0600))

	_, err = s.Enqueue(ctx, "/in/Example_Act_1990_10.pdf", xmlPath, 77)
	require.NoError(t, err)
	_, err = s.Enqueue(ctx, txtPath, "", 78)
	require.NoError(t, err)

	d := New(s, testSettings(), layout.DefaultConfig())
	stats, err := d.Cycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Committed)
	assert.Equal(t, 1, stats.Failed)

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Example Act 1990", docs[0].Title)
	assert.Equal(t, int64(77), docs[0].EntityID)
	assert.Equal(t, []string{"Crimes Act 1900"}, docs[0].Links)

	pending, err := s.PendingPaths(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "unsupported file is marked failed")
}

func TestDrushCommand(t *testing.T) {
	t.Parallel()

	cmd := DrushNotifier{DrupalPath: "/srv/drupal"}.Command(context.Background(), 1200)
	assert.Equal(t, "/srv/drupal/vendor/bin/drush", cmd.Path)
	assert.Equal(t, []string{"/srv/drupal/vendor/bin/drush", "lrvsCheck-db", "1200"}, cmd.Args)
}

func TestDrushNotifierMissingBinary(t *testing.T) {
	t.Parallel()

	err := DrushNotifier{DrupalPath: t.TempDir()}.Notify(context.Background(), 10)
	assert.Error(t, err)
}
