package daemon

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/didymo/lrvsp"
	"github.com/didymo/lrvsp/internal/store"
	"github.com/didymo/lrvsp/layout"
)

// Queue is the part of the store the daemon works with
type Queue interface {
	PendingPaths(ctx context.Context, limit int) ([]store.Path, error)
	MarkFailed(ctx context.Context, id int64) error
	Commit(ctx context.Context, pathID int64, doc store.Document) error
	Remaining(ctx context.Context) (int, error)
}

// ExtractFunc turns a file into a record
type ExtractFunc func(ctx context.Context, path string) (*lrvsp.Record, error)

// Settings are the cycle parameters of the daemon
type Settings struct {
	CycleTime       time.Duration
	ParseLimit      int
	CreateLimit     int
	Workers         int
	DocumentTimeout time.Duration
}

// Stats summarises one cycle
type Stats struct {
	ID        string
	Taken     int
	Committed int
	Failed    int
	Elapsed   time.Duration
}

// Daemon polls the queue and processes what it finds
type Daemon struct {
	queue    Queue
	settings Settings
	extract  ExtractFunc
	notifier Notifier
	logger   *zap.Logger

	// wait blocks for d or until ctx is done
	wait func(ctx context.Context, d time.Duration) error
}

// Option configures a Daemon
type Option func(*Daemon)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Daemon) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithNotifier sets how the CMS is told about new rows
func WithNotifier(n Notifier) Option {
	return func(d *Daemon) {
		if n != nil {
			d.notifier = n
		}
	}
}

// WithExtractor replaces the file extraction
func WithExtractor(fn ExtractFunc) Option {
	return func(d *Daemon) {
		if fn != nil {
			d.extract = fn
		}
	}
}

// New creates a daemon. By default files are extracted with a layout engine
// using config, and the CMS is not notified.
func New(queue Queue, settings Settings, config layout.Config, opts ...Option) *Daemon {
	d := &Daemon{
		queue:    queue,
		settings: settings,
		notifier: NopNotifier{},
		logger:   zap.NewNop(),
		wait:     sleep,
	}
	if d.settings.Workers < 1 {
		d.settings.Workers = 1
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.extract == nil {
		d.extract = RecordExtractor(config, d.logger)
	}
	return d
}

// RecordExtractor returns an ExtractFunc running the layout engine with
// config on PDFs and reading markup files directly
func RecordExtractor(config layout.Config, logger *zap.Logger) ExtractFunc {
	return func(ctx context.Context, path string) (*lrvsp.Record, error) {
		rec, warnings, err := lrvsp.Open(path).
			WithConfig(config).
			WithLogger(logger).
			RecordContext(ctx)
		if len(warnings) > 0 {
			logger.Debug("extraction warnings",
				zap.String("path", path),
				zap.String("warnings", lrvsp.FormatWarnings(warnings)))
		}
		return rec, err
	}
}

// Run processes cycles until ctx is cancelled. Errors of a single cycle are
// logged and the loop carries on.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("start daemon",
		zap.Duration("cycle_time", d.settings.CycleTime),
		zap.Int("parse_limit", d.settings.ParseLimit),
		zap.Int("workers", d.settings.Workers))

	for {
		stats, err := d.Cycle(ctx)
		if ctx.Err() != nil {
			d.logger.Info("closing daemon")
			return nil
		}
		if err != nil {
			d.logger.Error("cycle failed", zap.String("cycle", stats.ID), zap.Error(err))
		}

		if d.idle(ctx, stats) {
			if err := d.wait(ctx, d.settings.CycleTime-min(d.settings.CycleTime, stats.Elapsed)); err != nil {
				d.logger.Info("closing daemon")
				return nil
			}
		}
	}
}

// idle reports whether the loop should wait before the next cycle. A cycle
// that took paths runs again at once. Otherwise committed rows keep the loop
// busy only while a notifier is there to hand them to the CMS.
func (d *Daemon) idle(ctx context.Context, stats Stats) bool {
	if stats.Taken > 0 {
		return false
	}
	if _, ok := d.notifier.(NopNotifier); ok {
		return true
	}
	remaining, err := d.queue.Remaining(ctx)
	if err != nil {
		d.logger.Error("failed to count remaining rows", zap.Error(err))
		return true
	}
	return remaining == 0
}

// Cycle runs one cycle: take pending paths, process them, notify the CMS.
func (d *Daemon) Cycle(ctx context.Context) (Stats, error) {
	start := time.Now()
	stats := Stats{ID: uuid.NewString()}
	log := d.logger.With(zap.String("cycle", stats.ID))
	log.Info("start processing")

	paths, err := d.queue.PendingPaths(ctx, d.settings.ParseLimit)
	if err != nil {
		stats.Elapsed = time.Since(start)
		return stats, err
	}
	stats.Taken = len(paths)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.settings.Workers)

	for _, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			committed, err := d.process(gctx, log, p)

			mu.Lock()
			if committed {
				stats.Committed++
			} else {
				stats.Failed++
			}
			mu.Unlock()

			return err
		})
	}
	err = g.Wait()

	if err == nil && ctx.Err() == nil {
		if nerr := d.notifier.Notify(ctx, d.settings.CreateLimit); nerr != nil {
			log.Error("failed to notify CMS", zap.Error(nerr))
		}
	}

	stats.Elapsed = time.Since(start)
	log.Info("end processing",
		zap.Int("taken", stats.Taken),
		zap.Int("committed", stats.Committed),
		zap.Int("failed", stats.Failed),
		zap.Duration("elapsed", stats.Elapsed))
	return stats, err
}

// process extracts and commits one path. Extraction failures mark the path
// failed and are not returned; only queue errors are.
func (d *Daemon) process(ctx context.Context, log *zap.Logger, p store.Path) (bool, error) {
	file := p.Source()
	log = log.With(zap.Int64("path_id", p.ID), zap.String("file", file))
	log.Info("processing file")
	start := time.Now()

	docCtx := ctx
	if d.settings.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, d.settings.DocumentTimeout)
		defer cancel()
	}

	rec, err := d.extract(docCtx, file)
	if err == nil && rec == nil {
		err = errors.New("extraction returned no record")
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.Warn("file processing failed", zap.Error(err))
		if merr := d.queue.MarkFailed(ctx, p.ID); merr != nil {
			return false, merr
		}
		return false, nil
	}

	doc := store.Document{
		Title:    rec.Name,
		Metadata: rec.Metadata,
		EntityID: p.EntityID,
		Links:    rec.Links,
	}
	if err := d.queue.Commit(ctx, p.ID, doc); err != nil {
		log.Error("error pushing to database", zap.Error(err))
		return false, nil
	}

	log.Info("processed file",
		zap.String("title", rec.Name),
		zap.Int("links", len(rec.Links)),
		zap.Duration("elapsed", time.Since(start)))
	return true, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
