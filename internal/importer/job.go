package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/product-catalog/internal/metrics"
	"github.com/rogerio-castellano/product-catalog/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLimit    = 50
	DefaultInterval = 12 * time.Hour

	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// ErrImportInProgress is returned when a run is requested while another one is executing.
var ErrImportInProgress = errors.New("import already in progress")

// ProductUpserter is the slice of the repository the importer needs.
type ProductUpserter interface {
	UpsertByExternalID(ctx context.Context, p models.Product) (int64, error)
}

// Fetcher returns the products of the external feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]FeedProduct, error)
}

type Options struct {
	// Limit caps how many feed entries one run imports.
	Limit              int
	Interval           time.Duration
	ProductURLTemplate string
	RunLog             RunLog
	// Locker is optional; without it runs are only serialized inside this process.
	Locker Locker
}

// Job imports the external feed into the catalog.
type Job struct {
	products    ProductUpserter
	feed        Fetcher
	log         logrus.FieldLogger
	limit       int
	interval    time.Duration
	urlTemplate string
	runs        RunLog
	locker      Locker

	mu sync.Mutex
}

func NewJob(products ProductUpserter, feed Fetcher, log logrus.FieldLogger, opts Options) *Job {
	j := &Job{
		products:    products,
		feed:        feed,
		log:         log.WithField("component", "importer"),
		limit:       opts.Limit,
		interval:    opts.Interval,
		urlTemplate: opts.ProductURLTemplate,
		runs:        opts.RunLog,
		locker:      opts.Locker,
	}
	if j.limit <= 0 {
		j.limit = DefaultLimit
	}
	if j.interval <= 0 {
		j.interval = DefaultInterval
	}
	if j.runs == nil {
		j.runs = NewInMemoryRunLog()
	}
	return j
}

// Runs exposes the run history.
func (j *Job) Runs() RunLog {
	return j.runs
}

// Start runs the import immediately and then again interval after each run
// finishes, until ctx is cancelled. Failures are logged and wait for the next tick.
func (j *Job) Start(ctx context.Context) {
	j.log.WithField("interval", j.interval.String()).Info("import scheduler started")
	for {
		if _, err := j.Run(ctx, TriggerSchedule); errors.Is(err, ErrImportInProgress) {
			j.log.Debug("scheduled import skipped, a run is in progress")
		}

		timer := time.NewTimer(j.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			j.log.Info("import scheduler stopped")
			return
		case <-timer.C:
		}
	}
}

// Run executes one import. A failing run imports nothing further and is
// recorded with its error; it is never retried.
func (j *Job) Run(ctx context.Context, trigger string) (Run, error) {
	if !j.mu.TryLock() {
		return Run{}, ErrImportInProgress
	}
	defer j.mu.Unlock()

	run := Run{ID: uuid.NewString(), Trigger: trigger, StartedAt: time.Now().UTC()}
	log := j.log.WithFields(logrus.Fields{"run_id": run.ID, "trigger": trigger})

	if j.locker != nil {
		release, err := j.locker.Acquire(ctx, run.ID)
		if errors.Is(err, ErrLockHeld) {
			log.Info("import skipped, another instance holds the lock")
			metrics.RecordImportRun("skipped", 0, 0)
			return run, err
		}
		if err != nil {
			return j.finish(ctx, log, run, err)
		}
		defer release()
	}

	err := j.execute(ctx, &run)
	return j.finish(ctx, log, run, err)
}

func (j *Job) execute(ctx context.Context, run *Run) error {
	feed, err := j.feed.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}
	if len(feed) > j.limit {
		feed = feed[:j.limit]
	}
	run.Fetched = len(feed)

	for _, fp := range feed {
		p, ok, err := ToProduct(fp, j.urlTemplate)
		if err != nil {
			return err
		}
		if !ok {
			run.Skipped++
			continue
		}
		n, err := j.products.UpsertByExternalID(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", *p.ExternalID, err)
		}
		run.Affected += n
	}
	return nil
}

func (j *Job) finish(ctx context.Context, log logrus.FieldLogger, run Run, err error) (Run, error) {
	run.FinishedAt = time.Now().UTC()
	duration := run.FinishedAt.Sub(run.StartedAt)
	if err != nil {
		run.Error = err.Error()
	}

	if appendErr := j.runs.Append(context.WithoutCancel(ctx), run); appendErr != nil {
		log.WithError(appendErr).Warn("failed to record import run")
	}

	fields := logrus.Fields{
		"fetched":  run.Fetched,
		"skipped":  run.Skipped,
		"affected": run.Affected,
		"duration": duration.String(),
	}
	if err != nil {
		metrics.RecordImportRun("failure", run.Affected, duration)
		log.WithFields(fields).WithError(err).Error("failed to import products")
		return run, err
	}
	metrics.RecordImportRun("success", run.Affected, duration)
	log.WithFields(fields).Infof("imported/updated %d products", run.Affected)
	return run, nil
}
