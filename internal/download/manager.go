package download

import (
	"context"
	"fmt"

	ioutils "github.com/nowesr1/snapstash/internal/io"
	"github.com/nowesr1/snapstash/internal/logger"
	"github.com/nowesr1/snapstash/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of fetches in flight when none is set.
const DefaultConcurrency = 5

// Worker resolves a single record. *Fetcher is the production Worker.
type Worker interface {
	Fetch(ctx context.Context, rec *model.Record, destDir string) Outcome
}

// Manager runs batches of records through a bounded pool of workers.
type Manager struct {
	worker      Worker
	concurrency int
	log         logger.Logger
}

// NewManager creates a Manager. Concurrency below 1 is treated as 1.
func NewManager(worker Worker, concurrency int, log logger.Logger) *Manager {
	if concurrency < 1 {
		concurrency = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		worker:      worker,
		concurrency: concurrency,
		log:         log,
	}
}

// Concurrency returns the pool size.
func (m *Manager) Concurrency() int {
	return m.concurrency
}

// DownloadAll fetches records into destDir with at most Concurrency
// fetches in flight. When one finishes the next record is admitted.
//
// onProgress, if not nil, is called once per resolved record with the
// running count. Calls happen on the caller's goroutine, one at a time,
// and done never skips or goes back.
//
// Per-record failures never abort the batch; they are reported in the
// returned Report. The only batch-level error is ErrPermission, returned
// before any worker starts.
//
// Cancelling ctx stops admission of further records and aborts the
// transfers in flight. The returned Report then has Cancelled set and
// covers only the records that resolved.
func (m *Manager) DownloadAll(ctx context.Context, records []*model.Record, destDir string, onProgress func(done, total int)) (*Report, error) {
	if len(records) == 0 {
		return &Report{}, nil
	}

	grant, err := ioutils.AcquireDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPermission, err)
	}
	defer grant.Release()

	report := &Report{
		Total:    len(records),
		Outcomes: make([]Outcome, 0, len(records)),
	}
	workers := min(m.concurrency, len(records))
	m.log.Info("starting batch",
		logger.Int("records", len(records)),
		logger.Int("workers", workers),
		logger.String("dest", destDir),
	)

	jobs := make(chan *model.Record)
	results := make(chan Outcome)

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobs)
		for _, rec := range records {
			if ctx.Err() != nil {
				return nil
			}
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			for rec := range jobs {
				results <- m.worker.Fetch(ctx, rec, grant.Path)
			}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for out := range results {
		report.add(out)
		if onProgress != nil {
			onProgress(report.Done, report.Total)
		}
	}

	report.Cancelled = ctx.Err() != nil
	m.log.Info("batch finished",
		logger.Int("saved", report.Saved),
		logger.Int("skipped", report.Skipped),
		logger.Int("failed", report.Failed),
		logger.Int64("bytes", report.Bytes),
	)

	return report, nil
}
