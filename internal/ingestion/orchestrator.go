package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"
	"trd/internal/ingestion/interfaces"
	"trd/internal/models"
	"trd/internal/providers"
)

var (
	ErrNoSources = errors.New("no sources configured")
	ErrNoData    = errors.New("no data retrieved")
)

type OrchestratorInterface interface {
	RunCycle(ctx context.Context) models.CycleResult
}

// Orchestrator runs one ingestion cycle end to end: resolve sources, crawl,
// record per-source metrics, persist the snapshot, invalidate derived views
// and stamp the last successful fetch.
type Orchestrator struct {
	sources  interfaces.SourceResolverInterface
	crawler  interfaces.CrawlerInterface
	detector *ChangeDetector
	recorder interfaces.MetricsRecorderInterface
	storage  interfaces.SnapshotStorageInterface
	cache    interfaces.CacheInvalidatorInterface
	tracker  interfaces.FetchTrackerInterface
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	now      func() time.Time
}

func NewOrchestrator(
	sources interfaces.SourceResolverInterface,
	crawler interfaces.CrawlerInterface,
	detector *ChangeDetector,
	recorder interfaces.MetricsRecorderInterface,
	storage interfaces.SnapshotStorageInterface,
	cache interfaces.CacheInvalidatorInterface,
	tracker interfaces.FetchTrackerInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Orchestrator {
	return &Orchestrator{
		sources:  sources,
		crawler:  crawler,
		detector: detector,
		recorder: recorder,
		storage:  storage,
		cache:    cache,
		tracker:  tracker,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
}

// RunCycle never returns an error or panics; every failure is reported in
// the result. Metrics recorded before a failure stay recorded.
func (o *Orchestrator) RunCycle(ctx context.Context) (result models.CycleResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Errorf(providers.TypeFetch, "Ingestion cycle panicked: %v", r)
			result = models.CycleFailed(fmt.Errorf("unexpected failure: %v", r))
		}
		o.observe(result, time.Since(start))
	}()

	sources, items, err := o.runCycle(ctx)
	if err != nil {
		return models.CycleFailed(err)
	}
	return models.CycleSucceeded(sources, items)
}

func (o *Orchestrator) runCycle(ctx context.Context) (int, int, error) {
	sources, err := o.sources.Sources()
	if err != nil {
		return 0, 0, fmt.Errorf("resolve sources: %w", err)
	}
	if len(sources) == 0 {
		return 0, 0, ErrNoSources
	}

	out, err := o.crawl(ctx, sources)
	if err != nil {
		return 0, 0, fmt.Errorf("crawl: %w", err)
	}
	if out == nil {
		return 0, 0, ErrNoData
	}

	o.record(out.Metrics, o.now().UTC())

	if len(out.Results) == 0 {
		return 0, 0, ErrNoData
	}

	snapshot := models.NewSnapshot(out, o.now())
	if err := o.storage.Save(ctx, snapshot); err != nil {
		return 0, 0, fmt.Errorf("persist snapshot: %w", err)
	}

	o.cache.Invalidate()
	o.tracker.MarkFetched(o.now())

	return len(out.Results), snapshot.TotalItems(), nil
}

// crawl runs the crawler on its own goroutine so a cancelled ctx releases
// the caller even if the crawler ignores it.
func (o *Orchestrator) crawl(ctx context.Context, sources []models.Source) (*models.CrawlOutput, error) {
	type crawlResult struct {
		out *models.CrawlOutput
		err error
	}

	done := make(chan crawlResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- crawlResult{err: fmt.Errorf("crawler panicked: %v", r)}
			}
		}()
		out, err := o.crawler.Crawl(ctx, sources)
		done <- crawlResult{out: out, err: err}
	}()

	select {
	case res := <-done:
		return res.out, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (o *Orchestrator) record(crawled []models.CrawlMetric, fetchedAt time.Time) {
	if len(crawled) == 0 {
		return
	}

	records := make([]models.FetchMetricRecord, 0, len(crawled))
	for _, m := range crawled {
		changed := o.detector.Compute(m.SourceID, m.ContentKeys, m.ContentKeysReported)
		records = append(records, m.Record(changed, fetchedAt))
		o.metrics.IncSourceFetch(m.SourceID, string(m.Status))
	}

	if err := o.recorder.Record(records); err != nil {
		o.logger.Warnf(providers.TypeFetch, "Failed to persist %d fetch metrics: %v", len(records), err)
	}
}

func (o *Orchestrator) observe(result models.CycleResult, elapsed time.Duration) {
	o.metrics.ObserveCycleDuration(elapsed)
	if !result.Success {
		o.metrics.IncCyclesTotal("failure")
		o.logger.Errorf(providers.TypeFetch, "Ingestion cycle failed after %s: %s", elapsed, result.Error)
		return
	}
	o.metrics.IncCyclesTotal("success")
	o.logger.Infof(providers.TypeFetch, "Ingestion cycle finished in %s: %d sources, %d items",
		elapsed, result.Sources, result.ItemsCount)
}
