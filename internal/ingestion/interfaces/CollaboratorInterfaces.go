package interfaces

import (
	"context"
	"time"
	"trd/internal/models"
)

// SourceResolverInterface resolves the list of sources to fetch. It is
// consulted on every cycle so configuration edits apply without a restart.
type SourceResolverInterface interface {
	Sources() ([]models.Source, error)
}

// CrawlerInterface retrieves content for all sources. Implementations may
// block for a long time; callers run them off the request path.
type CrawlerInterface interface {
	Crawl(ctx context.Context, sources []models.Source) (*models.CrawlOutput, error)
}

// SnapshotStorageInterface persists normalized snapshots and serves the most
// recent one to derived read paths.
type SnapshotStorageInterface interface {
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Latest(ctx context.Context) (*models.Snapshot, error)
}

type CacheInvalidatorInterface interface {
	Invalidate()
}

type MetricsRecorderInterface interface {
	Record(records []models.FetchMetricRecord) error
}

type FetchTrackerInterface interface {
	MarkFetched(at time.Time)
}
