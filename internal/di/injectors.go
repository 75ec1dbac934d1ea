//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"trd/internal"
	"trd/internal/controllers"
	"trd/internal/fetchmetrics"
	"trd/internal/ingestion"
	ingestionifaces "trd/internal/ingestion/interfaces"
	"trd/internal/presence"
	"trd/internal/providers"
	"trd/internal/scheduler"
	schedulerifaces "trd/internal/scheduler/interfaces"
	"trd/internal/storage"
	"trd/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		fetchmetrics.NewFetchMetricsStore,
		wire.Bind(new(providers.BufferSizer), new(*fetchmetrics.Store)),
		wire.Bind(new(ingestionifaces.MetricsRecorderInterface), new(*fetchmetrics.Store)),
		wire.Bind(new(controllers.MetricsQuerierInterface), new(*fetchmetrics.Store)),

		storage.NewZstdCompressor,
		storage.NewSnapshotStorage,

		ingestion.NewSourceResolver,
		wire.Bind(new(ingestionifaces.SourceResolverInterface), new(*ingestion.SourceResolver)),
		ingestion.NewHTTPCrawler,
		wire.Bind(new(ingestionifaces.CrawlerInterface), new(*ingestion.HTTPCrawler)),
		ingestion.NewChangeDetector,
		wire.Bind(new(ingestionifaces.CacheInvalidatorInterface), new(providers.CacheProviderInterface)),
		scheduler.NewState,
		wire.Bind(new(ingestionifaces.FetchTrackerInterface), new(*scheduler.State)),
		ingestion.NewOrchestrator,
		wire.Bind(new(ingestion.OrchestratorInterface), new(*ingestion.Orchestrator)),
		wire.Bind(new(schedulerifaces.CycleRunnerInterface), new(*ingestion.Orchestrator)),

		scheduler.NewScheduler,
		wire.Bind(new(schedulerifaces.SchedulerInterface), new(*scheduler.Scheduler)),

		presence.NewPresenceTracker,
		wire.Bind(new(controllers.PresenceTrackerInterface), new(*presence.Tracker)),

		controllers.NewApiController,
		controllers.NewSchedulerController,
		controllers.NewOnlineController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
