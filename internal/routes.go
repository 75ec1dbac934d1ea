package internal

import (
	"net/http"
	"trd/internal/controllers"
	"trd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, schedulerController *controllers.SchedulerController, onlineController *controllers.OnlineController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/api/news", http.HandlerFunc(apiController.GetNews))
	routers.Get("/api/fetch-metrics", http.HandlerFunc(apiController.GetFetchMetrics))
	routers.Post("/api/fetch", http.HandlerFunc(apiController.FetchNow))

	routers.Post("/api/scheduler/start", http.HandlerFunc(schedulerController.Start))
	routers.Post("/api/scheduler/stop", http.HandlerFunc(schedulerController.Stop))
	routers.Get("/api/scheduler/status", http.HandlerFunc(schedulerController.Status))

	routers.Post("/api/online/ping", http.HandlerFunc(onlineController.Ping))
	routers.Get("/api/online", http.HandlerFunc(onlineController.Stats))
	return routers
}
