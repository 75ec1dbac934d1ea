package controllers

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"trd/internal/fetchmetrics"
	"trd/internal/ingestion"
	"trd/internal/ingestion/interfaces"
	"trd/internal/models"
	"trd/internal/providers"

	json "github.com/goccy/go-json"
)

const (
	defaultNewsLimit = 5000
	maxNewsLimit     = 10000
)

var errNoSnapshot = errors.New("no snapshot available yet")

type MetricsQuerierInterface interface {
	Query(params fetchmetrics.QueryParams) fetchmetrics.QueryResult
}

type ApiController struct {
	logger       providers.Logger
	metrics      MetricsQuerierInterface
	orchestrator ingestion.OrchestratorInterface
	storage      interfaces.SnapshotStorageInterface
	cache        providers.CacheProviderInterface
}

func NewApiController(
	logger providers.Logger,
	metrics MetricsQuerierInterface,
	orchestrator ingestion.OrchestratorInterface,
	storage interfaces.SnapshotStorageInterface,
	cache providers.CacheProviderInterface,
) *ApiController {
	return &ApiController{
		logger:       logger,
		metrics:      metrics,
		orchestrator: orchestrator,
		storage:      storage,
		cache:        cache,
	}
}

type newsSource struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Items []models.NewsItem `json:"items"`
}

type newsResponse struct {
	Date      string       `json:"date"`
	CrawlTime string       `json:"crawl_time"`
	Sources   []newsSource `json:"sources"`
	FailedIDs []string     `json:"failed_ids"`
	Total     int          `json:"total"`
}

// serveFromCacheOrCompute pins the cache generation before computing, so a
// result built from data older than a concurrent invalidation is served to
// this caller only and never cached.
func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	gen := ac.cache.Generation()
	result, err := compute()
	if err != nil {
		if errors.Is(err, errNoSnapshot) {
			writeDetail(w, http.StatusNotFound, err.Error())
			return
		}
		ac.logger.Errorf(providers.TypeGet, "Failed to compute %s: %v", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.SetForGeneration(gen, cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

func (ac *ApiController) GetFetchMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := fetchmetrics.DefaultQueryLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > fetchmetrics.DefaultCapacity {
			writeDetail(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(fetchmetrics.DefaultCapacity))
			return
		}
		limit = n
	}

	source := q.Get("source")
	if source == "" {
		source = q.Get("platform")
	}

	writeJSON(w, http.StatusOK, ac.metrics.Query(fetchmetrics.QueryParams{
		Limit:    limit,
		Source:   source,
		Provider: q.Get("provider"),
	}))
}

// FetchNow runs one ingestion cycle synchronously. The cycle outlives a
// disconnected client; derived views are invalidated whatever the outcome.
func (ac *ApiController) FetchNow(w http.ResponseWriter, r *http.Request) {
	result := ac.orchestrator.RunCycle(context.WithoutCancel(r.Context()))
	ac.cache.Invalidate()
	writeJSON(w, http.StatusOK, result)
}

func (ac *ApiController) GetNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultNewsLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxNewsLimit {
			writeDetail(w, http.StatusBadRequest, "limit must be an integer between 1 and "+strconv.Itoa(maxNewsLimit))
			return
		}
		limit = n
	}

	raw := q.Get("sources")
	if raw == "" {
		raw = q.Get("platforms")
	}
	ids := parseSourceList(raw)

	key := "news:" + strconv.Itoa(limit) + ":" + strings.Join(ids, ",")
	ac.serveFromCacheOrCompute(w, key, func() (any, error) {
		return ac.buildNews(r.Context(), ids, limit)
	})
}

// WarmupCache precomputes the unfiltered news view.
func (ac *ApiController) WarmupCache(ctx context.Context) error {
	gen := ac.cache.Generation()
	view, err := ac.buildNews(ctx, nil, defaultNewsLimit)
	if err != nil {
		return err
	}
	gson, err := json.Marshal(view)
	if err != nil {
		return err
	}
	ac.cache.SetForGeneration(gen, "news:"+strconv.Itoa(defaultNewsLimit)+":", gson)
	return nil
}

func (ac *ApiController) buildNews(ctx context.Context, ids []string, limit int) (*newsResponse, error) {
	snapshot, err := ac.storage.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errNoSnapshot
	}
	snapshot = snapshot.Filter(ids)

	order := make([]string, 0, len(snapshot.Items))
	for id := range snapshot.Items {
		order = append(order, id)
	}
	slices.Sort(order)

	resp := &newsResponse{
		Date:      snapshot.Date,
		CrawlTime: snapshot.CrawlTime,
		Sources:   make([]newsSource, 0, len(order)),
		FailedIDs: snapshot.FailedIDs,
	}
	for _, id := range order {
		list := snapshot.Items[id]
		if len(list) > limit {
			list = list[:limit]
		}
		resp.Sources = append(resp.Sources, newsSource{ID: id, Name: snapshot.IDToName[id], Items: list})
		resp.Total += len(list)
	}
	return resp, nil
}

// parseSourceList splits a comma separated id list, dropping blanks and
// duplicates. The result is sorted so equivalent queries share a cache key.
func parseSourceList(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
