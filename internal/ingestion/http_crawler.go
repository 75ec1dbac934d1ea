package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"trd/internal/models"
	"trd/internal/providers"
	"trd/internal/structures"

	"github.com/cespare/xxhash/v2"
	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const (
	ProviderNewsNow = "newsnow"

	defaultCrawlTimeout = 10 * time.Second
	maxResponseBytes    = 4 << 20
)

type newsNowResponse struct {
	Status string `json:"status"`
	Items  []struct {
		Title     interface{} `json:"title"`
		URL       string      `json:"url"`
		MobileURL string      `json:"mobileUrl"`
	} `json:"items"`
}

// HTTPCrawler fetches every source from a newsnow-compatible API
// (`GET {apiUrl}?id={source}&latest`), one source at a time.
type HTTPCrawler struct {
	client  *http.Client
	apiURL  string
	retries int
	backoff time.Duration
	logger  providers.Logger
}

func NewHTTPCrawler(conf *structures.Config, logger providers.Logger) (*HTTPCrawler, error) {
	timeout := conf.Crawler.Timeout
	if timeout <= 0 {
		timeout = defaultCrawlTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if conf.Crawler.UseProxy && conf.Crawler.ProxyUrl != "" {
		proxy, err := url.Parse(conf.Crawler.ProxyUrl)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &HTTPCrawler{
		client:  &http.Client{Timeout: timeout, Transport: transport},
		apiURL:  conf.Crawler.ApiUrl,
		retries: max(conf.Crawler.Retries, 0),
		backoff: time.Second,
		logger:  logger,
	}, nil
}

func (c *HTTPCrawler) Crawl(ctx context.Context, sources []models.Source) (*models.CrawlOutput, error) {
	out := &models.CrawlOutput{
		Results:  make(map[string][]models.NewsItem, len(sources)),
		IDToName: make(map[string]string, len(sources)),
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out.IDToName[src.ID] = src.Name

		started := time.Now()
		items, status, err := c.fetchWithRetry(ctx, src.ID)
		metric := models.CrawlMetric{
			SourceID:   src.ID,
			SourceName: src.Name,
			Provider:   ProviderNewsNow,
			DurationMs: time.Since(started).Milliseconds(),
		}

		if err != nil {
			c.logger.Warnf(providers.TypeFetch, "Fetching %s failed: %v", src.ID, err)
			metric.Status = models.StatusError
			metric.Error = err.Error()
			out.FailedIDs = append(out.FailedIDs, src.ID)
			out.Metrics = append(out.Metrics, metric)
			continue
		}

		keys := make([]string, len(items))
		for i, item := range items {
			keys[i] = item.Key()
		}
		metric.Status = status
		metric.ItemsCount = len(items)
		metric.ContentKeys = keys
		metric.ContentKeysReported = true
		metric.ContentHash = contentHash(keys)

		out.Results[src.ID] = items
		out.Metrics = append(out.Metrics, metric)
	}

	return out, nil
}

func (c *HTTPCrawler) fetchWithRetry(ctx context.Context, id string) ([]models.NewsItem, models.FetchStatus, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		items, status, err := c.fetchOnce(ctx, id)
		if err == nil {
			return items, status, nil
		}
		lastErr = err

		if attempt < c.retries {
			wait := time.Duration(attempt+1) * c.backoff
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil, "", fmt.Errorf("failed after %d attempts: %w", c.retries+1, lastErr)
}

func (c *HTTPCrawler) fetchOnce(ctx context.Context, id string) ([]models.NewsItem, models.FetchStatus, error) {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid api url: %w", err)
	}
	q := u.Query()
	q.Set("id", id)
	q.Set("latest", "")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	var payload newsNowResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	status := models.FetchStatus(payload.Status)
	if status != models.StatusSuccess && status != models.StatusCache {
		return nil, "", fmt.Errorf("api reported status %q", payload.Status)
	}

	items := make([]models.NewsItem, 0, len(payload.Items))
	for _, raw := range payload.Items {
		title := cast.ToString(raw.Title)
		if title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Title:     title,
			URL:       raw.URL,
			MobileURL: raw.MobileURL,
			Rank:      len(items) + 1,
		})
	}
	return items, status, nil
}

// contentHash fingerprints the ordered item keys of one fetch.
func contentHash(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	d := xxhash.New()
	for _, k := range keys {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
