package main

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultBaseURL = "http://127.0.0.1:8080"
	numWorkers     = 50
	testDuration   = 10 * time.Second
	numSessions    = 2000
)

var sourceFilters = []string{"", "weibo", "zhihu", "weibo,zhihu", "toutiao,baidu"}

var baseURL = defaultBaseURL

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	if v := os.Getenv("TRD_BASE_URL"); v != "" {
		baseURL = v
	}

	fmt.Println("=== TRD Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n", baseURL, numWorkers, testDuration)
	fmt.Printf("Sessions: %d\n\n", numSessions)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// One synchronous cycle so the read paths have a snapshot to serve.
	fmt.Println("\n--- Phase 1: Ingestion cycle (POST /api/fetch) ---")
	r := doFetch()
	fmt.Printf("  status=%d latency=%s\n", r.status, fmtDur(r.latency))

	fmt.Println("\n--- Phase 2: Presence heartbeats (POST /api/online/ping) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPing(rng)
	})

	fmt.Println("\n--- Phase 3: Mixed load (40% ping, 60% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doPing(rng)
		case r < 0.70:
			return doGetNews(rng)
		case r < 0.85:
			return doGetFetchMetrics(rng)
		case r < 0.95:
			return doGetOnline()
		default:
			return doGetSchedulerStatus()
		}
	})

	// Reads racing cache invalidations from concurrent cycles.
	fmt.Println("\n--- Phase 4: Reads during ingestion (1% fetch, 99% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.01:
			return doFetch()
		case r < 0.70:
			return doGetNews(rng)
		default:
			return doGetFetchMetrics(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doRequest(endpoint, method, url string, body []byte, want int) result {
	var (
		resp *http.Response
		err  error
	)
	start := time.Now()
	if method == http.MethodPost {
		resp, err = httpClient.Post(url, "application/json", bytes.NewReader(body))
	} else {
		resp, err = httpClient.Get(url)
	}
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != want}
}

func doPing(rng *rand.Rand) result {
	data, _ := json.Marshal(map[string]string{
		"session_id": fmt.Sprintf("load-%d", rng.Intn(numSessions)),
	})
	return doRequest("POST /api/online/ping", http.MethodPost, baseURL+"/api/online/ping", data, http.StatusOK)
}

func doFetch() result {
	return doRequest("POST /api/fetch", http.MethodPost, baseURL+"/api/fetch", nil, http.StatusOK)
}

func doGetNews(rng *rand.Rand) result {
	url := baseURL + "/api/news"
	if f := sourceFilters[rng.Intn(len(sourceFilters))]; f != "" {
		url += "?sources=" + f
	}
	return doRequest("GET /api/news", http.MethodGet, url, nil, http.StatusOK)
}

func doGetFetchMetrics(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/fetch-metrics?limit=%d", baseURL, rng.Intn(500)+1)
	return doRequest("GET /api/fetch-metrics", http.MethodGet, url, nil, http.StatusOK)
}

func doGetOnline() result {
	return doRequest("GET /api/online", http.MethodGet, baseURL+"/api/online", nil, http.StatusOK)
}

func doGetSchedulerStatus() result {
	return doRequest("GET /api/scheduler/status", http.MethodGet, baseURL+"/api/scheduler/status", nil, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dÂµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
