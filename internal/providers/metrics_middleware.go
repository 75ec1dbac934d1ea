package providers

import (
	"net/http"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// unmatchedEndpoint is the label for requests no route claimed.
const unmatchedEndpoint = "unmatched"

// routeLabel reads the pattern the wrapped ServeMux matched. The mux stores it
// on the request it was handed, so it is only available after ServeHTTP.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedEndpoint
	}
	return r.Pattern
}

// MetricsMiddleware counts and times requests per matched route. next is
// expected to be the API ServeMux.
func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		r.Pattern = ""

		next.ServeHTTP(sw, r)

		endpoint := routeLabel(r)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, time.Since(start))
	})
}

// RequestLogMiddleware writes one debug line per request to the log channel
// matching the request method; 5xx responses are logged as errors.
func RequestLogMiddleware(logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logType := GetLogTypeByRequestType(r.Method)
		if sw.status >= http.StatusInternalServerError {
			logger.Errorf(logType, "%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), sw.status, time.Since(start))
			return
		}
		logger.Debugf(logType, "%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), sw.status, time.Since(start))
	})
}
