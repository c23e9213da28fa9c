// Package metrics exposes Prometheus instrumentation for the relay:
// generic HTTP request metrics plus domain counters for the OAuth
// handshake and webhook forwards.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once
	registerErr  error

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInflight        *prometheus.GaugeVec

	// Domain metrics
	oauthCallbacksTotal *prometheus.CounterVec
	tokenExchangesTotal *prometheus.CounterVec
	sinkForwardTotal    *prometheus.CounterVec
)

// Register initializes all collectors against the given registry (default
// registerer when nil) and returns the handler for /metrics. Safe to call
// more than once.
func Register(registry prometheus.Registerer) (http.Handler, error) {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"})

		httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"})

		httpInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "In-flight requests by method and path",
		}, []string{"method", "path"})

		oauthCallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oauth_callbacks_total",
			Help: "OAuth callbacks by outcome",
		}, []string{"result"}) // result: success|invalid_state|exchange_failed|phone_not_found|phone_required

		tokenExchangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "token_exchanges_total",
			Help: "Authorization-code exchanges against the provider by outcome",
		}, []string{"result"}) // result: success|failure

		sinkForwardTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sink_forward_total",
			Help: "Token deliveries to the webhook sink by verdict",
		}, []string{"verdict"}) // verdict: accepted|rejected

		for _, c := range []prometheus.Collector{
			httpRequestsTotal,
			httpRequestDuration,
			httpInflight,
			oauthCallbacksTotal,
			tokenExchangesTotal,
			sinkForwardTotal,
		} {
			if err := registerCollector(registry, c); err != nil {
				registerErr = err
				return
			}
		}
	})
	if registerErr != nil {
		return nil, registerErr
	}

	// Global gatherer for compatibility, collectors register there.
	return promhttp.Handler(), nil
}

// IncCallback records the outcome of one OAuth callback.
func IncCallback(result string) {
	if oauthCallbacksTotal != nil {
		oauthCallbacksTotal.WithLabelValues(result).Inc()
	}
}

// IncExchange records the outcome of one code-for-token exchange.
func IncExchange(result string) {
	if tokenExchangesTotal != nil {
		tokenExchangesTotal.WithLabelValues(result).Inc()
	}
}

// IncSinkForward records the verdict of one token delivery to the sink.
func IncSinkForward(accepted bool) {
	if sinkForwardTotal == nil {
		return
	}
	verdict := "rejected"
	if accepted {
		verdict = "accepted"
	}
	sinkForwardTotal.WithLabelValues(verdict).Inc()
}

// WithMetrics instruments HTTP requests with counters, latency and inflight gauges.
func WithMetrics(next http.Handler) http.Handler {
	if next == nil {
		return nil
	}
	if httpRequestsTotal == nil || httpRequestDuration == nil || httpInflight == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.ToUpper(r.Method)
		pathLabel := normalizePath(r.URL.Path)

		httpInflight.WithLabelValues(method, pathLabel).Inc()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			httpInflight.WithLabelValues(method, pathLabel).Dec()
			duration := time.Since(start).Seconds()
			httpRequestDuration.WithLabelValues(method, pathLabel).Observe(duration)

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(method, pathLabel, strconv.Itoa(status)).Inc()
		}()

		next.ServeHTTP(rec, r)
	})
}

func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// normalizePath keeps the label cardinality bounded. The relay routes are
// static so the path passes through unless it carries a query string.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	clean := strings.SplitN(p, "?", 2)[0]
	if clean == "" {
		return "/"
	}
	if !strings.HasPrefix(clean, "/") {
		clean = "/" + clean
	}
	return clean
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}
