package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "helius_mcp"

var (
	mu              sync.RWMutex
	defaultRegistry = newRegistry()
)

type registry struct {
	reg                *prometheus.Registry
	toolCalls          *prometheus.CounterVec
	toolDuration       *prometheus.HistogramVec
	toolErrors         *prometheus.CounterVec
	rpcErrors          *prometheus.CounterVec
	rateLimited        prometheus.Counter
	auditWriteFailures prometheus.Counter
}

func newRegistry() *registry {
	r := &registry{
		reg: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls by tool and outcome status.",
		}, []string{"tool", "status"}),
		toolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tool_call_duration_seconds",
			Help:      "Tool call latency including the remote round trip.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"tool"}),
		toolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_errors_total",
			Help:      "Failed tool calls by error kind.",
		}, []string{"tool", "kind"}),
		rpcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_errors_total",
			Help:      "Errors returned by the Helius RPC endpoint by method.",
		}, []string{"method"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "HTTP requests rejected by the rate limiter.",
		}),
		auditWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Tool calls that could not be written to the audit store.",
		}),
	}
	r.reg.MustRegister(r.toolCalls, r.toolDuration, r.toolErrors, r.rpcErrors, r.rateLimited, r.auditWriteFailures)
	return r
}

func current() *registry {
	mu.RLock()
	defer mu.RUnlock()
	return defaultRegistry
}

// Reset replaces all collectors with fresh ones. Tests use it to isolate
// counters.
func Reset() {
	mu.Lock()
	defaultRegistry = newRegistry()
	mu.Unlock()
}

func IncToolCall(toolName, status string) {
	current().toolCalls.WithLabelValues(toolName, status).Inc()
}

func ObserveToolDuration(toolName string, d time.Duration) {
	current().toolDuration.WithLabelValues(toolName).Observe(d.Seconds())
}

func IncToolError(toolName, kind string) {
	current().toolErrors.WithLabelValues(toolName, kind).Inc()
}

func IncRPCError(method string) {
	current().rpcErrors.WithLabelValues(method).Inc()
}

func IncRateLimited() {
	current().rateLimited.Inc()
}

func IncAuditWriteFailure() {
	current().auditWriteFailures.Inc()
}

// Handler serves the metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reg := current().reg
		promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
