// Package telemetry times every MCP tool call.
//
// The interceptor wraps each tool handler as mcp-go middleware. Per call
// it logs the outcome, observes Prometheus metrics and appends a row to
// the tool-call journal. The hierarchy engine knows nothing about it.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/nwater/plantmcp/internal/journal"
	"github.com/nwater/plantmcp/internal/logging"
)

// Recorder persists one call. *journal.Store implements it.
type Recorder interface {
	Record(ctx context.Context, c journal.Call) error
}

// Metrics holds the interceptor's collectors.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the tool-call collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		calls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "plantmcp_tool_calls_total",
			Help: "Total tool calls by tool and status",
		}, []string{"tool", "status"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plantmcp_tool_call_duration_seconds",
			Help:    "Tool call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
		}, []string{"tool"}),
	}
}

// CallRecord is one entry of the in-memory called-tools list.
type CallRecord struct {
	Tool     string        `json:"tool"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
}

// DefaultRecentCalls is how many calls Called keeps.
const DefaultRecentCalls = 256

// Interceptor times tool calls. All dependencies are optional: a nil
// logger, metrics or recorder is skipped.
type Interceptor struct {
	log      *zap.Logger
	metrics  *Metrics
	recorder Recorder
	now      func() time.Time
	keep     int

	mu     sync.Mutex
	total  int
	called []CallRecord
}

// New creates an Interceptor.
func New(log *zap.Logger, metrics *Metrics, recorder Recorder) *Interceptor {
	if log == nil {
		log = logging.Nop()
	}
	return &Interceptor{log: log, metrics: metrics, recorder: recorder, now: time.Now, keep: DefaultRecentCalls}
}

// Middleware returns the mcp-go tool middleware.
func (i *Interceptor) Middleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := i.now()
			result, err := next(ctx, req)
			i.observe(ctx, req.Params.Name, start, i.now().Sub(start), result, err)
			return result, err
		}
	}
}

func (i *Interceptor) observe(ctx context.Context, tool string, start time.Time, elapsed time.Duration, result *mcp.CallToolResult, err error) {
	status, message := journal.StatusOK, ""
	switch {
	case err != nil:
		status, message = journal.StatusError, err.Error()
	case result != nil && result.IsError:
		status, message = journal.StatusError, resultMessage(result)
	}

	fields := []zap.Field{
		zap.String(logging.FieldTool, tool),
		zap.Float64(logging.FieldDurationMS, float64(elapsed.Microseconds())/1000),
		zap.String(logging.FieldStatus, status),
	}
	if status == journal.StatusError {
		i.log.Warn("tool call failed", append(fields, zap.String(logging.FieldError, message))...)
	} else {
		i.log.Debug("tool call", fields...)
	}

	if i.metrics != nil {
		i.metrics.calls.WithLabelValues(tool, status).Inc()
		i.metrics.duration.WithLabelValues(tool).Observe(elapsed.Seconds())
	}

	i.mu.Lock()
	i.total++
	if len(i.called) >= i.keep {
		n := copy(i.called, i.called[len(i.called)-i.keep+1:])
		i.called = i.called[:n]
	}
	i.called = append(i.called, CallRecord{Tool: tool, Status: status, Duration: elapsed})
	i.mu.Unlock()

	if i.recorder != nil {
		// A cancelled request must still be journaled.
		rec := journal.Call{Tool: tool, Status: status, Duration: elapsed, Message: message, StartedAt: start}
		if rerr := i.recorder.Record(context.WithoutCancel(ctx), rec); rerr != nil {
			i.log.Warn("journal write failed", zap.String(logging.FieldTool, tool), zap.Error(rerr))
		}
	}
}

// Count returns the number of calls seen since the interceptor was created.
func (i *Interceptor) Count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.total
}

// Called returns the most recent calls, oldest first. At most
// DefaultRecentCalls are kept.
func (i *Interceptor) Called() []CallRecord {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]CallRecord, len(i.called))
	copy(out, i.called)
	return out
}

func resultMessage(r *mcp.CallToolResult) string {
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
