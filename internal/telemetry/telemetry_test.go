package telemetry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nwater/plantmcp/internal/journal"
)

type fakeRecorder struct {
	mu    sync.Mutex
	calls []journal.Call
	err   error
}

func (f *fakeRecorder) Record(ctx context.Context, c journal.Call) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.err
}

func request(name string) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	return req
}

// fixedClock advances by step on every call.
func fixedClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func setup(t *testing.T) (*Interceptor, *prometheus.Registry, *observer.ObservedLogs, *fakeRecorder) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	rec := &fakeRecorder{}
	i := New(zap.New(core), NewMetrics(reg), rec)
	i.now = fixedClock(2 * time.Millisecond)
	return i, reg, logs, rec
}

func wrap(i *Interceptor, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return i.Middleware()(h)
}

func TestMiddleware_Success(t *testing.T) {
	i, reg, logs, rec := setup(t)

	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	result, err := h(context.Background(), request("get_summary"))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	m := i.metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calls.WithLabelValues("get_summary", journal.StatusOK)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))

	n, err := testutil.GatherAndCount(reg, "plantmcp_tool_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries := logs.FilterMessage("tool call").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	ctxMap := entries[0].ContextMap()
	assert.Equal(t, "get_summary", ctxMap["tool"])
	assert.Equal(t, 2.0, ctxMap["duration_ms"])

	require.Len(t, rec.calls, 1)
	assert.Equal(t, journal.Call{
		Tool:      "get_summary",
		Status:    journal.StatusOK,
		Duration:  2 * time.Millisecond,
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, int(2*time.Millisecond), time.UTC),
	}, rec.calls[0])
}

func TestMiddleware_ErrorResult(t *testing.T) {
	i, _, logs, rec := setup(t)

	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("not_found: module \"9\" not found"), nil
	})
	result, err := h(context.Background(), request("resolve_entity"))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	assert.Equal(t, 1.0, testutil.ToFloat64(i.metrics.calls.WithLabelValues("resolve_entity", journal.StatusError)))
	warn := logs.FilterMessage("tool call failed").All()
	require.Len(t, warn, 1)
	assert.Equal(t, zapcore.WarnLevel, warn[0].Level)
	assert.Contains(t, warn[0].ContextMap()["error"], "not_found")

	require.Len(t, rec.calls, 1)
	assert.Equal(t, journal.StatusError, rec.calls[0].Status)
	assert.True(t, strings.HasPrefix(rec.calls[0].Message, "not_found"))
}

func TestMiddleware_GoErrorPassesThrough(t *testing.T) {
	i, _, _, rec := setup(t)
	boom := errors.New("boom")

	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, boom
	})
	result, err := h(context.Background(), request("get_all_assets"))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "boom", rec.calls[0].Message)
}

func TestMiddleware_JournalFailureIsLoggedNotReturned(t *testing.T) {
	i, _, logs, rec := setup(t)
	rec.err = errors.New("disk full")

	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	_, err := h(context.Background(), request("get_summary"))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("journal write failed").Len())
}

func TestMiddleware_RecordsAfterCancellation(t *testing.T) {
	i, _, _, _ := setup(t)
	var seen context.Context
	i.recorder = recorderFunc(func(ctx context.Context, c journal.Call) error {
		seen = ctx
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})
	_, _ = h(ctx, request("get_summary"))

	require.NotNil(t, seen)
	assert.NoError(t, seen.Err())
}

type recorderFunc func(ctx context.Context, c journal.Call) error

func (f recorderFunc) Record(ctx context.Context, c journal.Call) error { return f(ctx, c) }

func TestInterceptor_OptionalDependencies(t *testing.T) {
	i := New(nil, nil, nil)
	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	_, err := h(context.Background(), request("get_summary"))
	require.NoError(t, err)
	require.Len(t, i.Called(), 1)
}

func TestInterceptor_CalledIsACopy(t *testing.T) {
	i, _, _, _ := setup(t)
	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	_, _ = h(context.Background(), request("a"))
	_, _ = h(context.Background(), request("b"))

	called := i.Called()
	require.Len(t, called, 2)
	assert.Equal(t, "a", called[0].Tool)
	assert.Equal(t, 2*time.Millisecond, called[1].Duration)

	called[0].Tool = "mutated"
	assert.Equal(t, "a", i.Called()[0].Tool)
}

func TestInterceptor_KeepsOnlyRecentCalls(t *testing.T) {
	i, _, _, _ := setup(t)
	i.keep = 3
	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, _ = h(context.Background(), request(name))
	}

	assert.Equal(t, 5, i.Count())
	called := i.Called()
	require.Len(t, called, 3)
	assert.Equal(t, []string{"c", "d", "e"}, []string{called[0].Tool, called[1].Tool, called[2].Tool})
}

func TestMiddleware_Concurrent(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	i := New(zap.New(core), NewMetrics(prometheus.NewRegistry()), &fakeRecorder{})
	h := wrap(i, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	})

	var wg sync.WaitGroup
	for n := 0; n < 50; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h(context.Background(), request("get_summary"))
		}()
	}
	wg.Wait()

	assert.Len(t, i.Called(), 50)
	assert.Equal(t, 50, i.Count())
	assert.Equal(t, 50.0, testutil.ToFloat64(i.metrics.calls.WithLabelValues("get_summary", journal.StatusOK)))
}
