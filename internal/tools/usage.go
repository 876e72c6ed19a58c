package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/journal"
)

// UsageReader is the part of the journal the usage tool needs.
type UsageReader interface {
	SessionID() string
	Usage(ctx context.Context, sessionID string) ([]journal.ToolUsage, error)
}

// UsageTool handles the get_tool_usage MCP tool. A nil reader means the
// journal is disabled; the tool stays registered and says so.
type UsageTool struct {
	reader UsageReader
}

// NewUsageTool creates a UsageTool. reader may be nil.
func NewUsageTool(reader UsageReader) *UsageTool {
	return &UsageTool{reader: reader}
}

// Definition returns the MCP tool definition for get_tool_usage.
func (t *UsageTool) Definition() mcp.Tool {
	return mcp.NewTool("get_tool_usage",
		mcp.WithDescription(
			"Report which plant tools have been called, how often, how many failed and how long "+
				"they took. Defaults to the current server session.",
		),
		mcp.WithBoolean("all_sessions",
			mcp.Description("Aggregate over every recorded session (default: false)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max tools listed (default: 20)"),
		),
	)
}

// Handle processes the get_tool_usage tool call.
func (t *UsageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.reader == nil {
		return mcp.NewToolResultText("Tool-call journal is disabled; no usage recorded."), nil
	}

	session := t.reader.SessionID()
	scope := "this session"
	if boolArg(req, "all_sessions", false) {
		session, scope = "", "all sessions"
	}
	usage, err := t.reader.Usage(ctx, session)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read tool usage: %v", err)), nil
	}
	if len(usage) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No tool calls recorded in %s.", scope)), nil
	}

	limit := intArg(req, "limit", 20)
	if limit > 0 && len(usage) > limit {
		usage = usage[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Tool usage (%s)\n\n", scope)
	b.WriteString("| Tool | Calls | Failures | Mean ms | Max ms |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, u := range usage {
		fmt.Fprintf(&b, "| %s | %d | %d | %.2f | %.2f |\n",
			u.Tool, u.Calls, u.Failures, u.MeanMillis, u.MaxMillis)
	}
	return mcp.NewToolResultText(b.String()), nil
}
