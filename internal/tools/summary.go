package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// SummaryTool handles get_summary and, with markdown set, get_md_summary.
type SummaryTool struct {
	store    *hierarchy.Store
	markdown bool
}

// NewSummaryTool creates a SummaryTool.
func NewSummaryTool(store *hierarchy.Store, markdown bool) *SummaryTool {
	return &SummaryTool{store: store, markdown: markdown}
}

// Definition returns the MCP tool definition.
func (t *SummaryTool) Definition() mcp.Tool {
	if t.markdown {
		return mcp.NewTool("get_md_summary",
			mcp.WithDescription("Entity counts per level of the plant hierarchy as a markdown table."),
		)
	}
	return mcp.NewTool("get_summary",
		mcp.WithDescription("Entity counts per level of the plant hierarchy as plain text."),
	)
}

// Handle processes the summary call.
func (t *SummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.markdown {
		return mcp.NewToolResultText(t.store.SummaryMarkdown()), nil
	}
	return mcp.NewToolResultText(t.store.SummaryText()), nil
}

// StatisticsTool handles the get_detailed_statistics MCP tool.
type StatisticsTool struct {
	store *hierarchy.Store
}

// NewStatisticsTool creates a StatisticsTool.
func NewStatisticsTool(store *hierarchy.Store) *StatisticsTool {
	return &StatisticsTool{store: store}
}

// Definition returns the MCP tool definition for get_detailed_statistics.
func (t *StatisticsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_detailed_statistics",
		mcp.WithDescription(
			"Aggregate statistics: counts per level, instrument/application/module type "+
				"distributions, instrumentations per module and threshold coverage.",
		),
	)
}

// Handle processes the get_detailed_statistics tool call.
func (t *StatisticsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.store.DetailedStatistics())
}
