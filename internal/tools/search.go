package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// SearchTool handles the search_hierarchy MCP tool.
type SearchTool struct {
	store *hierarchy.Store
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(store *hierarchy.Store) *SearchTool {
	return &SearchTool{store: store}
}

// Definition returns the MCP tool definition for search_hierarchy.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("search_hierarchy",
		mcp.WithDescription(
			"Find entities of every kind whose name contains a search term. Assets are matched "+
				"by serial number. Results are grouped by kind.",
		),
		mcp.WithString("search_term",
			mcp.Required(),
			mcp.Description("Substring to look for"),
		),
		mcp.WithBoolean("case_sensitive",
			mcp.Description("Match case exactly (default: false)"),
		),
	)
}

type searchResult struct {
	Term    string                 `json:"term"`
	Total   int                    `json:"total"`
	Matches hierarchy.SearchResult `json:"matches"`
}

// Handle processes the search_hierarchy tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := req.GetString("search_term", "")
	res, err := t.store.Search(term, boolArg(req, "case_sensitive", false))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(searchResult{Term: term, Total: res.Len(), Matches: res})
}

// AssetBySerialTool handles the get_asset_by_serial MCP tool.
type AssetBySerialTool struct {
	store *hierarchy.Store
}

// NewAssetBySerialTool creates an AssetBySerialTool.
func NewAssetBySerialTool(store *hierarchy.Store) *AssetBySerialTool {
	return &AssetBySerialTool{store: store}
}

// Definition returns the MCP tool definition for get_asset_by_serial.
func (t *AssetBySerialTool) Definition() mcp.Tool {
	return mcp.NewTool("get_asset_by_serial",
		mcp.WithDescription(
			"Look up an asset by its exact serial number and report where it is installed.",
		),
		mcp.WithString("serial",
			mcp.Required(),
			mcp.Description("Exact serial number"),
		),
	)
}

type assetLocation struct {
	Asset           hierarchy.Asset           `json:"asset"`
	Instrumentation hierarchy.Instrumentation `json:"instrumentation"`
	Path            string                    `json:"path"`
}

// Handle processes the get_asset_by_serial tool call.
func (t *AssetBySerialTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	serial := req.GetString("serial", "")
	if serial == "" {
		return mcp.NewToolResultError("'serial' is required"), nil
	}

	asset, err := t.store.AssetBySerial(serial)
	if err != nil {
		return toolError(err), nil
	}
	inst, err := t.store.Instrumentation(asset.InstrumentationID)
	if err != nil {
		return toolError(err), nil
	}
	path, err := t.store.PathToRoot(asset.Ref())
	if err != nil {
		return toolError(err), nil
	}

	// Root first: "Site > App > Module > Tag".
	labels := make([]string, 0, len(path)-1)
	for i := len(path) - 1; i > 0; i-- {
		labels = append(labels, path[i].Label())
	}
	return jsonResult(assetLocation{
		Asset:           asset,
		Instrumentation: inst,
		Path:            strings.Join(labels, " > "),
	})
}
