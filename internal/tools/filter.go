package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

func instrumentTypeNames() []string {
	names := make([]string, len(hierarchy.InstrumentTypes))
	for i, t := range hierarchy.InstrumentTypes {
		names[i] = string(t)
	}
	return names
}

// ByTypeTool handles the get_instrumentations_by_type MCP tool.
type ByTypeTool struct {
	store *hierarchy.Store
}

// NewByTypeTool creates a ByTypeTool.
func NewByTypeTool(store *hierarchy.Store) *ByTypeTool {
	return &ByTypeTool{store: store}
}

// Definition returns the MCP tool definition for get_instrumentations_by_type.
func (t *ByTypeTool) Definition() mcp.Tool {
	return mcp.NewTool("get_instrumentations_by_type",
		mcp.WithDescription(
			"List instrumentations of one instrument type. Matching is case-insensitive; "+
				"an unknown type fails instead of returning everything. Allowed types: "+
				strings.Join(instrumentTypeNames(), ", ")+".",
		),
		mcp.WithString("instrument_type",
			mcp.Required(),
			mcp.Description("Instrument type, e.g. Flow or pressure"),
		),
	)
}

// Handle processes the get_instrumentations_by_type tool call.
func (t *ByTypeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typeName := req.GetString("instrument_type", "")
	if typeName == "" {
		return mcp.NewToolResultError("'instrument_type' is required"), nil
	}
	insts, err := t.store.ByType(typeName)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(insts)
}

// ByValueKeyTool handles the get_instrumentations_by_value_key MCP tool.
type ByValueKeyTool struct {
	store *hierarchy.Store
}

// NewByValueKeyTool creates a ByValueKeyTool.
func NewByValueKeyTool(store *hierarchy.Store) *ByValueKeyTool {
	return &ByValueKeyTool{store: store}
}

// Definition returns the MCP tool definition for get_instrumentations_by_value_key.
func (t *ByValueKeyTool) Definition() mcp.Tool {
	return mcp.NewTool("get_instrumentations_by_value_key",
		mcp.WithDescription(
			"List instrumentations reporting a given measured-value key. "+
				"The key must match exactly, including case.",
		),
		mcp.WithString("value_key",
			mcp.Required(),
			mcp.Description("Measured-value key, e.g. flow_rate"),
		),
	)
}

// Handle processes the get_instrumentations_by_value_key tool call.
func (t *ByValueKeyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("value_key", "")
	if key == "" {
		return mcp.NewToolResultError("'value_key' is required"), nil
	}
	return jsonResult(t.store.ByValueKey(key))
}

// FilterTool handles the filter_instrumentations MCP tool. It is the
// structured-criteria entry point: the agent translates a question such
// as "flow meters with both thresholds" into these arguments.
type FilterTool struct {
	store *hierarchy.Store
}

// NewFilterTool creates a FilterTool.
func NewFilterTool(store *hierarchy.Store) *FilterTool {
	return &FilterTool{store: store}
}

// Definition returns the MCP tool definition for filter_instrumentations.
func (t *FilterTool) Definition() mcp.Tool {
	return mcp.NewTool("filter_instrumentations",
		mcp.WithDescription(
			"Filter instrumentations by structured criteria. Every argument is optional and all "+
				"given arguments must hold (AND). With no arguments every instrumentation is returned. "+
				"Omit a threshold flag to ignore it; set it to false to require its absence.",
		),
		mcp.WithString("instrument_type",
			mcp.Description("Instrument type (case-insensitive): "+strings.Join(instrumentTypeNames(), ", ")),
		),
		mcp.WithString("value_key",
			mcp.Description("Exact measured-value key"),
		),
		mcp.WithNumber("module_id",
			mcp.Description("Only instrumentations of this module"),
		),
		mcp.WithBoolean("has_lower_threshold",
			mcp.Description("Require (true) or exclude (false) a lower threshold"),
		),
		mcp.WithBoolean("has_upper_threshold",
			mcp.Description("Require (true) or exclude (false) an upper threshold"),
		),
		mcp.WithBoolean("has_both_thresholds",
			mcp.Description("Require (true) or exclude (false) having both thresholds"),
		),
	)
}

// Handle processes the filter_instrumentations tool call.
func (t *FilterTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	criteria, err := criteriaFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	insts, err := t.store.ByCriteria(criteria)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(insts)
}

func criteriaFromRequest(req mcp.CallToolRequest) (hierarchy.Criteria, error) {
	c := hierarchy.Criteria{
		Type:     strings.TrimSpace(req.GetString("instrument_type", "")),
		ValueKey: req.GetString("value_key", ""),
	}
	var err error
	if c.ModuleID, err = optionalID(req, "module_id"); err != nil {
		return c, err
	}
	if c.HasLower, err = optionalBool(req, "has_lower_threshold"); err != nil {
		return c, err
	}
	if c.HasUpper, err = optionalBool(req, "has_upper_threshold"); err != nil {
		return c, err
	}
	if c.HasBoth, err = optionalBool(req, "has_both_thresholds"); err != nil {
		return c, err
	}
	return c, nil
}

// WithoutThresholdsTool handles the get_instrumentations_without_thresholds
// MCP tool.
type WithoutThresholdsTool struct {
	store *hierarchy.Store
}

// NewWithoutThresholdsTool creates a WithoutThresholdsTool.
func NewWithoutThresholdsTool(store *hierarchy.Store) *WithoutThresholdsTool {
	return &WithoutThresholdsTool{store: store}
}

// Definition returns the MCP tool definition.
func (t *WithoutThresholdsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_instrumentations_without_thresholds",
		mcp.WithDescription("List instrumentations that have neither a lower nor an upper threshold."),
	)
}

// Handle processes the call.
func (t *WithoutThresholdsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.store.WithoutThresholds())
}
