package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// RenderTool handles pprint_hierarchy and, with markdown set,
// pprint_hierarchy_md.
type RenderTool struct {
	store    *hierarchy.Store
	markdown bool
}

// NewRenderTool creates a RenderTool.
func NewRenderTool(store *hierarchy.Store, markdown bool) *RenderTool {
	return &RenderTool{store: store, markdown: markdown}
}

// Definition returns the MCP tool definition.
func (t *RenderTool) Definition() mcp.Tool {
	name, format := "pprint_hierarchy", "indented plain text"
	if t.markdown {
		name, format = "pprint_hierarchy_md", "markdown"
	}
	return mcp.NewTool(name,
		mcp.WithDescription(
			"Render the plant hierarchy as "+format+". Without a root the whole tree is rendered; "+
				"with a root only that subtree.",
		),
		mcp.WithString("root",
			mcp.Description("Optional subtree root as kind:id, e.g. module:100"),
		),
	)
}

// Handle processes the render call.
func (t *RenderTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var root hierarchy.Ref
	if s := strings.TrimSpace(req.GetString("root", "")); s != "" {
		ref, err := hierarchy.ParseRef(s)
		if err != nil {
			return toolError(err), nil
		}
		root = ref
	}

	render := t.store.RenderText
	if t.markdown {
		render = t.store.RenderMarkdown
	}
	out, err := render(root)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(out), nil
}
