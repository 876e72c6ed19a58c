package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// ResolveTool handles the resolve_entity MCP tool.
type ResolveTool struct {
	store *hierarchy.Store
}

// NewResolveTool creates a ResolveTool.
func NewResolveTool(store *hierarchy.Store) *ResolveTool {
	return &ResolveTool{store: store}
}

// Definition returns the MCP tool definition for resolve_entity.
func (t *ResolveTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_entity",
		mcp.WithDescription(
			"Look up one entity by id or name and return it with its path up to the location. "+
				"Ids are tried first, then names (case-insensitive). Use this before other tools "+
				"when the user refers to something by name.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Entity kind"),
			mcp.Enum("location", "application", "module", "instrumentation", "asset"),
		),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("Numeric id, name, or (for assets) serial number"),
		),
	)
}

type pathElement struct {
	Kind  string `json:"kind"`
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type resolveResult struct {
	Kind   string           `json:"kind"`
	Entity hierarchy.Entity `json:"entity"`
	Path   []pathElement    `json:"path"`
}

// Handle processes the resolve_entity tool call.
func (t *ResolveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := kindArg(req, "kind")
	if err != nil {
		return toolError(err), nil
	}
	identifier := identifierArg(req, "identifier")
	if identifier == "" {
		return mcp.NewToolResultError("'identifier' is required"), nil
	}

	entity, err := t.store.Resolve(kind, identifier)
	if err != nil {
		return toolError(err), nil
	}
	path, err := t.store.PathToRoot(entity.Ref())
	if err != nil {
		return toolError(err), nil
	}

	out := resolveResult{Kind: kind.String(), Entity: entity}
	for _, e := range path {
		ref := e.Ref()
		out.Path = append(out.Path, pathElement{Kind: ref.Kind.String(), ID: ref.ID, Label: e.Label()})
	}
	return jsonResult(out)
}
