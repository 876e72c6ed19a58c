package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// ListTool handles the get_all_<kind>s tools. One instance serves one kind.
type ListTool struct {
	store *hierarchy.Store
	kind  hierarchy.Kind
}

// NewListTool creates a ListTool listing every entity of kind.
func NewListTool(store *hierarchy.Store, kind hierarchy.Kind) *ListTool {
	return &ListTool{store: store, kind: kind}
}

// Definition returns the MCP tool definition for get_all_<kind>s.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("get_all_"+t.kind.Plural(),
		mcp.WithDescription(fmt.Sprintf(
			"List every %s in the plant hierarchy with all of its fields, in source order.",
			t.kind,
		)),
	)
}

// Handle processes the listing call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	switch t.kind {
	case hierarchy.KindLocation:
		return jsonResult(t.store.Locations())
	case hierarchy.KindApplication:
		return jsonResult(t.store.Applications())
	case hierarchy.KindModule:
		return jsonResult(t.store.Modules())
	case hierarchy.KindInstrumentation:
		return jsonResult(t.store.Instrumentations())
	case hierarchy.KindAsset:
		return jsonResult(t.store.Assets())
	}
	return mcp.NewToolResultError(fmt.Sprintf("unsupported kind %s", t.kind)), nil
}

// ChildrenTool handles the get_<child>s_for_<parent> tools. The parent is
// given by id or name and resolved before its children are listed.
type ChildrenTool struct {
	store  *hierarchy.Store
	parent hierarchy.Kind
}

// NewChildrenTool creates a ChildrenTool for children of the parent kind.
// parent must not be hierarchy.KindAsset.
func NewChildrenTool(store *hierarchy.Store, parent hierarchy.Kind) *ChildrenTool {
	return &ChildrenTool{store: store, parent: parent}
}

// Name returns the stable tool name, e.g. get_modules_for_application.
// Instrumentation tools keep their historical short names.
func (t *ChildrenTool) Name() string {
	switch t.parent {
	case hierarchy.KindModule:
		return "get_instruments_for_module"
	case hierarchy.KindInstrumentation:
		return "get_assets_for_instrument"
	}
	child, _ := t.parent.Child()
	return fmt.Sprintf("get_%s_for_%s", child.Plural(), t.parent)
}

// Definition returns the MCP tool definition.
func (t *ChildrenTool) Definition() mcp.Tool {
	child, _ := t.parent.Child()
	return mcp.NewTool(t.Name(),
		mcp.WithDescription(fmt.Sprintf(
			"List the %s directly under one %s. The %s may be given by numeric id or by name "+
				"(case-insensitive). An ambiguous name fails with the candidate ids.",
			child.Plural(), t.parent, t.parent,
		)),
		mcp.WithString(t.parent.String(),
			mcp.Required(),
			mcp.Description(fmt.Sprintf("The %s id or name", t.parent)),
		),
	)
}

// Handle processes the children call.
func (t *ChildrenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier := identifierArg(req, t.parent.String())
	if identifier == "" {
		return mcp.NewToolResultError(fmt.Sprintf("'%s' is required", t.parent)), nil
	}

	parent, err := t.store.Resolve(t.parent, identifier)
	if err != nil {
		return toolError(err), nil
	}
	children, err := t.store.ChildEntities(parent.Ref())
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(children)
}
