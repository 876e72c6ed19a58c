// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tools. Unlike tools, which the AI
// calls on its own, prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// OverviewPrompt handles the plant-overview MCP prompt.
// It asks the AI for an operator briefing built from the read-only tools.
type OverviewPrompt struct{}

// NewOverviewPrompt creates an OverviewPrompt.
func NewOverviewPrompt() *OverviewPrompt {
	return &OverviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *OverviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plant-overview",
		mcp.WithPromptDescription(
			"Brief me on the plant: its structure, instrumentation mix "+
				"and any instruments missing alarm thresholds.",
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription(
				"Optional entity to zoom in on, as kind:id (e.g. module:101) or a plain name",
			),
		),
	)
}

// Handle processes the plant-overview prompt request.
func (p *OverviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := ""
	if args := req.Params.Arguments; args != nil {
		focus = strings.TrimSpace(args["focus"])
	}

	var b strings.Builder
	b.WriteString("Give me an operator briefing of the water plant.\n\n")
	b.WriteString("Please:\n")
	b.WriteString("1. Run `get_md_summary` and report the entity counts\n")
	b.WriteString("2. Run `get_detailed_statistics` and describe the instrument type mix and threshold coverage\n")
	b.WriteString("3. Run `get_instrumentations_without_thresholds` and list every instrument that has no alarm limits\n")

	description := "Plant overview"
	switch {
	case focus == "":
		b.WriteString("4. Run `pprint_hierarchy_md` and close with the tree\n")
	case strings.Contains(focus, ":"):
		description = fmt.Sprintf("Plant overview focused on %s", focus)
		fmt.Fprintf(&b, "4. Run `pprint_hierarchy_md` with root='%s' and walk me through that subtree\n", focus)
	default:
		description = fmt.Sprintf("Plant overview focused on %s", focus)
		fmt.Fprintf(&b, "4. Run `search_hierarchy` with search_term='%s', pick the matching entity, "+
			"then run `pprint_hierarchy_md` with its kind:id as root\n", focus)
	}
	b.WriteString("\nIf a tool reports an ambiguous name, re-query by one of the candidate ids it lists.")

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
