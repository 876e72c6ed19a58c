package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, args map[string]string) (string, string) {
	t.Helper()
	req := mcp.GetPromptRequest{}
	req.Params.Name = "plant-overview"
	req.Params.Arguments = args

	result, err := NewOverviewPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(result.Messages))
	}
	tc, ok := result.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", result.Messages[0].Content)
	}
	return result.Description, tc.Text
}

func TestOverviewPrompt_Definition(t *testing.T) {
	def := NewOverviewPrompt().Definition()
	if def.Name != "plant-overview" {
		t.Errorf("Name = %s, want plant-overview", def.Name)
	}
	if len(def.Arguments) != 1 || def.Arguments[0].Name != "focus" {
		t.Errorf("Arguments = %+v, want single focus argument", def.Arguments)
	}
}

func TestOverviewPrompt_WholePlant(t *testing.T) {
	desc, text := promptText(t, nil)
	if desc != "Plant overview" {
		t.Errorf("Description = %q", desc)
	}
	for _, tool := range []string{"get_md_summary", "get_detailed_statistics", "get_instrumentations_without_thresholds", "pprint_hierarchy_md"} {
		if !strings.Contains(text, tool) {
			t.Errorf("prompt should mention %s", tool)
		}
	}
	if strings.Contains(text, "root=") {
		t.Error("whole-plant prompt should not set a root")
	}
}

func TestOverviewPrompt_FocusRef(t *testing.T) {
	desc, text := promptText(t, map[string]string{"focus": " module:101 "})
	if !strings.Contains(desc, "module:101") {
		t.Errorf("Description = %q, want focus", desc)
	}
	if !strings.Contains(text, "root='module:101'") {
		t.Errorf("prompt should render the module:101 subtree, got:\n%s", text)
	}
}

func TestOverviewPrompt_FocusName(t *testing.T) {
	_, text := promptText(t, map[string]string{"focus": "Treatment"})
	if !strings.Contains(text, "search_term='Treatment'") {
		t.Errorf("name focus should search first, got:\n%s", text)
	}
}
