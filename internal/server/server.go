// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it receives the loaded hierarchy and the
// ambient dependencies and injects them into the tools, prompts and
// resources. No plant logic lives here, only wiring.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nwater/plantmcp/internal/hierarchy"
	"github.com/nwater/plantmcp/internal/journal"
	"github.com/nwater/plantmcp/internal/prompts"
	"github.com/nwater/plantmcp/internal/resources"
	"github.com/nwater/plantmcp/internal/telemetry"
	"github.com/nwater/plantmcp/internal/tools"
)

// Name is the MCP implementation name reported to clients.
const Name = "plantmcp"

// Version is set at build time via ldflags.
var Version = "dev"

// Deps are the dependencies New injects. Store is required; the rest
// are optional.
type Deps struct {
	Store  *hierarchy.Store
	Logger *zap.Logger
	// Registerer receives the tool-call metrics. Nil disables metrics.
	Registerer prometheus.Registerer
	// Journal records tool calls and backs get_tool_usage. Nil disables it.
	Journal *journal.Store
}

// registrar is what a tool must provide to be added to the server.
type registrar interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. The returned interceptor holds the in-memory
// list of calls served.
func New(deps Deps) (*server.MCPServer, *telemetry.Interceptor) {
	var metrics *telemetry.Metrics
	if deps.Registerer != nil {
		metrics = telemetry.NewMetrics(deps.Registerer)
	}
	var recorder telemetry.Recorder
	var usage tools.UsageReader
	if deps.Journal != nil {
		recorder, usage = deps.Journal, deps.Journal
	}
	interceptor := telemetry.New(deps.Logger, metrics, recorder)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		// Outermost first: the interceptor sees panics as recovered errors.
		server.WithToolHandlerMiddleware(interceptor.Middleware()),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register hierarchy tools ---

	for _, t := range hierarchyTools(deps.Store) {
		s.AddTool(t.Definition(), t.Handle)
	}

	usageTool := tools.NewUsageTool(usage)
	s.AddTool(usageTool.Definition(), usageTool.Handle)

	// --- Register prompts ---

	overview := prompts.NewOverviewPrompt()
	s.AddPrompt(overview.Definition(), overview.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(deps.Store)
	s.AddResource(resourceHandler.HierarchyResource(), resourceHandler.HandleHierarchy)
	s.AddResource(resourceHandler.SummaryResource(), resourceHandler.HandleSummary)

	return s, interceptor
}

func hierarchyTools(store *hierarchy.Store) []registrar {
	var out []registrar
	for _, kind := range hierarchy.Kinds {
		out = append(out, tools.NewListTool(store, kind))
	}
	for _, kind := range hierarchy.Kinds {
		if _, ok := kind.Child(); ok {
			out = append(out, tools.NewChildrenTool(store, kind))
		}
	}
	return append(out,
		tools.NewResolveTool(store),
		tools.NewByTypeTool(store),
		tools.NewByValueKeyTool(store),
		tools.NewFilterTool(store),
		tools.NewWithoutThresholdsTool(store),
		tools.NewSearchTool(store),
		tools.NewAssetBySerialTool(store),
		tools.NewSummaryTool(store, false),
		tools.NewSummaryTool(store, true),
		tools.NewStatisticsTool(store),
		tools.NewRenderTool(store, false),
		tools.NewRenderTool(store, true),
	)
}

// serverInstructions returns the system instructions sent to the AI.
func serverInstructions() string {
	return `You have access to plantmcp, a read-only view of a water-treatment plant.

## THE HIERARCHY

The plant is a strict five-level tree:

  Location > Application > Module > Instrumentation > Asset

- A Location is a site (e.g. a pumping and water supply scheme).
- An Application groups modules by purpose (abstraction, treatment, distribution).
- A Module is a process unit such as a source, a filter bank or a storage tank.
- An Instrumentation is a measured point with a tag, an instrument type, an
  optional value key and optional lower/upper alarm thresholds.
- An Asset is the physical device behind an instrumentation (make, model, serial).

Ids are unique per kind only: module 100 and instrumentation 100 are different
entities. Always say which kind an id belongs to.

## HOW TO ANSWER

- Start broad: get_summary or get_md_summary for counts, get_detailed_statistics
  for type mix and threshold coverage.
- Navigate down with get_applications_for_location, get_modules_for_application,
  get_instruments_for_module and get_assets_for_instrument. Parents may be given
  by id or by name.
- Use resolve_entity to find one entity and its path to the location.
- Use filter_instrumentations to combine type, value key, module and threshold
  presence. get_instrumentations_without_thresholds lists unalarmed points.
- Use search_hierarchy for free text and get_asset_by_serial for a serial number.
- Use pprint_hierarchy_md (optionally with root=kind:id) to show a tree.

## ERRORS

Tool errors start with their kind: not_found, ambiguous_name, validation.
An ambiguous_name error lists candidate ids; re-query with one of them instead
of guessing. A validation error lists the accepted values.

## LIMITS

The data is a static snapshot loaded at startup. There are no live readings
and nothing can be modified through these tools.`
}
