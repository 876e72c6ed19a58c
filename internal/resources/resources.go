// Package resources implements MCP resource handlers for the plant.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (plant://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

const (
	HierarchyURI = "plant://hierarchy"
	SummaryURI   = "plant://summary"
)

// Handler manages plant resource endpoints.
type Handler struct {
	store *hierarchy.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store *hierarchy.Store) *Handler {
	return &Handler{store: store}
}

// HierarchyResource returns the MCP resource definition for the full tree.
func (h *Handler) HierarchyResource() mcp.Resource {
	return mcp.NewResource(
		HierarchyURI,
		"Plant Hierarchy",
		mcp.WithResourceDescription("The whole Location > Application > Module > Instrumentation > Asset tree as markdown"),
		mcp.WithMIMEType("text/markdown"),
	)
}

// HandleHierarchy returns the markdown rendering of the whole plant.
func (h *Handler) HandleHierarchy(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	text, err := h.store.RenderMarkdown(hierarchy.Ref{})
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// SummaryResource returns the MCP resource definition for entity counts.
func (h *Handler) SummaryResource() mcp.Resource {
	return mcp.NewResource(
		SummaryURI,
		"Plant Summary",
		mcp.WithResourceDescription("Entity counts per kind and threshold coverage"),
		mcp.WithMIMEType("application/json"),
	)
}

type summaryDoc struct {
	hierarchy.Summary
	Total             int     `json:"total"`
	ThresholdCoverage float64 `json:"threshold_coverage_percent"`
}

// HandleSummary returns the plant summary as JSON.
func (h *Handler) HandleSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum := h.store.Summary()
	doc := summaryDoc{
		Summary:           sum,
		Total:             sum.Total(),
		ThresholdCoverage: h.store.ThresholdCoverage().Percent(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling summary")
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
