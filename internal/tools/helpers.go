// Package tools implements the MCP tool handlers over the plant hierarchy.
//
// Each tool is a struct holding its dependencies (the read-only
// *hierarchy.Store, the journal) injected via constructor:
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Engine failures never surface as Go errors. They become MCP error
// results that name the error kind and carry the engine's hint, so the
// calling agent can correct itself (for example by re-querying an
// ambiguous name by id).
package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// optionalBool returns nil when key is absent, so "not set" and "false"
// stay distinct for tri-state criteria. Strings "true"/"false" are
// accepted because some clients send every argument as a string.
func optionalBool(req mcp.CallToolRequest, key string) (*bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Newf("'%s' must be a boolean, got %q", key, v)
		}
		return &b, nil
	}
	return nil, errors.Newf("'%s' must be a boolean", key)
}

// optionalID returns nil when key is absent. Numbers and numeric strings
// are both accepted.
func optionalID(req mcp.CallToolRequest, key string) (*int64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case float64:
		id := int64(v)
		if float64(id) != v {
			return nil, errors.Newf("'%s' must be an integer id", key)
		}
		return &id, nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, errors.Newf("'%s' must be an integer id, got %q", key, v)
		}
		return &id, nil
	}
	return nil, errors.Newf("'%s' must be an integer id", key)
}

// identifierArg reads an id-or-name argument. Agents send ids both as
// JSON numbers and as strings; numbers are formatted back to their
// decimal form so Resolve can try them as ids first.
func identifierArg(req mcp.CallToolRequest, key string) string {
	switch v := req.GetArguments()[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// jsonResult marshals v as indented JSON into a text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError converts an engine error into an MCP error result. The text
// starts with the error kind so agents can branch on it, and ends with
// any hints attached along the way.
func toolError(err error) *mcp.CallToolResult {
	var b strings.Builder
	b.WriteString(errorKind(err))
	b.WriteString(": ")
	b.WriteString(err.Error())
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(&b, "\nhint: %s", hint)
	}
	return mcp.NewToolResultError(b.String())
}

func errorKind(err error) string {
	switch {
	case hierarchy.IsNotFound(err):
		return "not_found"
	case hierarchy.IsAmbiguous(err):
		return "ambiguous_name"
	case hierarchy.IsValidation(err):
		return "validation"
	case hierarchy.IsIntegrity(err):
		return "integrity"
	}
	return "error"
}

// kindArg parses a required kind argument.
func kindArg(req mcp.CallToolRequest, key string) (hierarchy.Kind, error) {
	s := req.GetString(key, "")
	if s == "" {
		return 0, errors.Newf("'%s' is required", key)
	}
	return hierarchy.ParseKind(s)
}
