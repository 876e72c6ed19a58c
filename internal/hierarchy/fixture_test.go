package hierarchy_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func boolp(v bool) *bool { return &v }

// fixture is a small two-location plant. Instrumentation 1004 repeats the
// name of 1000 and carries an inverted threshold pair.
func fixture() hierarchy.RawData {
	return hierarchy.RawData{
		Locations: []hierarchy.RawLocation{
			{ID: 1, Name: "Main Location"},
			{ID: 2, Name: "North Site"},
		},
		Applications: []hierarchy.RawApplication{
			{ID: 10, Name: "Water Abstraction", Type: "water_abstraction", LocationID: 1},
			{ID: 11, Name: "Distribution", Type: "Water_Distribution", LocationID: 1},
			{ID: 20, Name: "Effluent", Type: "effluent_discharge", LocationID: 2},
		},
		Modules: []hierarchy.RawModule{
			{ID: 100, Name: "Source Module", Type: "source_module", ApplicationID: 10},
			{ID: 101, Name: "Storage", Type: "storage", ApplicationID: 11},
			{ID: 102, Name: "Outlet", Type: "outlet", ApplicationID: 20},
		},
		Instrumentations: []hierarchy.RawInstrumentation{
			{ID: 1000, Name: "Main Flow Meter", Type: "Flow", ValueKey: "flow_rate", UpperThreshold: f64(100), ModuleID: 100},
			{ID: 1001, Name: "Pressure Sensor", Type: "pressure", ValueKey: "pressure_bar", LowerThreshold: f64(1), UpperThreshold: f64(6), ModuleID: 100},
			{ID: 1002, Name: "Pump A", Type: "PUMP", ValueKey: "pump_state", ModuleID: 101},
			{ID: 1003, Name: "Tank Level", Type: "Level", ValueKey: "level_m", LowerThreshold: f64(0.5), ModuleID: 101},
			{ID: 1004, Name: "main flow meter", Type: "flow", ValueKey: "Flow_Rate", LowerThreshold: f64(9), UpperThreshold: f64(3), ModuleID: 102},
		},
		Assets: []hierarchy.RawAsset{
			{ID: 5000, Serial: "FM-001", ProductCode: "FLOW-MASTER", ProductName: "FlowMaster Pro", InstrumentationID: 1000},
			{ID: 5001, Serial: "FM-002", InstrumentationID: 1000},
			{ID: 5002, Serial: "PS-1", InstrumentationID: 1001},
		},
	}
}

func loadFixture(t *testing.T) *hierarchy.Store {
	t.Helper()
	store, err := hierarchy.Load(fixture())
	require.NoError(t, err)
	return store
}

// reversed returns raw with every record list in reverse order.
func reversed(raw hierarchy.RawData) hierarchy.RawData {
	out := hierarchy.RawData{
		Locations:        slices.Clone(raw.Locations),
		Applications:     slices.Clone(raw.Applications),
		Modules:          slices.Clone(raw.Modules),
		Instrumentations: slices.Clone(raw.Instrumentations),
		Assets:           slices.Clone(raw.Assets),
	}
	slices.Reverse(out.Locations)
	slices.Reverse(out.Applications)
	slices.Reverse(out.Modules)
	slices.Reverse(out.Instrumentations)
	slices.Reverse(out.Assets)
	return out
}

// allEntities lists every entity of the store, root kinds first.
func allEntities(s *hierarchy.Store) []hierarchy.Entity {
	var out []hierarchy.Entity
	for _, e := range s.Locations() {
		out = append(out, e)
	}
	for _, e := range s.Applications() {
		out = append(out, e)
	}
	for _, e := range s.Modules() {
		out = append(out, e)
	}
	for _, e := range s.Instrumentations() {
		out = append(out, e)
	}
	for _, e := range s.Assets() {
		out = append(out, e)
	}
	return out
}
