package hierarchy_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwater/plantmcp/internal/hierarchy"
)

func TestLoad_BuildsAllLevels(t *testing.T) {
	store := loadFixture(t)

	assert.Equal(t, 2, store.Count(hierarchy.KindLocation))
	assert.Equal(t, 3, store.Count(hierarchy.KindApplication))
	assert.Equal(t, 3, store.Count(hierarchy.KindModule))
	assert.Equal(t, 5, store.Count(hierarchy.KindInstrumentation))
	assert.Equal(t, 3, store.Count(hierarchy.KindAsset))

	loc, err := store.Location(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, loc.ApplicationIDs)

	app, err := store.Application(11)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.AppWaterDistribution, app.Type)

	mod, err := store.Module(100)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.ModSource, mod.Type)

	inst, err := store.Instrumentation(1002)
	require.NoError(t, err)
	assert.Equal(t, hierarchy.InstPump, inst.Type)
	assert.False(t, inst.HasLower())
	assert.False(t, inst.HasUpper())
}

func TestLoad_IntegrityErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*hierarchy.RawData)
		problem string
	}{
		{
			name:    "empty root",
			mutate:  func(r *hierarchy.RawData) { *r = hierarchy.RawData{} },
			problem: "no locations at the root",
		},
		{
			name: "dangling application",
			mutate: func(r *hierarchy.RawData) {
				r.Applications[0].LocationID = 99
			},
			problem: "applications[0]: application 10 references missing location 99",
		},
		{
			name: "dangling asset",
			mutate: func(r *hierarchy.RawData) {
				r.Assets[2].InstrumentationID = 4242
			},
			problem: "assets[2]: asset 5002 references missing instrumentation 4242",
		},
		{
			name: "duplicate module id",
			mutate: func(r *hierarchy.RawData) {
				r.Modules = append(r.Modules, hierarchy.RawModule{ID: 101, Name: "Again", ApplicationID: 10})
			},
			problem: "modules[3]: duplicate module id 101",
		},
		{
			name: "missing instrumentation tag",
			mutate: func(r *hierarchy.RawData) {
				r.Instrumentations[1].Name = ""
			},
			problem: "instrumentations[1].tag: failed required",
		},
		{
			name: "non-positive id",
			mutate: func(r *hierarchy.RawData) {
				r.Locations[1].ID = 0
			},
			problem: "locations[1].id: failed gt=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fixture()
			tt.mutate(&raw)

			store, err := hierarchy.Load(raw)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.True(t, hierarchy.IsIntegrity(err))

			var ie *hierarchy.IntegrityError
			require.True(t, errors.As(err, &ie))
			assert.Contains(t, ie.Problems, tt.problem)
		})
	}
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	raw := fixture()
	raw.Applications[0].LocationID = 99
	raw.Assets = append(raw.Assets, hierarchy.RawAsset{ID: 5000, Serial: "dup", InstrumentationID: 1000})

	_, err := hierarchy.Load(raw)
	var ie *hierarchy.IntegrityError
	require.True(t, errors.As(err, &ie))
	// The rejected application also orphans its module and that module's
	// instrumentations and assets.
	assert.GreaterOrEqual(t, len(ie.Problems), 3)
	assert.Contains(t, err.Error(), "problems")
}

func TestLoad_DetachesFromRawData(t *testing.T) {
	raw := fixture()
	store, err := hierarchy.Load(raw)
	require.NoError(t, err)

	*raw.Instrumentations[0].UpperThreshold = -1

	inst, err := store.Instrumentation(1000)
	require.NoError(t, err)
	assert.Equal(t, 100.0, *inst.UpperThreshold)
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	store := loadFixture(t)

	loc, err := store.Location(1)
	require.NoError(t, err)
	loc.ApplicationIDs[0] = 999

	inst, err := store.Instrumentation(1001)
	require.NoError(t, err)
	*inst.LowerThreshold = 42

	loc, _ = store.Location(1)
	assert.Equal(t, int64(10), loc.ApplicationIDs[0])
	inst, _ = store.Instrumentation(1001)
	assert.Equal(t, 1.0, *inst.LowerThreshold)
}

func TestGet(t *testing.T) {
	store := loadFixture(t)

	e, err := store.Get(hierarchy.KindModule, 101)
	require.NoError(t, err)
	assert.Equal(t, "Storage", e.Label())

	_, err = store.Get(hierarchy.KindModule, 999)
	require.Error(t, err)
	assert.True(t, hierarchy.IsNotFound(err))
	assert.Contains(t, errors.FlattenHints(err), "list the modules")

	_, err = store.Get(hierarchy.Kind(42), 1)
	assert.True(t, hierarchy.IsValidation(err))
}

func TestFindByName(t *testing.T) {
	store := loadFixture(t)

	tests := []struct {
		name  string
		kind  hierarchy.Kind
		query string
		want  []int64
	}{
		{"exact", hierarchy.KindLocation, "Main Location", []int64{1}},
		{"case-insensitive", hierarchy.KindLocation, "MAIN location", []int64{1}},
		{"surrounding space", hierarchy.KindModule, "  storage ", []int64{101}},
		{"ambiguous returns all", hierarchy.KindInstrumentation, "Main Flow Meter", []int64{1000, 1004}},
		{"asset by serial label", hierarchy.KindAsset, "fm-002", []int64{5001}},
		{"no match", hierarchy.KindApplication, "Nothing", []int64{}},
		{"wrong kind", hierarchy.KindModule, "Main Location", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.FindByName(tt.kind, tt.query)
			ids := make([]int64, len(got))
			for i, e := range got {
				ids[i] = e.Ref().ID
				assert.Equal(t, tt.kind, e.Ref().Kind)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestListingsFollowLoadOrder(t *testing.T) {
	store, err := hierarchy.Load(reversed(fixture()))
	require.NoError(t, err)

	var ids []int64
	for _, m := range store.Modules() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{102, 101, 100}, ids)
	assert.Equal(t, []int64{2, 1}, store.Roots())
}
