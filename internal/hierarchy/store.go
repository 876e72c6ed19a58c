package hierarchy

import (
	"fmt"
	"slices"
)

// Store holds a loaded plant hierarchy. It exclusively owns every entity
// record; query methods return copies. A Store is never modified after
// Load returns, so all methods are safe for concurrent use.
type Store struct {
	locations        map[int64]Location
	applications     map[int64]Application
	modules          map[int64]Module
	instrumentations map[int64]Instrumentation
	assets           map[int64]Asset

	// order records load order per kind.
	order map[Kind][]int64
	// children maps a parent to its child ids in load order.
	children map[Ref][]int64
	// names maps a folded label to the ids carrying it, per kind.
	names map[Kind]map[string][]int64
}

// Load builds a Store from raw records. Every problem in the input is
// collected and reported together in a single *IntegrityError: invalid
// fields, duplicate ids within a kind, parent ids that do not resolve,
// and an empty root level.
func Load(raw RawData) (*Store, error) {
	s := &Store{
		locations:        make(map[int64]Location, len(raw.Locations)),
		applications:     make(map[int64]Application, len(raw.Applications)),
		modules:          make(map[int64]Module, len(raw.Modules)),
		instrumentations: make(map[int64]Instrumentation, len(raw.Instrumentations)),
		assets:           make(map[int64]Asset, len(raw.Assets)),
		order:            make(map[Kind][]int64, len(Kinds)),
		children:         make(map[Ref][]int64),
		names:            make(map[Kind]map[string][]int64, len(Kinds)),
	}
	for _, k := range Kinds {
		s.names[k] = make(map[string][]int64)
	}

	problems := validateRaw(raw)
	if len(raw.Locations) == 0 {
		problems = append(problems, "no locations at the root")
	}

	// Levels are inserted top-down so every parent map is complete before
	// the level below is checked against it.
	for i, r := range raw.Locations {
		if _, dup := s.locations[r.ID]; dup {
			problems = append(problems, duplicateProblem(KindLocation, i, r.ID))
			continue
		}
		s.locations[r.ID] = Location{ID: r.ID, Name: r.Name}
		s.index(KindLocation, r.ID, r.Name)
	}

	for i, r := range raw.Applications {
		if _, dup := s.applications[r.ID]; dup {
			problems = append(problems, duplicateProblem(KindApplication, i, r.ID))
			continue
		}
		if _, ok := s.locations[r.LocationID]; !ok {
			problems = append(problems, danglingProblem(KindApplication, i, r.ID, KindLocation, r.LocationID))
			continue
		}
		s.applications[r.ID] = Application{
			ID:         r.ID,
			Name:       r.Name,
			Type:       NormalizeApplicationType(r.Type),
			LocationID: r.LocationID,
		}
		s.index(KindApplication, r.ID, r.Name)
		s.link(Ref{Kind: KindLocation, ID: r.LocationID}, r.ID)
	}

	for i, r := range raw.Modules {
		if _, dup := s.modules[r.ID]; dup {
			problems = append(problems, duplicateProblem(KindModule, i, r.ID))
			continue
		}
		if _, ok := s.applications[r.ApplicationID]; !ok {
			problems = append(problems, danglingProblem(KindModule, i, r.ID, KindApplication, r.ApplicationID))
			continue
		}
		s.modules[r.ID] = Module{
			ID:            r.ID,
			Name:          r.Name,
			Type:          NormalizeModuleType(r.Type),
			ApplicationID: r.ApplicationID,
		}
		s.index(KindModule, r.ID, r.Name)
		s.link(Ref{Kind: KindApplication, ID: r.ApplicationID}, r.ID)
	}

	for i, r := range raw.Instrumentations {
		if _, dup := s.instrumentations[r.ID]; dup {
			problems = append(problems, duplicateProblem(KindInstrumentation, i, r.ID))
			continue
		}
		if _, ok := s.modules[r.ModuleID]; !ok {
			problems = append(problems, danglingProblem(KindInstrumentation, i, r.ID, KindModule, r.ModuleID))
			continue
		}
		inst := Instrumentation{
			ID:             r.ID,
			Name:           r.Name,
			Type:           NormalizeInstrumentType(r.Type),
			ValueKey:       r.ValueKey,
			LowerThreshold: r.LowerThreshold,
			UpperThreshold: r.UpperThreshold,
			ModuleID:       r.ModuleID,
		}
		// Detach the threshold pointers from the caller's raw data.
		s.instrumentations[r.ID] = inst.clone()
		s.index(KindInstrumentation, r.ID, r.Name)
		s.link(Ref{Kind: KindModule, ID: r.ModuleID}, r.ID)
	}

	for i, r := range raw.Assets {
		if _, dup := s.assets[r.ID]; dup {
			problems = append(problems, duplicateProblem(KindAsset, i, r.ID))
			continue
		}
		if _, ok := s.instrumentations[r.InstrumentationID]; !ok {
			problems = append(problems, danglingProblem(KindAsset, i, r.ID, KindInstrumentation, r.InstrumentationID))
			continue
		}
		s.assets[r.ID] = Asset{
			ID:                r.ID,
			Serial:            r.Serial,
			ProductCode:       r.ProductCode,
			ProductName:       r.ProductName,
			InstrumentationID: r.InstrumentationID,
		}
		s.index(KindAsset, r.ID, r.Serial)
		s.link(Ref{Kind: KindInstrumentation, ID: r.InstrumentationID}, r.ID)
	}

	if len(problems) > 0 {
		return nil, &IntegrityError{Problems: problems}
	}

	for id, loc := range s.locations {
		loc.ApplicationIDs = slices.Clone(s.children[loc.Ref()])
		s.locations[id] = loc
	}
	return s, nil
}

func (s *Store) index(kind Kind, id int64, label string) {
	s.order[kind] = append(s.order[kind], id)
	key := fold(label)
	s.names[kind][key] = append(s.names[kind][key], id)
}

func (s *Store) link(parent Ref, child int64) {
	s.children[parent] = append(s.children[parent], child)
}

func duplicateProblem(kind Kind, index int, id int64) string {
	return fmt.Sprintf("%s[%d]: duplicate %s id %d", kind.Plural(), index, kind, id)
}

func danglingProblem(kind Kind, index int, id int64, parent Kind, parentID int64) string {
	return fmt.Sprintf("%s[%d]: %s %d references missing %s %d",
		kind.Plural(), index, kind, id, parent, parentID)
}

// --- Lookup by id ---

// Get returns the entity of the given kind and id.
func (s *Store) Get(kind Kind, id int64) (Entity, error) {
	switch kind {
	case KindLocation:
		return s.Location(id)
	case KindApplication:
		return s.Application(id)
	case KindModule:
		return s.Module(id)
	case KindInstrumentation:
		return s.Instrumentation(id)
	case KindAsset:
		return s.Asset(id)
	}
	return nil, newValidationError("kind", kind.String(), kindNames())
}

// Location returns the location with the given id.
func (s *Store) Location(id int64) (Location, error) {
	l, ok := s.locations[id]
	if !ok {
		return Location{}, newNotFoundID(KindLocation, id)
	}
	return l.clone(), nil
}

// Application returns the application with the given id.
func (s *Store) Application(id int64) (Application, error) {
	a, ok := s.applications[id]
	if !ok {
		return Application{}, newNotFoundID(KindApplication, id)
	}
	return a, nil
}

// Module returns the module with the given id.
func (s *Store) Module(id int64) (Module, error) {
	m, ok := s.modules[id]
	if !ok {
		return Module{}, newNotFoundID(KindModule, id)
	}
	return m, nil
}

// Instrumentation returns the instrumentation with the given id.
func (s *Store) Instrumentation(id int64) (Instrumentation, error) {
	i, ok := s.instrumentations[id]
	if !ok {
		return Instrumentation{}, newNotFoundID(KindInstrumentation, id)
	}
	return i.clone(), nil
}

// Asset returns the asset with the given id.
func (s *Store) Asset(id int64) (Asset, error) {
	a, ok := s.assets[id]
	if !ok {
		return Asset{}, newNotFoundID(KindAsset, id)
	}
	return a, nil
}

// exists reports whether ref names a loaded entity.
func (s *Store) exists(ref Ref) bool {
	switch ref.Kind {
	case KindLocation:
		_, ok := s.locations[ref.ID]
		return ok
	case KindApplication:
		_, ok := s.applications[ref.ID]
		return ok
	case KindModule:
		_, ok := s.modules[ref.ID]
		return ok
	case KindInstrumentation:
		_, ok := s.instrumentations[ref.ID]
		return ok
	case KindAsset:
		_, ok := s.assets[ref.ID]
		return ok
	}
	return false
}

// --- Lookup by name ---

// FindByName returns every entity of the given kind whose label equals
// name case-insensitively, in load order. Zero, one or many matches are
// all valid results; the caller decides how to treat ambiguity. Asset
// labels are serial numbers.
func (s *Store) FindByName(kind Kind, name string) []Entity {
	ids := s.names[kind][fold(name)]
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(kind, id)
		if err != nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

// --- Ordered listings ---

// Count returns the number of loaded entities of the given kind.
func (s *Store) Count(kind Kind) int {
	return len(s.order[kind])
}

// Locations returns all locations in load order.
func (s *Store) Locations() []Location {
	out := make([]Location, 0, len(s.order[KindLocation]))
	for _, id := range s.order[KindLocation] {
		out = append(out, s.locations[id].clone())
	}
	return out
}

// Applications returns all applications in load order.
func (s *Store) Applications() []Application {
	out := make([]Application, 0, len(s.order[KindApplication]))
	for _, id := range s.order[KindApplication] {
		out = append(out, s.applications[id])
	}
	return out
}

// Modules returns all modules in load order.
func (s *Store) Modules() []Module {
	out := make([]Module, 0, len(s.order[KindModule]))
	for _, id := range s.order[KindModule] {
		out = append(out, s.modules[id])
	}
	return out
}

// Instrumentations returns all instrumentations in load order.
func (s *Store) Instrumentations() []Instrumentation {
	out := make([]Instrumentation, 0, len(s.order[KindInstrumentation]))
	for _, id := range s.order[KindInstrumentation] {
		out = append(out, s.instrumentations[id].clone())
	}
	return out
}

// Assets returns all assets in load order.
func (s *Store) Assets() []Asset {
	out := make([]Asset, 0, len(s.order[KindAsset]))
	for _, id := range s.order[KindAsset] {
		out = append(out, s.assets[id])
	}
	return out
}
