package hierarchy

import "strings"

// Predicate selects instrumentations.
type Predicate func(Instrumentation) bool

// Criteria is a structured filter over instrumentations. Every set field
// must hold for an instrumentation to match (logical AND). The zero value
// sets nothing and therefore matches every instrumentation.
type Criteria struct {
	Type     string `json:"type,omitempty"`
	ValueKey string `json:"value_key,omitempty"`
	ModuleID *int64 `json:"module_id,omitempty"`
	HasLower *bool  `json:"has_lower_threshold,omitempty"`
	HasUpper *bool  `json:"has_upper_threshold,omitempty"`
	HasBoth  *bool  `json:"has_both_thresholds,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// Filter returns the instrumentations satisfying every predicate, in load
// order. With no predicates it returns all instrumentations.
func (s *Store) Filter(preds ...Predicate) []Instrumentation {
	out := []Instrumentation{}
	for _, id := range s.order[KindInstrumentation] {
		inst := s.instrumentations[id]
		if matchAll(inst, preds) {
			out = append(out, inst.clone())
		}
	}
	return out
}

func matchAll(inst Instrumentation, preds []Predicate) bool {
	for _, p := range preds {
		if !p(inst) {
			return false
		}
	}
	return true
}

// ByType returns instrumentations of the named type. Matching is
// case-insensitive; a name outside InstrumentTypes is a *ValidationError
// rather than an empty or unfiltered result.
func (s *Store) ByType(typeName string) ([]Instrumentation, error) {
	t, err := ParseInstrumentType(typeName)
	if err != nil {
		return nil, err
	}
	return s.Filter(typeIs(t)), nil
}

// ByValueKey returns instrumentations whose measured-value key equals key
// exactly (case-sensitive).
func (s *Store) ByValueKey(key string) []Instrumentation {
	return s.Filter(valueKeyIs(key))
}

// ByCriteria returns instrumentations matching every set criterion. An
// unrecognized Type is a *ValidationError and a ModuleID that names no
// module is a *NotFoundError.
func (s *Store) ByCriteria(c Criteria) ([]Instrumentation, error) {
	preds, err := s.predicates(c)
	if err != nil {
		return nil, err
	}
	return s.Filter(preds...), nil
}

// WithoutThresholds returns instrumentations with neither threshold set.
func (s *Store) WithoutThresholds() []Instrumentation {
	return s.Filter(func(i Instrumentation) bool { return !i.HasLower() && !i.HasUpper() })
}

func (s *Store) predicates(c Criteria) ([]Predicate, error) {
	var preds []Predicate
	if c.Type != "" {
		t, err := ParseInstrumentType(c.Type)
		if err != nil {
			return nil, err
		}
		preds = append(preds, typeIs(t))
	}
	if c.ValueKey != "" {
		preds = append(preds, valueKeyIs(c.ValueKey))
	}
	if c.ModuleID != nil {
		id := *c.ModuleID
		if _, ok := s.modules[id]; !ok {
			return nil, newNotFoundID(KindModule, id)
		}
		preds = append(preds, func(i Instrumentation) bool { return i.ModuleID == id })
	}
	if c.HasLower != nil {
		want := *c.HasLower
		preds = append(preds, func(i Instrumentation) bool { return i.HasLower() == want })
	}
	if c.HasUpper != nil {
		want := *c.HasUpper
		preds = append(preds, func(i Instrumentation) bool { return i.HasUpper() == want })
	}
	if c.HasBoth != nil {
		want := *c.HasBoth
		preds = append(preds, func(i Instrumentation) bool { return i.HasBoth() == want })
	}
	return preds, nil
}

func typeIs(t InstrumentType) Predicate {
	return func(i Instrumentation) bool { return i.Type == t }
}

func valueKeyIs(key string) Predicate {
	return func(i Instrumentation) bool { return i.ValueKey == key }
}

// --- Name search ---

// SearchResult groups name-search matches by kind.
type SearchResult struct {
	Locations        []Location        `json:"locations"`
	Applications     []Application     `json:"applications"`
	Modules          []Module          `json:"modules"`
	Instrumentations []Instrumentation `json:"instrumentations"`
	Assets           []Asset           `json:"assets"`
}

// Len returns the total number of matches.
func (r SearchResult) Len() int {
	return len(r.Locations) + len(r.Applications) + len(r.Modules) +
		len(r.Instrumentations) + len(r.Assets)
}

// Search returns every entity whose label contains term. Asset labels are
// serial numbers. An empty term is a *ValidationError.
func (s *Store) Search(term string, caseSensitive bool) (SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return SearchResult{}, newValidationError("search_term", term, nil)
	}
	match := func(label string) bool { return strings.Contains(fold(label), fold(term)) }
	if caseSensitive {
		match = func(label string) bool { return strings.Contains(label, term) }
	}

	res := SearchResult{
		Locations:        []Location{},
		Applications:     []Application{},
		Modules:          []Module{},
		Instrumentations: []Instrumentation{},
		Assets:           []Asset{},
	}
	for _, l := range s.Locations() {
		if match(l.Name) {
			res.Locations = append(res.Locations, l)
		}
	}
	for _, a := range s.Applications() {
		if match(a.Name) {
			res.Applications = append(res.Applications, a)
		}
	}
	for _, m := range s.Modules() {
		if match(m.Name) {
			res.Modules = append(res.Modules, m)
		}
	}
	for _, i := range s.Instrumentations() {
		if match(i.Name) {
			res.Instrumentations = append(res.Instrumentations, i)
		}
	}
	for _, a := range s.Assets() {
		if match(a.Serial) {
			res.Assets = append(res.Assets, a)
		}
	}
	return res, nil
}

// AssetBySerial returns the asset with exactly the given serial number.
func (s *Store) AssetBySerial(serial string) (Asset, error) {
	var found []int64
	for _, id := range s.order[KindAsset] {
		if s.assets[id].Serial == serial {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return Asset{}, newNotFoundError(KindAsset, serial)
	case 1:
		return s.assets[found[0]], nil
	}
	return Asset{}, newAmbiguousNameError(KindAsset, serial, found)
}
