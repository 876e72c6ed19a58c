// Package hierarchy implements the water-plant hierarchy engine.
//
// A plant is a four-level tree: Location → Application → Module →
// Instrumentation, with Assets attached to Instrumentations. The tree is
// built once by Load from flat raw records and is immutable afterwards,
// so every query method on *Store is a pure read and safe for concurrent
// use without locking.
//
// The package is split by responsibility:
//   - kind.go, types.go, entity.go: the closed entity model
//   - errors.go: the four error kinds callers can distinguish
//   - raw.go, store.go: ingestion and indexing
//   - lookup.go: traversal and id-or-name resolution
//   - filter.go: instrumentation filtering and name search
//   - aggregate.go: counts and distributions
//   - render.go: text and markdown renderings
package hierarchy

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the closed set of entity levels in a plant hierarchy.
type Kind int

const (
	KindLocation Kind = iota + 1
	KindApplication
	KindModule
	KindInstrumentation
	KindAsset
)

// Kinds lists every level from the root down.
var Kinds = []Kind{KindLocation, KindApplication, KindModule, KindInstrumentation, KindAsset}

// String returns the lowercase singular name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindApplication:
		return "application"
	case KindModule:
		return "module"
	case KindInstrumentation:
		return "instrumentation"
	case KindAsset:
		return "asset"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Plural returns the plural name used for counts and JSON keys.
func (k Kind) Plural() string {
	return k.String() + "s"
}

// Valid reports whether k is one of the five hierarchy levels.
func (k Kind) Valid() bool {
	return k >= KindLocation && k <= KindAsset
}

// Parent returns the kind one level up. Locations have no parent.
func (k Kind) Parent() (Kind, bool) {
	switch k {
	case KindApplication:
		return KindLocation, true
	case KindModule:
		return KindApplication, true
	case KindInstrumentation:
		return KindModule, true
	case KindAsset:
		return KindInstrumentation, true
	}
	return 0, false
}

// Child returns the kind one level down. Assets are leaves.
func (k Kind) Child() (Kind, bool) {
	switch k {
	case KindLocation:
		return KindApplication, true
	case KindApplication:
		return KindModule, true
	case KindModule:
		return KindInstrumentation, true
	case KindInstrumentation:
		return KindAsset, true
	}
	return 0, false
}

// ParseKind accepts singular or plural kind names in any case, plus the
// "instrument" shorthand used by operators.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, "s")
	switch name {
	case "location":
		return KindLocation, nil
	case "application":
		return KindApplication, nil
	case "module":
		return KindModule, nil
	case "instrumentation", "instrument":
		return KindInstrumentation, nil
	case "asset":
		return KindAsset, nil
	}
	return 0, newValidationError("kind", s, kindNames())
}

func kindNames() []string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.String()
	}
	return names
}

// Ref identifies one entity across all kinds. The zero Ref means
// "no entity" and is used by the renderer to select the whole tree.
type Ref struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

// IsZero reports whether r is the zero Ref.
func (r Ref) IsZero() bool {
	return r == Ref{}
}

func (r Ref) String() string {
	return fmt.Sprintf("%s:%d", r.Kind, r.ID)
}

// ParseRef parses the "kind:id" form produced by Ref.String.
func ParseRef(s string) (Ref, error) {
	kindPart, idPart, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, newValidationError("ref", s, []string{"kind:id"})
	}
	kind, err := ParseKind(kindPart)
	if err != nil {
		return Ref{}, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return Ref{}, newValidationError("ref", s, []string{"kind:id"})
	}
	return Ref{Kind: kind, ID: id}, nil
}
