package hierarchy

import "slices"

// Entity is implemented by the five record types of the hierarchy and by
// nothing else; the unexported marker method keeps the set closed so a type
// switch over Location, Application, Module, Instrumentation and Asset is
// exhaustive.
type Entity interface {
	// Ref returns the kind and id of the entity.
	Ref() Ref
	// Label is the human-facing identifier: the name, or the serial
	// number for assets.
	Label() string
	// Parent returns the owning entity. Locations report false.
	Parent() (Ref, bool)

	entity()
}

// Location is a plant site and the root of a hierarchy.
type Location struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ApplicationIDs []int64 `json:"application_ids"`
}

// Application is a water application running at a location.
type Application struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Type       ApplicationType `json:"type"`
	LocationID int64           `json:"location_id"`
}

// Module groups instrumentation within an application.
type Module struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Type          ModuleType `json:"type"`
	ApplicationID int64      `json:"application_id"`
}

// Instrumentation is a measuring or actuating point. The name is also
// called the tag.
type Instrumentation struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Type           InstrumentType `json:"type"`
	ValueKey       string         `json:"value_key"`
	LowerThreshold *float64       `json:"lower_threshold,omitempty"`
	UpperThreshold *float64       `json:"upper_threshold,omitempty"`
	ModuleID       int64          `json:"module_id"`
}

// Asset is a physical device installed for an instrumentation.
type Asset struct {
	ID                int64  `json:"id"`
	Serial            string `json:"serial"`
	ProductCode       string `json:"prod_code,omitempty"`
	ProductName       string `json:"prod_name,omitempty"`
	InstrumentationID int64  `json:"instrumentation_id"`
}

func (l Location) Ref() Ref            { return Ref{Kind: KindLocation, ID: l.ID} }
func (l Location) Label() string       { return l.Name }
func (l Location) Parent() (Ref, bool) { return Ref{}, false }
func (Location) entity()               {}

func (a Application) Ref() Ref            { return Ref{Kind: KindApplication, ID: a.ID} }
func (a Application) Label() string       { return a.Name }
func (a Application) Parent() (Ref, bool) { return Ref{Kind: KindLocation, ID: a.LocationID}, true }
func (Application) entity()               {}

func (m Module) Ref() Ref            { return Ref{Kind: KindModule, ID: m.ID} }
func (m Module) Label() string       { return m.Name }
func (m Module) Parent() (Ref, bool) { return Ref{Kind: KindApplication, ID: m.ApplicationID}, true }
func (Module) entity()               {}

func (i Instrumentation) Ref() Ref            { return Ref{Kind: KindInstrumentation, ID: i.ID} }
func (i Instrumentation) Label() string       { return i.Name }
func (i Instrumentation) Parent() (Ref, bool) { return Ref{Kind: KindModule, ID: i.ModuleID}, true }
func (Instrumentation) entity()               {}

func (a Asset) Ref() Ref            { return Ref{Kind: KindAsset, ID: a.ID} }
func (a Asset) Label() string       { return a.Serial }
func (a Asset) Parent() (Ref, bool) { return Ref{Kind: KindInstrumentation, ID: a.InstrumentationID}, true }
func (Asset) entity()               {}

// HasLower reports whether a lower threshold is configured.
func (i Instrumentation) HasLower() bool { return i.LowerThreshold != nil }

// HasUpper reports whether an upper threshold is configured.
func (i Instrumentation) HasUpper() bool { return i.UpperThreshold != nil }

// HasBoth reports whether both thresholds are configured.
func (i Instrumentation) HasBoth() bool { return i.HasLower() && i.HasUpper() }

// clone returns a copy that shares no memory with the store's record, so
// callers cannot mutate the store through a returned value.
func (l Location) clone() Location {
	l.ApplicationIDs = slices.Clone(l.ApplicationIDs)
	return l
}

func (i Instrumentation) clone() Instrumentation {
	if i.LowerThreshold != nil {
		v := *i.LowerThreshold
		i.LowerThreshold = &v
	}
	if i.UpperThreshold != nil {
		v := *i.UpperThreshold
		i.UpperThreshold = &v
	}
	return i
}
