package hierarchy

import (
	"slices"
	"strconv"
	"strings"
)

// Roots returns the location ids in load order.
func (s *Store) Roots() []int64 {
	return slices.Clone(s.order[KindLocation])
}

// Children returns the ids of parent's direct children in load order.
// The child kind is parent.Kind.Child(). A leaf, or a parent without
// children, yields an empty slice; a parent that does not exist yields a
// *NotFoundError.
func (s *Store) Children(parent Ref) ([]int64, error) {
	if !parent.Kind.Valid() {
		return nil, newValidationError("kind", parent.Kind.String(), kindNames())
	}
	if !s.exists(parent) {
		return nil, newNotFoundID(parent.Kind, parent.ID)
	}
	ids := s.children[parent]
	if ids == nil {
		return []int64{}, nil
	}
	return slices.Clone(ids), nil
}

// ChildEntities is Children resolved to entity records.
func (s *Store) ChildEntities(parent Ref) ([]Entity, error) {
	ids, err := s.Children(parent)
	if err != nil {
		return nil, err
	}
	kind, ok := parent.Kind.Child()
	if !ok {
		return []Entity{}, nil
	}
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		e, err := s.Get(kind, id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Resolve finds an entity of the given kind by id or by name. An
// identifier that parses as an integer and matches an id wins; otherwise
// the identifier is matched case-insensitively against names. More than
// one name match is reported as an *AmbiguousNameError carrying every
// candidate id, never resolved by picking one.
func (s *Store) Resolve(kind Kind, identifier string) (Entity, error) {
	if !kind.Valid() {
		return nil, newValidationError("kind", kind.String(), kindNames())
	}
	ident := strings.TrimSpace(identifier)
	if id, err := strconv.ParseInt(ident, 10, 64); err == nil {
		if e, err := s.Get(kind, id); err == nil {
			return e, nil
		}
	}

	matches := s.FindByName(kind, ident)
	switch len(matches) {
	case 0:
		return nil, newNotFoundError(kind, identifier)
	case 1:
		return matches[0], nil
	}
	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.Ref().ID
	}
	return nil, newAmbiguousNameError(kind, identifier, ids)
}

// PathToRoot returns the entity named by ref followed by each ancestor,
// ending with its Location.
func (s *Store) PathToRoot(ref Ref) ([]Entity, error) {
	e, err := s.Get(ref.Kind, ref.ID)
	if err != nil {
		return nil, err
	}
	path := []Entity{e}
	for {
		parent, ok := e.Parent()
		if !ok {
			return path, nil
		}
		// Load guarantees every parent reference resolves.
		e, err = s.Get(parent.Kind, parent.ID)
		if err != nil {
			return nil, err
		}
		path = append(path, e)
	}
}
