package hierarchy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// IntegrityError reports malformed source data: a dangling parent
// reference, a duplicate id, an invalid record or an empty tree. It is
// only returned by Load and is fatal for startup.
type IntegrityError struct {
	Problems []string
}

func (e *IntegrityError) Error() string {
	if len(e.Problems) == 1 {
		return "hierarchy integrity: " + e.Problems[0]
	}
	return fmt.Sprintf("hierarchy integrity: %d problems: %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// NotFoundError reports a lookup by id or name that matched nothing.
type NotFoundError struct {
	Kind       Kind
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Identifier)
}

// AmbiguousNameError reports a name lookup that matched more than one
// entity of the same kind. IDs holds every candidate in load order.
type AmbiguousNameError struct {
	Kind Kind
	Name string
	IDs  []int64
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("%s name %q is ambiguous: %d matches", e.Kind, e.Name, len(e.IDs))
}

// ValidationError reports an input value outside an enumerated set.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func newNotFoundError(kind Kind, identifier string) error {
	return errors.WithHintf(&NotFoundError{Kind: kind, Identifier: identifier},
		"list the %s to find a valid id or name", kind.Plural())
}

func newNotFoundID(kind Kind, id int64) error {
	return newNotFoundError(kind, strconv.FormatInt(id, 10))
}

func newAmbiguousNameError(kind Kind, name string, ids []int64) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return errors.WithHintf(&AmbiguousNameError{Kind: kind, Name: name, IDs: ids},
		"re-query by id, candidates: %s", strings.Join(parts, ", "))
}

func newValidationError(field, value string, allowed []string) error {
	err := error(&ValidationError{Field: field, Value: value, Allowed: allowed})
	if len(allowed) > 0 {
		err = errors.WithHintf(err, "must be one of: %s", strings.Join(allowed, ", "))
	}
	return err
}

// IsIntegrity reports whether err is or wraps an *IntegrityError.
func IsIntegrity(err error) bool {
	var target *IntegrityError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsAmbiguous reports whether err is or wraps an *AmbiguousNameError.
func IsAmbiguous(err error) bool {
	var target *AmbiguousNameError
	return errors.As(err, &target)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
