package graph

import (
	"errors"
	"fmt"

	"github.com/syssam/qbe/schema"
)

// ErrDanglingReference indicates a relation pointing at an entity that
// is missing from the supplied catalog.
var ErrDanglingReference = errors.New("qbe: dangling relation reference")

// DanglingReferenceError reports a relation whose target (or through)
// entity is absent from the catalog. Schema corruption of this kind is
// fatal at build time and is never silently dropped.
type DanglingReferenceError struct {
	Source schema.EntityID // entity declaring the relation
	Field  string          // local field carrying the relation
	Target schema.EntityID // missing entity
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("qbe: relation %q on %s points at missing entity %s", e.Field, e.Source, e.Target)
}

// Is reports whether the target matches the sentinel for dangling
// references, so errors.Is(err, ErrDanglingReference) works.
func (e *DanglingReferenceError) Is(target error) bool {
	return target == ErrDanglingReference
}

// NewDanglingReferenceError creates a new DanglingReferenceError.
func NewDanglingReferenceError(source schema.EntityID, field string, target schema.EntityID) *DanglingReferenceError {
	return &DanglingReferenceError{Source: source, Field: field, Target: target}
}

// IsDanglingReference reports whether the error is a DanglingReferenceError.
func IsDanglingReference(err error) bool {
	var e *DanglingReferenceError
	return errors.As(err, &e)
}
