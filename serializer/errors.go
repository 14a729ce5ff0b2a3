package serializer

import "fmt"

// MissingRelationError is returned when a required to-one link is unset.
type MissingRelationError struct {
	Kind  string
	Field string
	Path  string
}

func (e *MissingRelationError) Error() string {
	return fmt.Sprintf("serialize %s: required relation %q is not loaded (at %s)", e.Kind, e.Field, e.Path)
}
