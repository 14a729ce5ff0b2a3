package store

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("record not found")

// ReferentialIntegrityError reports a review foreign key that does not
// resolve, or a customer/item that cannot be removed because reviews still
// point at it.
type ReferentialIntegrityError struct {
	Table string // referenced table, "customers" or "items"
	Field string // column on reviews, "customer_id" or "item_id"
	ID    uint
	InUse bool
}

func (e *ReferentialIntegrityError) Error() string {
	if e.InUse {
		return fmt.Sprintf("%s %d is still referenced by reviews.%s", e.Table, e.ID, e.Field)
	}
	return fmt.Sprintf("reviews.%s %d does not resolve to a row in %s", e.Field, e.ID, e.Table)
}
