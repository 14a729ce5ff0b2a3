package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Session is a unit of work over the database. It must end with Commit or
// Rollback.
type Session struct {
	tx   *gorm.DB
	done bool
}

// Add inserts a record without an id, or updates the scalar columns of one
// that has an id. Loaded relationships are never written through.
func (s *Session) Add(record any) error {
	switch r := record.(type) {
	case *Customer, *Item:
	case *Review:
		if err := s.checkReferences(r); err != nil {
			return err
		}
	default:
		return fmt.Errorf("add: unsupported record type %T", record)
	}

	if result := s.tx.Omit(clause.Associations).Save(record); result.Error != nil {
		return fmt.Errorf("failed to save %T: %w", record, result.Error)
	}
	return nil
}

// Delete removes a record. Customers and items still referenced by reviews
// are refused.
func (s *Session) Delete(record any) error {
	var id uint
	switch r := record.(type) {
	case *Customer:
		if err := s.checkUnreferenced("customers", "customer_id", r.ID); err != nil {
			return err
		}
		id = r.ID
	case *Item:
		if err := s.checkUnreferenced("items", "item_id", r.ID); err != nil {
			return err
		}
		id = r.ID
	case *Review:
		id = r.ID
	default:
		return fmt.Errorf("delete: unsupported record type %T", record)
	}

	if id == 0 {
		return fmt.Errorf("delete %T: %w", record, ErrNotFound)
	}
	result := s.tx.Delete(record)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %T: %w", record, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %T %d: %w", record, id, ErrNotFound)
	}
	return nil
}

func (s *Session) Commit() error {
	if s.done {
		return errors.New("session already finished")
	}
	s.done = true
	if err := s.tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Rollback discards the session's changes. It is a no-op once the session
// has finished.
func (s *Session) Rollback() {
	if s.done {
		return
	}
	s.done = true
	s.tx.Rollback()
}

func (s *Session) checkReferences(review *Review) error {
	if err := s.exists(&Customer{}, review.CustomerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ReferentialIntegrityError{Table: "customers", Field: "customer_id", ID: review.CustomerID}
		}
		return err
	}
	if err := s.exists(&Item{}, review.ItemID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return &ReferentialIntegrityError{Table: "items", Field: "item_id", ID: review.ItemID}
		}
		return err
	}
	return nil
}

func (s *Session) exists(model any, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	var count int64
	if err := s.tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up %T %d: %w", model, id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Session) checkUnreferenced(table, field string, id uint) error {
	var count int64
	if err := s.tx.Model(&Review{}).Where(field+" = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count reviews: %w", err)
	}
	if count > 0 {
		return &ReferentialIntegrityError{Table: table, Field: field, ID: id, InUse: true}
	}
	return nil
}
