package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"customer-reviews-backend/config"
)

type Store struct {
	ctx      context.Context
	database *gorm.DB
}

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Dsn())
	case "sqlite":
		dialector = sqlite.Open(cfg.Dsn())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	return New(ctx, dialector, &gorm.Config{
		Logger: logger.Default.LogMode(LogLevel(cfg.LogLevel)),
	})
}

func New(ctx context.Context, dialector gorm.Dialector, gormConfig *gorm.Config) (*Store, error) {
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Migrate the schemas
	if err := db.AutoMigrate(&Customer{}, &Item{}, &Review{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{database: db, ctx: ctx}, nil
}

// LogLevel maps a textual level to gorm's logger level, defaulting to warn.
func LogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (s *Store) Close() error {
	db, err := s.database.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (s *Store) GetCustomer(id uint) (*Customer, error) {
	var customer Customer
	err := s.database.WithContext(s.ctx).
		Preload("Reviews", byID).
		Preload("Reviews.Item").
		First(&customer, id).Error
	if err != nil {
		return nil, notFound("customer", err)
	}
	return &customer, nil
}

func (s *Store) GetItem(id uint) (*Item, error) {
	var item Item
	err := s.database.WithContext(s.ctx).
		Preload("Reviews", byID).
		Preload("Reviews.Customer").
		First(&item, id).Error
	if err != nil {
		return nil, notFound("item", err)
	}
	return &item, nil
}

func (s *Store) GetReview(id uint) (*Review, error) {
	var review Review
	err := s.database.WithContext(s.ctx).
		Preload("Customer").
		Preload("Item").
		First(&review, id).Error
	if err != nil {
		return nil, notFound("review", err)
	}
	return &review, nil
}

// Get loads the record of the given kind with the relationships its
// serialization needs.
func (s *Store) Get(kind string, id uint) (any, error) {
	switch kind {
	case KindCustomer:
		return s.GetCustomer(id)
	case KindItem:
		return s.GetItem(id)
	case KindReview:
		return s.GetReview(id)
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

func (s *Store) ListCustomers() ([]Customer, error) {
	var customers []Customer
	err := s.database.WithContext(s.ctx).
		Preload("Reviews", byID).
		Preload("Reviews.Item").
		Order("id").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}
	return customers, nil
}

func (s *Store) ListItems() ([]Item, error) {
	var items []Item
	err := s.database.WithContext(s.ctx).
		Preload("Reviews", byID).
		Preload("Reviews.Customer").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	return items, nil
}

func (s *Store) ListReviews() ([]Review, error) {
	var reviews []Review
	err := s.database.WithContext(s.ctx).
		Preload("Customer").
		Preload("Item").
		Order("id").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}
	return reviews, nil
}

// List returns every record of the given kind ordered by id.
func (s *Store) List(kind string) (any, error) {
	switch kind {
	case KindCustomer:
		return s.ListCustomers()
	case KindItem:
		return s.ListItems()
	case KindReview:
		return s.ListReviews()
	default:
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
}

// Begin starts a session. Records added or deleted through it are written
// on Commit.
func (s *Store) Begin() (*Session, error) {
	tx := s.database.WithContext(s.ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin session: %w", tx.Error)
	}
	return &Session{tx: tx}, nil
}

// inSession runs fn in its own session, committing when fn succeeds.
func (s *Store) inSession(fn func(*Session) error) error {
	session, err := s.Begin()
	if err != nil {
		return err
	}
	if err := fn(session); err != nil {
		session.Rollback()
		return err
	}
	return session.Commit()
}

func (s *Store) CreateCustomer(customer *Customer) (uint, error) {
	err := s.inSession(func(session *Session) error { return session.Add(customer) })
	if err != nil {
		return 0, err
	}
	return customer.ID, nil
}

func (s *Store) CreateItem(item *Item) (uint, error) {
	err := s.inSession(func(session *Session) error { return session.Add(item) })
	if err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (s *Store) CreateReview(review *Review) (uint, error) {
	err := s.inSession(func(session *Session) error { return session.Add(review) })
	if err != nil {
		return 0, err
	}
	return review.ID, nil
}

// Save writes the scalar fields of an existing record.
func (s *Store) Save(record any) error {
	return s.inSession(func(session *Session) error { return session.Add(record) })
}

// Delete removes the record of the given kind.
func (s *Store) Delete(kind string, id uint) error {
	var record any
	switch kind {
	case KindCustomer:
		record = &Customer{ID: id}
	case KindItem:
		record = &Item{ID: id}
	case KindReview:
		record = &Review{ID: id}
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	return s.inSession(func(session *Session) error { return session.Delete(record) })
}

func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s not found: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
