package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"customer-reviews-backend/config"
	"customer-reviews-backend/serializer"
)

// setupTestStore opens a migrated SQLite database private to the test.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(context.Background(), sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedAda stores the Ada / Widget fixture and returns the created ids.
func seedAda(t *testing.T, s *Store) (customerID, itemID, reviewID uint) {
	t.Helper()
	customerID, err := s.CreateCustomer(&Customer{Name: "Ada"})
	require.NoError(t, err)
	itemID, err = s.CreateItem(&Item{Name: "Widget", Price: 9.99})
	require.NoError(t, err)
	reviewID, err = s.CreateReview(&Review{Comment: "great", CustomerID: customerID, ItemID: itemID})
	require.NoError(t, err)
	return customerID, itemID, reviewID
}

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "app.db"), LogLevel: "silent"}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, LogLevel("silent"))
	assert.Equal(t, logger.Info, LogLevel("info"))
	assert.Equal(t, logger.Warn, LogLevel("whatever"))
}

func TestGetCustomer_SerializesScenario(t *testing.T) {
	s := setupTestStore(t)
	customerID, itemID, reviewID := seedAda(t, s)

	customer, err := s.GetCustomer(customerID)
	require.NoError(t, err)

	out, err := SerializeCustomer(customer)
	require.NoError(t, err)

	item := serializer.Mapping{"id": itemID, "name": "Widget", "price": 9.99}
	assert.Equal(t, serializer.Mapping{
		"id":   customerID,
		"name": "Ada",
		"reviews": []serializer.Mapping{{
			"id":          reviewID,
			"comment":     "great",
			"customer_id": customerID,
			"item_id":     itemID,
			"item":        item,
		}},
		"items": []serializer.Mapping{item},
	}, out)
}

func TestGetItemAndReview_LoadRequiredRelations(t *testing.T) {
	s := setupTestStore(t)
	customerID, itemID, reviewID := seedAda(t, s)

	item, err := s.GetItem(itemID)
	require.NoError(t, err)
	out, err := SerializeItem(item)
	require.NoError(t, err)
	reviews := out["reviews"].([]serializer.Mapping)
	require.Len(t, reviews, 1)
	assert.NotContains(t, reviews[0], "item")
	assert.Equal(t, serializer.Mapping{"id": customerID, "name": "Ada"}, reviews[0]["customer"])

	review, err := s.GetReview(reviewID)
	require.NoError(t, err)
	out, err = SerializeReview(review)
	require.NoError(t, err)
	assert.NotContains(t, out["customer"], "reviews")
	assert.NotContains(t, out["item"], "reviews")
}

func TestGet_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetCustomer(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(KindItem, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(KindReview, 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get("order", 1)
	assert.Error(t, err)
}

func TestList_OrderedByID(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.Seed())

	customers, err := s.ListCustomers()
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, "Ada Lovelace", customers[0].Name)
	assert.Len(t, customers[0].Reviews, 3)
	assert.Len(t, customers[0].Items(), 2)

	items, err := s.List(KindItem)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	reviews, err := s.ListReviews()
	require.NoError(t, err)
	require.Len(t, reviews, 4)
	for i := 1; i < len(reviews); i++ {
		assert.Less(t, reviews[i-1].ID, reviews[i].ID)
	}

	out, err := Serialize(reviews)
	require.NoError(t, err)
	assert.Len(t, out, 4)
}

func TestCreateReview_ReferentialIntegrity(t *testing.T) {
	s := setupTestStore(t)
	customerID, itemID, _ := seedAda(t, s)

	_, err := s.CreateReview(&Review{Comment: "ghost", CustomerID: 999, ItemID: itemID})
	var integrity *ReferentialIntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "customer_id", integrity.Field)
	assert.False(t, integrity.InUse)

	_, err = s.CreateReview(&Review{Comment: "ghost", CustomerID: customerID, ItemID: 999})
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "item_id", integrity.Field)

	reviews, err := s.ListReviews()
	require.NoError(t, err)
	assert.Len(t, reviews, 1, "rejected reviews must not be stored")
}

func TestDelete_RefusesReferencedRecords(t *testing.T) {
	s := setupTestStore(t)
	customerID, itemID, reviewID := seedAda(t, s)

	var integrity *ReferentialIntegrityError
	err := s.Delete(KindCustomer, customerID)
	require.True(t, errors.As(err, &integrity))
	assert.True(t, integrity.InUse)
	assert.Equal(t, "customers", integrity.Table)

	err = s.Delete(KindItem, itemID)
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "items", integrity.Table)

	require.NoError(t, s.Delete(KindReview, reviewID))
	require.NoError(t, s.Delete(KindCustomer, customerID))
	require.NoError(t, s.Delete(KindItem, itemID))

	assert.ErrorIs(t, s.Delete(KindReview, reviewID), ErrNotFound)
}

func TestSession_RollbackDiscardsChanges(t *testing.T) {
	s := setupTestStore(t)

	session, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, session.Add(&Customer{Name: "Temp"}))
	session.Rollback()
	session.Rollback()

	customers, err := s.ListCustomers()
	require.NoError(t, err)
	assert.Empty(t, customers)
	assert.Error(t, session.Commit())
}

func TestSession_AddDoesNotWriteRelations(t *testing.T) {
	s := setupTestStore(t)
	customerID, itemID, _ := seedAda(t, s)

	review := &Review{
		Comment:    "second",
		CustomerID: customerID,
		ItemID:     itemID,
		Customer:   &Customer{ID: customerID, Name: "Renamed"},
	}
	_, err := s.CreateReview(review)
	require.NoError(t, err)

	customer, err := s.GetCustomer(customerID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", customer.Name)
	assert.Len(t, customer.Reviews, 2)
	assert.Len(t, customer.Items(), 1)
}

func TestSave_UpdatesScalars(t *testing.T) {
	s := setupTestStore(t)
	_, itemID, _ := seedAda(t, s)

	item, err := s.GetItem(itemID)
	require.NoError(t, err)
	item.Price = 12.5
	require.NoError(t, s.Save(item))

	item, err = s.GetItem(itemID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, item.Price)
	assert.Len(t, item.Reviews, 1)
}

func TestSession_RejectsUnknownType(t *testing.T) {
	s := setupTestStore(t)
	session, err := s.Begin()
	require.NoError(t, err)
	defer session.Rollback()

	assert.Error(t, session.Add("nope"))
	assert.Error(t, session.Delete(42))
}
