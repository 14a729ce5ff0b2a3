package store

import (
	"fmt"

	"customer-reviews-backend/serializer"
)

const (
	KindCustomer = "customer"
	KindItem     = "item"
	KindReview   = "review"
)

// SerializeRules lists, per record kind, the relationship paths left out
// when a record of that kind is serialized.
var SerializeRules = serializer.Rules{
	KindCustomer: {"reviews.customer"},
	KindItem:     {"reviews.item"},
	KindReview:   {"customer.reviews", "item.reviews"},
}

func SerializeCustomer(c *Customer, extra ...string) (serializer.Mapping, error) {
	return serializer.Serialize(customerRecord{c}, SerializeRules, extra...)
}

func SerializeItem(i *Item, extra ...string) (serializer.Mapping, error) {
	return serializer.Serialize(itemRecord{i}, SerializeRules, extra...)
}

func SerializeReview(r *Review, extra ...string) (serializer.Mapping, error) {
	return serializer.Serialize(reviewRecord{r}, SerializeRules, extra...)
}

// Serialize dispatches on the record type. Slices of records serialize to a
// slice of mappings.
func Serialize(record any, extra ...string) (any, error) {
	switch r := record.(type) {
	case *Customer:
		return SerializeCustomer(r, extra...)
	case *Item:
		return SerializeItem(r, extra...)
	case *Review:
		return SerializeReview(r, extra...)
	case []Customer:
		return serializer.SerializeAll(customerRecords(r), SerializeRules, extra...)
	case []Item:
		return serializer.SerializeAll(itemRecords(r), SerializeRules, extra...)
	case []Review:
		return serializer.SerializeAll(reviewRecords(r), SerializeRules, extra...)
	default:
		return nil, fmt.Errorf("serialize: unsupported record type %T", record)
	}
}

type customerRecord struct{ c *Customer }

func (r customerRecord) Kind() string { return KindCustomer }

func (r customerRecord) Fields() serializer.Mapping {
	return serializer.Mapping{"id": r.c.ID, "name": r.c.Name}
}

func (r customerRecord) Links() []serializer.Link {
	return []serializer.Link{
		serializer.Many("reviews", KindReview, reviewRecords(r.c.Reviews)),
	}
}

func (r customerRecord) Derived() []serializer.Derived {
	return []serializer.Derived{{Name: "items", From: "reviews", Field: "item", Key: "id"}}
}

type itemRecord struct{ i *Item }

func (r itemRecord) Kind() string { return KindItem }

func (r itemRecord) Fields() serializer.Mapping {
	return serializer.Mapping{"id": r.i.ID, "name": r.i.Name, "price": r.i.Price}
}

func (r itemRecord) Links() []serializer.Link {
	return []serializer.Link{
		serializer.Many("reviews", KindReview, reviewRecords(r.i.Reviews)),
	}
}

type reviewRecord struct{ r *Review }

func (r reviewRecord) Kind() string { return KindReview }

func (r reviewRecord) Fields() serializer.Mapping {
	return serializer.Mapping{
		"id":          r.r.ID,
		"comment":     r.r.Comment,
		"customer_id": r.r.CustomerID,
		"item_id":     r.r.ItemID,
	}
}

func (r reviewRecord) Links() []serializer.Link {
	// Unset pointers must stay untyped nil so the link reads as missing.
	var customer, item serializer.Record
	if r.r.Customer != nil {
		customer = customerRecord{r.r.Customer}
	}
	if r.r.Item != nil {
		item = itemRecord{r.r.Item}
	}
	return []serializer.Link{
		serializer.One("customer", KindCustomer, true, customer),
		serializer.One("item", KindItem, true, item),
	}
}

func customerRecords(customers []Customer) []serializer.Record {
	recs := make([]serializer.Record, len(customers))
	for i := range customers {
		recs[i] = customerRecord{&customers[i]}
	}
	return recs
}

func itemRecords(items []Item) []serializer.Record {
	recs := make([]serializer.Record, len(items))
	for i := range items {
		recs[i] = itemRecord{&items[i]}
	}
	return recs
}

func reviewRecords(reviews []Review) []serializer.Record {
	recs := make([]serializer.Record, len(reviews))
	for i := range reviews {
		recs[i] = reviewRecord{&reviews[i]}
	}
	return recs
}
