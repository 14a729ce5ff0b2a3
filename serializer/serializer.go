// Package serializer turns a graph of linked records into plain mappings
// without looping forever through bidirectional relationships.
//
// Every record type declares its scalar fields and its relationship links.
// A single depth-first walk expands the links of the root record, skipping
// any dotted path excluded by the rules of the root's kind. Rules are always
// relative to the record the call started from: a Review embedded in a
// Customer is pruned with the Customer's rules, not the Review's.
package serializer

import (
	"maps"
	"slices"
	"strings"
)

// Mapping is the serialized form of a record.
type Mapping map[string]any

// Rules maps a record kind to the dotted paths excluded when a record of
// that kind is serialized at the top level.
type Rules map[string][]string

// Record is a node of the graph being serialized.
type Record interface {
	Kind() string
	// Fields returns the scalar fields, always emitted verbatim.
	Fields() Mapping
	// Links returns the relationship fields in emission order.
	Links() []Link
}

// Deriver is implemented by records exposing computed views over one of
// their collections, such as Customer.items over Customer.reviews.
type Deriver interface {
	Derived() []Derived
}

// Link is a relationship field of a record. Target is the kind on the other
// end; it must be set even when the link is empty.
type Link struct {
	Name     string
	Target   string
	Many     bool
	Required bool

	One  Record
	List []Record
}

// One builds a to-one link. A nil rec leaves the link unset.
func One(name, target string, required bool, rec Record) Link {
	return Link{Name: name, Target: target, Required: required, One: rec}
}

// Many builds a to-many link.
func Many(name, target string, recs []Record) Link {
	return Link{Name: name, Target: target, Many: true, List: recs}
}

// Derived projects Field out of every element of the From collection,
// collapsing duplicates that share the same Key value.
type Derived struct {
	Name  string
	From  string
	Field string
	Key   string
}

// Serialize converts rec to a Mapping using the exclusion rules declared
// for its kind plus any extra paths given by the caller.
func Serialize(rec Record, rules Rules, extra ...string) (Mapping, error) {
	w := walker{}
	for _, r := range append(slices.Clone(rules[rec.Kind()]), extra...) {
		if r = normalizeRule(r); r != "" {
			w.excluded = append(w.excluded, r)
		}
	}
	return w.walk(rec, "", []string{rec.Kind()})
}

// SerializeAll serializes every record of recs, in order.
func SerializeAll(recs []Record, rules Rules, extra ...string) ([]Mapping, error) {
	out := make([]Mapping, 0, len(recs))
	for _, rec := range recs {
		m, err := Serialize(rec, rules, extra...)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

type walker struct {
	excluded []string
}

// walk expands rec found at path. ancestors holds the kinds from the root
// down to rec; a link pointing back to one of them is never expanded.
func (w *walker) walk(rec Record, path string, ancestors []string) (Mapping, error) {
	out := maps.Clone(rec.Fields())
	if out == nil {
		out = Mapping{}
	}

	for _, link := range rec.Links() {
		p := joinPath(path, link.Name)
		if w.isExcluded(p) || slices.Contains(ancestors, link.Target) {
			continue
		}
		next := append(slices.Clip(ancestors), link.Target)

		if link.Many {
			list := make([]Mapping, 0, len(link.List))
			for _, child := range link.List {
				m, err := w.walk(child, p, next)
				if err != nil {
					return nil, err
				}
				list = append(list, m)
			}
			out[link.Name] = list
			continue
		}

		if link.One == nil {
			if link.Required {
				return nil, &MissingRelationError{Kind: rec.Kind(), Field: link.Name, Path: p}
			}
			out[link.Name] = nil
			continue
		}
		m, err := w.walk(link.One, p, next)
		if err != nil {
			return nil, err
		}
		out[link.Name] = m
	}

	if d, ok := rec.(Deriver); ok {
		for _, view := range d.Derived() {
			if v, ok := project(out, view); ok {
				out[view.Name] = v
			}
		}
	}
	return out, nil
}

func (w *walker) isExcluded(path string) bool {
	for _, rule := range w.excluded {
		if path == rule || strings.HasPrefix(path, rule+".") {
			return true
		}
	}
	return false
}

// project computes a derived view from the already serialized source
// collection. The view is omitted when its source was pruned.
func project(out Mapping, view Derived) ([]Mapping, bool) {
	src, ok := out[view.From].([]Mapping)
	if !ok {
		return nil, false
	}
	seen := make(map[any]struct{}, len(src))
	res := make([]Mapping, 0, len(src))
	for _, elem := range src {
		m, ok := elem[view.Field].(Mapping)
		if !ok {
			continue
		}
		if view.Key != "" {
			key := m[view.Key]
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		res = append(res, m)
	}
	return res, true
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// normalizeRule accepts both "reviews.customer" and the "-reviews.customer"
// form used by declarative serializer rule lists.
func normalizeRule(rule string) string {
	return strings.Trim(strings.TrimPrefix(strings.TrimSpace(rule), "-"), ".")
}
