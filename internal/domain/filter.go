package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Equality is a single equality clause on a document field. Field is a
// dotted JSON path such as "profile.firstName".
type Equality struct {
	Field string
	Value string
}

// Filter is a conjunctive predicate over one collection.
type Filter struct {
	// ExcludeDeleted drops soft-deleted documents.
	ExcludeDeleted bool
	Equals         []Equality
}

// NotDeleted is the base predicate every search starts from.
func NotDeleted() Filter {
	return Filter{ExcludeDeleted: true}
}

// And returns a copy of f with an additional equality clause.
func (f Filter) And(field, value string) Filter {
	out := Filter{
		ExcludeDeleted: f.ExcludeDeleted,
		Equals:         make([]Equality, 0, len(f.Equals)+1),
	}
	out.Equals = append(out.Equals, f.Equals...)
	out.Equals = append(out.Equals, Equality{Field: field, Value: value})
	return out
}

// Matches evaluates the equality clauses against a JSON document. The
// deleted flag is stored outside the document and is checked by the store.
func (f Filter) Matches(body []byte) (bool, error) {
	if len(f.Equals) == 0 {
		return true, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return false, fmt.Errorf("decode document: %w", err)
	}

	for _, eq := range f.Equals {
		v, ok := lookup(doc, eq.Field)
		if !ok || scalarString(v) != eq.Value {
			return false, nil
		}
	}
	return true, nil
}

func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
