package filter

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Expression is a node of a search filter tree.
//
// The concrete node types are Range, Equal, And, Or and Not. Each marshals
// to the snapshot search API's jsonFilter format and can also be evaluated
// locally against a Subject.
type Expression interface {
	// Match reports whether the subject satisfies the expression.
	Match(s Subject) bool

	expression()
}

// Subject is anything a filter can be evaluated against.
//
// FieldValues returns every value the subject holds for an API field name;
// multi-valued fields such as tags return one element per value.
type Subject interface {
	FieldValues(field string) []string
}

// Range matches when a field value lies between From and To.
//
// Bounds are compared as RFC 3339 timestamps when both the bound and the
// value parse as such, and as strings otherwise.
type Range struct {
	Field        string
	From         string
	To           string
	IncludeLower bool
	IncludeUpper bool
}

// Equal matches when any value of Field equals Value exactly.
type Equal struct {
	Field string
	Value string
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Filters []Expression
}

// Or matches when at least one child matches. An empty Or matches nothing.
type Or struct {
	Filters []Expression
}

// Not negates its child. A nil child matches nothing, so Not{} matches everything.
type Not struct {
	Filter Expression
}

func (Range) expression() {}
func (Equal) expression() {}
func (And) expression()   {}
func (Or) expression()    {}
func (Not) expression()   {}

// MarshalJSON encodes the range node.
func (r Range) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type         string `json:"type"`
		Field        string `json:"field"`
		From         string `json:"from"`
		To           string `json:"to"`
		IncludeLower bool   `json:"include_lower"`
		IncludeUpper bool   `json:"include_upper"`
	}{"range", r.Field, r.From, r.To, r.IncludeLower, r.IncludeUpper})
}

// MarshalJSON encodes the equal node.
func (e Equal) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type  string `json:"type"`
		Field string `json:"field"`
		Value string `json:"value"`
	}{"equal", e.Field, e.Value})
}

// MarshalJSON encodes the and node.
func (a And) MarshalJSON() ([]byte, error) {
	return marshalGroup("and", a.Filters)
}

// MarshalJSON encodes the or node.
func (o Or) MarshalJSON() ([]byte, error) {
	return marshalGroup("or", o.Filters)
}

// MarshalJSON encodes the not node.
func (n Not) MarshalJSON() ([]byte, error) {
	return marshal(struct {
		Type   string     `json:"type"`
		Filter Expression `json:"filter"`
	}{"not", n.Filter})
}

func marshalGroup(kind string, filters []Expression) ([]byte, error) {
	if filters == nil {
		filters = []Expression{}
	}
	return marshal(struct {
		Type    string       `json:"type"`
		Filters []Expression `json:"filters"`
	}{kind, filters})
}

// marshal encodes v compactly without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode serializes an expression to the compact JSON string sent as the
// jsonFilter query parameter.
//
// The output has no insignificant whitespace; non-ASCII text such as tag
// names is left unescaped.
func Encode(expr Expression) (string, error) {
	data, err := marshal(expr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Match implements Expression.
func (r Range) Match(s Subject) bool {
	for _, v := range s.FieldValues(r.Field) {
		if r.contains(v) {
			return true
		}
	}
	return false
}

func (r Range) contains(v string) bool {
	lower := compare(v, r.From)
	if lower < 0 || (lower == 0 && !r.IncludeLower) {
		return false
	}
	upper := compare(v, r.To)
	if upper > 0 || (upper == 0 && !r.IncludeUpper) {
		return false
	}
	return true
}

// compare orders a and b as timestamps when both parse, else as strings.
func compare(a, b string) int {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	if errA == nil && errB == nil {
		return ta.Compare(tb)
	}
	return strings.Compare(a, b)
}

// Match implements Expression.
func (e Equal) Match(s Subject) bool {
	for _, v := range s.FieldValues(e.Field) {
		if v == e.Value {
			return true
		}
	}
	return false
}

// Match implements Expression.
func (a And) Match(s Subject) bool {
	for _, f := range a.Filters {
		if !f.Match(s) {
			return false
		}
	}
	return true
}

// Match implements Expression.
func (o Or) Match(s Subject) bool {
	for _, f := range o.Filters {
		if f.Match(s) {
			return true
		}
	}
	return false
}

// Match implements Expression.
func (n Not) Match(s Subject) bool {
	return n.Filter == nil || !n.Filter.Match(s)
}
