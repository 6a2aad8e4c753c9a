package model

import "sort"

// ValueKind discriminates the variants of Value.
type ValueKind int

const (
	// Null is the zero Value.
	Null ValueKind = iota
	// String is a plain string literal.
	String
	// Number is a numeric literal.
	Number
	// Bool is a boolean literal.
	Bool
	// List is an ordered sequence of Values.
	List
	// Map is a keyed collection of Values.
	Map
	// Expr carries the raw source text of an expression that could not be
	// evaluated statically, such as one containing references to other
	// blocks. The resolver scans Expr values in full.
	Expr
)

func (k ValueKind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Map:
		return "map"
	case Expr:
		return "expr"
	default:
		return "null"
	}
}

// Value is a tagged-variant attribute value: string | number | bool |
// list | map | raw expression text. Attributes keep their raw parsed form
// so the resolver can recurse through them without type-casing ambiguity.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []Value
	mapv map[string]Value
}

// NullVal returns the null Value.
func NullVal() Value { return Value{} }

// StringVal wraps a string literal.
func StringVal(s string) Value { return Value{kind: String, str: s} }

// NumberVal wraps a numeric literal.
func NumberVal(n float64) Value { return Value{kind: Number, num: n} }

// BoolVal wraps a boolean literal.
func BoolVal(b bool) Value { return Value{kind: Bool, b: b} }

// ListVal wraps an ordered sequence.
func ListVal(items []Value) Value { return Value{kind: List, list: items} }

// MapVal wraps a keyed collection.
func MapVal(items map[string]Value) Value { return Value{kind: Map, mapv: items} }

// ExprVal wraps the raw source text of an unevaluated expression.
func ExprVal(src string) Value { return Value{kind: Expr, str: src} }

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsString returns the string payload of a String or Expr value.
func (v Value) AsString() string { return v.str }

// AsNumber returns the numeric payload of a Number value.
func (v Value) AsNumber() float64 { return v.num }

// AsBool returns the boolean payload of a Bool value.
func (v Value) AsBool() bool { return v.b }

// AsList returns the elements of a List value.
func (v Value) AsList() []Value { return v.list }

// AsMap returns the entries of a Map value.
func (v Value) AsMap() map[string]Value { return v.mapv }

// Walk visits v and every nested Value depth-first. Map entries are
// visited in sorted key order so traversal is deterministic.
func (v Value) Walk(fn func(Value)) {
	fn(v)
	switch v.kind {
	case List:
		for _, item := range v.list {
			item.Walk(fn)
		}
	case Map:
		keys := make([]string, 0, len(v.mapv))
		for k := range v.mapv {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			v.mapv[k].Walk(fn)
		}
	}
}
