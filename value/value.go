//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package value defines the in-memory tree of a parsed JSON document.
package value

import (
	"math/big"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of a JSON tree. Children are owned by their parent.
// Numbers keep their source text so formatting never changes their digits.
type Value struct {
	kind    Kind
	boolean bool
	text    string // number literal or unescaped string
	items   []*Value
	members []Member
}

// Null returns a null value.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) *Value { return &Value{kind: KindBool, boolean: b} }

// Number returns a number value holding the literal as written.
// The literal must follow the JSON number grammar.
func Number(literal string) *Value { return &Value{kind: KindNumber, text: literal} }

// String returns a string value.
func String(s string) *Value { return &Value{kind: KindString, text: s} }

// Array returns an array value with the given items.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, items: items}
}

// Object returns an object value with the given members in order.
func Object(members ...Member) *Value {
	if members == nil {
		members = []Member{}
	}
	return &Value{kind: KindObject, members: members}
}

// Kind returns the variant of v.
func (v *Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v *Value) IsNull() bool { return v.kind == KindNull }

// BoolValue returns the boolean held by v.
func (v *Value) BoolValue() bool { return v.boolean }

// NumberText returns the number literal held by v.
func (v *Value) NumberText() string { return v.text }

// Float64 converts a number to float64, which may lose precision.
func (v *Value) Float64() (float64, error) {
	return strconv.ParseFloat(v.text, 64)
}

// Int64 converts an integral number to int64.
func (v *Value) Int64() (int64, error) {
	return strconv.ParseInt(v.text, 10, 64)
}

// Str returns the string held by v.
func (v *Value) Str() string { return v.text }

// Items returns the elements of an array.
func (v *Value) Items() []*Value { return v.items }

// Members returns the members of an object in source order, duplicates included.
func (v *Value) Members() []Member { return v.members }

// Len returns the number of elements or members of a container, 0 otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Append adds items to an array.
func (v *Value) Append(items ...*Value) {
	v.items = append(v.items, items...)
}

// Set appends a member to an object. Existing members with the same key are kept.
func (v *Value) Set(key string, val *Value) {
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Get looks up key in an object. When a key repeats, the last member wins.
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, true
		}
	}
	return nil, false
}

// Index returns the i-th element of an array.
func (v *Value) Index(i int) (*Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return nil, false
	}
	return v.items[i], true
}

// Equal reports whether two trees are deeply equal.
// Numbers compare by numeric value, objects by member order and keys.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return numbersEqual(a.text, b.text)
	case KindString:
		return a.text == b.text
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

const numberPrecision = 512

func numbersEqual(x, y string) bool {
	if x == y {
		return true
	}
	fx, _, errX := big.ParseFloat(x, 10, numberPrecision, big.ToNearestEven)
	fy, _, errY := big.ParseFloat(y, 10, numberPrecision, big.ToNearestEven)
	if errX != nil || errY != nil {
		return false
	}
	return fx.Cmp(fy) == 0
}
