//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValue_Get_LastWins verifies duplicate keys are preserved and lookup returns the last one.
func TestValue_Get_LastWins(t *testing.T) {
	obj := Object(
		Member{Key: "a", Value: Number("1")},
		Member{Key: "b", Value: Bool(true)},
		Member{Key: "a", Value: Number("2")},
	)
	require.Equal(t, 3, obj.Len())
	got, ok := obj.Get("a")
	require.True(t, ok)
	require.Equal(t, "2", got.NumberText())
	_, ok = obj.Get("missing")
	require.False(t, ok)
	_, ok = Array().Get("a")
	require.False(t, ok)
}

// TestValue_Accessors verifies scalar accessors and container helpers.
func TestValue_Accessors(t *testing.T) {
	require.True(t, Null().IsNull())
	require.True(t, Bool(true).BoolValue())
	require.Equal(t, "x", String("x").Str())

	n := Number("-12")
	i, err := n.Int64()
	require.NoError(t, err)
	require.Equal(t, int64(-12), i)
	f, err := Number("2.5e1").Float64()
	require.NoError(t, err)
	require.Equal(t, 25.0, f)

	arr := Array()
	require.Equal(t, 0, arr.Len())
	arr.Append(Null(), String("s"))
	item, ok := arr.Index(1)
	require.True(t, ok)
	require.Equal(t, KindString, item.Kind())
	_, ok = arr.Index(2)
	require.False(t, ok)

	obj := Object()
	obj.Set("k", arr)
	require.Equal(t, 1, obj.Len())
	require.Equal(t, 0, String("abc").Len())
}

// TestEqual_ReturnsExpected verifies deep equality rules.
func TestEqual_ReturnsExpected(t *testing.T) {
	require.True(t, Equal(Number("1.0"), Number("1")))
	require.True(t, Equal(Number("1e2"), Number("100")))
	require.False(t, Equal(Number("1"), Number("2")))
	require.False(t, Equal(Number("1"), String("1")))
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(Null(), nil))

	a := Object(Member{Key: "x", Value: Array(Bool(false), Null())})
	b := Object(Member{Key: "x", Value: Array(Bool(false), Null())})
	require.True(t, Equal(a, b))
	b.Set("y", Null())
	require.False(t, Equal(a, b))

	swapped := Object(Member{Key: "b", Value: Null()}, Member{Key: "a", Value: Null()})
	ordered := Object(Member{Key: "a", Value: Null()}, Member{Key: "b", Value: Null()})
	require.False(t, Equal(swapped, ordered))
}

// TestValue_Interface verifies conversion into plain Go values.
func TestValue_Interface(t *testing.T) {
	v := Object(
		Member{Key: "n", Value: Number("3")},
		Member{Key: "l", Value: Array(String("a"), Null(), Bool(true))},
		Member{Key: "n", Value: Number("4")},
	)
	require.Equal(t, map[string]any{
		"n": json.Number("4"),
		"l": []any{"a", nil, true},
	}, v.Interface())
	require.Equal(t, "number", KindNumber.String())
}
