//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package source

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecode_UTF8 verifies plain and BOM-prefixed UTF-8 input.
func TestDecode_UTF8(t *testing.T) {
	got, err := Decode([]byte(`{"a":1}`))
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, got)

	got, err = Decode(append([]byte{0xEF, 0xBB, 0xBF}, []byte(`[]`)...))
	require.NoError(t, err)
	require.Equal(t, `[]`, got)
}

// TestDecode_UTF16 verifies both UTF-16 byte orders are transcoded.
func TestDecode_UTF16(t *testing.T) {
	le := []byte{0xFF, 0xFE, '[', 0, '1', 0, ']', 0}
	got, err := Decode(le)
	require.NoError(t, err)
	require.Equal(t, "[1]", got)

	be := []byte{0xFE, 0xFF, 0, '"', 0x00, 0xE9, 0, '"'}
	got, err = Decode(be)
	require.NoError(t, err)
	require.Equal(t, "\"é\"", got)
}

// TestDecode_InvalidUTF8 verifies malformed input is rejected.
func TestDecode_InvalidUTF8(t *testing.T) {
	_, err := Decode([]byte{'"', 0xFF, '"'})
	require.ErrorIs(t, err, ErrInvalidUTF8)
}
