//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package repair

import (
	"fmt"

	"trpc.group/trpc-go/trpc-jsonfix-go/lexer"
)

// insertBeforeLastWhitespace inserts c before any whitespace trailing output,
// so that `[1 2` becomes `[1, 2` rather than `[1 ,2`.
func insertBeforeLastWhitespace(output []byte, c byte) []byte {
	idx := len(output)
	for idx > 0 && lexer.IsWhitespace(rune(output[idx-1])) {
		idx--
	}
	output = append(output, 0)
	copy(output[idx+1:], output[idx:])
	output[idx] = c
	return output
}

// removeAt removes the byte at index; out-of-range indexes leave output unchanged.
func removeAt(output []byte, index int) []byte {
	if index < 0 || index >= len(output) {
		return output
	}
	return append(output[:index], output[index+1:]...)
}

// escapeControlCharacter returns the escaped representation of a control character.
func escapeControlCharacter(c byte) string {
	switch c {
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	default:
		return fmt.Sprintf(`\u%04x`, c)
	}
}

// isSpecialWhitespace reports whether r is a Unicode space that JSON does not accept.
func isSpecialWhitespace(r rune) bool {
	switch {
	case r == '\u00a0', r == '\u202f', r == '\u205f', r == '\u3000', r == '\ufeff':
		return true
	case r >= '\u2000' && r <= '\u200a':
		return true
	default:
		return false
	}
}
