//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package lexer

// IsWhitespace reports whether r is JSON insignificant whitespace.
func IsWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// IsDigit reports whether r is an ASCII digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// IsIdentStart reports whether r may begin an identifier such as an unquoted key.
func IsIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsIdentPart reports whether r may continue an identifier.
func IsIdentPart(r rune) bool {
	return IsIdentStart(r) || IsDigit(r)
}

// IsValueStart reports whether r can begin a JSON value.
func IsValueStart(r rune) bool {
	switch r {
	case '{', '[', '"', '-':
		return true
	}
	return IsDigit(r) || r == 't' || r == 'f' || r == 'n'
}

// ScanNumber scans a JSON number starting at start.
// It returns the end offset, and errAt >= 0 when the number is malformed
// (errAt is then the offending offset, possibly len(text)).
func ScanNumber(text string, start int) (end int, errAt int) {
	i := start
	if i < len(text) && text[i] == '-' {
		i++
	}
	switch {
	case i >= len(text) || !IsDigit(rune(text[i])):
		return i, i
	case text[i] == '0':
		i++
		if i < len(text) && IsDigit(rune(text[i])) {
			return i, i
		}
	default:
		i = skipDigits(text, i)
	}
	if i < len(text) && text[i] == '.' {
		i++
		if i >= len(text) || !IsDigit(rune(text[i])) {
			return i, i
		}
		i = skipDigits(text, i)
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		if i >= len(text) || !IsDigit(rune(text[i])) {
			return i, i
		}
		i = skipDigits(text, i)
	}
	return i, -1
}

func skipDigits(text string, i int) int {
	for i < len(text) && IsDigit(rune(text[i])) {
		i++
	}
	return i
}
