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
	"strings"
	"unicode/utf8"

	"trpc.group/trpc-go/trpc-jsonfix-go/lexer"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

// slot is what the enclosing container expects next.
type slot uint8

const (
	slotValue slot = iota
	slotKey
	slotColon
	slotCommaOrClose
)

// frame is one open container. The root frame has open == 0.
type frame struct {
	open  byte
	slot  slot
	comma int // comma is the output index of a comma not yet followed by a value, or -1.
}

type rewriter struct {
	text    string
	base    int // base is the offset of text inside the original input.
	i       int
	output  []byte
	cursor  *source.Cursor // cursor resolves action offsets against the original input.
	actions []Action
	stack   []frame
}

// Rewrite applies the repair heuristics in one pass without verifying the result.
// It always terminates: every step consumes input or stops at the end.
func Rewrite(text string) *Result {
	r := &rewriter{
		text:   text,
		cursor: source.NewLineTable(text).Cursor(),
		output: make([]byte, 0, len(text)+8),
		stack:  []frame{{comma: -1}},
	}
	r.stripCodeFence()
	for r.i < len(r.text) {
		r.step()
	}
	r.finish()
	return &Result{Text: string(r.output), Actions: r.actions}
}

func (r *rewriter) step() {
	c := r.text[r.i]
	switch {
	case lexer.IsWhitespace(rune(c)):
		r.output = append(r.output, c)
		r.i++
	case c == '/' && r.parseComment():
	case c == '.' && r.parseEllipsis():
	case c == '{' || c == '[':
		r.parseOpen(c)
	case c == '}' || c == ']':
		r.parseClose(c)
	case c == ':':
		r.parseColon()
	case c == ',':
		r.parseComma()
	case c == '"' || c == '\'':
		r.parseString()
	case c == '-' || c == '+' || lexer.IsDigit(rune(c)):
		r.parseNumber()
	case lexer.IsIdentStart(rune(c)):
		r.parseWord()
	default:
		r.parseOther()
	}
}

func (r *rewriter) top() *frame {
	return &r.stack[len(r.stack)-1]
}

func (r *rewriter) record(kind ActionKind, offset int, fragment string) {
	r.actions = append(r.actions, Action{
		Kind:     kind,
		Position: r.cursor.Resolve(r.base + offset),
		Fragment: fragment,
	})
}

// beginItem prepares the output for a value or key starting at r.i.
// A missing comma between two items, or a missing colon after a key, is
// inserted here. It reports whether the item is an object key and whether
// it fits the structure at all.
func (r *rewriter) beginItem() (isKey bool, ok bool) {
	f := r.top()
	switch {
	case f.slot == slotCommaOrClose && f.open != 0:
		r.output = insertBeforeLastWhitespace(r.output, ',')
		r.record(CommaInserted, r.i, "")
		f.slot = f.itemSlot()
	case f.slot == slotColon:
		r.output = insertBeforeLastWhitespace(r.output, ':')
		r.record(ColonInserted, r.i, "")
		f.slot = slotValue
	}
	switch f.slot {
	case slotKey:
		return true, true
	case slotValue:
		return false, true
	default:
		return false, false
	}
}

// itemSlot is the slot that follows a comma in the container.
func (f *frame) itemSlot() slot {
	if f.open == '{' {
		return slotKey
	}
	return slotValue
}

// endItem advances the enclosing container past a completed key or value.
func (r *rewriter) endItem(isKey bool) {
	f := r.top()
	f.comma = -1
	if isKey {
		f.slot = slotColon
		return
	}
	f.slot = slotCommaOrClose
}

// parseComment strips a // or /* */ comment. It reports false for a lone '/'.
func (r *rewriter) parseComment() bool {
	if r.i+1 >= len(r.text) {
		return false
	}
	start := r.i
	switch r.text[r.i+1] {
	case '/':
		end := strings.IndexByte(r.text[start:], '\n')
		if end < 0 {
			r.i = len(r.text)
		} else {
			r.i = start + end
		}
	case '*':
		end := strings.Index(r.text[start+2:], "*/")
		if end < 0 {
			r.i = len(r.text)
		} else {
			r.i = start + 2 + end + 2
		}
	default:
		return false
	}
	r.record(CommentStripped, start, r.text[start:r.i])
	return true
}

func (r *rewriter) parseOpen(c byte) {
	isKey, ok := r.beginItem()
	if isKey {
		ok = false
	}
	if ok {
		// The container is the pending value; mark it done now so the parent
		// expects a separator once the container closes.
		r.endItem(false)
	}
	slot := slotValue
	if c == '{' {
		slot = slotKey
	}
	r.stack = append(r.stack, frame{open: c, slot: slot, comma: -1})
	r.output = append(r.output, c)
	r.i++
}

// parseClose closes the innermost container that c matches, closing any
// containers opened inside it first. A closer matching no open container is dropped.
func (r *rewriter) parseClose(c byte) {
	depth := len(r.stack) - 1
	for depth > 0 && closerFor(r.stack[depth].open) != c {
		depth--
	}
	if depth == 0 {
		r.record(BracketRemoved, r.i, string(c))
		r.i++
		return
	}
	for len(r.stack)-1 > depth {
		f := r.top()
		r.dropTrailingComma(f)
		closer := closerFor(f.open)
		r.output = insertBeforeLastWhitespace(r.output, closer)
		r.record(BracketClosed, r.i, string(closer))
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.dropTrailingComma(r.top())
	r.stack = r.stack[:len(r.stack)-1]
	r.output = append(r.output, c)
	r.i++
}

func (r *rewriter) dropTrailingComma(f *frame) {
	if f.comma < 0 {
		return
	}
	r.output = removeAt(r.output, f.comma)
	r.record(TrailingCommaRemoved, r.i, ",")
	f.comma = -1
}

func (r *rewriter) parseColon() {
	f := r.top()
	if f.slot == slotColon {
		f.slot = slotValue
	}
	r.output = append(r.output, ':')
	r.i++
}

// parseComma tracks a separator so that it can be dropped if no item follows.
// A comma where an item is expected, leading or doubled, is removed.
func (r *rewriter) parseComma() {
	f := r.top()
	switch {
	case f.slot == slotCommaOrClose:
		f.comma = len(r.output)
		f.slot = f.itemSlot()
	case f.slot == f.itemSlot() && (f.open != 0 || f.comma >= 0):
		r.record(CommaRemoved, r.i, ",")
		r.i++
		return
	}
	r.output = append(r.output, ',')
	r.i++
}

// parseEllipsis drops a "..." placeholder standing for omitted items.
// It reports false when the dots are not in item position.
func (r *rewriter) parseEllipsis() bool {
	f := r.top()
	if !strings.HasPrefix(r.text[r.i:], "...") || f.open == 0 || f.slot == slotColon ||
		(f.open == '{' && f.slot == slotValue) {
		return false
	}
	r.record(EllipsisRemoved, r.i, "...")
	r.i += len("...")
	return true
}

// parseString copies a string, converting single or typographic quotes to double quotes.
func (r *rewriter) parseString() {
	isKey, ok := r.beginItem()
	r.copyString()
	r.concatStrings()
	if ok {
		r.endItem(isKey)
	}
}

// concatStrings merges strings joined with '+' into the string just copied.
func (r *rewriter) concatStrings() {
	for {
		plus := r.skipWhitespace(r.i)
		if plus >= len(r.text) || r.text[plus] != '+' {
			return
		}
		next := r.skipWhitespace(plus + 1)
		if next >= len(r.text) {
			return
		}
		if q, _ := utf8.DecodeRuneInString(r.text[next:]); closingQuote(q) == 0 {
			return
		}
		r.record(StringsConcatenated, plus, r.text[r.i:next])
		// Drop the closing quote of the left operand and the opening quote of the right one.
		r.output = r.output[:len(r.output)-1]
		mark := len(r.output)
		r.i = next
		r.copyString()
		r.output = removeAt(r.output, mark)
	}
}

func (r *rewriter) skipWhitespace(i int) int {
	for i < len(r.text) && lexer.IsWhitespace(rune(r.text[i])) {
		i++
	}
	return i
}

func (r *rewriter) copyString() {
	start := r.i
	open, size := utf8.DecodeRuneInString(r.text[r.i:])
	closing := closingQuote(open)
	if open != '"' {
		r.record(QuotesConverted, start, string(open))
	}
	r.i += size
	r.output = append(r.output, '"')
	for r.i < len(r.text) {
		ch, size := utf8.DecodeRuneInString(r.text[r.i:])
		switch {
		case ch == closing:
			r.output = append(r.output, '"')
			r.i += size
			return
		case ch == '\\':
			r.copyEscape()
		case ch == '"':
			r.output = append(r.output, '\\', '"')
			r.i += size
		case ch < 0x20:
			r.output = append(r.output, escapeControlCharacter(byte(ch))...)
			r.record(ControlCharEscaped, r.i, string(ch))
			r.i += size
		default:
			r.output = append(r.output, r.text[r.i:r.i+size]...)
			r.i += size
		}
	}
	r.output = append(r.output, '"')
	r.record(StringClosed, r.i, r.text[start:])
}

// copyEscape copies the escape sequence at r.i. An escaped single quote
// is not a JSON escape and is written as a plain quote.
func (r *rewriter) copyEscape() {
	if r.i+1 >= len(r.text) {
		// A dangling backslash at the end of input cannot be kept.
		r.i++
		return
	}
	if r.text[r.i+1] == '\'' {
		r.output = append(r.output, '\'')
		r.i += 2
		return
	}
	_, size := utf8.DecodeRuneInString(r.text[r.i+1:])
	r.output = append(r.output, r.text[r.i:r.i+1+size]...)
	r.i += 1 + size
}

func (r *rewriter) parseNumber() {
	start := r.i
	isKey, ok := r.beginItem()
	if ok && !isKey {
		if rest := r.text[start:]; strings.HasPrefix(rest, "-Infinity") || strings.HasPrefix(rest, "+Infinity") {
			r.replaceLiteral(start, len("-Infinity"))
			r.endItem(false)
			return
		}
	}
	end, errAt := lexer.ScanNumber(r.text, start)
	switch {
	case errAt < 0:
		r.output = append(r.output, r.text[start:end]...)
	case isTruncatedNumber(r.text, start, errAt):
		// A number cut off after '.', an exponent or a sign gets a zero digit.
		end = errAt
		r.output = append(r.output, r.text[start:end]...)
		r.output = append(r.output, '0')
		r.record(NumberCompleted, start, r.text[start:end])
	default:
		end = start + 1
		for end < len(r.text) && isNumberChar(r.text[end]) {
			end++
		}
		r.output = append(r.output, r.text[start:end]...)
	}
	r.i = end
	if ok && !isKey {
		r.endItem(false)
	}
}

var (
	nullLiterals = map[string]bool{"undefined": true, "NaN": true, "Infinity": true}
	pythonWords  = map[string]string{"True": "true", "False": "false", "None": "null"}
)

// parseWord handles identifiers: unquoted keys, literals and their look-alikes.
func (r *rewriter) parseWord() {
	start := r.i
	end := start + 1
	for end < len(r.text) && lexer.IsIdentPart(rune(r.text[end])) {
		end++
	}
	word := r.text[start:end]
	isKey, ok := r.beginItem()
	switch {
	case !ok:
		r.output = append(r.output, word...)
		r.i = end
		return
	case isKey:
		r.output = append(r.output, '"')
		r.output = append(r.output, word...)
		r.output = append(r.output, '"')
		r.record(KeyQuoted, start, word)
		r.i = end
	case nullLiterals[word]:
		r.replaceLiteral(start, len(word))
	case pythonWords[word] != "":
		r.output = append(r.output, pythonWords[word]...)
		r.record(KeywordNormalized, start, word)
		r.i = end
	default:
		// true, false, null stay as is; anything else is left for verification to reject.
		r.output = append(r.output, word...)
		r.i = end
	}
	r.endItem(isKey)
}

func (r *rewriter) replaceLiteral(start, length int) {
	r.output = append(r.output, "null"...)
	r.record(LiteralReplaced, start, r.text[start:start+length])
	r.i = start + length
}

// parseOther handles typographic quotes, special spaces and stray characters.
func (r *rewriter) parseOther() {
	ch, size := utf8.DecodeRuneInString(r.text[r.i:])
	switch {
	case closingQuote(ch) != 0:
		r.parseString()
	case isSpecialWhitespace(ch):
		r.record(WhitespaceNormalized, r.i, string(ch))
		r.output = append(r.output, ' ')
		r.i += size
	default:
		r.output = append(r.output, r.text[r.i:r.i+size]...)
		r.i += size
	}
}

// finish removes dangling commas and closes every container still open.
func (r *rewriter) finish() {
	for len(r.stack) > 1 {
		f := r.top()
		r.dropTrailingComma(f)
		closer := closerFor(f.open)
		r.output = append(r.output, closer)
		r.record(BracketClosed, r.i, string(closer))
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.dropTrailingComma(r.top())
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// closingQuote returns the quote that ends a string opened by q, or 0 if q is no quote.
func closingQuote(q rune) rune {
	switch q {
	case '"':
		return '"'
	case '\'':
		return '\''
	case '‘', '’':
		return '’'
	case '“', '”':
		return '”'
	default:
		return 0
	}
}

// isTruncatedNumber reports whether the number at start is valid up to errAt
// except for a missing digit after a trailing '.', exponent or sign.
func isTruncatedNumber(text string, start, errAt int) bool {
	if errAt <= start || (errAt < len(text) && isNumberChar(text[errAt])) {
		return false
	}
	switch text[errAt-1] {
	case '.', 'e', 'E', '+', '-':
		return true
	default:
		return false
	}
}

func isNumberChar(c byte) bool {
	return lexer.IsDigit(rune(c)) || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}
