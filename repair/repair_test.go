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
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-jsonfix-go/formatter"
	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
	"trpc.group/trpc-go/trpc-jsonfix-go/source"
)

func kinds(actions []Action) []ActionKind {
	out := make([]ActionKind, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Kind)
	}
	return out
}

// TestRepair_CanonicalExamples verifies the documented repairs end in canonical output.
func TestRepair_CanonicalExamples(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"trailing comma", `{"a":1,}`, "{\n  \"a\": 1\n}"},
		{"unquoted key", `{a: 1}`, "{\n  \"a\": 1\n}"},
		{"missing brackets", `{"a": [1, 2`, "{\n  \"a\": [\n    1,\n    2\n  ]\n}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Repair(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.want, formatter.Format(res.Value, formatter.DefaultIndent))
		})
	}
}

// TestRepair_Rules verifies each heuristic's rewritten text and recorded actions.
func TestRepair_Rules(t *testing.T) {
	cases := []struct {
		name  string
		input string
		text  string
		kinds []ActionKind
	}{
		{
			name:  "trailing comma in object",
			input: `{"a":1,}`,
			text:  `{"a":1}`,
			kinds: []ActionKind{TrailingCommaRemoved},
		},
		{
			name:  "trailing comma in array",
			input: "[1, 2,\n]",
			text:  "[1, 2\n]",
			kinds: []ActionKind{TrailingCommaRemoved},
		},
		{
			name:  "unquoted keys",
			input: `{a: 1, $b_2: 2}`,
			text:  `{"a": 1, "$b_2": 2}`,
			kinds: []ActionKind{KeyQuoted, KeyQuoted},
		},
		{
			name:  "comments",
			input: "{// c\n\"a\": 1 /* x */}",
			text:  "{\n\"a\": 1 }",
			kinds: []ActionKind{CommentStripped, CommentStripped},
		},
		{
			name:  "single quotes",
			input: `{'a': 'say "hi"'}`,
			text:  `{"a": "say \"hi\""}`,
			kinds: []ActionKind{QuotesConverted, QuotesConverted},
		},
		{
			name:  "escaped single quote",
			input: `['it\'s']`,
			text:  `["it's"]`,
			kinds: []ActionKind{QuotesConverted},
		},
		{
			name:  "lossy literals",
			input: `[NaN, undefined, Infinity, -Infinity]`,
			text:  `[null, null, null, null]`,
			kinds: []ActionKind{LiteralReplaced, LiteralReplaced, LiteralReplaced, LiteralReplaced},
		},
		{
			name:  "missing closers",
			input: `{"a": [1, 2`,
			text:  `{"a": [1, 2]}`,
			kinds: []ActionKind{BracketClosed, BracketClosed},
		},
		{
			name:  "dangling comma before end",
			input: `[1,`,
			text:  `[1]`,
			kinds: []ActionKind{TrailingCommaRemoved, BracketClosed},
		},
		{
			name:  "trailing comma after root value",
			input: `1,`,
			text:  `1`,
			kinds: []ActionKind{TrailingCommaRemoved},
		},
		{
			name:  "trailing comma after root object",
			input: `{"a":1},`,
			text:  `{"a":1}`,
			kinds: []ActionKind{TrailingCommaRemoved},
		},
		{
			name:  "missing commas in array",
			input: `[1 2 "x"]`,
			text:  `[1, 2, "x"]`,
			kinds: []ActionKind{CommaInserted, CommaInserted},
		},
		{
			name:  "missing comma in object",
			input: "{\"a\":1\n\"b\":{}}",
			text:  "{\"a\":1,\n\"b\":{}}",
			kinds: []ActionKind{CommaInserted},
		},
		{
			name:  "python keywords",
			input: `{"ok": True, "no": False, "v": None}`,
			text:  `{"ok": true, "no": false, "v": null}`,
			kinds: []ActionKind{KeywordNormalized, KeywordNormalized, KeywordNormalized},
		},
		{
			name:  "typographic quotes",
			input: `{“a”: ‘b’}`,
			text:  `{"a": "b"}`,
			kinds: []ActionKind{QuotesConverted, QuotesConverted},
		},
		{
			name:  "unterminated string",
			input: `["abc`,
			text:  `["abc"]`,
			kinds: []ActionKind{StringClosed, BracketClosed},
		},
		{
			name:  "raw control character",
			input: "[\"a\tb\"]",
			text:  `["a\tb"]`,
			kinds: []ActionKind{ControlCharEscaped},
		},
		{
			name:  "special whitespace",
			input: "{\u00a0\"a\": 1}",
			text:  `{ "a": 1}`,
			kinds: []ActionKind{WhitespaceNormalized},
		},
		{
			name:  "missing colon",
			input: `{"a" 1}`,
			text:  `{"a": 1}`,
			kinds: []ActionKind{ColonInserted},
		},
		{
			name:  "missing colon before string",
			input: `{"a" "b", c [2]}`,
			text:  `{"a": "b", "c": [2]}`,
			kinds: []ActionKind{ColonInserted, KeyQuoted, ColonInserted},
		},
		{
			name:  "doubled comma",
			input: `{"a":1 , , "b":2}`,
			text:  `{"a":1 ,  "b":2}`,
			kinds: []ActionKind{CommaRemoved},
		},
		{
			name:  "leading and doubled commas in array",
			input: `[,1,,2,]`,
			text:  `[1,2]`,
			kinds: []ActionKind{CommaRemoved, CommaRemoved, TrailingCommaRemoved},
		},
		{
			name:  "truncated numbers",
			input: `[1e, 1., -, 2E+]`,
			text:  `[1e0, 1.0, -0, 2E+0]`,
			kinds: []ActionKind{NumberCompleted, NumberCompleted, NumberCompleted, NumberCompleted},
		},
		{
			name:  "truncated exponent",
			input: `[1e]`,
			text:  `[1e0]`,
			kinds: []ActionKind{NumberCompleted},
		},
		{
			name:  "truncated fraction",
			input: `[1.]`,
			text:  `[1.0]`,
			kinds: []ActionKind{NumberCompleted},
		},
		{
			name:  "ellipsis in array",
			input: `[1, 2, ...]`,
			text:  `[1, 2 ]`,
			kinds: []ActionKind{EllipsisRemoved, TrailingCommaRemoved},
		},
		{
			name:  "ellipsis in object",
			input: `{"a": 1, ...}`,
			text:  `{"a": 1 }`,
			kinds: []ActionKind{EllipsisRemoved, TrailingCommaRemoved},
		},
		{
			name:  "string concatenation",
			input: `"a" + "b"`,
			text:  `"ab"`,
			kinds: []ActionKind{StringsConcatenated},
		},
		{
			name:  "concatenation of mixed quotes",
			input: "{\"k\": \"a\" +\n 'b' + \"c\"}",
			text:  `{"k": "abc"}`,
			kinds: []ActionKind{StringsConcatenated, QuotesConverted, StringsConcatenated},
		},
		{
			name:  "extra object closer",
			input: `{"a":1}}`,
			text:  `{"a":1}`,
			kinds: []ActionKind{BracketRemoved},
		},
		{
			name:  "extra array closer",
			input: `[1,]]`,
			text:  `[1]`,
			kinds: []ActionKind{TrailingCommaRemoved, BracketRemoved},
		},
		{
			name:  "closer of an outer container",
			input: `{"a": [1, 2}`,
			text:  `{"a": [1, 2]}`,
			kinds: []ActionKind{BracketClosed},
		},
		{
			name:  "closer of no open container",
			input: `[1}`,
			text:  `[1]`,
			kinds: []ActionKind{BracketRemoved, BracketClosed},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Repair(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.text, res.Text)
			assert.Equal(t, tc.kinds, kinds(res.Actions))
			assert.True(t, res.Changed())
			require.NotNil(t, res.Value)
		})
	}
}

// TestRepair_CodeFence verifies a markdown fence is stripped and positions still refer to the input.
func TestRepair_CodeFence(t *testing.T) {
	input := "```json\n{\"a\": 1,}\n```\n"
	res, err := Repair(input)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, formatter.Compact(res.Value))
	require.Equal(t, []ActionKind{CodeFenceStripped, TrailingCommaRemoved}, kinds(res.Actions))
	require.Equal(t, source.Position{Offset: 16, Line: 2, Column: 9}, res.Actions[1].Position)
}

// TestFencedBody verifies the content range of the first fenced block is found.
func TestFencedBody(t *testing.T) {
	src := "```json\n[1]\n```\n```\n{}\n```"
	start, end, ok := fencedBody(src)
	require.True(t, ok)
	require.Equal(t, "[1]", strings.TrimSpace(src[start:end]))

	_, _, ok = fencedBody("```\n```")
	require.False(t, ok)
	_, _, ok = fencedBody("no fence")
	require.False(t, ok)
}

// TestRepair_ActionPositions verifies actions point into the original text.
func TestRepair_ActionPositions(t *testing.T) {
	res, err := Repair("{\n  a: 1}")
	require.NoError(t, err)
	require.Len(t, res.Actions, 1)
	require.Equal(t, KeyQuoted, res.Actions[0].Kind)
	require.Equal(t, "a", res.Actions[0].Fragment)
	require.Equal(t, source.Position{Offset: 4, Line: 2, Column: 3}, res.Actions[0].Position)
}

// TestRepair_ValidInputUntouched verifies valid documents pass through without rewriting.
func TestRepair_ValidInputUntouched(t *testing.T) {
	input := "{ \"a\" :[1,2] }"
	res, err := Repair(input)
	require.NoError(t, err)
	require.Equal(t, input, res.Text)
	require.False(t, res.Changed())
	require.Empty(t, res.Actions)
}

// TestRepair_Failures verifies unrepairable input reports the generic failure.
func TestRepair_Failures(t *testing.T) {
	inputs := []string{
		`{{{`,
		`{"a":`,
		``,
		`[1] [2]`,
		`{"a"}`,
		`{"a": "b": 1}`,
		`[foo]`,
		`+1`,
		`,1`,
		`"a" + `,
		`@`,
	}
	for _, input := range inputs {
		_, err := Repair(input)
		require.ErrorIs(t, err, ErrUnableToRepair, "input %q", input)
		require.Equal(t, FailureMessage, err.Error())
	}
}

// TestRepair_MaxDepth verifies the depth limit also applies to the verification pass.
func TestRepair_MaxDepth(t *testing.T) {
	_, err := Repair(`[[[1]]]`, parser.WithMaxDepth(2))
	require.ErrorIs(t, err, ErrUnableToRepair)
}

// TestRewrite_Terminates verifies the rewriter finishes on hostile input.
func TestRewrite_Terminates(t *testing.T) {
	inputs := []string{
		"", "/", "/*", "//", "\\", "\"\\", "'", "-", "+", "```", "```json",
		"}}}]]]", "::,,", "{,}", "[,]", "\x00\x01", "\xff\xfe", "“", "{a", "[-Infinity",
		"...", "[...", "\"a\" +", "\"a\" + '", "1e", "[,,,]", "{:}", "]{",
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, input := range inputs {
			_ = Rewrite(input)
			_, _ = Repair(input)
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("rewrite did not terminate")
	}
}

// TestRewrite_LongLine verifies repairing a 100 KB single-line document stays linear.
func TestRewrite_LongLine(t *testing.T) {
	input := "[" + strings.Repeat("1 ", 50000) + "]"
	done := make(chan *Result, 1)
	go func() {
		done <- Rewrite(input)
	}()
	select {
	case res := <-done:
		require.Len(t, res.Actions, 49999)
		last := res.Actions[len(res.Actions)-1]
		assert.Equal(t, CommaInserted, last.Kind)
		assert.Equal(t, source.Position{Offset: 99999, Line: 1, Column: 100000}, last.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("rewriting a long line took too long")
	}
}

// TestRewrite_Deterministic verifies identical input yields identical output.
func TestRewrite_Deterministic(t *testing.T) {
	input := `{a: 'x', b: [1 2,], // c
	}`
	first := Rewrite(input)
	second := Rewrite(input)
	require.Equal(t, first, second)
}

// TestAction_Encoding verifies action kinds render by name.
func TestAction_Encoding(t *testing.T) {
	a := Action{Kind: KeyQuoted, Position: source.Position{Offset: 1, Line: 1, Column: 2}, Fragment: "a"}
	require.Equal(t, `key_quoted at line 1, column 2: "a"`, a.String())
	require.Equal(t, "bracket_closed at line 1, column 1", Action{Kind: BracketClosed, Position: source.Position{Line: 1, Column: 1}}.String())
	require.Equal(t, "unknown", ActionKind(0).String())

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"kind":"key_quoted","position":{"offset":1,"line":1,"column":2},"fragment":"a"}`, string(raw))

	var decoded Action
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, a, decoded)
	require.Error(t, json.Unmarshal([]byte(`{"kind":"sharpened"}`), &decoded))
}
