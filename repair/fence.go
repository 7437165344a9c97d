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

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const fenceMarker = "```"

// stripCodeFence replaces r.text with the body of a leading markdown code
// block, as produced by chat models wrapping JSON in ```json fences.
func (r *rewriter) stripCodeFence() {
	if !strings.HasPrefix(strings.TrimSpace(r.text), fenceMarker) {
		return
	}
	start, end, ok := fencedBody(r.text)
	if !ok {
		return
	}
	r.record(CodeFenceStripped, 0, fenceMarker)
	r.base = start
	r.text = r.text[start:end]
}

// fencedBody returns the byte range of the first fenced code block's content.
func fencedBody(src string) (start, end int, ok bool) {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, isFence := n.(*ast.FencedCodeBlock)
		if !isFence {
			return ast.WalkContinue, nil
		}
		lines := block.Lines()
		if lines.Len() == 0 {
			return ast.WalkStop, nil
		}
		start = lines.At(0).Start
		end = lines.At(lines.Len() - 1).Stop
		ok = true
		return ast.WalkStop, nil
	})
	if err != nil {
		return 0, 0, false
	}
	return start, end, ok
}
