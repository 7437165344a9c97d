//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Package parser implements a strict recursive-descent JSON parser
// that reports failures with their line and column.
package parser

import (
	"fmt"

	"trpc.group/trpc-go/trpc-jsonfix-go/lexer"
	"trpc.group/trpc-go/trpc-jsonfix-go/value"
)

// DefaultMaxDepth bounds how deeply arrays and objects may nest.
const DefaultMaxDepth = 1000

const expectValue = "a value"

var (
	expectKey              = lexer.String.String()
	expectColon            = lexer.Colon.String()
	expectCommaOrObjectEnd = []string{lexer.Comma.String(), lexer.ObjectClose.String()}
	expectCommaOrArrayEnd  = []string{lexer.Comma.String(), lexer.ArrayClose.String()}
)

// Option configures Parse.
type Option func(*options)

type options struct {
	maxDepth int
}

// WithMaxDepth sets the maximum nesting depth. Values <= 0 restore the default.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		o.maxDepth = depth
	}
}

type parser struct {
	text     string
	lex      *lexer.Lexer
	tok      lexer.Token
	depth    int
	maxDepth int
}

// Parse parses text as exactly one JSON value.
// On failure the error is a *SyntaxError.
func Parse(text string, opts ...Option) (*value.Value, error) {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{text: text, lex: lexer.New(text), maxDepth: o.maxDepth}
	p.advance()
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.tok.Kind != lexer.EndOfInput {
		if p.tok.Kind == lexer.Invalid {
			return nil, p.invalidError()
		}
		return nil, p.errorAt(TrailingData, MsgTrailingData, nil)
	}
	return v, nil
}

// Valid reports whether text is strictly valid JSON.
func Valid(text string, opts ...Option) bool {
	_, err := Parse(text, opts...)
	return err == nil
}

func (p *parser) advance() {
	p.tok = p.lex.Next()
}

func (p *parser) parseValue() (*value.Value, error) {
	switch p.tok.Kind {
	case lexer.ObjectOpen:
		return p.parseObject()
	case lexer.ArrayOpen:
		return p.parseArray()
	case lexer.String:
		v := value.String(p.tok.Value)
		p.advance()
		return v, nil
	case lexer.Number:
		v := value.Number(p.tok.Text)
		p.advance()
		return v, nil
	case lexer.True, lexer.False:
		v := value.Bool(p.tok.Kind == lexer.True)
		p.advance()
		return v, nil
	case lexer.Null:
		p.advance()
		return value.Null(), nil
	default:
		return nil, p.unexpected(expectValue)
	}
}

func (p *parser) parseObject() (*value.Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.advance()
	obj := value.Object()
	if p.tok.Kind == lexer.ObjectClose {
		p.advance()
		return obj, nil
	}
	for {
		if p.tok.Kind != lexer.String {
			return nil, p.unexpected(expectKey)
		}
		key := p.tok.Value
		p.advance()
		if p.tok.Kind != lexer.Colon {
			return nil, p.unexpected(expectColon)
		}
		p.advance()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
		switch p.tok.Kind {
		case lexer.Comma:
			p.advance()
		case lexer.ObjectClose:
			p.advance()
			return obj, nil
		default:
			return nil, p.unexpected(expectCommaOrObjectEnd...)
		}
	}
}

func (p *parser) parseArray() (*value.Value, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	p.advance()
	arr := value.Array()
	if p.tok.Kind == lexer.ArrayClose {
		p.advance()
		return arr, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		switch p.tok.Kind {
		case lexer.Comma:
			p.advance()
		case lexer.ArrayClose:
			p.advance()
			return arr, nil
		default:
			return nil, p.unexpected(expectCommaOrArrayEnd...)
		}
	}
}

func (p *parser) enter() error {
	if p.depth >= p.maxDepth {
		return p.errorAt(MaxDepth, MsgMaxDepthExceeds, nil)
	}
	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// unexpected builds the error for the current token when it is not one of expected.
func (p *parser) unexpected(expected ...string) error {
	switch p.tok.Kind {
	case lexer.Invalid:
		return p.invalidError()
	case lexer.EndOfInput:
		err := p.errorAt(UnexpectedEOF, MsgUnexpectedEOF, expected)
		if p.text == "" {
			// Nothing was read: the bare message without expectation or position.
			err.Position = nil
			err.Expected = nil
		}
		return err
	default:
		msg := fmt.Sprintf("Expected %s but found %s", joinExpected(expected), p.tok.Describe())
		return p.errorAt(UnexpectedToken, msg, expected)
	}
}

func (p *parser) invalidError() *SyntaxError {
	pos := p.tok.ErrAt
	return &SyntaxError{
		Kind:     problemKind(p.tok.Problem),
		Message:  p.tok.Reason,
		Found:    p.tok.Describe(),
		Position: &pos,
	}
}

// errorAt builds an error positioned at the start of the current token.
func (p *parser) errorAt(kind ErrorKind, msg string, expected []string) *SyntaxError {
	pos := p.tok.Start
	return &SyntaxError{
		Kind:     kind,
		Message:  msg,
		Expected: expected,
		Found:    p.tok.Describe(),
		Position: &pos,
	}
}
