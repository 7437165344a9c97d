//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package validator

import (
	"runtime"

	"trpc.group/trpc-go/trpc-jsonfix-go/formatter"
	"trpc.group/trpc-go/trpc-jsonfix-go/parser"
)

// Option configures a Validator.
type Option func(*options)

type options struct {
	indent   int
	maxDepth int
	poolSize int
}

func defaultOptions() options {
	return options{
		indent:   formatter.DefaultIndent,
		maxDepth: parser.DefaultMaxDepth,
		poolSize: runtime.GOMAXPROCS(0),
	}
}

// WithIndent sets the number of spaces per nesting level of formatted output.
// Zero or a negative value produces compact output.
func WithIndent(indent int) Option {
	return func(o *options) {
		o.indent = indent
	}
}

// WithMaxDepth bounds the nesting depth accepted by the strict parser.
// Values <= 0 restore parser.DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = parser.DefaultMaxDepth
		}
		o.maxDepth = depth
	}
}

// WithPoolSize sets how many documents CheckBatch validates concurrently.
// Zero disables the worker pool and checks documents one after another.
func WithPoolSize(size int) Option {
	return func(o *options) {
		o.poolSize = size
	}
}
