//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package api

import "trpc.group/trpc-go/trpc-jsonfix-go/validator"

// Option configures the API server.
type Option func(*options)

// options holds the configuration for the API server.
type options struct {
	basePath       string               // basePath prefixes every versioned route.
	validator      *validator.Validator // validator serves the requests; owned by the server when nil.
	maxBodyBytes   int64
	allowedOrigins []string
}

// WithBasePath sets the base path for the versioned routes.
// Default is "/v1".
func WithBasePath(path string) Option {
	return func(opts *options) {
		opts.basePath = path
	}
}

// WithValidator sets the validator used to serve requests.
// If not provided, the server creates one and releases it on Close.
func WithValidator(v *validator.Validator) Option {
	return func(opts *options) {
		opts.validator = v
	}
}

// WithMaxBodyBytes limits the request body size.
// Default is 10 MiB.
func WithMaxBodyBytes(n int64) Option {
	return func(opts *options) {
		if n > 0 {
			opts.maxBodyBytes = n
		}
	}
}

// WithAllowedOrigins sets the CORS allowed origins.
// Default allows any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(opts *options) {
		opts.allowedOrigins = origins
	}
}
