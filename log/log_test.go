//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-jsonfix-go/log"
)

// TestHelpersDelegate verifies the package helpers reach the configured loggers.
func TestHelpersDelegate(t *testing.T) {
	oldDefault, oldContext := log.Default, log.ContextDefault
	t.Cleanup(func() {
		log.Default, log.ContextDefault = oldDefault, oldContext
	})
	plain := &countLogger{}
	withCtx := &countLogger{}
	log.Default, log.ContextDefault = plain, withCtx

	ctx := context.Background()
	log.Debugf("a %d", 1)
	log.Info("b")
	log.Infof("c %d", 2)
	log.Warnf("d")
	log.Errorf("e")
	log.DebugfContext(ctx, "f")
	log.InfofContext(ctx, "g")
	log.WarnfContext(ctx, "h")
	log.ErrorfContext(ctx, "i")

	require.Equal(t, 5, plain.calls)
	require.Equal(t, 4, withCtx.calls)
}

// TestSetupJSON verifies the JSON encoder writes one object per entry.
func TestSetupJSON(t *testing.T) {
	oldDefault, oldContext := log.Default, log.ContextDefault
	t.Cleanup(func() {
		log.Default, log.ContextDefault = oldDefault, oldContext
	})
	var buf bytes.Buffer
	log.Setup(&buf, log.FormatJSON)
	log.Infof("repaired %d actions", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "repaired 3 actions", entry["message"])
	require.Equal(t, "info", entry["lvl"])
}

// TestParseLevel verifies level names are normalised and unknown names rejected.
func TestParseLevel(t *testing.T) {
	level, err := log.ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, log.LevelDebug, level)

	_, err = log.ParseLevel("verbose")
	require.Error(t, err)
}

type countLogger struct {
	calls int
}

func (c *countLogger) Debug(args ...any)                 { c.calls++ }
func (c *countLogger) Debugf(format string, args ...any) { c.calls++ }
func (c *countLogger) Info(args ...any)                  { c.calls++ }
func (c *countLogger) Infof(format string, args ...any)  { c.calls++ }
func (c *countLogger) Warn(args ...any)                  { c.calls++ }
func (c *countLogger) Warnf(format string, args ...any)  { c.calls++ }
func (c *countLogger) Error(args ...any)                 { c.calls++ }
func (c *countLogger) Errorf(format string, args ...any) { c.calls++ }
