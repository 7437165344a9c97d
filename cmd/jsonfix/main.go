//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

// Command jsonfix validates, formats and repairs JSON documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "jsonfix:", err)
		}
		os.Exit(1)
	}
}
