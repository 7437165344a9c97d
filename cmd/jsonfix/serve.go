//
// Tencent is pleased to support the open source community by making trpc-jsonfix-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-jsonfix-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	itelemetry "trpc.group/trpc-go/trpc-jsonfix-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	"trpc.group/trpc-go/trpc-jsonfix-go/server/api"
	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-jsonfix-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-jsonfix-go/validator"
)

const (
	defaultAddr       = ":8080"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second

	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

type serveOptions struct {
	addr           string
	otelEndpoint   string
	otelProtocol   string
	poolSize       int
	maxBodyBytes   int64
	allowedOrigins []string
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve format, repair and check over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.otelEndpoint, "otel-endpoint", "",
		"OTLP collector host:port; telemetry is off unless this or "+envOTLPEndpoint+" is set")
	cmd.Flags().StringVar(&opts.otelProtocol, "otel-protocol", itelemetry.ProtocolGRPC, "OTLP protocol: grpc or http")
	cmd.Flags().IntVar(&opts.poolSize, "pool-size", 8, "workers for batch checks, 0 to check serially")
	cmd.Flags().Int64Var(&opts.maxBodyBytes, "max-body-bytes", 10<<20, "request body limit in bytes")
	cmd.Flags().StringSliceVar(&opts.allowedOrigins, "allowed-origins", []string{"*"}, "CORS allowed origins")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	if opts.otelProtocol != itelemetry.ProtocolGRPC && opts.otelProtocol != itelemetry.ProtocolHTTP {
		return fmt.Errorf("unsupported otel protocol %q", opts.otelProtocol)
	}
	if opts.otelEndpoint != "" || os.Getenv(envOTLPEndpoint) != "" {
		clean, err := startTelemetry(ctx, opts)
		if err != nil {
			return err
		}
		defer clean()
	}

	v, err := validator.New(validator.WithPoolSize(opts.poolSize))
	if err != nil {
		return fmt.Errorf("create validator: %w", err)
	}
	defer v.Close()

	srv, err := api.New(
		api.WithValidator(v),
		api.WithMaxBodyBytes(opts.maxBodyBytes),
		api.WithAllowedOrigins(opts.allowedOrigins...),
	)
	if err != nil {
		return err
	}
	defer srv.Close()

	ln, err := net.Listen("tcp", opts.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", opts.addr, err)
	}
	return serve(ctx, ln, srv.Handler())
}

// startTelemetry installs the OTLP trace and meter providers.
// The returned function flushes both and never fails.
func startTelemetry(ctx context.Context, opts serveOptions) (func(), error) {
	traceOpts := []trace.Option{trace.WithProtocol(opts.otelProtocol)}
	metricOpts := []metric.Option{metric.WithProtocol(opts.otelProtocol)}
	if opts.otelEndpoint != "" {
		traceOpts = append(traceOpts, trace.WithEndpoint(opts.otelEndpoint))
		metricOpts = append(metricOpts, metric.WithEndpoint(opts.otelEndpoint))
	}

	cleanTrace, err := trace.Start(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("start trace: %w", err)
	}
	cleanMetric, err := metric.Start(ctx, metricOpts...)
	if err != nil {
		if cerr := cleanTrace(); cerr != nil {
			log.Errorf("jsonfix: failed to shutdown tracer provider: %v", cerr)
		}
		return nil, fmt.Errorf("start metric: %w", err)
	}
	log.Infof("jsonfix: exporting telemetry over %s", opts.otelProtocol)
	return func() {
		if err := cleanMetric(); err != nil {
			log.Errorf("jsonfix: failed to shutdown meter provider: %v", err)
		}
		if err := cleanTrace(); err != nil {
			log.Errorf("jsonfix: failed to shutdown tracer provider: %v", err)
		}
	}, nil
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	httpServer := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	log.Infof("jsonfix: listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("jsonfix: server stopped")
	return nil
}
