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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	itelemetry "trpc.group/trpc-go/trpc-jsonfix-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-jsonfix-go/log"
	semconvtrace "trpc.group/trpc-go/trpc-jsonfix-go/telemetry/semconv/trace"
)

type checkParam struct {
	idx     int
	ctx     context.Context
	doc     Document
	v       *Validator
	reports []Report
	wg      *sync.WaitGroup
}

func (p *checkParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.doc = Document{}
	p.v = nil
	p.reports = nil
	p.wg = nil
}

var checkParamPool = &sync.Pool{
	New: func() any { return new(checkParam) },
}

func newCheckPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*checkParam)
		if !ok {
			panic("check pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			checkParamPool.Put(param)
		}()
		param.reports[param.idx] = param.v.check(param.ctx, param.doc)
	})
	if err != nil {
		return nil, fmt.Errorf("create check pool: %w", err)
	}
	return pool, nil
}

// CheckBatch checks every document and returns one report per document, in order.
// Documents are checked concurrently on the worker pool when one is configured.
// It fails only when ctx is done before all documents were submitted.
func (v *Validator) CheckBatch(ctx context.Context, docs []Document) ([]Report, error) {
	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameCheckBatch)
	defer span.End()
	span.SetAttributes(attribute.Int(semconvtrace.KeyBatchSize, len(docs)))

	if v.pool == nil {
		return v.checkSerial(ctx, docs)
	}
	return v.checkParallel(ctx, docs)
}

func (v *Validator) checkSerial(ctx context.Context, docs []Document) ([]Report, error) {
	reports := make([]Report, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		reports = append(reports, v.check(ctx, doc))
	}
	return reports, nil
}

func (v *Validator) checkParallel(ctx context.Context, docs []Document) ([]Report, error) {
	reports := make([]Report, len(docs))
	var wg sync.WaitGroup
	for idx, doc := range docs {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		param := checkParamPool.Get().(*checkParam)
		param.idx = idx
		param.ctx = ctx
		param.doc = doc
		param.v = v
		param.reports = reports
		param.wg = &wg
		if err := v.pool.Invoke(param); err != nil {
			wg.Done()
			log.WarnfContext(ctx, "check batch: submit %s: %v", doc.Name, err)
			reports[idx] = Report{
				Name:    doc.Name,
				Message: fmt.Sprintf("submit check task: %v", err),
			}
			param.reset()
			checkParamPool.Put(param)
		}
	}
	wg.Wait()
	return reports, nil
}
