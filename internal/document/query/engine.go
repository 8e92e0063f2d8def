// Package query answers attribute searches by scanning every stored
// metadata record. There is no index: each Find reads and decodes all
// records.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/internal/document/codec"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/logger"
	"github.com/venkatakrishnan-tu/FileUploadRestServices/pkg/metrics"
)

// Source enumerates records and hands out their raw metadata.
// *repository.Store satisfies it.
type Source interface {
	ListIdentifiers(ctx context.Context) ([]string, error)
	ReadMetadata(ctx context.Context, id string) ([]byte, error)
}

// Filter restricts a search. Nil fields match everything; set fields are
// combined with AND.
type Filter struct {
	Author *string
	Date   *time.Time
}

type Engine struct {
	src   Source
	codec *codec.Codec
}

func New(src Source, c *codec.Codec) *Engine {
	return &Engine{src: src, codec: c}
}

// Find returns the metadata of every record matching f, in enumeration
// order. Records whose metadata cannot be read or parsed are skipped. The
// result is never nil.
func (e *Engine) Find(ctx context.Context, f Filter) (out []document.Metadata, err error) {
	start := time.Now()
	defer func() {
		result := metrics.OutcomeOK
		if err != nil {
			result = metrics.OutcomeError
		}
		metrics.Operations.WithLabelValues("find", result).Inc()
		metrics.OperationDuration.WithLabelValues("find").Observe(time.Since(start).Seconds())
	}()

	ids, err := e.src.ListIdentifiers(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate records: %w", err)
	}
	out = make([]document.Metadata, 0)
	for _, id := range ids {
		meta, ok := e.read(ctx, id)
		if !ok {
			continue
		}
		if e.matches(meta, f) {
			out = append(out, meta)
		}
	}
	logger.Debugf("find scanned %d records, matched %d", len(ids), len(out))
	return out, nil
}

func (e *Engine) read(ctx context.Context, id string) (document.Metadata, bool) {
	raw, err := e.src.ReadMetadata(ctx, id)
	if err != nil {
		skip(id, err)
		return document.Metadata{}, false
	}
	meta, err := e.codec.Unmarshal(raw)
	if err != nil {
		skip(id, err)
		return document.Metadata{}, false
	}
	return meta, true
}

func skip(id string, err error) {
	metrics.ScanSkipped.Inc()
	logger.Warnf("skipping record %s: %v", id, err)
}

func (e *Engine) matches(m document.Metadata, f Filter) bool {
	if f.Author != nil && m.AuthorName != *f.Author {
		return false
	}
	if f.Date != nil {
		if m.UploadDate == nil || !e.codec.SameDate(*m.UploadDate, *f.Date) {
			return false
		}
	}
	return true
}
