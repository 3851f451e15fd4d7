package storage

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/metrics"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

const tracerName = "github.com/ajitpratap0/chunkstore/pkg/storage"

// Compressor turns chunks of value segments into chunks of dictionary
// segments.
type Compressor struct {
	opts options
}

// NewCompressor creates a compressor.
func NewCompressor(opts ...Option) *Compressor {
	return &Compressor{opts: buildOptions(opts)}
}

// Compress builds a new chunk holding one dictionary segment per column of
// c, in column order. c is not modified. Segments that are already
// dictionary-encoded are carried over as they are. The segment memory gauge
// is set from this chunk alone.
func (cp *Compressor) Compress(ctx context.Context, c *Chunk) (*Chunk, error) {
	out, before, after, err := cp.compress(ctx, c)
	if err != nil {
		return nil, err
	}
	cp.recordMemory(before, after)
	return out, nil
}

func (cp *Compressor) compress(ctx context.Context, c *Chunk) (*Chunk, int, int, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "storage.CompressChunk")
	defer span.End()
	span.SetAttributes(
		attribute.Int("chunk.size", c.Size()),
		attribute.Int("chunk.columns", c.ColumnCount()),
	)

	before := c.EstimateMemoryUsage()
	out := NewChunk()
	for i := 0; i < c.ColumnCount(); i++ {
		segment, err := c.GetSegment(types.ColumnID(i))
		if err != nil {
			return nil, 0, 0, err
		}
		if segment.Encoding() == EncodingDictionary {
			out.AddSegment(segment)
			continue
		}

		timer := metrics.NewTimer()
		encoded, err := MakeDictionarySegment(segment)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "dictionary build failed")
			return nil, 0, 0, errors.Wrap(err, errors.ErrorTypeOf(err), "failed to dictionary-encode column").
				WithDetail("column_id", i)
		}
		cp.opts.metrics.DictionaryBuilt(segment.DataType().String(), timer.Stop())
		out.AddSegment(encoded)
	}

	after := out.EstimateMemoryUsage()
	span.SetAttributes(
		attribute.Int("memory.before", before),
		attribute.Int("memory.after", after),
	)
	cp.opts.logger.Debug("chunk compressed",
		zap.Int("rows", c.Size()),
		zap.Int("memory_before", before),
		zap.Int("memory_after", after))
	return out, before, after, nil
}

func (cp *Compressor) recordMemory(before, after int) {
	cp.opts.metrics.SetSegmentMemory(cp.opts.name, string(EncodingValue), before)
	cp.opts.metrics.SetSegmentMemory(cp.opts.name, string(EncodingDictionary), after)
}

// CompressTable compresses every chunk of t with up to workers chunks in
// flight. The result is indexed by ChunkID and the segment memory gauge is
// set from the totals over all chunks. t must not be appended to while this
// runs.
func (cp *Compressor) CompressTable(ctx context.Context, t *Table, workers int) ([]*Chunk, error) {
	if workers <= 0 {
		workers = 1
	}
	out := make([]*Chunk, t.ChunkCount())
	before := make([]int, len(out))
	after := make([]int, len(out))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for id := range out {
		c, err := t.GetChunk(types.ChunkID(id))
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			compressed, b, a, err := cp.compress(ctx, c)
			if err != nil {
				return err
			}
			out[id], before[id], after[id] = compressed, b, a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalBefore, totalAfter := 0, 0
	for id := range out {
		totalBefore += before[id]
		totalAfter += after[id]
	}
	cp.recordMemory(totalBefore, totalAfter)
	return out, nil
}
