package storage

import (
	"fmt"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// Chunk is a row group: one segment per column, all of equal size.
type Chunk struct {
	segments []Segment
}

// NewChunk creates a chunk without segments.
func NewChunk() *Chunk {
	return &Chunk{}
}

// AddSegment appends segment as the next column. The caller keeps its size
// equal to the chunk's existing segments.
func (c *Chunk) AddSegment(segment Segment) {
	c.segments = append(c.segments, segment)
}

// Append adds one row. Every value is checked against its segment before
// any segment is touched, so a rejected row leaves the chunk unchanged.
func (c *Chunk) Append(row []types.Value) error {
	if len(row) != len(c.segments) {
		return errors.Newf(errors.ErrorTypeSizeMismatch, "row has %d values, chunk has %d columns", len(row), len(c.segments)).
			WithDetail("row_size", len(row)).
			WithDetail("column_count", len(c.segments))
	}

	for i, value := range row {
		if err := c.segments[i].Check(value); err != nil {
			return errors.Wrap(err, errors.ErrorTypeOf(err), fmt.Sprintf("column %d rejected value", i)).
				WithDetail("column_id", i)
		}
	}

	for i, value := range row {
		if err := c.segments[i].Append(value); err != nil {
			panic(fmt.Sprintf("storage: column %d rejected a checked value: %v", i, err))
		}
	}
	return nil
}

// GetSegment returns the segment of the given column.
func (c *Chunk) GetSegment(id types.ColumnID) (Segment, error) {
	if int(id) >= len(c.segments) {
		return nil, errors.OutOfRange("column id", int(id), len(c.segments))
	}
	return c.segments[id], nil
}

// ColumnCount returns the number of segments.
func (c *Chunk) ColumnCount() int {
	return len(c.segments)
}

// Size returns the row count, taken from the first segment.
func (c *Chunk) Size() int {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[0].Size()
}

// EstimateMemoryUsage sums the estimates of all segments.
func (c *Chunk) EstimateMemoryUsage() int {
	total := 0
	for _, s := range c.segments {
		total += s.EstimateMemoryUsage()
	}
	return total
}
