// Package storage implements chunked columnar tables: value segments for
// ingest, dictionary segments for compressed reads, chunks as fixed-capacity
// row groups, and tables as sequences of chunks.
//
// All mutation is single-writer. Tables and chunks hold no locks; callers
// serialize appends and column declarations themselves. A dictionary
// segment's dictionary is immutable once built and may be read from any
// number of goroutines.
package storage

import (
	"unsafe"

	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// Encoding names the physical representation of a segment.
type Encoding string

const (
	// EncodingValue is an uncompressed, growable segment
	EncodingValue Encoding = "value"
	// EncodingDictionary is an immutable dictionary-encoded segment
	EncodingDictionary Encoding = "dictionary"
)

// Segment stores one column of one chunk.
type Segment interface {
	// ValueAt returns the cell at offset re-tagged as a Value.
	ValueAt(offset types.ChunkOffset) (types.Value, error)
	// Append adds one cell to the end of the segment.
	Append(value types.Value) error
	// Check reports the error Append would return for value without
	// changing the segment.
	Check(value types.Value) error
	// Size returns the number of rows.
	Size() int
	// DataType returns the column type stored by the segment.
	DataType() types.DataType
	// Encoding returns the physical representation.
	Encoding() Encoding
	// EstimateMemoryUsage returns the bytes occupied by the segment's data.
	EstimateMemoryUsage() int
}

// sizeOf is the in-memory width of T; strings count their header only.
func sizeOf[T types.Primitive]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
