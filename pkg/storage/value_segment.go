package storage

import (
	"slices"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// ValueSegment is an uncompressed, growable column of T. It is the mutable
// entry point for new rows.
type ValueSegment[T types.Primitive] struct {
	values []T
}

// NewValueSegment creates an empty segment for T.
func NewValueSegment[T types.Primitive]() *ValueSegment[T] {
	return &ValueSegment[T]{}
}

// ValueAt returns the value at offset.
func (s *ValueSegment[T]) ValueAt(offset types.ChunkOffset) (types.Value, error) {
	v, err := s.Get(offset)
	if err != nil {
		return types.Value{}, err
	}
	return types.ValueOf(v), nil
}

// Get returns the typed value at offset.
func (s *ValueSegment[T]) Get(offset types.ChunkOffset) (T, error) {
	if int(offset) >= len(s.values) {
		var zero T
		return zero, errors.OutOfRange("offset", int(offset), len(s.values))
	}
	return s.values[offset], nil
}

// Append casts value to T and adds it to the end of the segment.
func (s *ValueSegment[T]) Append(value types.Value) error {
	v, err := types.Cast[T](value)
	if err != nil {
		return err
	}
	s.values = append(s.values, v)
	return nil
}

// AppendValue adds an already typed value.
func (s *ValueSegment[T]) AppendValue(v T) {
	s.values = append(s.values, v)
}

func (s *ValueSegment[T]) Check(value types.Value) error {
	_, err := types.Cast[T](value)
	return err
}

func (s *ValueSegment[T]) Size() int {
	return len(s.values)
}

func (s *ValueSegment[T]) DataType() types.DataType {
	return types.DataTypeOf[T]()
}

func (s *ValueSegment[T]) Encoding() Encoding {
	return EncodingValue
}

// Values returns a copy of the stored values.
func (s *ValueSegment[T]) Values() []T {
	return slices.Clone(s.values)
}

func (s *ValueSegment[T]) EstimateMemoryUsage() int {
	return len(s.values) * sizeOf[T]()
}
