package storage

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// DictionarySegment is an immutable, dictionary-encoded column of T. Each
// distinct value is stored once in a sorted dictionary; rows hold the
// narrowest possible index into it.
type DictionarySegment[T types.Primitive] struct {
	dictionary      *Dictionary[T]
	attributeVector AttributeVector
}

// NewDictionarySegment encodes every row of source. The source is read, not
// modified, and each of its values must cast to T.
func NewDictionarySegment[T types.Primitive](source Segment) (*DictionarySegment[T], error) {
	values, err := readAll[T](source)
	if err != nil {
		return nil, err
	}

	dict := slices.Clone(values)
	slices.SortFunc(dict, cmp.Compare[T])
	dict = slices.CompactFunc(dict, func(a, b T) bool { return cmp.Compare(a, b) == 0 })
	dict = slices.Clip(dict)

	// The largest id must stay below InvalidValueID.
	if uint64(len(dict)) > math.MaxUint32 {
		return nil, errors.Newf(errors.ErrorTypeOutOfRange, "dictionary of %d values exceeds the value id space", len(dict))
	}

	attributeVector := NewAttributeVector(len(values), len(dict))
	for i, v := range values {
		pos, found := slices.BinarySearchFunc(dict, v, cmp.Compare[T])
		if !found {
			panic(fmt.Sprintf("storage: value %v at row %d missing from its own dictionary", v, i))
		}
		if err := attributeVector.Set(i, types.ValueID(pos)); err != nil {
			panic(fmt.Sprintf("storage: attribute vector rejected value id %d: %v", pos, err))
		}
	}

	return &DictionarySegment[T]{
		dictionary:      &Dictionary[T]{values: dict},
		attributeVector: attributeVector,
	}, nil
}

// readAll copies the rows of source as T, skipping the Value round trip when
// source already stores T.
func readAll[T types.Primitive](source Segment) ([]T, error) {
	if vs, ok := source.(*ValueSegment[T]); ok {
		return vs.Values(), nil
	}

	values := make([]T, source.Size())
	for i := range values {
		cell, err := source.ValueAt(types.ChunkOffset(i))
		if err != nil {
			return nil, err
		}
		v, err := types.Cast[T](cell)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// ValueAt returns the value at offset.
func (s *DictionarySegment[T]) ValueAt(offset types.ChunkOffset) (types.Value, error) {
	v, err := s.Get(offset)
	if err != nil {
		return types.Value{}, err
	}
	return types.ValueOf(v), nil
}

// Get returns the typed value at offset.
func (s *DictionarySegment[T]) Get(offset types.ChunkOffset) (T, error) {
	id, err := s.attributeVector.Get(int(offset))
	if err != nil {
		var zero T
		return zero, errors.OutOfRange("offset", int(offset), s.Size())
	}
	return s.dictionary.values[id], nil
}

// Append always fails: dictionary segments are rebuilt, never extended.
func (s *DictionarySegment[T]) Append(types.Value) error {
	return s.immutable()
}

func (s *DictionarySegment[T]) Check(types.Value) error {
	return s.immutable()
}

func (s *DictionarySegment[T]) immutable() error {
	return errors.New(errors.ErrorTypeImmutable, "dictionary segments are immutable").
		WithDetail("size", s.Size())
}

// Dictionary returns the shared, sorted value list.
func (s *DictionarySegment[T]) Dictionary() *Dictionary[T] {
	return s.dictionary
}

// AttributeVector returns a read-only view of the row to value id mapping.
func (s *DictionarySegment[T]) AttributeVector() AttributeVector {
	return readOnlyAttributeVector{s.attributeVector}
}

// ValueByValueID returns the dictionary entry for id.
func (s *DictionarySegment[T]) ValueByValueID(id types.ValueID) (T, error) {
	return s.dictionary.At(id)
}

// LowerBound returns the first value id whose value is >= value, or
// types.InvalidValueID if every entry is smaller.
func (s *DictionarySegment[T]) LowerBound(value T) types.ValueID {
	pos, _ := slices.BinarySearchFunc(s.dictionary.values, value, cmp.Compare[T])
	return s.boundResult(pos)
}

// UpperBound returns the first value id whose value is > value, or
// types.InvalidValueID if no entry is larger.
func (s *DictionarySegment[T]) UpperBound(value T) types.ValueID {
	pos, found := slices.BinarySearchFunc(s.dictionary.values, value, cmp.Compare[T])
	if found {
		pos++
	}
	return s.boundResult(pos)
}

// LowerBoundValue is LowerBound for a tagged value.
func (s *DictionarySegment[T]) LowerBoundValue(value types.Value) (types.ValueID, error) {
	v, err := types.Cast[T](value)
	if err != nil {
		return types.InvalidValueID, err
	}
	return s.LowerBound(v), nil
}

// UpperBoundValue is UpperBound for a tagged value.
func (s *DictionarySegment[T]) UpperBoundValue(value types.Value) (types.ValueID, error) {
	v, err := types.Cast[T](value)
	if err != nil {
		return types.InvalidValueID, err
	}
	return s.UpperBound(v), nil
}

func (s *DictionarySegment[T]) boundResult(pos int) types.ValueID {
	if pos >= len(s.dictionary.values) {
		return types.InvalidValueID
	}
	return types.ValueID(pos)
}

// UniqueValuesCount returns the number of dictionary entries.
func (s *DictionarySegment[T]) UniqueValuesCount() int {
	return s.dictionary.Len()
}

func (s *DictionarySegment[T]) Size() int {
	return s.attributeVector.Size()
}

func (s *DictionarySegment[T]) DataType() types.DataType {
	return types.DataTypeOf[T]()
}

func (s *DictionarySegment[T]) Encoding() Encoding {
	return EncodingDictionary
}

// EstimateMemoryUsage counts the dictionary and the attribute vector.
func (s *DictionarySegment[T]) EstimateMemoryUsage() int {
	return s.dictionary.Len()*sizeOf[T]() + s.Size()*int(s.attributeVector.Width())
}
