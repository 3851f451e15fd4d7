package storage

import (
	"iter"
	"slices"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// Dictionary is the sorted, duplicate-free value list of a dictionary
// segment. It is never mutated after construction, so one instance can be
// shared by any number of readers.
type Dictionary[T types.Primitive] struct {
	values []T
}

// Len returns the number of unique values.
func (d *Dictionary[T]) Len() int {
	return len(d.values)
}

// At returns the value with the given id.
func (d *Dictionary[T]) At(id types.ValueID) (T, error) {
	if uint64(id) >= uint64(len(d.values)) {
		var zero T
		return zero, errors.OutOfRange("value id", int(id), len(d.values))
	}
	return d.values[id], nil
}

// Values returns a copy of the dictionary in ascending order.
func (d *Dictionary[T]) Values() []T {
	return slices.Clone(d.values)
}

// All yields every (id, value) pair in ascending order.
func (d *Dictionary[T]) All() iter.Seq2[types.ValueID, T] {
	return func(yield func(types.ValueID, T) bool) {
		for i, v := range d.values {
			if !yield(types.ValueID(i), v) {
				return
			}
		}
	}
}

// readOnlyAttributeVector hands out a dictionary segment's attribute vector
// without letting callers rewrite ids.
type readOnlyAttributeVector struct {
	AttributeVector
}

func (readOnlyAttributeVector) Set(int, types.ValueID) error {
	return errors.New(errors.ErrorTypeImmutable, "attribute vector of a dictionary segment is read-only")
}
