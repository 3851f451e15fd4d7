package storage

import (
	"math"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// AttributeVectorWidth is the number of bytes an attribute vector spends per
// stored value id.
type AttributeVectorWidth uint8

// AttributeVector maps row positions to dictionary value ids.
type AttributeVector interface {
	// Get returns the value id stored at row i.
	Get(i int) (types.ValueID, error)
	// Set stores id at row i. The id must fit the vector's width.
	Set(i int, id types.ValueID) error
	// Size returns the number of rows.
	Size() int
	// Width returns the bytes used per row.
	Width() AttributeVectorWidth
}

// indexWidth is the set of unsigned integers an attribute vector can be
// backed by.
type indexWidth interface {
	uint8 | uint16 | uint32
}

// FixedSizeAttributeVector stores value ids in a slice of T, so every row
// occupies sizeof(T) bytes.
type FixedSizeAttributeVector[T indexWidth] struct {
	ids []T
}

// NewFixedSizeAttributeVector allocates n zeroed slots.
func NewFixedSizeAttributeVector[T indexWidth](n int) *FixedSizeAttributeVector[T] {
	return &FixedSizeAttributeVector[T]{ids: make([]T, n)}
}

func (v *FixedSizeAttributeVector[T]) Get(i int) (types.ValueID, error) {
	if i < 0 || i >= len(v.ids) {
		return types.InvalidValueID, errors.OutOfRange("attribute vector position", i, len(v.ids))
	}
	return types.ValueID(v.ids[i]), nil
}

func (v *FixedSizeAttributeVector[T]) Set(i int, id types.ValueID) error {
	if i < 0 || i >= len(v.ids) {
		return errors.OutOfRange("attribute vector position", i, len(v.ids))
	}
	if id > MaxValueID(v.Width()) {
		return errors.Newf(errors.ErrorTypeOutOfRange, "value id %d does not fit %d-byte attribute vector", id, v.Width()).
			WithDetail("value_id", id)
	}
	v.ids[i] = T(id)
	return nil
}

func (v *FixedSizeAttributeVector[T]) Size() int {
	return len(v.ids)
}

func (v *FixedSizeAttributeVector[T]) Width() AttributeVectorWidth {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	default:
		return 4
	}
}

// MaxValueID is the largest id a vector of the given width can hold. The
// 4-byte maximum coincides with types.InvalidValueID, which dictionaries
// never hand out because their size is capped below it.
func MaxValueID(width AttributeVectorWidth) types.ValueID {
	switch width {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	default:
		return math.MaxUint32
	}
}

// WidthFor returns the smallest width whose maximum is at least
// uniqueCount-1.
func WidthFor(uniqueCount int) AttributeVectorWidth {
	switch {
	case uniqueCount <= math.MaxUint8+1:
		return 1
	case uniqueCount <= math.MaxUint16+1:
		return 2
	default:
		return 4
	}
}

// NewAttributeVector allocates an n-row vector sized for a dictionary with
// uniqueCount entries.
func NewAttributeVector(n, uniqueCount int) AttributeVector {
	switch WidthFor(uniqueCount) {
	case 1:
		return NewFixedSizeAttributeVector[uint8](n)
	case 2:
		return NewFixedSizeAttributeVector[uint16](n)
	default:
		return NewFixedSizeAttributeVector[uint32](n)
	}
}
