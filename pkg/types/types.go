// Package types defines the primitive column types, the id types used to
// address rows, columns, chunks and dictionary entries, and the tagged Value
// used to pass single cells across the type-erased segment interface.
package types

import (
	"math"
	"strings"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
)

// ChunkOffset is the position of a row within a chunk.
type ChunkOffset uint32

// ColumnID indexes a table's column metadata.
type ColumnID uint16

// ChunkID indexes a table's chunk sequence.
type ChunkID uint32

// ValueID indexes a dictionary segment's sorted value list.
type ValueID uint32

// InvalidValueID is returned by bound queries when no dictionary entry
// qualifies. Attribute vectors never store it.
const InvalidValueID = ValueID(math.MaxUint32)

// DataType represents the data type of a column
type DataType int

const (
	// TypeInvalid is the zero DataType and never names a column type
	TypeInvalid DataType = iota
	// TypeInt is a 32-bit signed integer ("int")
	TypeInt
	// TypeLong is a 64-bit signed integer ("long")
	TypeLong
	// TypeFloat is a 32-bit float ("float")
	TypeFloat
	// TypeDouble is a 64-bit float ("double")
	TypeDouble
	// TypeString is a UTF-8 string ("string")
	TypeString
)

var typeNames = map[DataType]string{
	TypeInt:    "int",
	TypeLong:   "long",
	TypeFloat:  "float",
	TypeDouble: "double",
	TypeString: "string",
}

// DataTypes lists every supported type in declaration order.
func DataTypes() []DataType {
	return []DataType{TypeInt, TypeLong, TypeFloat, TypeDouble, TypeString}
}

// String returns the type-name string used by Table.AddColumn.
func (t DataType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "invalid"
}

// ParseDataType maps a type-name string to its DataType.
func ParseDataType(name string) (DataType, error) {
	for t, n := range typeNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return TypeInvalid, errors.Newf(errors.ErrorTypeConfig, "unknown data type %q", name).
		WithDetail("type", name)
}

// Primitive is the set of Go types a segment can store.
type Primitive interface {
	int32 | int64 | float32 | float64 | string
}

// DataTypeOf returns the DataType backing the Go type T.
func DataTypeOf[T Primitive]() DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return TypeInt
	case int64:
		return TypeLong
	case float32:
		return TypeFloat
	case float64:
		return TypeDouble
	case string:
		return TypeString
	}
	return TypeInvalid
}
