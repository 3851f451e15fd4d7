package storage

import (
	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// MakeValueSegment creates an empty value segment for a type-name string
// such as "int" or "string".
func MakeValueSegment(typeName string) (Segment, error) {
	dt, err := types.ParseDataType(typeName)
	if err != nil {
		return nil, err
	}
	return makeValueSegment(dt)
}

func makeValueSegment(dt types.DataType) (Segment, error) {
	switch dt {
	case types.TypeInt:
		return NewValueSegment[int32](), nil
	case types.TypeLong:
		return NewValueSegment[int64](), nil
	case types.TypeFloat:
		return NewValueSegment[float32](), nil
	case types.TypeDouble:
		return NewValueSegment[float64](), nil
	case types.TypeString:
		return NewValueSegment[string](), nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "no segment implementation for data type %s", dt)
}

// MakeDictionarySegment dictionary-encodes source using its own data type.
func MakeDictionarySegment(source Segment) (Segment, error) {
	switch source.DataType() {
	case types.TypeInt:
		return encodeDictionary[int32](source)
	case types.TypeLong:
		return encodeDictionary[int64](source)
	case types.TypeFloat:
		return encodeDictionary[float32](source)
	case types.TypeDouble:
		return encodeDictionary[float64](source)
	case types.TypeString:
		return encodeDictionary[string](source)
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "no segment implementation for data type %s", source.DataType())
}

func encodeDictionary[T types.Primitive](source Segment) (Segment, error) {
	s, err := NewDictionarySegment[T](source)
	if err != nil {
		return nil, err
	}
	return s, nil
}
