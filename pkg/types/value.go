package types

import (
	"math"
	"strconv"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
)

// Value holds exactly one cell of one of the supported column types. The
// zero Value is invalid and fails every cast.
type Value struct {
	typ DataType
	i   int64
	f   float64
	s   string
}

// Int returns a Value of type int.
func Int(v int32) Value { return Value{typ: TypeInt, i: int64(v)} }

// Long returns a Value of type long.
func Long(v int64) Value { return Value{typ: TypeLong, i: v} }

// Float returns a Value of type float.
func Float(v float32) Value { return Value{typ: TypeFloat, f: float64(v)} }

// Double returns a Value of type double.
func Double(v float64) Value { return Value{typ: TypeDouble, f: v} }

// String returns a Value of type string.
func String(v string) Value { return Value{typ: TypeString, s: v} }

// ValueOf tags a primitive with its DataType.
func ValueOf[T Primitive](v T) Value {
	switch x := any(v).(type) {
	case int32:
		return Int(x)
	case int64:
		return Long(x)
	case float32:
		return Float(x)
	case float64:
		return Double(x)
	case string:
		return String(x)
	}
	return Value{}
}

// Type returns the tag of the value.
func (v Value) Type() DataType { return v.typ }

// IsValid reports whether v carries a value.
func (v Value) IsValid() bool { return v.typ != TypeInvalid }

// Interface returns the payload as its native Go type.
func (v Value) Interface() any {
	switch v.typ {
	case TypeInt:
		return int32(v.i)
	case TypeLong:
		return v.i
	case TypeFloat:
		return float32(v.f)
	case TypeDouble:
		return v.f
	case TypeString:
		return v.s
	}
	return nil
}

// Equal reports whether both values carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case TypeInt, TypeLong:
		return v.i == o.i
	case TypeFloat, TypeDouble:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case TypeString:
		return v.s == o.s
	}
	return true
}

func (v Value) String() string {
	switch v.typ {
	case TypeInt, TypeLong:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case TypeDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeString:
		return v.s
	}
	return "<invalid>"
}

// Cast converts v to T. Conversions that would lose information fail with a
// type_mismatch error: integers must fit, integer to float must be exact,
// float to integer must be integral and in range, and strings never convert
// to or from numbers.
func Cast[T Primitive](v Value) (T, error) {
	var zero T
	var out any
	ok := false

	switch any(zero).(type) {
	case int32:
		var x int64
		if x, ok = v.asInt64(); ok && x >= math.MinInt32 && x <= math.MaxInt32 {
			out = int32(x)
		} else {
			ok = false
		}
	case int64:
		var x int64
		if x, ok = v.asInt64(); ok {
			out = x
		}
	case float32:
		out, ok = v.asFloat32()
	case float64:
		out, ok = v.asFloat64()
	case string:
		if v.typ == TypeString {
			out, ok = v.s, true
		}
	}

	if !ok {
		return zero, errors.Newf(errors.ErrorTypeTypeMismatch, "cannot cast %s value %q to %s",
			v.typ, v.String(), DataTypeOf[T]())
	}
	return out.(T), nil
}

// two63 is 2^63 as a float64; float64 values in [-two63, two63) fit int64.
const two63 = 9223372036854775808.0

func (v Value) asInt64() (int64, bool) {
	switch v.typ {
	case TypeInt, TypeLong:
		return v.i, true
	case TypeFloat, TypeDouble:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) || math.Trunc(v.f) != v.f {
			return 0, false
		}
		if v.f < -two63 || v.f >= two63 {
			return 0, false
		}
		return int64(v.f), true
	}
	return 0, false
}

func (v Value) asFloat64() (float64, bool) {
	switch v.typ {
	case TypeFloat, TypeDouble:
		return v.f, true
	case TypeInt, TypeLong:
		f := float64(v.i)
		if f >= two63 || int64(f) != v.i {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func (v Value) asFloat32() (float32, bool) {
	switch v.typ {
	case TypeFloat:
		return float32(v.f), true
	case TypeDouble:
		f := float32(v.f)
		if float64(f) != v.f && !math.IsNaN(v.f) {
			return 0, false
		}
		return f, true
	case TypeInt, TypeLong:
		f := float32(v.i)
		wide := float64(f)
		if wide >= two63 || int64(wide) != v.i {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
