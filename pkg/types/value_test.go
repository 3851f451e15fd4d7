package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
)

func TestParseDataType(t *testing.T) {
	for _, dt := range DataTypes() {
		parsed, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, parsed)
	}

	parsed, err := ParseDataType(" Double ")
	require.NoError(t, err)
	assert.Equal(t, TypeDouble, parsed)

	_, err = ParseDataType("decimal")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, TypeInt, DataTypeOf[int32]())
	assert.Equal(t, TypeLong, DataTypeOf[int64]())
	assert.Equal(t, TypeFloat, DataTypeOf[float32]())
	assert.Equal(t, TypeDouble, DataTypeOf[float64]())
	assert.Equal(t, TypeString, DataTypeOf[string]())
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, Int(3), ValueOf(int32(3)))
	assert.Equal(t, Long(3), ValueOf(int64(3)))
	assert.Equal(t, Float(1.5), ValueOf(float32(1.5)))
	assert.Equal(t, Double(1.5), ValueOf(1.5))
	assert.Equal(t, String("x"), ValueOf("x"))

	assert.Equal(t, int32(3), Int(3).Interface())
	assert.Equal(t, "x", String("x").Interface())
	assert.Nil(t, Value{}.Interface())
	assert.False(t, Value{}.IsValid())
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.False(t, Int(1).Equal(Long(1)))
	assert.False(t, String("a").Equal(String("b")))
	assert.True(t, Double(math.NaN()).Equal(Double(math.NaN())))
}

func TestCast(t *testing.T) {
	tests := []struct {
		name    string
		cast    func() (any, error)
		want    any
		wantErr bool
	}{
		{"int to int", func() (any, error) { return Cast[int32](Int(7)) }, int32(7), false},
		{"int to long", func() (any, error) { return Cast[int64](Int(-7)) }, int64(-7), false},
		{"small long to int", func() (any, error) { return Cast[int32](Long(42)) }, int32(42), false},
		{"big long to int", func() (any, error) { return Cast[int32](Long(math.MaxInt32 + 1)) }, nil, true},
		{"int to double", func() (any, error) { return Cast[float64](Int(5)) }, 5.0, false},
		{"exact long to float", func() (any, error) { return Cast[float32](Long(1 << 30)) }, float32(1 << 30), false},
		{"inexact long to float", func() (any, error) { return Cast[float32](Long(1<<24 + 1)) }, nil, true},
		{"inexact long to double", func() (any, error) { return Cast[float64](Long(1<<53 + 1)) }, nil, true},
		{"float to double", func() (any, error) { return Cast[float64](Float(0.1)) }, float64(float32(0.1)), false},
		{"exact double to float", func() (any, error) { return Cast[float32](Double(0.5)) }, float32(0.5), false},
		{"inexact double to float", func() (any, error) { return Cast[float32](Double(0.1)) }, nil, true},
		{"integral double to int", func() (any, error) { return Cast[int32](Double(12)) }, int32(12), false},
		{"fractional double to long", func() (any, error) { return Cast[int64](Double(1.5)) }, nil, true},
		{"nan to long", func() (any, error) { return Cast[int64](Double(math.NaN())) }, nil, true},
		{"string to string", func() (any, error) { return Cast[string](String("Bill")) }, "Bill", false},
		{"string to int", func() (any, error) { return Cast[int32](String("1")) }, nil, true},
		{"int to string", func() (any, error) { return Cast[string](Int(1)) }, nil, true},
		{"invalid to int", func() (any, error) { return Cast[int32](Value{}) }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cast()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
