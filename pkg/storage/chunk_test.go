package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

func newTestChunk(t *testing.T) *Chunk {
	t.Helper()
	c := NewChunk()
	c.AddSegment(NewValueSegment[int32]())
	c.AddSegment(NewValueSegment[string]())
	return c
}

func TestChunkAppend(t *testing.T) {
	c := newTestChunk(t)
	assert.Equal(t, 2, c.ColumnCount())
	assert.Equal(t, 0, c.Size())

	require.NoError(t, c.Append([]types.Value{types.Int(4), types.String("Hello,")}))
	require.NoError(t, c.Append([]types.Value{types.Int(6), types.String("world")}))
	require.NoError(t, c.Append([]types.Value{types.Int(3), types.String("!")}))
	assert.Equal(t, 3, c.Size())

	seg, err := c.GetSegment(1)
	require.NoError(t, err)
	v, err := seg.ValueAt(1)
	require.NoError(t, err)
	assert.Equal(t, types.String("world"), v)
}

func TestChunkAppendSizeMismatch(t *testing.T) {
	c := newTestChunk(t)
	require.NoError(t, c.Append([]types.Value{types.Int(1), types.String("a")}))

	err := c.Append([]types.Value{types.Int(2)})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSizeMismatch))

	err = c.Append([]types.Value{types.Int(2), types.String("b"), types.Int(3)})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSizeMismatch))

	for i := 0; i < c.ColumnCount(); i++ {
		seg, err := c.GetSegment(types.ColumnID(i))
		require.NoError(t, err)
		assert.Equal(t, 1, seg.Size())
	}
}

func TestChunkAppendIsAtomic(t *testing.T) {
	c := newTestChunk(t)

	// The first value is valid, the second is not: nothing may be written.
	err := c.Append([]types.Value{types.Int(1), types.Int(2)})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	for i := 0; i < c.ColumnCount(); i++ {
		seg, err := c.GetSegment(types.ColumnID(i))
		require.NoError(t, err)
		assert.Equal(t, 0, seg.Size())
	}
}

func TestChunkWithDictionarySegmentRejectsAppend(t *testing.T) {
	d, err := NewDictionarySegment[int32](intSegment(t, 1, 2))
	require.NoError(t, err)

	c := NewChunk()
	c.AddSegment(d)
	assert.Equal(t, 2, c.Size())

	err = c.Append([]types.Value{types.Int(3)})
	assert.True(t, errors.IsType(err, errors.ErrorTypeImmutable))
	assert.Equal(t, 2, c.Size())
}

func TestChunkGetSegmentOutOfRange(t *testing.T) {
	c := newTestChunk(t)
	_, err := c.GetSegment(2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestChunkMemoryUsage(t *testing.T) {
	c := NewChunk()
	c.AddSegment(NewValueSegment[int64]())
	c.AddSegment(NewValueSegment[int32]())
	require.NoError(t, c.Append([]types.Value{types.Long(1), types.Int(1)}))
	assert.Equal(t, 12, c.EstimateMemoryUsage())
}
