package storage

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/metrics"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

func newTestTable(t *testing.T, maxChunkSize uint32) *Table {
	t.Helper()
	table, err := NewTable(maxChunkSize, WithLogger(zap.NewNop()), WithName("test"))
	require.NoError(t, err)
	require.NoError(t, table.AddColumn("col_1", "int"))
	require.NoError(t, table.AddColumn("col_2", "string"))
	return table
}

func TestNewTable(t *testing.T) {
	table, err := NewTable(2)
	require.NoError(t, err)
	assert.Equal(t, 1, table.ChunkCount())
	assert.Equal(t, 0, table.RowCount())
	assert.Equal(t, 0, table.ColumnCount())
	assert.Equal(t, uint32(2), table.MaxChunkSize())

	_, err = NewTable(0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestTableChunkAllocation(t *testing.T) {
	table, err := NewTable(4, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NoError(t, table.AddColumn("a", "int"))

	for i := 0; i < 10; i++ {
		require.NoError(t, table.Append([]types.Value{types.Int(int32(i))}))
	}

	assert.Equal(t, 3, table.ChunkCount())
	assert.Equal(t, 10, table.RowCount())
	for id, want := range []int{4, 4, 2} {
		c, err := table.GetChunk(types.ChunkID(id))
		require.NoError(t, err)
		assert.Equal(t, want, c.Size(), "chunk %d", id)
	}

	c, err := table.GetChunk(2)
	require.NoError(t, err)
	seg, err := c.GetSegment(0)
	require.NoError(t, err)
	v, err := seg.ValueAt(1)
	require.NoError(t, err)
	assert.Equal(t, types.Int(9), v)
}

func TestTableChunkCountProperty(t *testing.T) {
	for _, m := range []uint32{1, 3, 7} {
		for _, n := range []int{0, 1, 2, 6, 7, 8, 21} {
			t.Run(fmt.Sprintf("M=%d/N=%d", m, n), func(t *testing.T) {
				table, err := NewTable(m, WithLogger(zap.NewNop()))
				require.NoError(t, err)
				require.NoError(t, table.AddColumn("v", "long"))
				for i := 0; i < n; i++ {
					require.NoError(t, table.Append([]types.Value{types.Long(int64(i))}))
				}

				rows := max(n, 1)
				wantChunks := (rows + int(m) - 1) / int(m)
				assert.Equal(t, wantChunks, table.ChunkCount())
				assert.Equal(t, n, table.RowCount())

				for id := 0; id < table.ChunkCount()-1; id++ {
					c, err := table.GetChunk(types.ChunkID(id))
					require.NoError(t, err)
					assert.Equal(t, int(m), c.Size())
				}
			})
		}
	}
}

func TestTableAddColumnAfterRows(t *testing.T) {
	table := newTestTable(t, 2)
	require.NoError(t, table.Append([]types.Value{types.Int(4), types.String("Hello,")}))

	err := table.AddColumn("col_3", "int")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidState))
	assert.Equal(t, 2, table.ColumnCount())
}

func TestTableAddColumnErrors(t *testing.T) {
	table := newTestTable(t, 2)

	err := table.AddColumn("col_1", "long")
	assert.True(t, errors.IsType(err, errors.ErrorTypeDuplicateColumn))

	err = table.AddColumn("col_3", "decimal")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	assert.Equal(t, 2, table.ColumnCount())
	c, err := table.GetChunk(0)
	require.NoError(t, err)
	assert.Equal(t, 2, c.ColumnCount())
}

func TestTableColumnMetadata(t *testing.T) {
	table := newTestTable(t, 2)

	assert.Equal(t, []string{"col_1", "col_2"}, table.ColumnNames())

	id, err := table.ColumnIDByName("col_2")
	require.NoError(t, err)
	assert.Equal(t, types.ColumnID(1), id)

	_, err = table.ColumnIDByName("no_column_name")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	name, err := table.ColumnName(0)
	require.NoError(t, err)
	assert.Equal(t, "col_1", name)

	typ, err := table.ColumnType(1)
	require.NoError(t, err)
	assert.Equal(t, "string", typ)

	_, err = table.ColumnName(2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
	_, err = table.ColumnType(2)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))

	names := table.ColumnNames()
	names[0] = "mutated"
	assert.Equal(t, "col_1", table.ColumnNames()[0])
}

func TestTableGetChunkOutOfRange(t *testing.T) {
	table := newTestTable(t, 2)
	_, err := table.GetChunk(1)
	assert.True(t, errors.IsType(err, errors.ErrorTypeOutOfRange))
}

func TestTableRejectedAppendLeavesTableUnchanged(t *testing.T) {
	table := newTestTable(t, 2)
	require.NoError(t, table.Append([]types.Value{types.Int(1), types.String("a")}))
	require.NoError(t, table.Append([]types.Value{types.Int(2), types.String("b")}))

	// The last chunk is full, so this append would allocate a new chunk.
	err := table.Append([]types.Value{types.String("3"), types.String("c")})
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
	assert.Equal(t, 1, table.ChunkCount())
	assert.Equal(t, 2, table.RowCount())

	err = table.Append([]types.Value{types.Int(3)})
	assert.True(t, errors.IsType(err, errors.ErrorTypeSizeMismatch))
	assert.Equal(t, 1, table.ChunkCount())
}

func TestTableAppendWithoutColumns(t *testing.T) {
	table, err := NewTable(2)
	require.NoError(t, err)
	err = table.Append(nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidState))
}

func TestTableRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewStorageCollector(registry)
	table, err := NewTable(1, WithName("metered"), WithMetrics(collector), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NoError(t, table.AddColumn("a", "int"))
	require.NoError(t, table.Append([]types.Value{types.Int(1)}))
	require.NoError(t, table.Append([]types.Value{types.Int(2)}))
	require.Error(t, table.Append([]types.Value{}))

	families, err := registry.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			got[f.GetName()] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, got["chunkstore_rows_appended_total"])
	assert.Equal(t, 1.0, got["chunkstore_chunks_allocated_total"])
	assert.Equal(t, 1.0, got["chunkstore_append_errors_total"])
}

func TestTableMemoryUsage(t *testing.T) {
	table, err := NewTable(2, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NoError(t, table.AddColumn("a", "double"))
	for i := 0; i < 3; i++ {
		require.NoError(t, table.Append([]types.Value{types.Double(float64(i))}))
	}
	assert.Equal(t, 24, table.EstimateMemoryUsage())
}
