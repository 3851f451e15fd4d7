package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

func newTable(t *testing.T, rows int) *storage.Table {
	t.Helper()
	table, err := storage.NewTable(2, storage.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	require.NoError(t, table.AddColumn("a", "int"))
	for i := 0; i < rows; i++ {
		require.NoError(t, table.Append([]types.Value{types.Int(int32(i))}))
	}
	return table
}

func TestRegistryAddGetDrop(t *testing.T) {
	r := New()
	t1 := newTable(t, 0)
	t2 := newTable(t, 3)

	r.AddTable("first_table", t1)
	r.AddTable("second_table", t2)
	assert.True(t, r.HasTable("first_table"))
	assert.False(t, r.HasTable("third_table"))

	got, err := r.GetTable("second_table")
	require.NoError(t, err)
	assert.Same(t, t2, got)

	require.NoError(t, r.DropTable("first_table"))
	assert.False(t, r.HasTable("first_table"))

	err = r.DropTable("first_table")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
	_, err = r.GetTable("first_table")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestRegistryAddTableOverwrites(t *testing.T) {
	r := New()
	r.AddTable("t", newTable(t, 1))
	replacement := newTable(t, 2)
	r.AddTable("t", replacement)

	got, err := r.GetTable("t")
	require.NoError(t, err)
	assert.Same(t, replacement, got)
	assert.Equal(t, []string{"t"}, r.TableNames())
}

func TestRegistryTableNamesAndReset(t *testing.T) {
	r := New()
	r.AddTable("b", newTable(t, 0))
	r.AddTable("a", newTable(t, 0))
	assert.Equal(t, []string{"a", "b"}, r.TableNames())

	r.Reset()
	assert.Empty(t, r.TableNames())
	assert.False(t, r.HasTable("a"))
}

func TestRegistryPrint(t *testing.T) {
	r := New()
	r.AddTable("first", newTable(t, 3))
	r.AddTable("empty", newTable(t, 0))

	var buf bytes.Buffer
	require.NoError(t, r.Print(&buf))
	assert.Equal(t, "empty | 1 | 0 | 1\nfirst | 1 | 3 | 2\n", buf.String())
}

func TestRegistryStats(t *testing.T) {
	r := New()
	r.AddTable("t", newTable(t, 5))

	stats := r.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, TableStats{
		Name:         "t",
		Columns:      1,
		Rows:         5,
		Chunks:       3,
		MaxChunkSize: 2,
		MemoryBytes:  20,
	}, stats[0])
}

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Same(t, r, Default())

	r.Reset()
	t.Cleanup(r.Reset)
	r.AddTable("global", newTable(t, 0))
	assert.True(t, Default().HasTable("global"))
}
