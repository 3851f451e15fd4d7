// Package testutil provides testing utilities for chunkstore
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// NewTable creates a table with columns given as "name:type". It logs to the
// test output.
func NewTable(t testing.TB, maxChunkSize uint32, columns ...string) *storage.Table {
	t.Helper()
	table, err := storage.NewTable(maxChunkSize, storage.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	for _, c := range columns {
		name, typeName, ok := strings.Cut(c, ":")
		require.True(t, ok, "column %q must be name:type", c)
		require.NoError(t, table.AddColumn(name, typeName))
	}
	return table
}

// AppendRows appends every row and fails the test on the first error.
func AppendRows(t testing.TB, table *storage.Table, rows ...[]types.Value) {
	t.Helper()
	for i, row := range rows {
		require.NoError(t, table.Append(row), "row %d", i)
	}
}

// AssertTablesEqual compares layout, chunking and every value.
func AssertTablesEqual(t testing.TB, want, got *storage.Table) {
	t.Helper()
	require.Equal(t, want.ColumnNames(), got.ColumnNames())
	require.Equal(t, want.RowCount(), got.RowCount())
	require.Equal(t, want.ChunkCount(), got.ChunkCount())
	assert.Equal(t, want.MaxChunkSize(), got.MaxChunkSize())

	for id := 0; id < want.ChunkCount(); id++ {
		wc, err := want.GetChunk(types.ChunkID(id))
		require.NoError(t, err)
		gc, err := got.GetChunk(types.ChunkID(id))
		require.NoError(t, err)
		for col := 0; col < wc.ColumnCount(); col++ {
			ws, err := wc.GetSegment(types.ColumnID(col))
			require.NoError(t, err)
			gs, err := gc.GetSegment(types.ColumnID(col))
			require.NoError(t, err)
			require.Equal(t, ws.DataType(), gs.DataType())
			require.Equal(t, ws.Size(), gs.Size())
			for row := 0; row < ws.Size(); row++ {
				wv, err := ws.ValueAt(types.ChunkOffset(row))
				require.NoError(t, err)
				gv, err := gs.ValueAt(types.ChunkOffset(row))
				require.NoError(t, err)
				assert.True(t, wv.Equal(gv), "chunk %d column %d row %d: want %s, got %s", id, col, row, wv, gv)
			}
		}
	}
}

// WriteFile writes content to name inside a fresh temp dir and returns the
// path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
