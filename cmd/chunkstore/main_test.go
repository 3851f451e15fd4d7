package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/chunkstore/pkg/compression"
	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/export"
	"github.com/ajitpratap0/chunkstore/pkg/testutil"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

const peopleCSV = "name,age\nAda,36\nAlan,41\nGrace,85\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "chunkstore v"+version)
}

func TestLoadCommand(t *testing.T) {
	path := testutil.WriteFile(t, "people.csv", peopleCSV)

	out, err := run(t, "load", "--file", path, "--schema", "name:string,age:int", "--chunk-size", "2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "people | 2 | 3 | 2\n"), out)
	assert.Contains(t, out, "process rss:")
}

func TestLoadCommandJSON(t *testing.T) {
	path := testutil.WriteFile(t, "people.csv", peopleCSV)

	out, err := run(t, "--json", "load", "-f", path, "-s", "name:string,age:int", "--chunk-size", "2", "--table", "humans")
	require.NoError(t, err)

	var report loadReport
	require.NoError(t, gojson.Unmarshal([]byte(out), &report))
	require.Len(t, report.Tables, 1)
	assert.Equal(t, "humans", report.Tables[0].Name)
	assert.Equal(t, 3, report.Tables[0].Rows)
	assert.Equal(t, 2, report.Tables[0].Chunks)
	require.NotNil(t, report.Process)
	assert.Positive(t, report.Process.MemoryRSS)
}

func TestLoadCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		schema  string
		errType errors.ErrorType
	}{
		{name: "bad int", content: "a\nx\n", schema: "a:int", errType: errors.ErrorTypeTypeMismatch},
		{name: "int overflow", content: "a\n3000000000\n", schema: "a:int", errType: errors.ErrorTypeTypeMismatch},
		{name: "unknown type", content: "a\n1\n", schema: "a:decimal", errType: errors.ErrorTypeConfig},
		{name: "malformed schema", content: "a\n1\n", schema: "a", errType: errors.ErrorTypeConfig},
		{name: "duplicate column", content: "a,b\n1,2\n", schema: "a:int,a:int", errType: errors.ErrorTypeDuplicateColumn},
		{name: "short row", content: "a,b\n1\n", schema: "a:int,b:int", errType: errors.ErrorTypeFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, "in.csv", tt.content)
			_, err := run(t, "load", "--file", path, "--schema", tt.schema)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
		})
	}
}

func TestCompressCommand(t *testing.T) {
	path := testutil.WriteFile(t, "people.csv", peopleCSV)

	out, err := run(t, "compress", "--file", path, "--schema", "name:string,age:int", "--chunk-size", "2", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "chunk 0: 2 rows, 40 -> 44 bytes\nchunk 1: 1 rows, 20 -> 22 bytes\n", out)
}

func TestCompressCommandJSON(t *testing.T) {
	path := testutil.WriteFile(t, "ids.csv", "id,tag\n1,a\n1,b\n2,c\n1,a\n")

	out, err := run(t, "--json", "compress", "--file", path, "--schema", "id:long,tag:string")
	require.NoError(t, err)

	var reports []chunkReport
	require.NoError(t, gojson.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, chunkReport{Chunk: 0, Rows: 4, BytesBefore: 96, BytesAfter: 72, UniqueValues: []int{2, 3}}, reports[0])
}

func TestExportCommand(t *testing.T) {
	path := testutil.WriteFile(t, "people.csv", peopleCSV)
	outPath := filepath.Join(t.TempDir(), "people.arrow.lz4")

	out, err := run(t, "export", "--file", path, "--schema", "name:string,age:int",
		"--chunk-size", "2", "--out", outPath, "--compression", "lz4")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 3 rows in 2 batches to "+outPath+" (lz4, ")

	comp, err := compression.NewCompressor(&compression.Config{Algorithm: compression.LZ4})
	require.NoError(t, err)
	table, err := export.ReadFile(outPath, comp, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, table.RowCount())
	assert.Equal(t, uint32(2), table.MaxChunkSize())

	id, err := table.ColumnIDByName("age")
	require.NoError(t, err)
	c, err := table.GetChunk(1)
	require.NoError(t, err)
	seg, err := c.GetSegment(id)
	require.NoError(t, err)
	v, err := seg.ValueAt(0)
	require.NoError(t, err)
	assert.True(t, types.Int(85).Equal(v))
}

func TestExportCommandUsesConfig(t *testing.T) {
	path := testutil.WriteFile(t, "people.csv", peopleCSV)
	cfgPath := testutil.WriteFile(t, "chunkstore.yaml", "max_chunk_size: 1\nexport:\n  compression: s2\n")
	outPath := filepath.Join(t.TempDir(), "people.arrow.s2")

	out, err := run(t, "--config", cfgPath, "--json", "export", "--file", path, "--schema", "name:string,age:int", "--out", outPath)
	require.NoError(t, err)

	var result export.Result
	require.NoError(t, gojson.Unmarshal([]byte(out), &result))
	assert.Equal(t, "s2", result.Compression)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, int64(3), result.Rows)
}

func TestLoadCommandDelimiter(t *testing.T) {
	path := testutil.WriteFile(t, "people.tsv", "name;age\nAda;36\nAlan;41\n")

	out, err := run(t, "load", "--file", path, "--schema", "name:string,age:int", "--delimiter", ";")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "people | 2 | 2 | 1\n"), out)

	for _, delimiter := range []string{"", ";;", "\\t"} {
		t.Run(delimiter, func(t *testing.T) {
			_, err := run(t, "load", "--file", path, "--schema", "name:string,age:int", "--delimiter", delimiter)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "got %v", err)
		})
	}
}

func TestParseSchema(t *testing.T) {
	columns, err := parseSchema(" name : string , age:int,")
	require.NoError(t, err)
	assert.Equal(t, []column{{name: "name", typ: types.TypeString}, {name: "age", typ: types.TypeInt}}, columns)

	_, err = parseSchema(",")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}
