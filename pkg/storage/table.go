package storage

import (
	"context"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// Table is an ordered sequence of chunks sharing one column layout. Every
// chunk but the last holds exactly MaxChunkSize rows.
type Table struct {
	maxChunkSize uint32
	chunks       []*Chunk
	columnNames  []string
	columnTypes  []types.DataType
	columnIndex  map[string]types.ColumnID
	opts         options
}

// NewTable creates a table whose chunks hold up to maxChunkSize rows. The
// table starts with one empty chunk.
func NewTable(maxChunkSize uint32, opts ...Option) (*Table, error) {
	if maxChunkSize == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "max chunk size must be positive")
	}
	return &Table{
		maxChunkSize: maxChunkSize,
		chunks:       []*Chunk{NewChunk()},
		columnIndex:  make(map[string]types.ColumnID),
		opts:         buildOptions(opts),
	}, nil
}

// AddColumn declares a column. Columns can only be added while the table is
// empty; each existing chunk receives a fresh value segment.
func (t *Table) AddColumn(name, typeName string) error {
	if t.RowCount() != 0 {
		return errors.Newf(errors.ErrorTypeInvalidState, "cannot add column %q to a table with %d rows", name, t.RowCount()).
			WithDetail("column", name)
	}
	if _, exists := t.columnIndex[name]; exists {
		return errors.Newf(errors.ErrorTypeDuplicateColumn, "column %q already exists", name).
			WithDetail("column", name)
	}
	if len(t.columnNames) > math.MaxUint16 {
		return errors.New(errors.ErrorTypeInvalidState, "column id space exhausted")
	}
	dt, err := types.ParseDataType(typeName)
	if err != nil {
		return err
	}

	segments := make([]Segment, len(t.chunks))
	for i := range segments {
		if segments[i], err = makeValueSegment(dt); err != nil {
			return err
		}
	}
	for i, c := range t.chunks {
		c.AddSegment(segments[i])
	}

	t.columnIndex[name] = types.ColumnID(len(t.columnNames))
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, dt)

	t.opts.logger.Debug("column added",
		zap.String("column", name),
		zap.String("type", dt.String()))
	return nil
}

// Append adds one row, allocating a new chunk first when the last one is
// full. A rejected row leaves the table unchanged.
func (t *Table) Append(row []types.Value) error {
	if len(t.columnNames) == 0 {
		err := errors.New(errors.ErrorTypeInvalidState, "table has no columns")
		t.opts.metrics.AppendRejected(t.opts.name, string(err.Type))
		return err
	}

	allocated := false
	if t.lastChunk().Size() >= int(t.maxChunkSize) {
		c, err := t.newChunk()
		if err != nil {
			return err
		}
		t.chunks = append(t.chunks, c)
		allocated = true
	}

	if err := t.lastChunk().Append(row); err != nil {
		if allocated {
			t.chunks = t.chunks[:len(t.chunks)-1]
		}
		t.opts.metrics.AppendRejected(t.opts.name, string(errors.ErrorTypeOf(err)))
		return err
	}

	if allocated {
		t.opts.metrics.ChunkAllocated(t.opts.name)
		t.opts.logger.Debug("chunk allocated", zap.Int("chunk_count", len(t.chunks)))
	}
	t.opts.metrics.RowAppended(t.opts.name)
	return nil
}

func (t *Table) newChunk() (*Chunk, error) {
	c := NewChunk()
	for _, dt := range t.columnTypes {
		s, err := makeValueSegment(dt)
		if err != nil {
			return nil, err
		}
		c.AddSegment(s)
	}
	return c, nil
}

func (t *Table) lastChunk() *Chunk {
	return t.chunks[len(t.chunks)-1]
}

// ColumnCount returns the number of declared columns.
func (t *Table) ColumnCount() int {
	return len(t.columnNames)
}

// RowCount returns the number of rows across all chunks.
func (t *Table) RowCount() int {
	total := 0
	for _, c := range t.chunks {
		total += c.Size()
	}
	return total
}

// ChunkCount returns the number of chunks, at least one.
func (t *Table) ChunkCount() int {
	return len(t.chunks)
}

// ColumnIDByName looks up a column by name.
func (t *Table) ColumnIDByName(name string) (types.ColumnID, error) {
	id, ok := t.columnIndex[name]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name).
			WithDetail("column", name)
	}
	return id, nil
}

// MaxChunkSize returns the row capacity of each chunk.
func (t *Table) MaxChunkSize() uint32 {
	return t.maxChunkSize
}

// ColumnNames returns the column names in column order.
func (t *Table) ColumnNames() []string {
	return slices.Clone(t.columnNames)
}

// ColumnName returns the name of a column.
func (t *Table) ColumnName(id types.ColumnID) (string, error) {
	if int(id) >= len(t.columnNames) {
		return "", errors.OutOfRange("column id", int(id), len(t.columnNames))
	}
	return t.columnNames[id], nil
}

// ColumnType returns the type-name string of a column.
func (t *Table) ColumnType(id types.ColumnID) (string, error) {
	dt, err := t.ColumnDataType(id)
	if err != nil {
		return "", err
	}
	return dt.String(), nil
}

// ColumnDataType returns the DataType of a column.
func (t *Table) ColumnDataType(id types.ColumnID) (types.DataType, error) {
	if int(id) >= len(t.columnTypes) {
		return types.TypeInvalid, errors.OutOfRange("column id", int(id), len(t.columnTypes))
	}
	return t.columnTypes[id], nil
}

// GetChunk returns the chunk with the given id.
func (t *Table) GetChunk(id types.ChunkID) (*Chunk, error) {
	if uint64(id) >= uint64(len(t.chunks)) {
		return nil, errors.OutOfRange("chunk id", int(id), len(t.chunks))
	}
	return t.chunks[id], nil
}

// EstimateMemoryUsage sums the estimates of all chunks.
func (t *Table) EstimateMemoryUsage() int {
	total := 0
	for _, c := range t.chunks {
		total += c.EstimateMemoryUsage()
	}
	return total
}

// CompressChunk dictionary-encodes the given chunk into a new chunk, using
// the table's logger and metrics. The table itself is not modified.
func (t *Table) CompressChunk(ctx context.Context, id types.ChunkID) (*Chunk, error) {
	c, err := t.GetChunk(id)
	if err != nil {
		return nil, err
	}
	compressor := &Compressor{opts: t.opts}
	return compressor.Compress(ctx, c)
}

// CompressChunks dictionary-encodes every chunk using up to workers
// goroutines. The table itself is not modified.
func (t *Table) CompressChunks(ctx context.Context, workers int) ([]*Chunk, error) {
	compressor := &Compressor{opts: t.opts}
	return compressor.CompressTable(ctx, t, workers)
}
