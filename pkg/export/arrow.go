// Package export converts tables to and from the Arrow IPC file format.
// Every chunk becomes one record batch; dictionary-encoded segments are
// materialized to plain Arrow arrays.
package export

import (
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// MetadataMaxChunkSize is the schema metadata key holding the table's chunk
// capacity.
const MetadataMaxChunkSize = "chunkstore.max_chunk_size"

// ArrowType maps a storage data type to its Arrow type.
func ArrowType(dt types.DataType) (arrow.DataType, error) {
	switch dt {
	case types.TypeInt:
		return arrow.PrimitiveTypes.Int32, nil
	case types.TypeLong:
		return arrow.PrimitiveTypes.Int64, nil
	case types.TypeFloat:
		return arrow.PrimitiveTypes.Float32, nil
	case types.TypeDouble:
		return arrow.PrimitiveTypes.Float64, nil
	case types.TypeString:
		return arrow.BinaryTypes.String, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "no arrow type for %s", dt)
	}
}

// DataTypeOf maps an Arrow type back to a storage data type.
func DataTypeOf(dt arrow.DataType) (types.DataType, error) {
	switch dt.ID() {
	case arrow.INT32:
		return types.TypeInt, nil
	case arrow.INT64:
		return types.TypeLong, nil
	case arrow.FLOAT32:
		return types.TypeFloat, nil
	case arrow.FLOAT64:
		return types.TypeDouble, nil
	case arrow.STRING:
		return types.TypeString, nil
	default:
		return types.TypeInvalid, errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported arrow type %s", dt)
	}
}

// TableSchema builds the Arrow schema for t. Columns are non-nullable.
func TableSchema(t *storage.Table) (*arrow.Schema, error) {
	fields := make([]arrow.Field, t.ColumnCount())
	for i := range fields {
		id := types.ColumnID(i)
		name, err := t.ColumnName(id)
		if err != nil {
			return nil, err
		}
		dt, err := t.ColumnDataType(id)
		if err != nil {
			return nil, err
		}
		at, err := ArrowType(dt)
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: name, Type: at}
	}
	md := arrow.NewMetadata(
		[]string{MetadataMaxChunkSize},
		[]string{strconv.FormatUint(uint64(t.MaxChunkSize()), 10)},
	)
	return arrow.NewSchema(fields, &md), nil
}

// ChunkRecord materializes c as a record batch with the given schema. The
// caller owns the returned record and must Release it.
func ChunkRecord(mem memory.Allocator, schema *arrow.Schema, c *storage.Chunk) (arrow.Record, error) {
	if c.ColumnCount() != len(schema.Fields()) {
		return nil, errors.Newf(errors.ErrorTypeSizeMismatch,
			"chunk has %d columns, schema has %d", c.ColumnCount(), len(schema.Fields()))
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for i := 0; i < c.ColumnCount(); i++ {
		seg, err := c.GetSegment(types.ColumnID(i))
		if err != nil {
			return nil, err
		}
		if err := appendSegment(b.Field(i), seg); err != nil {
			return nil, errors.Wrapf(err, errors.ErrorTypeOf(err), "column %q", schema.Field(i).Name)
		}
	}
	return b.NewRecord(), nil
}

func appendSegment(b array.Builder, seg storage.Segment) error {
	b.Reserve(seg.Size())
	switch b := b.(type) {
	case *array.Int32Builder:
		return appendValues(b.Append, seg)
	case *array.Int64Builder:
		return appendValues(b.Append, seg)
	case *array.Float32Builder:
		return appendValues(b.Append, seg)
	case *array.Float64Builder:
		return appendValues(b.Append, seg)
	case *array.StringBuilder:
		return appendValues(b.Append, seg)
	default:
		return errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported builder %T", b)
	}
}

func appendValues[T types.Primitive](appendFn func(T), seg storage.Segment) error {
	if vs, ok := seg.(*storage.ValueSegment[T]); ok {
		for _, v := range vs.Values() {
			appendFn(v)
		}
		return nil
	}
	for i := 0; i < seg.Size(); i++ {
		v, err := seg.ValueAt(types.ChunkOffset(i))
		if err != nil {
			return err
		}
		x, err := types.Cast[T](v)
		if err != nil {
			return err
		}
		appendFn(x)
	}
	return nil
}

// WriteIPC writes t to w in the Arrow IPC file format and returns the
// number of rows written.
func WriteIPC(w io.Writer, t *storage.Table) (int64, error) {
	schema, err := TableSchema(t)
	if err != nil {
		return 0, err
	}
	mem := memory.NewGoAllocator()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to create Arrow writer")
	}

	var rows int64
	for id := 0; id < t.ChunkCount(); id++ {
		c, err := t.GetChunk(types.ChunkID(id))
		if err != nil {
			return rows, err
		}
		rec, err := ChunkRecord(mem, schema, c)
		if err != nil {
			return rows, err
		}
		err = fw.Write(rec)
		rows += rec.NumRows()
		rec.Release()
		if err != nil {
			return rows, errors.Wrapf(err, errors.ErrorTypeFile, "failed to write record batch %d", id)
		}
	}

	if err := fw.Close(); err != nil {
		return rows, errors.Wrap(err, errors.ErrorTypeFile, "failed to close Arrow writer")
	}
	return rows, nil
}

// ReadIPC rebuilds a table from an Arrow IPC file. The chunk capacity comes
// from the schema metadata, falling back to defaultChunkSize.
func ReadIPC(r ipc.ReadAtSeeker, defaultChunkSize uint32, opts ...storage.Option) (*storage.Table, error) {
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open Arrow file")
	}
	defer fr.Close()

	schema := fr.Schema()
	chunkSize := defaultChunkSize
	if idx := schema.Metadata().FindKey(MetadataMaxChunkSize); idx >= 0 {
		n, err := strconv.ParseUint(schema.Metadata().Values()[idx], 10, 32)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "invalid chunk size metadata")
		}
		chunkSize = uint32(n)
	}

	table, err := storage.NewTable(chunkSize, opts...)
	if err != nil {
		return nil, err
	}
	for _, f := range schema.Fields() {
		dt, err := DataTypeOf(f.Type)
		if err != nil {
			return nil, err
		}
		if err := table.AddColumn(f.Name, dt.String()); err != nil {
			return nil, err
		}
	}

	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to read record batch %d", i)
		}
		if err := appendRecord(table, rec); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func appendRecord(t *storage.Table, rec arrow.Record) error {
	cols := rec.Columns()
	row := make([]types.Value, len(cols))
	for r := 0; r < int(rec.NumRows()); r++ {
		for c, col := range cols {
			v, err := valueAt(col, r)
			if err != nil {
				return err
			}
			row[c] = v
		}
		if err := t.Append(row); err != nil {
			return err
		}
	}
	return nil
}

func valueAt(col arrow.Array, i int) (types.Value, error) {
	switch col := col.(type) {
	case *array.Int32:
		return types.Int(col.Value(i)), nil
	case *array.Int64:
		return types.Long(col.Value(i)), nil
	case *array.Float32:
		return types.Float(col.Value(i)), nil
	case *array.Float64:
		return types.Double(col.Value(i)), nil
	case *array.String:
		return types.String(col.Value(i)), nil
	default:
		return types.Value{}, errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported arrow array %T", col)
	}
}
