package main

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// column is one entry of a --schema flag.
type column struct {
	name string
	typ  types.DataType
}

// inputFlags are shared by every command that builds a table from a file.
type inputFlags struct {
	file      string
	schema    string
	chunkSize uint32
	table     string
	header    bool
	delimiter string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Path to a delimited input file (required)")
	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "Column list as name:type,... with types int, long, float, double, string (required)")
	cmd.Flags().Uint32Var(&f.chunkSize, "chunk-size", 0, "Rows per chunk; defaults to max_chunk_size from the config")
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table name; defaults to the file name without extension")
	cmd.Flags().BoolVar(&f.header, "header", true, "Skip the first line of the input")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ",", "Field delimiter")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("schema")
}

// comma returns the delimiter as the single rune encoding/csv expects.
func (f *inputFlags) comma() (rune, error) {
	if utf8.RuneCountInString(f.delimiter) != 1 {
		return 0, errors.Newf(errors.ErrorTypeConfig, "delimiter must be a single character, got %q", f.delimiter).
			WithDetail("delimiter", f.delimiter)
	}
	r, _ := utf8.DecodeRuneInString(f.delimiter)
	return r, nil
}

func (f *inputFlags) tableName() string {
	if f.table != "" {
		return f.table
	}
	base := filepath.Base(f.file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseSchema parses "name:type,name:type".
func parseSchema(schema string) ([]column, error) {
	var columns []column
	for _, part := range strings.Split(schema, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typeName, ok := strings.Cut(part, ":")
		if !ok || name == "" {
			return nil, errors.Newf(errors.ErrorTypeConfig, "schema entry %q must be name:type", part)
		}
		dt, err := types.ParseDataType(strings.TrimSpace(typeName))
		if err != nil {
			return nil, err
		}
		columns = append(columns, column{name: strings.TrimSpace(name), typ: dt})
	}
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "schema declares no columns")
	}
	return columns, nil
}

// parseField converts one text field to a Value of the column's type.
func parseField(field string, dt types.DataType) (types.Value, error) {
	switch dt {
	case types.TypeInt:
		n, err := strconv.ParseInt(strings.TrimSpace(field), 10, 32)
		if err != nil {
			return types.Value{}, err
		}
		return types.Int(int32(n)), nil
	case types.TypeLong:
		n, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return types.Value{}, err
		}
		return types.Long(n), nil
	case types.TypeFloat:
		x, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return types.Value{}, err
		}
		return types.Float(float32(x)), nil
	case types.TypeDouble:
		x, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return types.Value{}, err
		}
		return types.Double(x), nil
	case types.TypeString:
		return types.String(field), nil
	default:
		return types.Value{}, errors.Newf(errors.ErrorTypeConfig, "unsupported column type %s", dt)
	}
}

// loadTable reads the input file into a new table.
func (a *app) loadTable(ctx context.Context, f *inputFlags) (*storage.Table, error) {
	columns, err := parseSchema(f.schema)
	if err != nil {
		return nil, err
	}
	comma, err := f.comma()
	if err != nil {
		return nil, err
	}
	chunkSize := f.chunkSize
	if chunkSize == 0 {
		chunkSize = a.cfg.MaxChunkSize
	}

	name := f.tableName()
	table, err := storage.NewTable(chunkSize,
		storage.WithName(name),
		storage.WithLogger(logger.WithContext(ctx)),
		storage.WithMetrics(a.collector))
	if err != nil {
		return nil, err
	}
	for _, c := range columns {
		if err := table.AddColumn(c.name, c.typ.String()); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(f.file) //nolint:gosec // G304: path is supplied by the operator
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeFile, "failed to open %s", f.file)
	}
	defer file.Close()

	if err := readRows(file, f, comma, columns, table); err != nil {
		return nil, err
	}
	logger.WithContext(context.WithValue(ctx, logger.TableKey, name)).Info("table loaded",
		zap.String("file", f.file),
		zap.Int("rows", table.RowCount()),
		zap.Int("chunks", table.ChunkCount()))
	return table, nil
}

func readRows(r io.Reader, f *inputFlags, comma rune, columns []column, table *storage.Table) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(columns)
	reader.ReuseRecord = true
	reader.Comma = comma

	row := make([]types.Value, len(columns))
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, errors.ErrorTypeFile, "failed to read %s", f.file)
		}
		if line == 1 && f.header {
			continue
		}
		for i, field := range record {
			v, err := parseField(field, columns[i].typ)
			if err != nil {
				return errors.Wrapf(err, errors.ErrorTypeTypeMismatch, "line %d column %q", line, columns[i].name).
					WithDetail("value", field)
			}
			row[i] = v
		}
		if err := table.Append(row); err != nil {
			return errors.Wrapf(err, errors.ErrorTypeOf(err), "line %d", line)
		}
	}
}
