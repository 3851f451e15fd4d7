package main

import (
	"io"
	"runtime"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/catalog"
	"github.com/ajitpratap0/chunkstore/pkg/compression"
	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/export"
	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/observability"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

// loadReport is the JSON output of load.
type loadReport struct {
	Tables  []catalog.TableStats         `json:"tables"`
	Process *observability.ResourceUsage `json:"process,omitempty"`
}

// chunkReport is one line of compress output.
type chunkReport struct {
	Chunk        int `json:"chunk"`
	Rows         int `json:"rows"`
	BytesBefore  int `json:"bytes_before"`
	BytesAfter   int `json:"bytes_after"`
	// UniqueValues holds the dictionary size of each column, in column order
	UniqueValues []int `json:"unique_values"`
}

func newLoadCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a delimited file and print table statistics",
		Long: `Load a delimited file into a chunked table and print one line per table:
name | columns | rows | chunks

Example:
  chunkstore load --file people.csv --schema name:string,age:int --chunk-size 1024`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			a.registry.AddTable(in.tableName(), table)

			usage, err := observability.SampleResourceUsage()
			if err != nil {
				logger.WithContext(cmd.Context()).Warn("resource usage unavailable", zap.Error(err))
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return encodeJSON(out, loadReport{Tables: a.registry.Stats(), Process: usage})
			}
			if err := a.registry.Print(out); err != nil {
				return err
			}
			if usage != nil {
				writeText(out, "process rss: %d bytes\n", usage.MemoryRSS)
			}
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

func newCompressCmd(a *app) *cobra.Command {
	var in inputFlags
	var workers int
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Dictionary-encode every chunk and report memory before and after",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.loadTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			compressed, err := table.CompressChunks(cmd.Context(), workers)
			if err != nil {
				return err
			}

			reports := make([]chunkReport, len(compressed))
			for id, c := range compressed {
				original, err := table.GetChunk(types.ChunkID(id))
				if err != nil {
					return err
				}
				unique, err := uniqueValues(c)
				if err != nil {
					return err
				}
				reports[id] = chunkReport{
					Chunk:        id,
					Rows:         c.Size(),
					BytesBefore:  original.EstimateMemoryUsage(),
					BytesAfter:   c.EstimateMemoryUsage(),
					UniqueValues: unique,
				}
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return encodeJSON(out, reports)
			}
			for _, r := range reports {
				writeText(out, "chunk %d: %d rows, %d -> %d bytes\n", r.Chunk, r.Rows, r.BytesBefore, r.BytesAfter)
			}
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Chunks compressed concurrently")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var in inputFlags
	var outPath, codec string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a table as an Arrow IPC file",
		Long: `Load a delimited file and write it as an Arrow IPC file, one record batch
per chunk, passed through the selected stream compressor.

Example:
  chunkstore export --file people.csv --schema name:string,age:int --out people.arrow.zst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportCfg := a.cfg.Export
			if cmd.Flags().Changed("compression") {
				exportCfg.Compression = codec
			}
			compCfg, err := exportCfg.CompressionConfig()
			if err != nil {
				return err
			}
			comp, err := compression.NewCompressor(compCfg)
			if err != nil {
				return err
			}

			table, err := a.loadTable(cmd.Context(), &in)
			if err != nil {
				return err
			}
			result, err := export.WriteFile(cmd.Context(), outPath, table, comp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOutput {
				return encodeJSON(out, result)
			}
			writeText(out, "wrote %d rows in %d batches to %s (%s, %d bytes)\n",
				result.Rows, result.Batches, result.Path, result.Compression, result.BytesWritten)
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file path (required)")
	cmd.Flags().StringVar(&codec, "compression", "", "Stream compression: none, gzip, snappy, lz4, zstd, s2; defaults to export.compression from the config")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// uniqueValues returns the dictionary size of every column of a compressed
// chunk.
func uniqueValues(c *storage.Chunk) ([]int, error) {
	counts := make([]int, c.ColumnCount())
	for i := range counts {
		seg, err := c.GetSegment(types.ColumnID(i))
		if err != nil {
			return nil, err
		}
		if d, ok := seg.(interface{ UniqueValuesCount() int }); ok {
			counts[i] = d.UniqueValuesCount()
		}
	}
	return counts, nil
}

func encodeJSON(w io.Writer, v interface{}) error {
	enc := gojson.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode JSON")
	}
	return nil
}
