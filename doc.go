// Package chunkstore provides the storage core of an in-memory columnar
// database: typed values, chunked tables, plain and dictionary-encoded column
// segments, and a process-wide registry of named tables.
//
// # Architecture
//
// A table is split horizontally into chunks of at most MaxChunkSize rows.
// Every chunk holds one segment per column:
//
//   - ValueSegment stores the values of a column in insertion order and is
//     the only segment that accepts appends.
//   - DictionarySegment is an immutable, compressed copy of a full segment:
//     a sorted, deduplicated dictionary plus an attribute vector of value IDs
//     packed into 1, 2 or 4 bytes per row, whichever is narrowest.
//
// Appending to a table fills the last chunk and opens a new one when it is
// full. Compressing a chunk returns a new chunk whose segments are all
// dictionary encoded; the table keeps the original.
//
// # Quick Start
//
//	import (
//	    "context"
//
//	    "github.com/ajitpratap0/chunkstore/pkg/catalog"
//	    "github.com/ajitpratap0/chunkstore/pkg/storage"
//	    "github.com/ajitpratap0/chunkstore/pkg/types"
//	)
//
//	table, _ := storage.NewTable(1024)
//	_ = table.AddColumn("name", "string")
//	_ = table.AddColumn("age", "int")
//	_ = table.Append([]types.Value{types.String("Ada"), types.Int(36)})
//
//	compressed, _ := table.CompressChunk(context.Background(), 0)
//
//	catalog.Default().AddTable("people", table)
//	_ = catalog.Default().Print(os.Stdout)
//
// # Key Packages
//
//	pkg/types         - Data types, tagged values and identifier types
//	pkg/storage       - Segments, attribute vectors, chunks and tables
//	pkg/catalog       - Registry of named tables
//	pkg/export        - Arrow IPC export and import
//	pkg/compression   - Stream compressors used by export
//	pkg/config        - YAML and environment configuration
//	pkg/errors        - Structured error handling
//	pkg/logger        - Structured logging
//	pkg/metrics       - Prometheus storage metrics
//	pkg/observability - Tracing and process resource sampling
//
// # Command Line
//
// cmd/chunkstore loads delimited files into tables:
//
//	chunkstore load --file people.csv --schema name:string,age:int
//	chunkstore compress --file people.csv --schema name:string,age:int --workers 4
//	chunkstore export --file people.csv --schema name:string,age:int --out people.arrow.zst
//
// # Configuration
//
// Settings are read from a YAML file and from CHUNKSTORE_* environment
// variables. See pkg/config for the layout.
package chunkstore
