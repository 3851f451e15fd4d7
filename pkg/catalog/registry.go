// Package catalog keeps named tables. A Registry can be created per test or
// per component; Default returns the process-wide instance.
package catalog

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
)

// Registry maps table names to tables.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]*storage.Table
}

// TableStats summarizes one registered table.
type TableStats struct {
	Name         string `json:"name"`
	Columns      int    `json:"columns"`
	Rows         int    `json:"rows"`
	Chunks       int    `json:"chunks"`
	MaxChunkSize uint32 `json:"max_chunk_size"`
	MemoryBytes  int    `json:"memory_bytes"`
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{tables: make(map[string]*storage.Table)}
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first use. It
// lives until the process exits; call Reset between tests.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// AddTable registers table under name, replacing any existing table.
func (r *Registry) AddTable(name string, table *storage.Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables[name] = table
}

// DropTable removes the table registered under name.
func (r *Registry) DropTable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[name]; !ok {
		return notFound(name)
	}
	delete(r.tables, name)
	return nil
}

// GetTable returns the table registered under name.
func (r *Registry) GetTable(name string) (*storage.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table, ok := r.tables[name]
	if !ok {
		return nil, notFound(name)
	}
	return table, nil
}

// HasTable reports whether name is registered.
func (r *Registry) HasTable(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tables[name]
	return ok
}

// TableNames returns the registered names in ascending order.
func (r *Registry) TableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset removes every table.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = make(map[string]*storage.Table)
}

// Stats summarizes every table in name order.
func (r *Registry) Stats() []TableStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make([]TableStats, 0, len(r.tables))
	for name, t := range r.tables {
		stats = append(stats, TableStats{
			Name:         name,
			Columns:      t.ColumnCount(),
			Rows:         t.RowCount(),
			Chunks:       t.ChunkCount(),
			MaxChunkSize: t.MaxChunkSize(),
			MemoryBytes:  t.EstimateMemoryUsage(),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })
	return stats
}

// Print writes one "name | columns | rows | chunks" line per table.
func (r *Registry) Print(w io.Writer) error {
	for _, s := range r.Stats() {
		if _, err := fmt.Fprintf(w, "%s | %d | %d | %d\n", s.Name, s.Columns, s.Rows, s.Chunks); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to print table stats")
		}
	}
	return nil
}

func notFound(name string) error {
	return errors.Newf(errors.ErrorTypeNotFound, "table %q not found", name).
		WithDetail("table", name)
}
