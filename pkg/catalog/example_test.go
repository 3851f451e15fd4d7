package catalog_test

import (
	"os"

	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/catalog"
	"github.com/ajitpratap0/chunkstore/pkg/storage"
	"github.com/ajitpratap0/chunkstore/pkg/types"
)

func ExampleRegistry_Print() {
	registry := catalog.New()

	people, _ := storage.NewTable(2, storage.WithName("people"), storage.WithLogger(zap.NewNop()))
	_ = people.AddColumn("name", "string")
	_ = people.AddColumn("age", "int")
	_ = people.Append([]types.Value{types.String("Ada"), types.Int(36)})
	_ = people.Append([]types.Value{types.String("Alan"), types.Int(41)})
	_ = people.Append([]types.Value{types.String("Grace"), types.Int(85)})
	registry.AddTable("people", people)

	empty, _ := storage.NewTable(2, storage.WithLogger(zap.NewNop()))
	registry.AddTable("empty", empty)

	_ = registry.Print(os.Stdout)

	// Output:
	// empty | 0 | 0 | 1
	// people | 2 | 3 | 2
}
