package config_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/chunkstore/pkg/config"
)

// ExampleDefault shows the built-in defaults.
func ExampleDefault() {
	cfg := config.Default()

	fmt.Printf("Max Chunk Size: %d\n", cfg.MaxChunkSize)
	fmt.Printf("Log Level: %s\n", cfg.Logging.Level)
	fmt.Printf("Export Compression: %s\n", cfg.Export.Compression)

	// Output:
	// Max Chunk Size: 65535
	// Log Level: info
	// Export Compression: zstd
}

// ExampleStorageConfig_Validate shows how to validate a configuration
// before using it.
func ExampleStorageConfig_Validate() {
	cfg := config.Default()
	cfg.MaxChunkSize = 0

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// config: max_chunk_size must be positive
}

// ExampleLoad demonstrates loading configuration from a YAML file
// with environment variable substitution.
func ExampleLoad() {
	dir, err := os.MkdirTemp("", "chunkstore-config")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "chunkstore.yaml")
	content := "max_chunk_size: ${EXAMPLE_CHUNK_SIZE}\nexport:\n  compression: lz4\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}
	os.Setenv("EXAMPLE_CHUNK_SIZE", "4096")
	defer os.Unsetenv("EXAMPLE_CHUNK_SIZE")

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fmt.Println(cfg.MaxChunkSize, cfg.Export.Compression, cfg.Logging.Encoding)

	// Output:
	// 4096 lz4 json
}
