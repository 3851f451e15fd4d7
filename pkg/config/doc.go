// # Configuration File
//
// All settings live in one YAML document:
//
//	max_chunk_size: 65535
//	logging:
//	  level: info
//	  encoding: json
//	metrics:
//	  enabled: true
//	export:
//	  compression: zstd
//	  level: 5
//	tracing:
//	  enabled: false
//	  sampling_rate: 1.0
//
// # Environment Variables
//
// Values may reference the environment with ${VAR_NAME}:
//
//	export:
//	  compression: ${EXPORT_CODEC}
//
// Any key can also be overridden with a CHUNKSTORE_ variable, nested keys
// joined by underscores:
//
//	CHUNKSTORE_MAX_CHUNK_SIZE=1024
//	CHUNKSTORE_LOGGING_LEVEL=debug
//
// Precedence, highest first: CHUNKSTORE_ variables, the file, Default().
//
// # Usage Pattern
//
// 1. Use config.Load() to read a file, or config.Default() programmatically
// 2. Pass MaxChunkSize to storage.NewTable
// 3. Pass Logging to logger.Init
// 4. Use Export.CompressionConfig() when writing Arrow files
package config
