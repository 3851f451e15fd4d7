package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/chunkstore/pkg/catalog"
	"github.com/ajitpratap0/chunkstore/pkg/config"
	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/metrics"
	"github.com/ajitpratap0/chunkstore/pkg/observability"
)

var version = "0.1.0"

// app carries the state shared by every subcommand once the root command's
// pre-run has loaded configuration.
type app struct {
	configFile string
	logLevel   string
	jsonOutput bool
	trace      bool

	cfg       *config.StorageConfig
	collector *metrics.StorageCollector
	registry  *catalog.Registry
	shutdown  observability.ShutdownFunc
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{registry: catalog.New()}

	root := &cobra.Command{
		Use:   "chunkstore",
		Short: "chunkstore - in-memory chunked column store",
		Long: `chunkstore loads delimited files into chunked, typed column tables,
dictionary-encodes their chunks and exports them as Arrow IPC files.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Print results as JSON")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "Print OpenTelemetry spans to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "chunkstore v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newLoadCmd(a), newCompressCmd(a), newExportCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.trace {
		cfg.Tracing.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	if cfg.Metrics.Enabled {
		a.collector = metrics.Default()
	}

	a.shutdown, err = observability.InitTracing(cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, logger.CommandKey, cmd.Name()))
	logger.WithContext(cmd.Context()).Debug("configuration loaded",
		zap.String("config_file", a.configFile),
		zap.Uint32("max_chunk_size", cfg.MaxChunkSize))
	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.shutdown != nil {
		if err := a.shutdown(cmd.Context()); err != nil {
			return err
		}
	}
	_ = logger.Sync() // stderr cannot be synced on most platforms
	return nil
}

func writeText(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
