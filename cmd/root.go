package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/markb/odbcconv/internal/config"
	"github.com/markb/odbcconv/internal/convert"
	"github.com/markb/odbcconv/internal/log"
	"github.com/markb/odbcconv/internal/observability"
)

// Version information set via ldflags at build time
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

// session carries what a command needs once flags are parsed.
type session struct {
	stderr io.Writer

	cfg     *config.Config
	logger  *log.Logger
	tel     *observability.Telemetry
	cleanup func()
	engine  *convert.Engine
	recent  int
}

func newRootCmd(s *session) *cobra.Command {
	root := &cobra.Command{
		Use:   "odbcconv",
		Short: "Inspect ODBC value conversions",
		Long: `Runs the driver's value conversions outside a connection: fetch converts
server text into a host buffer, store converts a host value into a SQL literal.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
	}
	root.SetVersionTemplate("odbcconv version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file")
	pf.String("log-mode", "", "Log mode: console or trace")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Console log format: text or json")
	pf.String("log-db", "", "Trace database path for --log-mode trace")
	pf.String("otel-exporter", "", "Telemetry exporter: none or stdout")
	pf.Int("recent", 0, "Print the last N log lines after the command")

	root.AddCommand(newFetchCmd(s), newStoreCmd(s), newParseCmd(), newTypesCmd())
	return root
}

// buildConfig layers flags over the file and environment configuration.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("log-mode"); v != "" {
		cfg.Log.Mode = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("log-db"); v != "" {
		cfg.Log.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("otel-exporter"); v != "" {
		cfg.Telemetry.Exporter = v
		cfg.Telemetry.MetricsEnabled = v != "none"
		cfg.Telemetry.TracesEnabled = v != "none"
	}
	if n, _ := cmd.Flags().GetInt("recent"); n > cfg.Log.BufferLines {
		cfg.Log.BufferLines = n
	}
	return cfg, cfg.Validate()
}

func (s *session) open(cmd *cobra.Command) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.recent, _ = cmd.Flags().GetInt("recent")

	s.logger, err = log.New(&cfg.Log, s.stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	observability.Version = Version
	s.tel, s.cleanup, err = observability.Init(cmd.Context(), &cfg.Telemetry, s.stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	s.engine = convert.New(convert.Options{
		Logger:          s.logger.Logger,
		Metrics:         s.tel.Metrics(),
		WideStageBytes:  cfg.Engine.WideStageBytes,
		MaxLiteralBytes: cfg.Engine.MaxLiteralBytes,
	})
	s.logger.Debug("session opened",
		"log_mode", cfg.Log.Mode,
		"exporter", cfg.Telemetry.Exporter,
	)
	return nil
}

// close flushes telemetry, prints buffered log lines and closes the logger.
func (s *session) close() error {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	if s.logger == nil {
		return nil
	}
	for _, line := range s.logger.Recent(s.recent) {
		fmt.Fprintln(s.stderr, line)
	}
	err := s.logger.Close()
	s.logger = nil
	return err
}

func run(args []string, stdout, stderr io.Writer) error {
	s := &session{stderr: stderr}
	root := newRootCmd(s)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	return errors.Join(err, s.close())
}

func Execute() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
