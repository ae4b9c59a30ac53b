package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonhull/audiotags"
	"github.com/simonhull/audiotags/internal/config"
	"github.com/simonhull/audiotags/internal/logger"
)

// app is the state shared by all subcommands.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer

	envFile  string
	output   string
	logLevel string
	logFile  string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "tagtool",
		Short:         "Read and write audio file tags",
		Version:       audiotags.GetVersionInfo().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync() //nolint:errcheck // Sync fails on some terminals
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env", ".env", "Environment file to load")
	flags.StringVarP(&a.output, "output", "o", "", "Output format: json or yaml (default from TAGTOOL_OUTPUT)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "Write JSON logs to this rotated file")

	root.AddCommand(
		newReadCmd(a),
		newWriteCmd(a),
		newScanCmd(a),
		newRawCmd(a),
		newFormatsCmd(a),
		newAtomsCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger. Flags override the
// environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.output != "" {
		if a.output != "json" && a.output != "yaml" {
			return fmt.Errorf("unknown output format %q", a.output)
		}
		cfg.Output = a.output
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	a.cfg = cfg

	a.log, err = logger.New(logger.Config{
		Level:      logger.Level(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}, a.errOut)
	if err != nil {
		return err
	}
	a.log = a.log.Named(cmd.Name())
	return nil
}

// openOptions returns the library options every subcommand uses.
func (a *app) openOptions() []audiotags.Option {
	return []audiotags.Option{
		audiotags.WithLogger(a.log),
		audiotags.WithConcurrency(a.cfg.Workers),
	}
}
