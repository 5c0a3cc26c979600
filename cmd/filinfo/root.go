package main

import (
	"errors"

	"github.com/cwbudde/algo-waterfall/internal/logging"
	"github.com/cwbudde/algo-waterfall/waterfall"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool
	format     string
	precision  int

	cfg    Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "filinfo",
		Short:         "Inspect SIGPROC filterbank files",
		Long:          `filinfo prints header fields, frequency bounds, frequency and time axes, power data and spectrum statistics of filterbank files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML file with default settings")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.format, "format", formatText, "output format: text or json")
	flags.IntVar(&a.precision, "precision", 6, "digits after the decimal point in text output")

	root.AddCommand(
		a.headerCmd(),
		a.rangeCmd(),
		a.freqAxisCmd(),
		a.timeAxisCmd(),
		a.dataCmd(),
		a.statsCmd(),
	)
	return root
}

// setup merges the config file with explicitly set flags and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("precision") {
		cfg.Precision = a.precision
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(
		logging.WithConsole(),
		logging.WithLevel(cfg.LogLevel),
		logging.WithFields(map[string]any{"tool": "filinfo"}),
	)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

func (a *app) opts(db bool) []waterfall.Option {
	opts := []waterfall.Option{waterfall.WithLogger(a.logger)}
	if db {
		opts = append(opts, waterfall.WithDB())
	}
	return opts
}

// describe turns accessor errors into user-facing messages.
func describe(err error) string {
	switch {
	case errors.Is(err, waterfall.ErrInvalidHandle):
		return "invalid filterbank file argument"
	case errors.Is(err, waterfall.ErrNoData):
		return "no data in filterbank file"
	case errors.Is(err, waterfall.ErrRead):
		return "cannot read filterbank file: " + err.Error()
	default:
		return err.Error()
	}
}
