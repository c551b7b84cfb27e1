package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/awbwapp/replay/internal/actions"
	"github.com/awbwapp/replay/internal/config"
	"github.com/awbwapp/replay/internal/logging"
	"github.com/awbwapp/replay/internal/parser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what every command shares once the root command has run its
// setup.
type app struct {
	configDir string

	logs    *logging.SlogManager
	logger  *slog.Logger
	zlog    zerolog.Logger
	logFile *os.File
	graylog *gelf.Writer
}

// newRootCmd builds the command tree around a. The caller runs a.teardown
// once Execute returns.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "awbwreplay",
		Short:        "Decode Advance Wars By Web replay archives",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Name())
		},
	}
	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory containing "+config.FileName)

	root.AddCommand(
		newDecodeCmd(a),
		newStoreCmd(a),
		newListCmd(a),
		newUsernameCmd(a),
		newFogCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and starts logging for the named command. A
// missing config file is not fatal; defaults apply.
func (a *app) setup(command string) error {
	configErr := config.Load(a.configDir)
	if configErr != nil {
		config.SetDefaults()
	}

	cfg := config.GetLoggingConfig()

	var logOut io.Writer = os.Stderr
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
			return fmt.Errorf("error creating logs directory: %w", err)
		}
		path := logging.LogFilePath(cfg.LogsDir, AppName, command, time.Now())
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		a.logFile = f
		logOut = f
	}

	var graylogErr error
	if cfg.GraylogEnabled {
		a.graylog, graylogErr = logging.NewGraylogWriter(cfg.GraylogAddress)
	}

	a.logs = logging.NewSlogManager()
	if a.graylog != nil {
		a.logs.Setup(logOut, cfg.Level, a.graylog)
	} else {
		a.logs.Setup(logOut, cfg.Level, nil)
	}
	a.logger = a.logs.Logger()

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	a.zlog = zerolog.New(logOut).Level(level).With().Timestamp().Logger()

	if configErr != nil {
		a.logger.Debug("Using default configuration", "error", configErr)
	}
	if graylogErr != nil {
		a.logger.Warn("Graylog disabled", "error", graylogErr)
	}
	return nil
}

func (a *app) teardown() error {
	var errs []error
	if a.graylog != nil {
		errs = append(errs, a.graylog.Close())
		a.graylog = nil
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
		a.logFile = nil
	}
	return errors.Join(errs...)
}

// newParser wires the action registry and archive limits into a parser.
func (a *app) newParser() (*parser.Parser, error) {
	registry, err := actions.NewRegistry(logging.NewRegistryLogger(a.zlog), actions.Logged())
	if err != nil {
		return nil, fmt.Errorf("error creating action registry: %w", err)
	}
	return parser.NewParser(a.logger, registry,
		parser.WithMaxMemberSize(config.GetDecodeConfig().MaxMemberSize)), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", AppName, Version, BuildDate)
		},
	}
}
