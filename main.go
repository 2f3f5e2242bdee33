// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	internalcmd "github.com/mia-platform/greeter/internal/cmd"
	"github.com/mia-platform/greeter/internal/config"
	"github.com/mia-platform/greeter/internal/info"
	"github.com/mia-platform/greeter/internal/logger"
)

var (
	appName      = info.AppName
	versionShort = "Display the " + appName + " version"
)

const (
	appShort = "greeter says hi"
	appLong  = `greeter says hi.
	Run without arguments it prints a greeting on the standard output,
	the sub commands echo a text or expose both operations over HTTP.

	Logging is configured with the LOG_LEVEL, LOG_FILE, LOG_CONSOLE and LOG_JSON
	environment variables, a YAML file passed with --config, or the flags below.`

	logLevelFlagName      = "log-level"
	logLevelShortFlagName = "v"
	logFileFlagName       = "log-file"
	logFileFlagUsage      = "append the logs to this file"
	configFlagName        = "config"
	configFlagUsage       = "path to a YAML file with the logging configuration"

	versionCmdName = "version"
)

var (
	allLoggerLevels = []string{
		logger.TRACE.String(),
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARN.String(),
		logger.ERROR.String(),
	}
	logLevelDefaultValue = logger.INFO.String()
	logLevelFlagUsage    = "set the logging level (possible values: " + strings.Join(allLoggerLevels, ", ") + ")"
)

// rootFlags holds the persistent flags shared across the command tree.
type rootFlags struct {
	logLevel   string
	logFile    string
	configPath string

	logCloser io.Closer
}

// addFlags registers the persistent CLI flags on cmd.
func (f *rootFlags) addFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&f.logLevel, logLevelFlagName, logLevelShortFlagName, logLevelDefaultValue, heredoc.Doc(logLevelFlagUsage))
	flags.StringVar(&f.logFile, logFileFlagName, "", logFileFlagUsage)
	flags.StringVar(&f.configPath, configFlagName, "", configFlagUsage)
}

// loggingConfig loads the logging configuration, giving precedence to the flags set by the user.
func (f *rootFlags) loggingConfig(cmd *cobra.Command) (*config.LoggingConfig, error) {
	cfg, err := config.LoadLoggingConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(logLevelFlagName) {
		cfg.Level = f.logLevel
	}
	if cmd.Flags().Changed(logFileFlagName) {
		cfg.File = f.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger builds the logger for this run and stores it in the command context.
func (f *rootFlags) setupLogger(cmd *cobra.Command) error {
	cfg, err := f.loggingConfig(cmd)
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.ToOptions(appName, cmd.ErrOrStderr()))
	if err != nil {
		return err
	}

	f.logCloser = closer
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// closeLogger releases the log file opened for this run, if any.
func (f *rootFlags) closeLogger() error {
	if f.logCloser == nil {
		return nil
	}

	closer := f.logCloser
	f.logCloser = nil
	return closer.Close()
}

func main() {
	flag := &rootFlags{}
	cmd := newRootCmd(flag)

	exitCode := 0
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		exitCode = 1
	}

	if err := flag.closeLogger(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	os.Exit(exitCode)
}

// rootCmd constructs the root Cobra command with shared configuration.
func rootCmd() *cobra.Command {
	return newRootCmd(&rootFlags{})
}

func newRootCmd(flag *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := flag.setupLogger(cmd); err != nil {
				cmd.PrintErrln(err)
				return err
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return internalcmd.Greet(cmd)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	flag.addFlags(cmd)
	cmd.AddCommand(
		internalcmd.FormatCmd(),
		internalcmd.ServeCmd(),
		versionCmd(),
	)

	return cmd
}

// versionCmd constructs the Cobra command that prints version information.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   versionCmdName,
		Short: heredoc.Doc(versionShort),

		Args: func(cmd *cobra.Command, args []string) error {
			err := cobra.NoArgs(cmd, args)
			if err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
			}

			return err
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), info.VersionString(info.Version, info.BuildDate))
		},
	}
}
