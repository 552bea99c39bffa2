// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/upi-ledger/internal/config"
	"fjacquet/upi-ledger/internal/container"
	"fjacquet/upi-ledger/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
}

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig holds the configuration loaded before any subcommand runs
	AppConfig *config.Config

	// AppContainer holds the wired application dependencies
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "upi-ledger",
		Short: "Extract and categorize UPI transactions from bank statements.",
		Long: `upi-ledger reads PDF, CSV and plain-text bank statements, finds the
owner's phone number, extracts UPI transactions and assigns each one a
spending category. It can run once from the command line or serve an HTTP API.`,
		Version: Version,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to upi-ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeApp()
		},
		// Close the container when any command finishes so memories are saved
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close application container")
			}
			AppContainer = nil
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	logLevel string
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

func initializeApp() error {
	if _, err := config.LoadEnv(); err != nil {
		Log.WithError(err).Warn("Failed to load .env file")
	}

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	if logLevel != "" {
		if _, err := logrus.ParseLevel(logLevel); err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		cfg.Log.Level = logLevel
	}
	AppConfig = cfg
	Log = config.ConfigureLoggingFromConfig(cfg)

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	AppContainer = c
	logging.SetLogger(c.GetLogger())
	return nil
}

// GetContainer returns the application container, or nil before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetLogrusAdapter returns a Logger for code that runs without a container.
func GetLogrusAdapter() logging.Logger {
	if AppContainer != nil {
		return AppContainer.GetLogger()
	}
	return logging.NewLogrusAdapterFromLogger(Log)
}

// CSVDelimiter returns the configured output delimiter.
func CSVDelimiter() rune {
	if AppConfig == nil || AppConfig.CSV.Delimiter == "" {
		return ','
	}
	return []rune(AppConfig.CSV.Delimiter)[0]
}
