// =============================================================================
// Transibase - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command
// performs the conversion itself; subcommands are auxiliary.
//
// COBRA CLI STRUCTURE:
//   rootCmd (transibase <inputFile> <outputFile> [year])
//   └── versionCmd (transibase version)
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quebecstudio/transibase/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// cfg holds the loaded configuration.
var cfg *config.Config

// logger is the process-wide structured logger.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "transibase <inputFile> <outputFile> [year]",
	Short: "Transibase - Extract donation records from Craft Commerce JSON exports to CSV",
	Long: `Transibase reads orders exported as JSON from Craft Commerce and writes the
donor fields of each order to a CSV file, optionally keeping only the
transactions of one year.

Arguments:
  inputFile   JSON export (an array of orders, a single order, or orders
              separated by commas without enclosing brackets)
  outputFile  CSV file to create
  year        Optional four-digit year (YYYY) to filter transactions

Each CSV row holds, fully quoted:
  reference, email, first name, last name, birth date, donation amount,
  transaction date (YYYY-MM-DD)

Example Usage:
  transibase orders.json donations.csv
  transibase orders.json donations-2023.csv 2023
  transibase orders.json donations.csv --header --yes`,

	Args: cobra.MinimumNArgs(2),

	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Arguments were accepted; later errors are not usage errors.
		cmd.SilenceUsage = true

		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	RunE: runConvert,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with status 1 on any error.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultConfigFile,
		"Path to the configuration file (optional unless given explicitly)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string, debug bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.Encoding = "console"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = true

	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = atomicLevel
	if debug {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zapConfig.Build()
}
