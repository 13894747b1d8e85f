package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pagerank-bench/pkg/config"
	"github.com/pagerank-bench/pkg/telemetry"
	"github.com/pagerank-bench/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger utils.Logger
	cfg    *config.Config

	telemetryShutdown telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pagerank-bench",
	Short: "A PageRank solver benchmark tool",
	Long: `pagerank-bench computes PageRank over directed graphs using power
iteration, offering several coordination strategies so their convergence
behavior, latency, and stability can be compared.

It reads Matrix Market (.mtx) and temporal edge-list graph files, runs the
basic synchronous, monolithic ordered/unordered, or barrier-free
asynchronous solver, and reports per-run iteration counts and timings.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup logger based on verbose flag
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		defaultLogger := utils.NewDefaultLogger(logLevel, os.Stdout)
		logger = defaultLogger
		utils.SetGlobalLogger(logger)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		// -v wins over the configured level; otherwise honor log.level.
		if !verbose {
			defaultLogger.SetLevel(utils.ParseLogLevel(cfg.Log.Level))
		}

		shutdown, err := telemetry.Init(cmd.Context())
		if err != nil {
			logger.Warn("Tracing disabled: %v", err)
		} else {
			telemetryShutdown = shutdown
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if telemetryShutdown != nil {
			if err := telemetryShutdown(context.Background()); err != nil {
				logger.Warn("Failed to flush traces: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	// Set dynamic example using actual binary name
	binName := BinName()
	rootCmd.Example = `  # Solve a Matrix Market graph with the default synchronous solver
  ` + binName + ` solve -i ./graphs/web-Stanford.mtx

  # Compare the barrier-free solver on 8 workers
  ` + binName + ` solve -i ./graphs/web-Stanford.mtx --variant barrierfree --workers 8

  # Sweep damping and tolerance across solver variants
  ` + binName + ` sweep -i ./graphs/web-Stanford.mtx --damping 0.75,0.85,0.95 --variant basic,barrierfree

  # Start the scheduler service and results API
  ` + binName + ` serve -p 8080`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
