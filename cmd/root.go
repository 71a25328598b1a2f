// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	inputPath  string
	outputPath string
	configPath string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "github-dormant",
	Short: "A CLI tool to find long-dormant GitHub accounts.",
	Long: `github-dormant reads a newline-delimited list of GitHub usernames, looks each
one up through the GitHub GraphQL API and exports the accounts that were
created before 2011 and show no activity at all.

The output format follows the extension of --output: .md, .json, .csv or .txt.
Any other extension is rejected before a request is sent: the error goes to
stderr and the command exits with status 1.

The API token is read from the TOKEN environment variable (or a .env file)
and sent as "Authorization: Bearer <TOKEN>". Store the bare token; a leading
"bearer " in the value is dropped rather than sent twice.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
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
	RunE: runScan,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Newline-delimited file of GitHub usernames (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file; the extension selects the format: .md, .json, .csv or .txt (required)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Optional YAML configuration file")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}
