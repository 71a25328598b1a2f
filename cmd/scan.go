package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-dormant/internal/config"
	"github.com/naka-gawa/github-dormant/internal/exporter"
	"github.com/naka-gawa/github-dormant/internal/gateway"
	"github.com/naka-gawa/github-dormant/internal/report"
	"github.com/naka-gawa/github-dormant/internal/usecase"
)

// dotEnvPath is loaded relative to the working directory.
const dotEnvPath = ".env"

func runScan(cmd *cobra.Command, args []string) error {
	// Flag errors above print usage; anything from here on is a runtime error.
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	// The format is checked before any file or network access.
	format, err := exporter.FormatFromPath(outputPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath, dotEnvPath)
	if err != nil {
		return err
	}
	logger.Debug("Configuration loaded",
		zap.String("endpoint", cfg.GitHub.Endpoint),
		zap.String("token_env", cfg.GitHub.TokenEnv),
		zap.Bool("token_set", cfg.GitHub.Token != ""),
		zap.Int("cutoff_year", cfg.Scan.CutoffYear))

	// Inject dependencies and run the main business logic.
	githubGateway, err := gateway.NewGitHubGateway(cfg.GitHub, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	scanner := usecase.NewScanner(githubGateway, cfg.Scan.CutoffYear, logger)

	records, summary, err := scanner.ScanFile(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("failed to scan users: %w", err)
	}

	if err := exporter.WriteFile(outputPath, format, records); err != nil {
		return err
	}
	logger.Info("Exported results", zap.String("path", outputPath), zap.Stringer("format", format), zap.Int("records", len(records)))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Successfully exported results to %s\n", outputPath)
	return report.RenderSummary(out, summary)
}
