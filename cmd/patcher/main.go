package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbi-visuals/templates/internal/config"
	"github.com/pbi-visuals/templates/internal/logging"
	"github.com/pbi-visuals/templates/internal/models"
	"github.com/pbi-visuals/templates/internal/patch"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		dryRun  bool
		verbose bool
		cfg     *config.AppConfig
		logger  *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "patcher <report-folder> <template-json-path> <visual-match-string>",
		Short: "Apply a visual template to matching visuals of an unpacked report",
		Long: `Replaces the config of every visual whose title contains the match string
(case-insensitive) or whose type equals it, keeping the visual's position, size,
filters and data roles. report.json is rewritten only when something matched.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Args:          cobra.ExactArgs(3),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var err error
			cfg, err = config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			logger, err = logging.New(cfg.Log, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := patch.NewPatcher(cfg, logger).Patch(args[0], args[1], args[2], patch.Options{DryRun: dryRun})
			if err != nil {
				return err
			}
			printSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the changes without writing report.json")
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func printSummary(cmd *cobra.Command, result *models.PatchResult) {
	out := cmd.OutOrStdout()
	if result.NoMatch() {
		fmt.Fprintf(out, "No visuals matching '%s' were found to fix.\n", result.Match)
		return
	}

	if result.DryRun {
		for _, v := range result.Visuals {
			fmt.Fprintf(out, "%s [%d] %s '%s':\n", v.PageID, v.Index, v.VisualType, v.Title)
			for _, line := range v.Diff {
				fmt.Fprintf(out, "  %s\n", line)
			}
		}
		fmt.Fprintf(out, "Dry run: %d visual(s) would be fixed in report.json.\n", result.Fixed())
		return
	}

	fmt.Fprintf(out, "Successfully fixed %d visual(s) in report.json.\n", result.Fixed())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
