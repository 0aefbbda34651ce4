package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbi-visuals/templates/internal/config"
	"github.com/pbi-visuals/templates/internal/extract"
	"github.com/pbi-visuals/templates/internal/logging"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		output  string
		verbose bool
		cfg     *config.AppConfig
		logger  *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "extractor <path-to-archive>",
		Short: "Extract every visual config of a report archive as a template file",
		Long: `Reads the layout document of a report archive and writes one pretty-printed
JSON file per visual, grouped by page, next to the archive.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid by now; later failures are not usage errors.
			cmd.SilenceUsage = true

			var err error
			cfg, err = config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if output != "" {
				abs, err := filepath.Abs(output)
				if err != nil {
					return err
				}
				cfg.Extract.OutputRoot = abs
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
			result, err := extract.NewExtractor(cfg, logger).Extract(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extraction complete. Total %d visual templates saved to %s\n",
				result.Count(), result.OutputRoot)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "directory to write templates to (default <archive-dir>/extracted_visual_templates/<archive-name>)")
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
