// formweight: survey form weighting MCP server and CLI
//
// Decodes a saved survey form page (or its JSON payload), assigns
// demographic answer weights to every choice question, and lets an MCP
// host or the command line review and adjust them.
//
// Usage:
//
//	formweight serve               # Start MCP server (stdio transport)
//	formweight decode form.html    # Print the decoded questions as JSON
//	formweight analyze a.html b.json --save
//	formweight version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/HendryAvila/formweight/internal/config"
	"github.com/HendryAvila/formweight/internal/logging"
	fwserver "github.com/HendryAvila/formweight/internal/server"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formweight",
	Short: "Decode survey forms and assign realistic answer weights",
	Long: `formweight reads a saved survey form page or its JSON payload, lists its
questions, and gives every option of every choice question a weight: the
share of simulated respondents who pick it. Weights per question sum to 100.

Run "formweight serve" to expose the same features to an MCP host.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = zapcore.DebugLevel.String()
		}
		logger, err = logging.New(cfg.Logging)
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
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	// Skip config loading so version works with a broken config.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "formweight v%s\n", fwserver.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default ~/.formweight/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	analyzeCmd.Flags().BoolVar(&noDeps, "no-deps", false, "Skip cross-question dependency resolution")
	analyzeCmd.Flags().BoolVar(&saveResults, "save", false, "Save each analyzed form as a snapshot")
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the weighted forms as JSON")
	analyzeCmd.Flags().IntVar(&parallel, "parallel", 4, "Files analyzed at once")
	decodeCmd.Flags().StringVar(&fallbackTitle, "title", "", "Fallback title when the form has none")
	analyzeCmd.Flags().StringVar(&fallbackTitle, "title", "", "Fallback title when a form has none")

	rootCmd.AddCommand(serveCmd, decodeCmd, analyzeCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
