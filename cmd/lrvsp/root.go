package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/didymo/lrvsp/internal/config"
)

// NewRootCmd creates the root command for lrvsp.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lrvsp",
		Short: "Legislation text and reference extraction",
		Long: `lrvsp extracts body text from legislation PDFs with recurring page
headers and footers removed, finds the documents each file cites, and
stores the result for the CMS.

Settings are read from .lrvsp.yaml (see "lrvsp init") and LRVSP_*
environment variables.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file (default: search for .lrvsp.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewDaemonCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewEnqueueCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// loadConfig reads the configuration named by the --config flag and applies
// the --verbose flag on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
