package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/didymo/lrvsp/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file with the default settings",
		Long: `Init writes a .lrvsp.yaml file holding every setting with its default
value: cycle timing, queue limits, database and CMS paths, and the layout
engine tunables.

Examples:
  # Create .lrvsp.yaml in the current directory
  lrvsp init

  # Create the file at a specific path
  lrvsp init -o /etc/lrvsp/lrvsp.yaml

  # Overwrite an existing file
  lrvsp init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigName+".yaml",
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := config.WriteTemplate(outputPath, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	return nil
}
