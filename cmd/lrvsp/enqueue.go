package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/didymo/lrvsp/internal/store"
)

// NewEnqueueCmd creates the enqueue command.
func NewEnqueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue <file>...",
		Short: "Add files to the processing queue",
		Long: `Enqueue adds files to the queue database the daemon works from. The CMS
normally does this itself; the command is meant for testing and for
reprocessing files by hand.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runEnqueueCmd,
	}

	cmd.Flags().Int64P("entity", "e", 0, "CMS entity id the files belong to")
	cmd.Flags().StringP("process-path", "p", "", "Processing copy to read instead of the file (single file only)")

	return cmd
}

func runEnqueueCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	entity, err := cmd.Flags().GetInt64("entity")
	if err != nil {
		return err
	}
	processPath, err := cmd.Flags().GetString("process-path")
	if err != nil {
		return err
	}
	if processPath != "" && len(args) > 1 {
		return fmt.Errorf("--process-path needs exactly one file, got %d", len(args))
	}
	if processPath != "" {
		if processPath, err = filepath.Abs(processPath); err != nil {
			return err
		}
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := commandContext(cmd)
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		id, err := s.Enqueue(ctx, abs, processPath, entity)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, abs)
	}
	return nil
}
