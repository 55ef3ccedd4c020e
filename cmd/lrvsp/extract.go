package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/didymo/lrvsp"
	"github.com/didymo/lrvsp/internal/logger"
	"github.com/didymo/lrvsp/layout"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract text or records from files",
		Long: `Extract prints the body text of each PDF with recurring headers and
footers removed. With --record it prints the stored record of each file
(name, metadata and cited titles) as JSON instead; markup files are only
supported with --record.

Examples:
  # Print the body text of a PDF
  lrvsp extract Crimes_Act_1900_40.pdf

  # Print records, failing on PDFs without recurring page furniture
  lrvsp extract --record --missing-chrome fail *.pdf *.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExtractCmd,
	}

	cmd.Flags().BoolP("record", "r", false, "Print records as JSON instead of text")
	cmd.Flags().Uint64("seed", 0, "Fix the page sampling seed (0 derives it from the file)")
	cmd.Flags().String("missing-chrome", "", "Policy when no header or footer is found: ignore, warn or fail")

	return cmd
}

func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	lc, err := cfg.LayoutConfig()
	if err != nil {
		return err
	}

	asRecord, err := cmd.Flags().GetBool("record")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetUint64("seed")
	if err != nil {
		return err
	}
	if policy, _ := cmd.Flags().GetString("missing-chrome"); policy != "" {
		if lc.MissingChrome, err = layout.ParseChromePolicy(policy); err != nil {
			return err
		}
	}

	log, err := logger.NewLogger(cfg.Verbose, "")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	for _, path := range args {
		ext := lrvsp.Open(path).WithConfig(lc).WithLogger(log)
		if seed != 0 {
			ext = ext.Seed(seed)
		}

		var warnings []lrvsp.Warning
		if asRecord {
			var rec *lrvsp.Record
			rec, warnings, err = ext.RecordContext(ctx)
			if err == nil {
				err = enc.Encode(rec)
			}
		} else {
			var text string
			text, warnings, err = ext.TextContext(ctx)
			if err == nil {
				_, err = fmt.Fprintln(out, text)
			}
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if len(warnings) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, lrvsp.FormatWarnings(warnings))
		}
	}
	return nil
}
