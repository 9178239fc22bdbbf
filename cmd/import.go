package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/logger"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

var flagImportForce bool

var importCmd = &cobra.Command{
	Use:   "import [file|dir]",
	Short: "Import ledger files (JSONL, YAML, JSON or TOML plans)",
	Long: "Import reads trip plans and JSONL expense ledgers into the ledger database.\n" +
		"Files already imported are skipped unless they changed or --force is set.\n" +
		"Without an argument the configured general.ledger_dir is used.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Re-import files even when unchanged")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := cfg.General.LedgerDir
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return fmt.Errorf("nothing to import: pass a path or set general.ledger_dir")
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	res, err := pipeline.Import(cmd.Context(), path, l, cfg.AccrualFor, pipeline.ImportOptions{
		Force:    flagImportForce,
		Progress: progressPrinter("Importing"),
		Logger:   logger.Component(log, "import"),
	})
	if err != nil {
		return err
	}

	if res.TotalFiles == 0 {
		fmt.Printf("  No ledger files found in %s\n", path)
		return nil
	}
	fmt.Printf("  %s files: %d imported, %d unchanged",
		cli.FormatNumber(int64(res.TotalFiles)), res.Saved, res.Unchanged)
	if res.ParseErrors > 0 {
		fmt.Printf(", %d malformed lines skipped", res.ParseErrors)
	}
	fmt.Println()
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", e)
	}
	if res.FileErrors > 0 {
		return fmt.Errorf("%d file(s) could not be imported", res.FileErrors)
	}
	return nil
}
