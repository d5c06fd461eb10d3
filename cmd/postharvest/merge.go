package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiller/postharvest/internal/config"
	"github.com/emiller/postharvest/internal/dataset"
	"github.com/emiller/postharvest/internal/logging"
)

var mergeDataDir string

var mergeCmd = &cobra.Command{
	Use:   "merge <session.csv>",
	Short: "Merge a session dataset into the cumulative dataset",
	Long: `Re-merge a previously written per-session CSV into the cumulative
dataset. Records already present keep their first-seen values.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergeDataDir, "data-dir", config.DefaultDataDir, "Directory holding the cumulative dataset")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	log := logging.Setup(false)

	records, err := dataset.ReadRecords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read session dataset: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s", args[0])
	}

	writer := dataset.NewWriter(mergeDataDir, log)
	merged, err := writer.MergeCumulative(records)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d records; cumulative dataset now has %d\n", len(records), len(merged))
	return nil
}
