package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipscribe/internal/batchrun"
	"clipscribe/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe every pending clip once, then sweep the scratch directory",
		Long: "Rewrites CDN aliases, removes duplicate clips, then validates, downloads,\n" +
			"converts, and transcribes each pending clip in turn. Clips whose link\n" +
			"returns 404 are deleted; clips that fail a stage are flagged failed and\n" +
			"skipped by later runs until cleared with `clipscribe clips retry`.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must be zero or positive")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			summary, err := batchrun.Run(cmd.Context(), cfg, batchrun.Options{
				LogLevel: ctx.logLevel(),
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRunSummary(summary))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Transcribe at most this many clips (0 uses workflow.limit)")
	return cmd
}

func renderRunSummary(summary workflow.Summary) string {
	count := strconv.Itoa
	rows := [][]string{
		{"Links rewritten", count(summary.Rewritten)},
		{"Duplicates removed", strconv.FormatInt(summary.DuplicatesRemoved, 10)},
		{"Candidates", count(summary.Candidates)},
		{"Completed", count(summary.Completed)},
		{"Failed", count(summary.Failed)},
		{"Deleted (404)", count(summary.Deleted)},
		{"Indeterminate links", count(summary.Indeterminate)},
	}
	if summary.Invalid > 0 {
		rows = append(rows, []string{"Invalid records", count(summary.Invalid)})
	}
	if summary.Interrupted > 0 {
		rows = append(rows, []string{"Interrupted", count(summary.Interrupted)})
	}
	if summary.Errored > 0 {
		rows = append(rows, []string{"Errored", count(summary.Errored)})
	}
	rows = append(rows,
		[]string{"Scratch entries removed", count(summary.ScratchRemoved)},
		[]string{"Duration", summary.Duration.Round(time.Millisecond).String()},
	)
	spec := tableSpec{
		headers: []string{"Run " + summary.RunID, "Count"},
		aligns:  []columnAlignment{alignLeft, alignRight},
	}
	return spec.render(rows)
}
