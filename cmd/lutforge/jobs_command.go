package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lutforge/internal/jobstore"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent transcode jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := jobstore.Open(cfg.Paths.StateDir)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No jobs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				detail := ""
				switch {
				case rec.ErrorMessage != "":
					detail = rec.ErrorMessage
				case rec.DroppedFrames > 0:
					detail = fmt.Sprintf("%d dropped", rec.DroppedFrames)
				}
				rows = append(rows, []string{
					shortID(rec.ID),
					filepath.Base(rec.SourcePath),
					rec.Quality,
					rec.State,
					fmt.Sprintf("%.0f%%", rec.Progress*100),
					humanize.Comma(rec.ProcessedFrames),
					humanize.Time(rec.UpdatedAt),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Source", "Quality", "State", "Progress", "Frames", "Updated", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to display")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
