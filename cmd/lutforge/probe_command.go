package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lutforge/internal/config"
	"lutforge/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var rawJSON bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a video file with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.Tools.FFprobe, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rawJSON {
				out.Write(result.RawJSON())
				fmt.Fprintln(out)
				return nil
			}

			rows := [][]string{
				{"Container", result.Format.FormatName},
				{"Duration", formatDuration(result.DurationSeconds())},
				{"Size", humanize.Bytes(uint64(result.SizeBytes()))},
				{"Bitrate", fmt.Sprintf("%s/s", humanize.Bytes(uint64(result.BitRate()/8)))},
				{"Video streams", fmt.Sprintf("%d", result.VideoStreamCount())},
				{"Audio streams", fmt.Sprintf("%d", result.AudioStreamCount())},
			}
			if video, ok := result.VideoStream(); ok {
				rows = append(rows,
					[]string{"Codec", video.CodecName},
					[]string{"Resolution", fmt.Sprintf("%dx%d", video.Width, video.Height)},
					[]string{"Frame rate", fmt.Sprintf("%.3f fps", video.FrameRate())},
				)
				if frames := video.FrameCount(); frames > 0 {
					rows = append(rows, []string{"Frames", humanize.Comma(frames)})
				}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Field", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&rawJSON, "json", false, "Print the raw ffprobe JSON")
	return cmd
}

func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "unknown"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Millisecond).String()
}
