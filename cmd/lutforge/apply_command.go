package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"lutforge/internal/config"
	"lutforge/internal/cube"
	"lutforge/internal/jobstore"
	"lutforge/internal/logging"
	"lutforge/internal/media/ffprobe"
	"lutforge/internal/pipeline"
	"lutforge/internal/services"
	"lutforge/internal/services/ffmpeg"
	"lutforge/internal/transform"
)

type applyOptions struct {
	lutPath          string
	lutOpacity       float64
	secondaryPath    string
	secondaryOpacity float64
	whiteBalance     float64
	quality          string
	outputFile       string
	outputDir        string
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	opts := applyOptions{
		lutOpacity:       1.0,
		secondaryOpacity: 1.0,
	}

	cmd := &cobra.Command{
		Use:   "apply <file> [file...]",
		Short: "Apply a LUT grade to one or more video files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.lutPath, "lut", "l", "", "Primary LUT (.cube path or name in lut_dir)")
	cmd.Flags().Float64Var(&opts.lutOpacity, "opacity", 1.0, "Primary LUT strength in [0,1]")
	cmd.Flags().StringVar(&opts.secondaryPath, "secondary-lut", "", "Secondary LUT applied after white balance")
	cmd.Flags().Float64Var(&opts.secondaryOpacity, "secondary-opacity", 1.0, "Secondary LUT strength in [0,1]")
	cmd.Flags().Float64Var(&opts.whiteBalance, "white-balance", 0, "White balance shift in [-10,10]")
	cmd.Flags().StringVarP(&opts.quality, "quality", "q", "", "Quality profile (low, medium, high, maximum)")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output file (single input only)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for output files")

	return cmd
}

func runApply(cmd *cobra.Command, cmdCtx *commandContext, opts applyOptions, inputs []string) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}

	if opts.outputFile != "" && len(inputs) > 1 {
		return errors.New("--output accepts a single input; use --output-dir for batches")
	}

	params, err := buildParameters(cfg, opts)
	if err != nil {
		return err
	}

	qualityName := strings.TrimSpace(opts.quality)
	if qualityName == "" {
		qualityName = cfg.Pipeline.DefaultQuality
	}
	quality, err := pipeline.ParseQuality(qualityName)
	if err != nil {
		return err
	}

	outputDir := cfg.Paths.OutputDir
	if opts.outputDir != "" {
		outputDir, err = config.ExpandPath(opts.outputDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output directory %q: %w", outputDir, err)
		}
	}

	store, err := jobstore.Open(cfg.Paths.StateDir)
	if err != nil {
		return err
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(logger, pipeline.WithProgressGrain(cfg.Pipeline.ProgressGrain))
	showBar := len(inputs) == 1 && isatty.IsTerminal(os.Stderr.Fd())

	concurrency := cfg.Pipeline.MaxConcurrentJobs
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, input := range inputs {
		input := input
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			result := transcodeOne(runCtx, cfg, logger, runner, store, input, params, quality, opts.outputFile, outputDir, showBar)
			mu.Lock()
			defer mu.Unlock()
			out := cmd.OutOrStdout()
			switch result.State {
			case pipeline.StateCompleted:
				if result.DroppedFrames > 0 {
					fmt.Fprintf(out, "%s: done, %d frames (%d dropped) -> %s\n",
						filepath.Base(input), result.ProcessedFrames, result.DroppedFrames, result.OutputPath)
				} else {
					fmt.Fprintf(out, "%s: done, %d frames -> %s\n",
						filepath.Base(input), result.ProcessedFrames, result.OutputPath)
				}
			case pipeline.StateCancelled:
				fmt.Fprintf(out, "%s: cancelled\n", filepath.Base(input))
				failures++
			default:
				fmt.Fprintf(out, "%s: failed: %v\n", filepath.Base(input), result.Err)
				failures++
			}
		}()
	}
	wg.Wait()

	if runCtx.Err() != nil {
		return context.Canceled
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d jobs did not complete", failures, len(inputs))
	}
	return nil
}

// buildParameters resolves LUT flags into validated transform parameters.
func buildParameters(cfg *config.Config, opts applyOptions) (transform.Parameters, error) {
	params := transform.Parameters{
		PrimaryOpacity:    opts.lutOpacity,
		SecondaryOpacity:  opts.secondaryOpacity,
		WhiteBalanceShift: opts.whiteBalance,
	}

	if opts.lutPath != "" {
		asset, err := loadCube(cfg, opts.lutPath)
		if err != nil {
			return transform.Parameters{}, err
		}
		params.Primary = asset.Cube
	}
	if opts.secondaryPath != "" {
		asset, err := loadCube(cfg, opts.secondaryPath)
		if err != nil {
			return transform.Parameters{}, err
		}
		params.Secondary = asset.Cube
	}

	if err := params.Validate(); err != nil {
		return transform.Parameters{}, err
	}
	return params, nil
}

// loadCube parses the LUT at the given path, falling back to a lookup
// inside the configured LUT directory when the direct path does not exist.
func loadCube(cfg *config.Config, path string) (*cube.Asset, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(expanded); statErr == nil {
		return cube.ParseFile(expanded)
	}

	candidate := filepath.Join(cfg.Paths.LUTDir, path)
	if !strings.EqualFold(filepath.Ext(candidate), cube.Extension) {
		candidate += cube.Extension
	}
	if _, statErr := os.Stat(candidate); statErr != nil {
		return nil, fmt.Errorf("LUT %q not found (tried %s and %s)", path, expanded, candidate)
	}
	return cube.ParseFile(candidate)
}

func transcodeOne(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	runner *pipeline.Pipeline,
	store *jobstore.Store,
	input string,
	params transform.Parameters,
	quality pipeline.Quality,
	outputFile, outputDir string,
	showBar bool,
) *pipeline.Result {
	inputPath, err := config.ExpandPath(input)
	if err != nil {
		return &pipeline.Result{State: pipeline.StateFailed, Err: err}
	}

	probe, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, inputPath)
	if err != nil {
		return &pipeline.Result{
			State: pipeline.StateFailed,
			Err:   services.Wrap(services.ErrVideoProcessing, "probe", "inspect", inputPath, err),
		}
	}
	video, ok := probe.VideoStream()
	if !ok {
		return &pipeline.Result{
			State: pipeline.StateFailed,
			Err:   services.Wrap(services.ErrVideoProcessing, "probe", "inspect", fmt.Sprintf("%s has no video stream", inputPath), nil),
		}
	}

	src := pipeline.SourceInfo{
		Width:      video.Width,
		Height:     video.Height,
		Duration:   secondsToDuration(probe.DurationSeconds()),
		FrameRate:  video.FrameRate(),
		FrameCount: video.FrameCount(),
	}

	outputPath := outputFile
	if outputPath == "" {
		stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = filepath.Join(outputDir, fmt.Sprintf("%s-%s.mp4", stem, quality))
	} else if outputPath, err = config.ExpandPath(outputPath); err != nil {
		return &pipeline.Result{State: pipeline.StateFailed, Err: err}
	}

	job := pipeline.NewJob(inputPath, outputPath, params, quality, src)

	saveRecord(ctx, store, logger, job, pipeline.StateIdle, 0, 0, 0, "")

	decoder := ffmpeg.NewDecoder(inputPath, src.Width, src.Height, src.FrameRate,
		ffmpeg.WithDecoderBinary(cfg.Tools.FFmpeg))
	encoder := ffmpeg.NewEncoder(ffmpeg.EncodeSettings{
		Width:            job.Plan.Width,
		Height:           job.Plan.Height,
		FrameRate:        job.Plan.FrameRate,
		Bitrate:          job.Plan.Bitrate,
		CodecProfile:     job.Plan.CodecProfile,
		KeyFrameInterval: job.Plan.KeyFrameInterval,
		Preset:           job.Plan.Preset,
		AudioSource:      inputPath,
		OutputPath:       outputPath,
	}, ffmpeg.WithEncoderBinary(cfg.Tools.FFmpeg))

	observer := newJobObserver(ctx, store, logger, src.EstimatedFrames(), showBar)
	result := runner.Run(ctx, job, decoder, encoder, observer)
	observer.finish()

	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}
	progress := 0.0
	if result.State == pipeline.StateCompleted {
		progress = 1.0
	}
	saveRecord(ctx, store, logger, job, result.State, progress, result.ProcessedFrames, result.DroppedFrames, errMsg)
	return result
}

func saveRecord(ctx context.Context, store *jobstore.Store, logger *slog.Logger, job *pipeline.Job, state pipeline.State, progress float64, frames, dropped int64, errMsg string) {
	rec := &jobstore.Record{
		ID:              job.ID,
		SourcePath:      job.InputPath,
		OutputPath:      job.OutputPath,
		Quality:         string(job.Quality),
		State:           string(state),
		Progress:        progress,
		ProcessedFrames: frames,
		DroppedFrames:   dropped,
		ErrorMessage:    errMsg,
	}
	if err := store.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("persist job record failed",
			logging.String("job_id", job.ID), logging.Error(err))
	}
}

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// jobObserver bridges pipeline callbacks to the terminal progress bar, the
// sampled log stream, and the job history store.
type jobObserver struct {
	ctx     context.Context
	store   *jobstore.Store
	logger  *slog.Logger
	sampler *logging.ProgressSampler
	bar     *progressbar.ProgressBar
}

func newJobObserver(ctx context.Context, store *jobstore.Store, logger *slog.Logger, totalFrames int64, showBar bool) *jobObserver {
	o := &jobObserver{
		ctx:     ctx,
		store:   store,
		logger:  logger,
		sampler: logging.NewProgressSampler(5),
	}
	if showBar {
		if totalFrames <= 0 {
			totalFrames = -1
		}
		o.bar = progressbar.NewOptions64(totalFrames,
			progressbar.OptionSetDescription("grading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return o
}

func (o *jobObserver) JobStateChanged(job *pipeline.Job, state pipeline.State) {
	snap := job.Snapshot()
	errMsg := ""
	if snap.Err != nil {
		errMsg = snap.Err.Error()
	}
	if err := o.store.UpdateProgress(context.WithoutCancel(o.ctx), job.ID, string(state), snap.Progress, snap.ProcessedFrames, snap.DroppedFrames, errMsg); err != nil {
		o.logger.Warn("update job record failed",
			logging.String("job_id", job.ID), logging.Error(err))
	}
}

func (o *jobObserver) JobProgress(job *pipeline.Job, progress float64) {
	snap := job.Snapshot()
	if o.bar != nil {
		_ = o.bar.Set64(snap.ProcessedFrames)
	}
	percent := progress * 100
	if o.sampler.ShouldLog(percent, string(snap.State)) {
		o.logger.Info("grading progress",
			logging.String("job_id", job.ID),
			logging.Float64("percent", percent),
			logging.Int64("frames", snap.ProcessedFrames))
	}
	if err := o.store.UpdateProgress(context.WithoutCancel(o.ctx), job.ID, string(snap.State), progress, snap.ProcessedFrames, snap.DroppedFrames, ""); err != nil {
		o.logger.Warn("update job record failed",
			logging.String("job_id", job.ID), logging.Error(err))
	}
}

func (o *jobObserver) finish() {
	if o.bar != nil {
		_ = o.bar.Finish()
	}
}
