package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	xdraw "golang.org/x/image/draw"

	"lutforge/internal/logging"
	"lutforge/internal/services"
	"lutforge/internal/transform"
)

// progressGrain is how many frames pass between progress reports. Reporting
// every frame floods observers without adding signal.
const progressGrain = 30

// progressCeiling caps reported progress until the encoder has finalized,
// at which point progress snaps to 1.0.
const progressCeiling = 0.99

// FrameSource yields sequential decoded frames. Next returns io.EOF when
// the stream is exhausted.
type FrameSource interface {
	Next(ctx context.Context) (*transform.Frame, error)
	Close() error
}

// FrameSink accepts transformed frames and finalizes the output container.
type FrameSink interface {
	Write(ctx context.Context, frame *transform.Frame) error
	Finalize(ctx context.Context) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgressGrain overrides the frame interval between progress reports.
func WithProgressGrain(frames int) Option {
	return func(p *Pipeline) {
		if frames > 0 {
			p.progressGrain = frames
		}
	}
}

// Pipeline runs transcode jobs. A single Pipeline value can run many jobs,
// one goroutine per job; it holds no per-job state.
type Pipeline struct {
	logger        *slog.Logger
	progressGrain int
}

// New constructs a pipeline runner.
func New(logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:        logging.NewComponentLogger(logger, "pipeline"),
		progressGrain: progressGrain,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run drives the job to a terminal state: sequentially pulls frames from
// src, transforms and (when the plan differs from the source size) scales
// them, and writes them to sink at their original timestamps. The returned
// Result mirrors the job's terminal snapshot; Result.Err is nil only for
// completed jobs.
//
// Cancellation is checked at every loop boundary. On cancellation or
// failure any partially written output file is removed so callers never
// observe a completed-looking artifact.
func (p *Pipeline) Run(ctx context.Context, job *Job, src FrameSource, sink FrameSink, obs Observer) *Result {
	ctx = services.WithJobID(ctx, job.ID)
	ctx = services.WithStage(ctx, "transcode")
	logger := p.logger.With(
		logging.String("job_id", job.ID),
		logging.String("input", job.InputPath),
	)

	if err := job.Params.Validate(); err != nil {
		return p.fail(ctx, job, sink, obs, logger, err)
	}

	engine := transform.NewEngine(job.Params)
	estimated := job.Source.EstimatedFrames()
	needsScale := job.Plan.Width != job.Source.Width || job.Plan.Height != job.Source.Height

	logger.Info("pipeline starting",
		logging.String("quality", string(job.Quality)),
		logging.Int("target_width", job.Plan.Width),
		logging.Int("target_height", job.Plan.Height),
		logging.Int64("estimated_frames", estimated),
		logging.Bool("scaling", needsScale),
	)

	notifyState(obs, job, StateReading)

	var processed, dropped int64
	for {
		if err := ctx.Err(); err != nil {
			return p.cancel(ctx, job, src, sink, obs, logger)
		}

		frame, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if services.IsCancellation(err) {
				return p.cancel(ctx, job, src, sink, obs, logger)
			}
			_ = src.Close()
			return p.fail(ctx, job, sink, obs, logger,
				services.Wrap(services.ErrVideoProcessing, "pipeline", "read frame", "", err))
		}

		// A frame the engine cannot render is dropped, not fatal; the
		// stream itself is still healthy.
		if err := engine.Apply(frame); err != nil {
			dropped++
			logger.Warn("frame transform failed, skipping frame",
				logging.Int64("frame", processed+dropped),
				logging.Error(err),
			)
			continue
		}

		out := frame
		if needsScale {
			out = scaleFrame(frame, job.Plan.Width, job.Plan.Height)
		}

		if err := sink.Write(ctx, out); err != nil {
			if services.IsCancellation(err) {
				return p.cancel(ctx, job, src, sink, obs, logger)
			}
			_ = src.Close()
			return p.fail(ctx, job, sink, obs, logger,
				services.Wrap(services.ErrExport, "pipeline", "write frame", "", err))
		}

		processed++
		if processed%int64(p.progressGrain) == 0 {
			notifyProgress(obs, job, estimateProgress(processed, estimated), processed, dropped)
		}
	}

	if err := src.Close(); err != nil {
		return p.fail(ctx, job, sink, obs, logger,
			services.Wrap(services.ErrVideoProcessing, "pipeline", "close source", "", err))
	}
	if err := sink.Finalize(ctx); err != nil {
		if services.IsCancellation(err) {
			return p.cancel(ctx, job, src, sink, obs, logger)
		}
		return p.fail(ctx, job, sink, obs, logger,
			services.Wrap(services.ErrExport, "pipeline", "finalize", "", err))
	}

	notifyProgress(obs, job, 1.0, processed, dropped)
	notifyState(obs, job, StateCompleted)
	logger.Info("pipeline completed",
		logging.Int64("frames", processed),
		logging.Int64("dropped_frames", dropped),
		logging.String("output", job.OutputPath),
	)
	return &Result{
		State:           StateCompleted,
		OutputPath:      job.OutputPath,
		ProcessedFrames: processed,
		DroppedFrames:   dropped,
	}
}

func (p *Pipeline) fail(ctx context.Context, job *Job, sink FrameSink, obs Observer, logger *slog.Logger, err error) *Result {
	// Tear the sink down first so no writer still holds the output file
	// open when it is removed. Finalize is idempotent on every sink, so
	// the finalize-error path may reach here too.
	_ = sink.Finalize(ctx)

	snap := job.Snapshot()
	job.setErr(err)
	// Reset progress so observers don't show a failed job stuck at X%.
	notifyProgress(obs, job, 0, snap.ProcessedFrames, snap.DroppedFrames)
	notifyState(obs, job, StateFailed)
	p.removePartialOutput(job, logger)
	logger.Error("pipeline failed", logging.Error(err))
	return &Result{
		State:           StateFailed,
		ProcessedFrames: snap.ProcessedFrames,
		DroppedFrames:   snap.DroppedFrames,
		Err:             err,
	}
}

func (p *Pipeline) cancel(ctx context.Context, job *Job, src FrameSource, sink FrameSink, obs Observer, logger *slog.Logger) *Result {
	_ = src.Close()
	// Let the sink tear down its session; with the context cancelled this
	// aborts rather than completes, so the partial output is never left
	// looking finished.
	_ = sink.Finalize(ctx)
	p.removePartialOutput(job, logger)

	snap := job.Snapshot()
	err := fmt.Errorf("pipeline: run: %w", context.Canceled)
	job.setErr(err)
	notifyState(obs, job, StateCancelled)
	logger.Info("pipeline cancelled",
		logging.Int64("frames", snap.ProcessedFrames),
	)
	return &Result{
		State:           StateCancelled,
		ProcessedFrames: snap.ProcessedFrames,
		DroppedFrames:   snap.DroppedFrames,
		Err:             err,
	}
}

func (p *Pipeline) removePartialOutput(job *Job, logger *slog.Logger) {
	if job.OutputPath == "" {
		return
	}
	if err := os.Remove(job.OutputPath); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to remove partial output", logging.Error(err))
	}
}

func estimateProgress(processed, estimated int64) float64 {
	if estimated <= 0 {
		return 0
	}
	progress := float64(processed) / float64(estimated)
	if progress > progressCeiling {
		progress = progressCeiling
	}
	return progress
}

// scaleFrame resamples a frame to the target dimensions with a single
// uniform bilinear pass. The source frame is left untouched.
func scaleFrame(f *transform.Frame, width, height int) *transform.Frame {
	out := transform.NewFrame(width, height, f.PTS)
	dst := out.RGBA()
	src := f.RGBA()
	xdraw.BiLinear.Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return out
}
