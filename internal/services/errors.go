package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidLUT marks malformed or wrong-size LUT sources. Never
	// recovered automatically; parsing aborts before frame work begins.
	ErrInvalidLUT = errors.New("invalid LUT file")
	// ErrVideoProcessing marks decode or track-level failures. Terminal.
	ErrVideoProcessing = errors.New("video processing failed")
	// ErrExport marks encoder append or finalize failures. Terminal.
	ErrExport = errors.New("export failed")
	// ErrConfiguration marks unusable job or tool configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks caller input that fails the job-validation
	// boundary, such as parameters with no cube at all.
	ErrValidation = errors.New("validation error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrVideoProcessing
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsCancellation reports whether err represents a cooperative abort rather
// than a failure. Cancellation carries a distinct severity: it is surfaced
// to callers but not reported as an error condition.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
