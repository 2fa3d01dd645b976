package jobstore

import "time"

// Record captures one pipeline job's lifecycle for history display.
type Record struct {
	ID              string
	SourcePath      string
	OutputPath      string
	Quality         string
	State           string
	Progress        float64
	ProcessedFrames int64
	DroppedFrames   int64
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
