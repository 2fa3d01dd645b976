package cube

import (
	"path/filepath"
	"strings"
)

// Category is a coarse presentation grouping for LUT assets. It has no
// effect on how a cube evaluates.
type Category string

const (
	CategoryLogConversion Category = "log-conversion"
	CategoryFilmEmulation Category = "film-emulation"
	CategoryCreative      Category = "creative"
	CategoryTechnical     Category = "technical"
)

// Classifier assigns a presentation category to a LUT file path.
type Classifier interface {
	Classify(path string) Category
}

// FilenameClassifier buckets LUTs by well-known substrings in their file
// names. Unrecognized names fall through to the creative category.
type FilenameClassifier struct{}

var logMarkers = []string{"log", "slog", "clog", "vlog", "dlog", "lin", "rec709", "rec2020"}

var filmMarkers = []string{"film", "kodak", "fuji", "cine", "print", "stock", "emul"}

var technicalMarkers = []string{"gamut", "srgb", "p3", "aces", "calib", "monitor"}

func (FilenameClassifier) Classify(path string) Category {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, marker := range logMarkers {
		if strings.Contains(name, marker) {
			return CategoryLogConversion
		}
	}
	for _, marker := range filmMarkers {
		if strings.Contains(name, marker) {
			return CategoryFilmEmulation
		}
	}
	for _, marker := range technicalMarkers {
		if strings.Contains(name, marker) {
			return CategoryTechnical
		}
	}
	return CategoryCreative
}

var _ Classifier = FilenameClassifier{}
