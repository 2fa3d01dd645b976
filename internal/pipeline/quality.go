package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// Quality selects a coarse encode quality level.
type Quality string

const (
	QualityLow     Quality = "low"
	QualityMedium  Quality = "medium"
	QualityHigh    Quality = "high"
	QualityMaximum Quality = "maximum"
)

// Profile is the fixed bundle of encode parameters behind a quality level.
// Bitrate is in bits per second; MaxWidth/MaxHeight of zero mean unbounded.
type Profile struct {
	Bitrate          int
	MaxWidth         int
	MaxHeight        int
	Scale            float64
	CodecProfile     string
	KeyFrameInterval int
	Preset           string
}

var profiles = map[Quality]Profile{
	QualityLow: {
		Bitrate:          2_000_000,
		MaxWidth:         1280,
		MaxHeight:        720,
		Scale:            0.5,
		CodecProfile:     "baseline",
		KeyFrameInterval: 60,
		Preset:           "fast",
	},
	QualityMedium: {
		Bitrate:          5_000_000,
		MaxWidth:         1920,
		MaxHeight:        1080,
		Scale:            0.75,
		CodecProfile:     "main",
		KeyFrameInterval: 48,
		Preset:           "medium",
	},
	QualityHigh: {
		Bitrate:          10_000_000,
		MaxWidth:         3840,
		MaxHeight:        2160,
		Scale:            1.0,
		CodecProfile:     "high",
		KeyFrameInterval: 30,
		Preset:           "slow",
	},
	QualityMaximum: {
		Bitrate:          20_000_000,
		Scale:            1.0,
		CodecProfile:     "high",
		KeyFrameInterval: 30,
		Preset:           "slower",
	},
}

// Profile returns the encode parameters for the quality level. Unknown
// levels fall back to medium.
func (q Quality) Profile() Profile {
	if p, ok := profiles[q]; ok {
		return p
	}
	return profiles[QualityMedium]
}

// ParseQuality converts a string into a known Quality.
func ParseQuality(value string) (Quality, error) {
	normalized := Quality(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := profiles[normalized]; !ok {
		return "", fmt.Errorf("unknown quality %q (low, medium, high, maximum)", value)
	}
	return normalized, nil
}

// AllQualities returns the quality levels in ascending order.
func AllQualities() []Quality {
	return []Quality{QualityLow, QualityMedium, QualityHigh, QualityMaximum}
}

// TargetResolution computes the output dimensions for a source size under a
// profile: the profile scale, further reduced to fit the resolution cap,
// rounded down to even values for codec compatibility. Resolution is fixed
// for the whole job once computed.
func TargetResolution(p Profile, srcWidth, srcHeight int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return srcWidth, srcHeight
	}
	factor := p.Scale
	if factor <= 0 || factor > 1 {
		factor = 1
	}
	if p.MaxWidth > 0 && float64(srcWidth)*factor > float64(p.MaxWidth) {
		factor = float64(p.MaxWidth) / float64(srcWidth)
	}
	if p.MaxHeight > 0 && float64(srcHeight)*factor > float64(p.MaxHeight) {
		factor = float64(p.MaxHeight) / float64(srcHeight)
	}
	width := evenDown(int(math.Round(float64(srcWidth) * factor)))
	height := evenDown(int(math.Round(float64(srcHeight) * factor)))
	return width, height
}

func evenDown(v int) int {
	if v < 2 {
		return 2
	}
	return v &^ 1
}
