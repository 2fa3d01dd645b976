package cube

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lutforge/internal/services"
)

// Extension is the only LUT file extension accepted by the parser.
const Extension = ".cube"

// defaultDimension applies when a file carries no size directive at all.
const defaultDimension = 32

// ParseFile reads and parses a .cube file from disk. Files with any other
// extension are rejected before their content is read.
func ParseFile(path string) (*Asset, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, services.Wrap(
			services.ErrInvalidLUT,
			"lut",
			"open",
			fmt.Sprintf("unsupported file extension %q (want %s)", filepath.Ext(path), Extension),
			nil,
		)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidLUT, "lut", "open", path, err)
	}
	defer file.Close()
	return Parse(file, path)
}

// Parse reads a cube definition from r. The sourcePath is recorded on the
// returned asset for diagnostics only; it is not reopened.
//
// Recognized directives are LUT_3D_SIZE, LUT_1D_SIZE, TITLE, and # comments.
// When both size directives appear the last one wins. Every other non-blank
// line is treated as a data line whose first three float tokens are one RGB
// sample; lines without three numeric tokens are skipped. The total sample
// count must match the declared size exactly.
func Parse(r io.Reader, sourcePath string) (*Asset, error) {
	var (
		dimension      = defaultDimension
		oneDimensional bool
		raw            []float32
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "TITLE":
			continue
		case "LUT_3D_SIZE":
			size, err := parseSize(fields)
			if err != nil {
				return nil, services.Wrap(services.ErrInvalidLUT, "lut", "parse", line, err)
			}
			dimension = size
			oneDimensional = false
			continue
		case "LUT_1D_SIZE":
			size, err := parseSize(fields)
			if err != nil {
				return nil, services.Wrap(services.ErrInvalidLUT, "lut", "parse", line, err)
			}
			dimension = size
			oneDimensional = true
			continue
		}
		if sample, ok := parseTriplet(fields); ok {
			raw = append(raw, sample[0], sample[1], sample[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrInvalidLUT, "lut", "read", sourcePath, err)
	}

	expected := dimension
	if !oneDimensional {
		expected = dimension * dimension * dimension
	}
	actual := len(raw) / 3
	if actual != expected {
		return nil, services.Wrap(
			services.ErrInvalidLUT,
			"lut",
			"validate",
			fmt.Sprintf("sample count mismatch: expected=%d actual=%d", expected, actual),
			nil,
		)
	}

	var built *Cube
	if oneDimensional {
		built = Lift(raw, dimension)
	} else {
		built = packRGBA(raw, dimension)
	}
	return &Asset{SourcePath: sourcePath, Cube: built, OneDimensional: oneDimensional}, nil
}

func parseSize(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("missing size value")
	}
	size, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("size value %q: %w", fields[1], err)
	}
	if size < 2 {
		return 0, fmt.Errorf("size must be at least 2, got %d", size)
	}
	return size, nil
}

func parseTriplet(fields []string) ([3]float32, bool) {
	var sample [3]float32
	if len(fields) < 3 {
		return sample, false
	}
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return sample, false
		}
		sample[i] = float32(value)
	}
	return sample, true
}

// packRGBA expands raw RGB triplets into the RGBA lattice layout.
func packRGBA(raw []float32, dimension int) *Cube {
	count := len(raw) / 3
	samples := make([]float32, count*Channels)
	for i := 0; i < count; i++ {
		samples[i*Channels] = raw[i*3]
		samples[i*Channels+1] = raw[i*3+1]
		samples[i*Channels+2] = raw[i*3+2]
		samples[i*Channels+3] = 1
	}
	return &Cube{Dimension: dimension, Samples: samples}
}
