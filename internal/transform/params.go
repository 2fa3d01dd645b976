package transform

import (
	"fmt"

	"lutforge/internal/cube"
	"lutforge/internal/services"
)

// White-balance shift bounds, in dimensionless slider units. Each unit maps
// to 100 Kelvin around the 6500K base temperature.
const (
	MinWhiteBalanceShift = -10.0
	MaxWhiteBalanceShift = 10.0
)

// Parameters describe one job's color transform. Created per transcode job
// and immutable for its lifetime; nil cubes disable their stage.
type Parameters struct {
	Primary           *cube.Cube
	PrimaryOpacity    float64
	Secondary         *cube.Cube
	SecondaryOpacity  float64
	WhiteBalanceShift float64
}

// Validate enforces the job-validation boundary: at least one cube must be
// configured, opacities must be in [0,1], and the white-balance shift must
// be within its slider range. A missing primary or secondary on its own is
// fine; the corresponding stage is simply skipped.
func (p Parameters) Validate() error {
	if p.Primary == nil && p.Secondary == nil {
		return services.Wrap(services.ErrValidation, "transform", "validate", "no LUT configured", nil)
	}
	if p.PrimaryOpacity < 0 || p.PrimaryOpacity > 1 {
		return services.Wrap(services.ErrValidation, "transform", "validate",
			fmt.Sprintf("primary opacity %.3f outside [0,1]", p.PrimaryOpacity), nil)
	}
	if p.SecondaryOpacity < 0 || p.SecondaryOpacity > 1 {
		return services.Wrap(services.ErrValidation, "transform", "validate",
			fmt.Sprintf("secondary opacity %.3f outside [0,1]", p.SecondaryOpacity), nil)
	}
	if p.WhiteBalanceShift < MinWhiteBalanceShift || p.WhiteBalanceShift > MaxWhiteBalanceShift {
		return services.Wrap(services.ErrValidation, "transform", "validate",
			fmt.Sprintf("white balance shift %.2f outside [%.0f,%.0f]", p.WhiteBalanceShift, MinWhiteBalanceShift, MaxWhiteBalanceShift), nil)
	}
	return nil
}
