package transform

// Engine applies a Parameters set to pixel buffers. Construct one per job;
// the engine precomputes the white-balance multiplier once and is otherwise
// a pure function of its inputs.
type Engine struct {
	params Parameters

	applyWB       bool
	wbR, wbG, wbB float64
}

// NewEngine builds an engine for the given parameters. The parameters are
// assumed to have passed Validate at the job boundary.
func NewEngine(params Parameters) *Engine {
	e := &Engine{params: params}
	if params.WhiteBalanceShift != 0 {
		e.applyWB = true
		e.wbR, e.wbG, e.wbB = kelvinToRGB(shiftToKelvin(params.WhiteBalanceShift))
	}
	return e
}

// EvaluatePixel runs the full stage chain on one normalized RGB value:
// primary LUT (opacity-blended), white balance, secondary LUT
// (opacity-blended). The result is clamped to [0,1] per channel.
func (e *Engine) EvaluatePixel(r, g, b float64) (float64, float64, float64) {
	if e.params.Primary != nil {
		r, g, b = evalBlended(e.params.Primary, r, g, b, e.params.PrimaryOpacity)
	}
	if e.applyWB {
		r = clamp01(r * e.wbR)
		g = clamp01(g * e.wbG)
		b = clamp01(b * e.wbB)
	}
	if e.params.Secondary != nil {
		r, g, b = evalBlended(e.params.Secondary, r, g, b, e.params.SecondaryOpacity)
	}
	return clamp01(r), clamp01(g), clamp01(b)
}

// Apply transforms a frame buffer in place. Alpha bytes pass through
// untouched.
func (e *Engine) Apply(f *Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}
	data := f.Data
	for i := 0; i < len(data); i += BytesPerPixel {
		r, g, b := e.EvaluatePixel(
			float64(data[i])/255,
			float64(data[i+1])/255,
			float64(data[i+2])/255,
		)
		data[i] = quantize(r)
		data[i+1] = quantize(g)
		data[i+2] = quantize(b)
	}
	return nil
}

type lookup interface {
	Lookup(r, g, b float64) (float64, float64, float64)
}

// evalBlended evaluates a cube and composites the result over the input
// with alpha equal to opacity. Full opacity replaces the input outright
// with no blend arithmetic.
func evalBlended(c lookup, r, g, b, opacity float64) (float64, float64, float64) {
	lr, lg, lb := c.Lookup(r, g, b)
	if opacity >= 1 {
		return lr, lg, lb
	}
	inv := 1 - opacity
	return lr*opacity + r*inv, lg*opacity + g*inv, lb*opacity + b*inv
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func quantize(v float64) byte {
	return byte(v*255 + 0.5)
}
