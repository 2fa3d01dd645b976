package cube

// liftedDimension is the lattice size every 1D LUT is lifted to. Fixing the
// output size bounds memory and evaluation cost regardless of how long the
// source curve is.
const liftedDimension = 32

// Lift converts a 1D per-channel tone curve into an equivalent 3D cube of
// liftedDimension. The raw slice holds the file-order RGB triplets before
// RGBA padding; srcLen is the declared 1D size.
//
// Each lattice coordinate is normalized by coord/(dim-1) and evaluated
// against the matching channel of the source curve independently. This is
// a tone curve per channel, not a trilinear lookup.
func Lift(raw []float32, srcLen int) *Cube {
	dim := liftedDimension
	samples := make([]float32, dim*dim*dim*Channels)
	scale := 1.0 / float64(dim-1)
	i := 0
	for b := 0; b < dim; b++ {
		for g := 0; g < dim; g++ {
			for r := 0; r < dim; r++ {
				samples[i] = evalCurve(raw, srcLen, 0, float64(r)*scale)
				samples[i+1] = evalCurve(raw, srcLen, 1, float64(g)*scale)
				samples[i+2] = evalCurve(raw, srcLen, 2, float64(b)*scale)
				samples[i+3] = 1
				i += Channels
			}
		}
	}
	return &Cube{Dimension: dim, Samples: samples}
}

// evalCurve linearly interpolates one channel of a raw 1D curve at x in
// [0,1]. The curve is addressed as index*3 + channel on the pre-padding
// RGB layout.
func evalCurve(raw []float32, srcLen, channel int, x float64) float32 {
	pos := clampUnit(x) * float64(srcLen-1)
	lo := int(pos)
	if lo > srcLen-1 {
		lo = srcLen - 1
	}
	hi := minInt(lo+1, srcLen-1)
	frac := pos - float64(lo)

	a := float64(raw[lo*3+channel])
	b := float64(raw[hi*3+channel])
	return float32(a + frac*(b-a))
}
