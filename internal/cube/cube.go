package cube

// Channels is the per-sample channel count of the internal lattice layout.
// Cubes always carry RGBA even though source files supply RGB; the constant
// alpha keeps the evaluation stride uniform.
const Channels = 4

// Cube is a 3D color lookup lattice. Samples are RGBA float32 values stored
// in R-fastest order: index = r + g*Dimension + b*Dimension².
type Cube struct {
	Dimension int
	Samples   []float32
}

// Asset couples a parsed cube with its provenance.
type Asset struct {
	SourcePath     string
	Cube           *Cube
	OneDimensional bool
}

// Identity returns a cube of the given dimension that maps every lattice
// point to itself.
func Identity(dimension int) *Cube {
	if dimension < 2 {
		dimension = 2
	}
	samples := make([]float32, dimension*dimension*dimension*Channels)
	scale := 1.0 / float32(dimension-1)
	i := 0
	for b := 0; b < dimension; b++ {
		for g := 0; g < dimension; g++ {
			for r := 0; r < dimension; r++ {
				samples[i] = float32(r) * scale
				samples[i+1] = float32(g) * scale
				samples[i+2] = float32(b) * scale
				samples[i+3] = 1
				i += Channels
			}
		}
	}
	return &Cube{Dimension: dimension, Samples: samples}
}

// sample returns the RGB value at integer lattice coordinates. Indices must
// already be clamped to [0, Dimension-1].
func (c *Cube) sample(r, g, b int) (float64, float64, float64) {
	idx := (r + g*c.Dimension + b*c.Dimension*c.Dimension) * Channels
	return float64(c.Samples[idx]), float64(c.Samples[idx+1]), float64(c.Samples[idx+2])
}

// Lookup evaluates the cube at a normalized RGB coordinate using trilinear
// interpolation. Inputs outside [0,1] are clamped to the lattice; the cube
// itself is never mutated.
func (c *Cube) Lookup(r, g, b float64) (float64, float64, float64) {
	size := float64(c.Dimension - 1)

	rPos := clampUnit(r) * size
	gPos := clampUnit(g) * size
	bPos := clampUnit(b) * size

	r0, rFrac := splitIndex(rPos, c.Dimension)
	g0, gFrac := splitIndex(gPos, c.Dimension)
	b0, bFrac := splitIndex(bPos, c.Dimension)

	r1 := minInt(r0+1, c.Dimension-1)
	g1 := minInt(g0+1, c.Dimension-1)
	b1 := minInt(b0+1, c.Dimension-1)

	c000r, c000g, c000b := c.sample(r0, g0, b0)
	c100r, c100g, c100b := c.sample(r1, g0, b0)
	c010r, c010g, c010b := c.sample(r0, g1, b0)
	c110r, c110g, c110b := c.sample(r1, g1, b0)
	c001r, c001g, c001b := c.sample(r0, g0, b1)
	c101r, c101g, c101b := c.sample(r1, g0, b1)
	c011r, c011g, c011b := c.sample(r0, g1, b1)
	c111r, c111g, c111b := c.sample(r1, g1, b1)

	// collapse the r axis, then g, then b
	c00r, c00g, c00b := lerp3(c000r, c000g, c000b, c100r, c100g, c100b, rFrac)
	c10r, c10g, c10b := lerp3(c010r, c010g, c010b, c110r, c110g, c110b, rFrac)
	c01r, c01g, c01b := lerp3(c001r, c001g, c001b, c101r, c101g, c101b, rFrac)
	c11r, c11g, c11b := lerp3(c011r, c011g, c011b, c111r, c111g, c111b, rFrac)

	c0r, c0g, c0b := lerp3(c00r, c00g, c00b, c10r, c10g, c10b, gFrac)
	c1r, c1g, c1b := lerp3(c01r, c01g, c01b, c11r, c11g, c11b, gFrac)

	return lerp3(c0r, c0g, c0b, c1r, c1g, c1b, bFrac)
}

func splitIndex(pos float64, dimension int) (int, float64) {
	idx := int(pos)
	if idx > dimension-1 {
		idx = dimension - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx, pos - float64(idx)
}

func lerp3(ar, ag, ab, br, bg, bb, t float64) (float64, float64, float64) {
	return ar + t*(br-ar), ag + t*(bg-ag), ab + t*(bb-ab)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
