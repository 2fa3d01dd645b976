package transform

import "math"

// baseTemperature is the neutral color temperature in Kelvin; a shift of
// zero leaves the image untouched.
const baseTemperature = 6500.0

// shiftToKelvin maps a slider shift to an absolute color temperature.
func shiftToKelvin(shift float64) float64 {
	return baseTemperature + shift*100
}

// kelvinToRGB converts a color temperature to a normalized RGB multiplier
// using the standard black-body approximation: piecewise log/power curves
// with a channel-dependent breakpoint at 66 on the temperature/100 scale.
func kelvinToRGB(kelvin float64) (float64, float64, float64) {
	t := kelvin / 100

	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
		if t <= 19 {
			b = 0
		} else {
			b = 138.5177312231*math.Log(t-10) - 305.0447927307
		}
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
		b = 255
	}

	return clampChannel(r) / 255, clampChannel(g) / 255, clampChannel(b) / 255
}

func clampChannel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
