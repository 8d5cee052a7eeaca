package forecast

import "github.com/kjstillabower/wind-dashboard/internal/dataset"

const (
	// Horizon is the number of forecast months.
	Horizon = 6
	// NoiseStdDev scales the standard normal noise added to each forecast value.
	NoiseStdDev = 0.2
)

// Roll rotates series left by shift positions with wraparound, so index 0 of the
// result holds series[shift]. Negative shifts rotate right.
func Roll(series [dataset.MonthsPerYear]float64, shift int) [dataset.MonthsPerYear]float64 {
	n := len(series)
	shift = ((shift % n) + n) % n
	var out [dataset.MonthsPerYear]float64
	for i := range out {
		out[i] = series[(i+shift)%n]
	}
	return out
}

// Naive produces the placeholder forecast: the series rolled by half a year,
// truncated to Horizon values, each perturbed by NoiseStdDev * noise.NormFloat64().
// It has no predictive value.
func Naive(series [dataset.MonthsPerYear]float64, noise Source) [Horizon]float64 {
	rolled := Roll(series, Horizon)
	var out [Horizon]float64
	for i := range out {
		out[i] = rolled[i] + NoiseStdDev*noise.NormFloat64()
	}
	return out
}
