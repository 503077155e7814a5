package medusa

import (
	"slices"
)

// Common threshold values.
const (
	ThresholdNone = 0.0
	ThresholdHalf = 0.5
	ThresholdFull = 1.0
)

// pixelSteps is the number of ratio steps ThresholdsByPixels produces beyond 0.
const pixelSteps = 1000

// ThresholdsByPixels returns a dense ascending set of intersection ratios
// (0, 0.001, ..., 1) that approximates per-pixel triggering for elements up
// to a thousand pixels along their dominant axis. Detectors only accept
// ratios, so this is independent of element size. Each call returns a new
// slice.
func ThresholdsByPixels() []float64 {
	out := make([]float64, pixelSteps+1)
	for i := range out {
		out[i] = float64(i) / pixelSteps
	}
	return out
}

// normalizeThresholds clamps values to [0, 1], sorts and dedupes them.
// An empty set means {0}: any intersection counts.
func normalizeThresholds(in []float64) []float64 {
	if len(in) == 0 {
		return []float64{0}
	}
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = min(max(v, 0), 1)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// thresholdIndex returns the number of thresholds that ratio reaches.
// thresholds must be sorted.
func thresholdIndex(thresholds []float64, ratio float64) int {
	idx, found := slices.BinarySearch(thresholds, ratio)
	if found {
		idx++
	}
	return idx
}
