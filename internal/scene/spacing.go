package scene

import "sort"

// Marker label placement. Overlapping markers are separated by a
// deterministic minimum-distance relaxation so rendered output is
// reproducible across runs; no randomized jitter.

const (
	defaultRelaxIterations = 32
	fullCircleDeg          = 360.0
)

// RelaxAngles spreads angular marker positions (degrees) so that adjacent
// markers end up at least minSepDeg apart while staying close to their
// original positions. Input is not mutated; the result is normalized to
// [0, 360).
func RelaxAngles(angles []float64, minSepDeg float64) []float64 {
	n := len(angles)
	out := make([]float64, n)
	copy(out, angles)
	if n < 2 || minSepDeg <= 0 || minSepDeg*float64(n) > fullCircleDeg {
		normalize(out)
		return out
	}

	// Work on a sorted view and map results back by original index.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return angles[idx[a]] < angles[idx[b]] })

	sorted := make([]float64, n)
	for i, j := range idx {
		sorted[i] = angles[j]
	}

	for iter := 0; iter < defaultRelaxIterations; iter++ {
		moved := false
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			gap := sorted[j] - sorted[i]
			if j == 0 {
				gap += fullCircleDeg
			}
			if gap >= minSepDeg {
				continue
			}
			// Push both ends apart symmetrically.
			push := (minSepDeg - gap) / 2
			sorted[i] -= push
			sorted[j] += push
			moved = true
		}
		if !moved {
			break
		}
	}

	for i, j := range idx {
		out[j] = sorted[i]
	}
	normalize(out)
	return out
}

func normalize(angles []float64) {
	for i, a := range angles {
		for a < 0 {
			a += fullCircleDeg
		}
		for a >= fullCircleDeg {
			a -= fullCircleDeg
		}
		angles[i] = a
	}
}

// MinSeparation returns the smallest circular gap between any two angles
// in degrees. Used to verify relaxation results.
func MinSeparation(angles []float64) float64 {
	n := len(angles)
	if n < 2 {
		return fullCircleDeg
	}
	sorted := make([]float64, n)
	copy(sorted, angles)
	normalize(sorted)
	sort.Float64s(sorted)

	min := sorted[0] + fullCircleDeg - sorted[n-1]
	for i := 1; i < n; i++ {
		if gap := sorted[i] - sorted[i-1]; gap < min {
			min = gap
		}
	}
	return min
}
