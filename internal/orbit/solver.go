package orbit

import "math"

const (
	// MaxKeplerIterations bounds the Newton iteration. The solver must
	// terminate even for eccentricities near 1.
	MaxKeplerIterations = 10

	// KeplerTolerance is the convergence threshold on the anomaly update.
	KeplerTolerance = 1e-6
)

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

// MeanAnomaly maps simulated time onto [0, 2π) for the given period.
func MeanAnomaly(tSeconds, periodSeconds float64) float64 {
	m := 2 * math.Pi * math.Mod(tSeconds/periodSeconds, 1.0)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}

// SolveKepler finds the eccentric anomaly E satisfying E - e·sin(E) = M
// by Newton-Raphson seeded with E = M. Iteration stops at KeplerTolerance
// or after MaxKeplerIterations, whichever first.
func SolveKepler(m, e float64) float64 {
	E := m
	for i := 0; i < MaxKeplerIterations; i++ {
		f := E - e*math.Sin(E) - m
		fPrime := 1 - e*math.Cos(E)
		dE := f / fPrime
		E -= dE
		if math.Abs(dE) < KeplerTolerance {
			break
		}
	}
	return E
}

// Position propagates the elements to simulated time t and returns the
// body's position in scene coordinates. The orbital-plane point is rotated
// by argument of periapsis, then inclination, then ascending node.
func Position(el Elements, tSeconds float64) (Vec3, error) {
	if err := el.Validate(); err != nil {
		return Vec3{}, err
	}

	m := MeanAnomaly(tSeconds, el.PeriodSeconds())
	E := SolveKepler(m, el.Eccentricity)

	a := el.SemiMajorAxis
	e := el.Eccentricity
	px := a * (math.Cos(E) - e)
	py := a * math.Sqrt(1-e*e) * math.Sin(E)

	p := Vec3{X: px, Y: py}
	p = p.RotateZ(deg2rad(el.ArgPeriapsisDeg))
	p = p.RotateX(deg2rad(el.InclinationDeg))
	p = p.RotateZ(deg2rad(el.AscendingNodeDeg))

	if !p.IsFinite() {
		return Vec3{}, ErrNoConvergence
	}
	return p, nil
}

// Residual reports |E - e·sinE - M| for a solved anomaly, used to verify
// convergence of the fixed-cap iteration.
func Residual(E, e, m float64) float64 {
	return math.Abs(E - e*math.Sin(E) - m)
}
