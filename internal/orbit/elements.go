package orbit

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for orbital propagation.
var (
	// ErrInvalidOrbit indicates elements that do not describe a closed ellipse.
	ErrInvalidOrbit = errors.New("orbit: invalid elements (open or non-finite orbit)")

	// ErrNoConvergence indicates the Kepler solver exhausted its iteration cap.
	ErrNoConvergence = errors.New("orbit: kepler solver did not converge")
)

// InvalidOrbitError wraps ErrInvalidOrbit with the offending field.
type InvalidOrbitError struct {
	Field string
	Value float64
}

func (e *InvalidOrbitError) Error() string {
	return fmt.Sprintf("orbit: invalid element %s=%g", e.Field, e.Value)
}

func (e *InvalidOrbitError) Unwrap() error { return ErrInvalidOrbit }

// Elements holds the Keplerian description of a body's orbit plus its spin.
// Angles are degrees at this boundary; the solver converts internally.
// Elements are immutable once built from scene configuration.
type Elements struct {
	SemiMajorAxis       float64 `yaml:"semi_major_axis"`
	Eccentricity        float64 `yaml:"eccentricity"`
	InclinationDeg      float64 `yaml:"inclination_deg"`
	AscendingNodeDeg    float64 `yaml:"ascending_node_deg"`
	ArgPeriapsisDeg     float64 `yaml:"arg_periapsis_deg"`
	OrbitalPeriodDays   float64 `yaml:"orbital_period_days"`
	RotationPeriodHours float64 `yaml:"rotation_period_hours"`
	AxialTiltDeg        float64 `yaml:"axial_tilt_deg"`
}

// Validate rejects open ellipses and non-finite fields. A body whose
// elements fail validation is dropped from the scene, not fatal to it.
func (el Elements) Validate() error {
	fields := map[string]float64{
		"semi_major_axis":       el.SemiMajorAxis,
		"eccentricity":          el.Eccentricity,
		"inclination_deg":       el.InclinationDeg,
		"ascending_node_deg":    el.AscendingNodeDeg,
		"arg_periapsis_deg":     el.ArgPeriapsisDeg,
		"orbital_period_days":   el.OrbitalPeriodDays,
		"rotation_period_hours": el.RotationPeriodHours,
		"axial_tilt_deg":        el.AxialTiltDeg,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidOrbitError{Field: name, Value: v}
		}
	}
	if el.Eccentricity < 0 || el.Eccentricity >= 1 {
		return &InvalidOrbitError{Field: "eccentricity", Value: el.Eccentricity}
	}
	if el.SemiMajorAxis <= 0 {
		return &InvalidOrbitError{Field: "semi_major_axis", Value: el.SemiMajorAxis}
	}
	if el.OrbitalPeriodDays <= 0 {
		return &InvalidOrbitError{Field: "orbital_period_days", Value: el.OrbitalPeriodDays}
	}
	return nil
}

// PeriodSeconds returns the orbital period in simulated seconds.
func (el Elements) PeriodSeconds() float64 {
	return el.OrbitalPeriodDays * 86400.0
}

// SpinAngle returns the body's rotation angle in radians at simulated time t.
// Bodies with zero rotation period do not spin.
func (el Elements) SpinAngle(tSeconds float64) float64 {
	if el.RotationPeriodHours == 0 {
		return 0
	}
	period := el.RotationPeriodHours * 3600.0
	return math.Mod(2*math.Pi*tSeconds/period, 2*math.Pi)
}
