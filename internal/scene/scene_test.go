package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/orbit"
)

func TestDefaultScene(t *testing.T) {
	s := Default()
	if len(s.Bodies) != 8 {
		t.Fatalf("expected 8 bodies, got %d", len(s.Bodies))
	}

	valid, rejected := s.Validate()
	if len(rejected) != 0 {
		t.Errorf("builtin scene has invalid bodies: %v", rejected)
	}
	if len(valid) != 8 {
		t.Errorf("expected all bodies valid, got %d", len(valid))
	}

	for _, b := range s.Bodies {
		if b.Textures["surface"] == "" {
			t.Errorf("%s has no surface texture", b.Name)
		}
	}
}

func TestValidateDropsBadBodyOnly(t *testing.T) {
	s := Default()
	s.Bodies = append(s.Bodies, Body{
		Name:     "rogue",
		Elements: orbit.Elements{SemiMajorAxis: 5, Eccentricity: 1.3, OrbitalPeriodDays: 10},
	})

	valid, rejected := s.Validate()
	if len(rejected) != 1 || rejected[0] != "rogue" {
		t.Errorf("expected only rogue rejected, got %v", rejected)
	}
	if len(valid) != 8 {
		t.Errorf("valid bodies disturbed: %d", len(valid))
	}
}

func TestSceneRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	if err := Save(path, Default()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Name != "solar" || len(loaded.Bodies) != 8 {
		t.Fatalf("round trip lost data: %s, %d bodies", loaded.Name, len(loaded.Bodies))
	}
	earth := loaded.Bodies[2]
	if earth.Name != "earth" || math.Abs(earth.Elements.OrbitalPeriodDays-365.25) > 1e-9 {
		t.Errorf("earth elements lost: %+v", earth.Elements)
	}
}

func TestLoadEmptySceneRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := Save(path, &Scene{Name: "empty"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty scene")
	}
}

func TestRelaxAnglesSeparates(t *testing.T) {
	in := []float64{10, 12, 14, 200}
	out := RelaxAngles(in, 10)

	if sep := MinSeparation(out); sep < 9.99 {
		t.Errorf("expected min separation >= 10, got %.3f", sep)
	}
	// Input untouched.
	if in[0] != 10 || in[2] != 14 {
		t.Error("input slice mutated")
	}
}

func TestRelaxAnglesDeterministic(t *testing.T) {
	in := []float64{1, 2, 3, 4, 5, 90, 91, 270}
	a := RelaxAngles(in, 8)
	b := RelaxAngles(in, 8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("relaxation not deterministic at %d: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestRelaxAnglesAlreadySpaced(t *testing.T) {
	in := []float64{0, 90, 180, 270}
	out := RelaxAngles(in, 10)
	for i := range in {
		if math.Abs(out[i]-in[i]) > 1e-9 {
			t.Errorf("well-spaced input moved: %v -> %v", in, out)
		}
	}
}

func TestRelaxAnglesInfeasibleLeftAlone(t *testing.T) {
	// 5 markers cannot be 90 degrees apart on a circle.
	in := []float64{0, 10, 20, 30, 40}
	out := RelaxAngles(in, 90)
	for i := range in {
		if math.Abs(out[i]-in[i]) > 1e-9 {
			t.Errorf("infeasible request should not move markers")
		}
	}
}
