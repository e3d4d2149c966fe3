package tui

import (
	"strings"
	"testing"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
)

func TestRenderOrbitsHandlesUnnamedBody(t *testing.T) {
	dev := gfx.NewSoftwareDevice()
	err := dev.Draw(&gfx.Frame{Bodies: []gfx.BodyDraw{
		{Name: "", Position: [3]float64{3, 1, 0}},
		{Name: "earth", Position: [3]float64{-5, 2, 0}},
	}})
	if err != nil {
		t.Fatalf("draw: %v", err)
	}

	m := &Monitor{dev: dev}
	out := m.renderOrbits()

	if !strings.Contains(out, "e") {
		t.Error("named body marker missing from canvas")
	}
	if !strings.Contains(out, "o") {
		t.Error("unnamed body should render with the default marker")
	}
}

func TestRenderOrbitsEmptyFrame(t *testing.T) {
	m := &Monitor{dev: gfx.NewSoftwareDevice()}
	out := m.renderOrbits()

	if !strings.Contains(out, "*") {
		t.Error("canvas should always show the central star")
	}
	lines := strings.Count(out, "\n")
	if lines != canvasHeight+2 {
		t.Errorf("expected %d canvas lines, got %d", canvasHeight+2, lines)
	}
}
