package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/orbit"
)

// Body couples a name and orbital elements with static visual parameters.
// Built once at scene construction and immutable afterwards.
type Body struct {
	Name      string         `yaml:"name"`
	Elements  orbit.Elements `yaml:"elements"`
	Radius    float64        `yaml:"radius"`
	GlowColor string         `yaml:"glow_color"`
	HasRing   bool           `yaml:"has_ring"`
	// Textures maps material role to asset key, e.g. surface -> "mars_surface.webp".
	Textures map[string]string `yaml:"textures"`
}

// Scene is the ordered body list the engine renders.
type Scene struct {
	Name   string `yaml:"name"`
	Bodies []Body `yaml:"bodies"`
}

// Load reads a scene description from a yaml file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Bodies) == 0 {
		return nil, fmt.Errorf("scene: %s contains no bodies", path)
	}
	return &s, nil
}

// Save writes the scene to a yaml file.
func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate partitions bodies into renderable ones and the names of bodies
// rejected for invalid elements. A bad body is dropped, never fatal to the
// scene.
func (s *Scene) Validate() (valid []Body, rejected []string) {
	for _, b := range s.Bodies {
		if err := b.Elements.Validate(); err != nil {
			rejected = append(rejected, b.Name)
			continue
		}
		valid = append(valid, b)
	}
	return valid, rejected
}

// Default returns the builtin solar-system scene. Semi-major axes are in
// scene units (AU x 10); the remaining elements are the usual published
// values.
func Default() *Scene {
	return &Scene{
		Name: "solar",
		Bodies: []Body{
			{
				Name:      "mercury",
				Elements:  orbit.Elements{SemiMajorAxis: 3.87, Eccentricity: 0.2056, InclinationDeg: 7.00, AscendingNodeDeg: 48.33, ArgPeriapsisDeg: 29.12, OrbitalPeriodDays: 87.97, RotationPeriodHours: 1407.6, AxialTiltDeg: 0.03},
				Radius:    0.38,
				GlowColor: "#9c9c9c",
				Textures:  map[string]string{"surface": "mercury_surface.webp"},
			},
			{
				Name:      "venus",
				Elements:  orbit.Elements{SemiMajorAxis: 7.23, Eccentricity: 0.0068, InclinationDeg: 3.39, AscendingNodeDeg: 76.68, ArgPeriapsisDeg: 54.88, OrbitalPeriodDays: 224.70, RotationPeriodHours: -5832.5, AxialTiltDeg: 177.4},
				Radius:    0.95,
				GlowColor: "#e8c97a",
				Textures:  map[string]string{"surface": "venus_surface.webp"},
			},
			{
				Name:      "earth",
				Elements:  orbit.Elements{SemiMajorAxis: 10.0, Eccentricity: 0.0167, InclinationDeg: 0.00, AscendingNodeDeg: -11.26, ArgPeriapsisDeg: 114.21, OrbitalPeriodDays: 365.25, RotationPeriodHours: 23.93, AxialTiltDeg: 23.44},
				Radius:    1.0,
				GlowColor: "#6fa8dc",
				Textures:  map[string]string{"surface": "earth_surface.webp", "normal": "earth_normal.webp"},
			},
			{
				Name:      "mars",
				Elements:  orbit.Elements{SemiMajorAxis: 15.24, Eccentricity: 0.0934, InclinationDeg: 1.85, AscendingNodeDeg: 49.56, ArgPeriapsisDeg: 286.50, OrbitalPeriodDays: 686.98, RotationPeriodHours: 24.62, AxialTiltDeg: 25.19},
				Radius:    0.53,
				GlowColor: "#cc4125",
				Textures:  map[string]string{"surface": "mars_surface.webp", "normal": "mars_normal.webp", "height": "mars_height.webp"},
			},
			{
				Name:      "jupiter",
				Elements:  orbit.Elements{SemiMajorAxis: 52.03, Eccentricity: 0.0484, InclinationDeg: 1.30, AscendingNodeDeg: 100.46, ArgPeriapsisDeg: 273.87, OrbitalPeriodDays: 4332.59, RotationPeriodHours: 9.93, AxialTiltDeg: 3.13},
				Radius:    11.2,
				GlowColor: "#d9a066",
				Textures:  map[string]string{"surface": "jupiter_surface.webp"},
			},
			{
				Name:      "saturn",
				Elements:  orbit.Elements{SemiMajorAxis: 95.37, Eccentricity: 0.0542, InclinationDeg: 2.49, AscendingNodeDeg: 113.66, ArgPeriapsisDeg: 339.39, OrbitalPeriodDays: 10759.22, RotationPeriodHours: 10.66, AxialTiltDeg: 26.73},
				Radius:    9.45,
				GlowColor: "#e6d3a3",
				HasRing:   true,
				Textures:  map[string]string{"surface": "saturn_surface.webp", "ring": "saturn_ring_color.webp"},
			},
			{
				Name:      "uranus",
				Elements:  orbit.Elements{SemiMajorAxis: 191.91, Eccentricity: 0.0472, InclinationDeg: 0.77, AscendingNodeDeg: 74.01, ArgPeriapsisDeg: 96.99, OrbitalPeriodDays: 30688.5, RotationPeriodHours: -17.24, AxialTiltDeg: 97.77},
				Radius:    4.0,
				GlowColor: "#9fd8d8",
				HasRing:   true,
				Textures:  map[string]string{"surface": "uranus_surface.webp"},
			},
			{
				Name:      "neptune",
				Elements:  orbit.Elements{SemiMajorAxis: 300.69, Eccentricity: 0.0086, InclinationDeg: 1.77, AscendingNodeDeg: 131.78, ArgPeriapsisDeg: 276.34, OrbitalPeriodDays: 60182, RotationPeriodHours: 16.11, AxialTiltDeg: 28.32},
				Radius:    3.88,
				GlowColor: "#5b7fd4",
				Textures:  map[string]string{"surface": "neptune_surface.webp"},
			},
		},
	}
}
