package quality

import "fmt"

// Level is the discrete rendering quality tier.
type Level int

const (
	Low Level = iota
	Medium
	High
	Ultra
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Ultra:
		return "ultra"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a config string onto a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "ultra":
		return Ultra, nil
	default:
		return Low, fmt.Errorf("quality: unknown level %q", s)
	}
}

// TextureTier selects which resolution variant the cache should prefer.
type TextureTier int

const (
	TierLow TextureTier = iota
	TierMedium
	TierHigh
	TierFull
)

// Settings is the full bundle derived from a level. All fields change
// together; no consumer ever observes a partially applied bundle.
type Settings struct {
	Level        Level
	PixelRatio   float64
	Antialiasing bool
	Shadows      bool
	TextureTier  TextureTier
	AutoAdjust   bool
	FPSTarget    float64
}

// SettingsFor maps a level deterministically onto its bundle. AutoAdjust
// and FPSTarget are orthogonal and filled in by the controller.
func SettingsFor(level Level) Settings {
	switch level {
	case Low:
		return Settings{Level: Low, PixelRatio: 1.0, Antialiasing: false, Shadows: false, TextureTier: TierLow}
	case Medium:
		return Settings{Level: Medium, PixelRatio: 1.5, Antialiasing: false, Shadows: true, TextureTier: TierMedium}
	case High:
		return Settings{Level: High, PixelRatio: 2.0, Antialiasing: true, Shadows: true, TextureTier: TierHigh}
	default:
		return Settings{Level: Ultra, PixelRatio: 2.0, Antialiasing: true, Shadows: true, TextureTier: TierFull}
	}
}
