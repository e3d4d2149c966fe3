package texture

import (
	"strings"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
)

// Category classifies a texture by its material role. Fallback selection
// keys off the category when a real load fails.
type Category int

const (
	CategorySurface Category = iota
	CategoryNormal
	CategoryHeight
	CategoryRoughness
	CategoryMetalness
	CategoryEnvironment
	CategoryDefault
)

func (c Category) String() string {
	switch c {
	case CategorySurface:
		return "surface"
	case CategoryNormal:
		return "normal"
	case CategoryHeight:
		return "height"
	case CategoryRoughness:
		return "roughness"
	case CategoryMetalness:
		return "metalness"
	case CategoryEnvironment:
		return "environment"
	default:
		return "default"
	}
}

// InferCategory derives a category from the asset naming convention, e.g.
// "mars_normal.png" is a normal map.
func InferCategory(key string) Category {
	k := strings.ToLower(key)
	switch {
	case strings.Contains(k, "normal"):
		return CategoryNormal
	case strings.Contains(k, "height"), strings.Contains(k, "displacement"), strings.Contains(k, "bump"):
		return CategoryHeight
	case strings.Contains(k, "rough"):
		return CategoryRoughness
	case strings.Contains(k, "metal"):
		return CategoryMetalness
	case strings.Contains(k, "env"), strings.Contains(k, "sky"), strings.Contains(k, "star"):
		return CategoryEnvironment
	case strings.Contains(k, "surface"), strings.Contains(k, "albedo"), strings.Contains(k, "color"), strings.Contains(k, "map"):
		return CategorySurface
	default:
		return CategoryDefault
	}
}

// ResolutionTier marks which variant of a key a resource holds.
type ResolutionTier int

const (
	TierLow ResolutionTier = iota
	TierFull
)

func (t ResolutionTier) String() string {
	if t == TierLow {
		return "low"
	}
	return "full"
}

// Resource is an immutable snapshot of a loaded texture. Upgrades replace
// the whole value through an atomic pointer swap, so a frame observes
// either the old or the new resource, never a half-built one.
type Resource struct {
	Key         string
	Category    Category
	Tier        ResolutionTier
	SizeBytes   uint64
	Texture     gfx.TextureID
	Hash        uint64
	Placeholder bool
}
