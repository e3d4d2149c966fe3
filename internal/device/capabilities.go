package device

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Capabilities describes the rendering device, read once at startup.
// The engine never re-probes at runtime.
type Capabilities struct {
	MaxTextureSize    int
	DeviceMemoryBytes uint64
	Vendor            string
	Renderer          string
}

const (
	// Fallback values when no signal is available.
	defaultMaxTextureSize = 4096
	defaultDeviceMemory   = 4 << 30

	// Texture budget bounds in bytes.
	minTextureBudget = 64 << 20
	maxTextureBudget = 512 << 20
)

// Probe reads capability signals from the environment. Hosts embedding the
// engine pass real driver values instead; this path serves headless runs.
func Probe() Capabilities {
	caps := Capabilities{
		MaxTextureSize:    defaultMaxTextureSize,
		DeviceMemoryBytes: defaultDeviceMemory,
		Vendor:            runtime.GOOS,
		Renderer:          "software",
	}
	if v := os.Getenv("CELESTIAL_MAX_TEXTURE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			caps.MaxTextureSize = n
		}
	}
	if v := os.Getenv("CELESTIAL_DEVICE_MEMORY_MB"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil && n > 0 {
			caps.DeviceMemoryBytes = n << 20
		}
	}
	if v := os.Getenv("CELESTIAL_RENDERER"); v != "" {
		caps.Renderer = v
	}
	return caps
}

// TextureBudget derives the cache's memory budget: a quarter of device
// memory, clamped to [64MiB, 512MiB].
func (c Capabilities) TextureBudget() uint64 {
	budget := c.DeviceMemoryBytes / 4
	if budget < minTextureBudget {
		return minTextureBudget
	}
	if budget > maxTextureBudget {
		return maxTextureBudget
	}
	return budget
}

// InitialQualityHint seeds the starting quality level name from the
// capability signals. Software renderers and small devices start low.
func (c Capabilities) InitialQualityHint() string {
	renderer := strings.ToLower(c.Renderer)
	if strings.Contains(renderer, "software") || strings.Contains(renderer, "swiftshader") || strings.Contains(renderer, "llvmpipe") {
		return "low"
	}
	switch {
	case c.DeviceMemoryBytes < 2<<30 || c.MaxTextureSize < 4096:
		return "low"
	case c.DeviceMemoryBytes < 4<<30:
		return "medium"
	case c.DeviceMemoryBytes < 8<<30:
		return "high"
	default:
		return "ultra"
	}
}
