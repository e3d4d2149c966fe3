package gfx

import (
	"errors"
	"image"
)

// TextureID is an opaque GPU texture handle. Zero is never a valid handle.
type TextureID uint64

// Domain errors for device operations.
var (
	// ErrContextLost indicates the device rejected work because its
	// rendering context is gone.
	ErrContextLost = errors.New("gfx: context lost")

	// ErrRestoreUnsupported indicates the device cannot restore its
	// context on demand.
	ErrRestoreUnsupported = errors.New("gfx: manual restore unsupported")

	// ErrDeviceClosed indicates use after Close.
	ErrDeviceClosed = errors.New("gfx: device closed")
)

// Device abstracts the rendering backend. The texture cache is the sole
// owner of upload/release; no other component frees GPU memory directly.
type Device interface {
	// Upload transfers decoded pixels to the device and returns a handle.
	Upload(img image.Image) (TextureID, error)

	// Release frees the texture. Releasing an unknown handle is a no-op.
	Release(id TextureID)

	// Draw submits one frame. Returns ErrContextLost while the context
	// is invalid.
	Draw(frame *Frame) error

	// SupportsManualRestore reports whether Restore can be attempted.
	SupportsManualRestore() bool

	// Restore attempts to bring back a lost context.
	Restore() error

	// Close releases all device state.
	Close()
}

// BodyDraw is one body's per-frame draw parameters.
type BodyDraw struct {
	Name      string
	Position  [3]float64
	Radius    float64
	SpinAngle float64
	GlowColor string
	HasRing   bool
	Surface   TextureID
}

// Frame is a single draw submission.
type Frame struct {
	TimeMs       float64
	Bodies       []BodyDraw
	PixelRatio   float64
	Antialiasing bool
	Shadows      bool
}
