package gfx

import (
	"image"
	"sync"
)

// SoftwareDevice is an in-process device used for headless runs and tests.
// It keeps decoded textures in host memory and counts submissions; context
// loss can be injected to exercise the supervisor path.
type SoftwareDevice struct {
	mu         sync.Mutex
	nextID     TextureID
	textures   map[TextureID]image.Image
	lost       bool
	restorable bool
	closed     bool

	frames    int
	lastFrame *Frame
	uploads   int
	releases  int
}

func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{
		nextID:     1,
		textures:   make(map[TextureID]image.Image),
		restorable: true,
	}
}

func (d *SoftwareDevice) Upload(img image.Image) (TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, ErrDeviceClosed
	}
	if d.lost {
		return 0, ErrContextLost
	}
	id := d.nextID
	d.nextID++
	d.textures[id] = img
	d.uploads++
	return id, nil
}

func (d *SoftwareDevice) Release(id TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.textures[id]; ok {
		delete(d.textures, id)
		d.releases++
	}
}

func (d *SoftwareDevice) Draw(frame *Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrDeviceClosed
	}
	if d.lost {
		return ErrContextLost
	}
	d.frames++
	d.lastFrame = frame
	return nil
}

func (d *SoftwareDevice) SupportsManualRestore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.restorable
}

func (d *SoftwareDevice) Restore() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.restorable {
		return ErrRestoreUnsupported
	}
	d.lost = false
	return nil
}

func (d *SoftwareDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.textures = make(map[TextureID]image.Image)
}

// LoseContext simulates a driver-level context loss. All device-side
// texture state is invalidated, mirroring real GPU behavior.
func (d *SoftwareDevice) LoseContext() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lost = true
	d.textures = make(map[TextureID]image.Image)
}

// SetRestorable controls whether manual restore attempts succeed.
func (d *SoftwareDevice) SetRestorable(ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.restorable = ok
}

// FrameCount reports how many frames were submitted.
func (d *SoftwareDevice) FrameCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frames
}

// LastFrame returns the most recent submission, or nil.
func (d *SoftwareDevice) LastFrame() *Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastFrame
}

// TextureCount reports live device-side textures.
func (d *SoftwareDevice) TextureCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.textures)
}
