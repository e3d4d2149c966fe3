package engine

import (
	"fmt"
	"log"
	"time"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/config"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/device"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/events"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/orbit"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/perf"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/quality"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/scene"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/texture"
)

// renderBody pairs a scene body with its lazily issued texture handles.
type renderBody struct {
	body    scene.Body
	surface *texture.Handle
}

// Engine is the explicit context object owning every component. There is
// no package-level mutable state; lifecycle is New/Dispose.
type Engine struct {
	cfg        *config.Config
	caps       device.Capabilities
	dev        gfx.Device
	cache      *texture.Cache
	sampler    *perf.Sampler
	quality    *quality.Controller
	supervisor *gfx.Supervisor

	bodies   []renderBody
	rejected []string

	ctxSub *events.Subscription

	frames         uint64
	frozen         bool
	frameErrLogged bool
	disposed       bool

	log *log.Logger
	now func() time.Time
}

// New wires the engine from configuration, a validated scene, a rendering
// device, and the startup capability probe. Bodies with invalid orbital
// elements are dropped here and reported via Rejected.
func New(cfg *config.Config, sc *scene.Scene, dev gfx.Device, caps device.Capabilities, fetcher texture.Fetcher) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	levelName := cfg.Quality.Initial
	if levelName == "" {
		levelName = caps.InitialQualityHint()
	}
	level, err := quality.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	budget := caps.TextureBudget()
	if cfg.Textures.BudgetMB > 0 {
		budget = cfg.Textures.BudgetMB << 20
	}

	fallbacks := make(map[texture.Category]string)
	for name, key := range cfg.Textures.Fallbacks {
		fallbacks[texture.InferCategory(name)] = key
	}

	cache := texture.NewCache(dev, fetcher, texture.Options{
		BudgetBytes:        budget,
		MaxTextureSize:     caps.MaxTextureSize,
		MaxRetries:         cfg.Textures.MaxRetries,
		FetchTimeout:       cfg.FetchTimeout(),
		LowResSuffix:       cfg.Textures.LowResSuffix,
		FallbackKeys:       fallbacks,
		DefaultFallbackKey: cfg.Textures.DefaultFallback,
	})

	ctrl := quality.NewController(level, cfg.Quality.AutoAdjust, quality.Tuning{
		FPSTarget:          cfg.Quality.FPSTarget,
		CriticalMultiplier: cfg.Quality.CriticalMultiplier,
		WarningMultiplier:  cfg.Quality.WarningMultiplier,
		UpgradeMultiplier:  cfg.Quality.UpgradeMultiplier,
		Cooldown:           cfg.Cooldown(),
		EvalInterval:       cfg.EvalInterval(),
	})

	valid, rejected := sc.Validate()
	bodies := make([]renderBody, 0, len(valid))
	for _, b := range valid {
		bodies = append(bodies, renderBody{body: b})
	}

	e := &Engine{
		cfg:        cfg,
		caps:       caps,
		dev:        dev,
		cache:      cache,
		sampler:    perf.NewSampler(cfg.Quality.WindowSize),
		quality:    ctrl,
		supervisor: gfx.NewSupervisor(dev, cfg.RestoreTimeout()),
		bodies:     bodies,
		rejected:   rejected,
		log:        log.New(log.Writer(), "engine: ", log.LstdFlags),
		now:        time.Now,
	}

	// GPU texture memory does not survive a context loss; restoration
	// flags everything for re-upload and clears stale perf samples.
	e.ctxSub = e.supervisor.OnStateChange(func(ev gfx.ContextEvent) {
		if ev.State == gfx.ContextValid {
			e.cache.MarkAllForReupload()
			e.sampler.Reset()
		}
	})

	e.applyTextureTier(ctrl.Current())
	return e, nil
}

// Rejected lists bodies dropped for invalid orbital elements.
func (e *Engine) Rejected() []string { return e.rejected }

// Cache exposes the resource cache for monitoring.
func (e *Engine) Cache() *texture.Cache { return e.cache }

// Sampler exposes the frame sampler for monitoring.
func (e *Engine) Sampler() *perf.Sampler { return e.sampler }

// Quality exposes the quality controller.
func (e *Engine) Quality() *quality.Controller { return e.quality }

// ContextState reports the supervisor's current state.
func (e *Engine) ContextState() gfx.ContextState { return e.supervisor.State() }

// PersistentNotice reports whether context recovery was abandoned.
func (e *Engine) PersistentNotice() bool { return e.supervisor.PersistentNotice() }

// Frames reports how many frames have been submitted.
func (e *Engine) Frames() uint64 { return e.frames }

// Frozen reports whether a draw failure froze the scene.
func (e *Engine) Frozen() bool { return e.frozen }

// NotifyContextLost forwards the platform's context-lost signal.
func (e *Engine) NotifyContextLost() { e.supervisor.NotifyLost(e.now()) }

// NotifyContextRestored forwards the platform's context-restored signal.
func (e *Engine) NotifyContextRestored() { e.supervisor.NotifyRestored() }

// OnContextEvent subscribes to context state changes, e.g. for UI banners.
func (e *Engine) OnContextEvent(fn func(gfx.ContextEvent)) *events.Subscription {
	return e.supervisor.OnStateChange(fn)
}

// OnQualitySuggestion subscribes to quality level decisions.
func (e *Engine) OnQualitySuggestion(fn func(quality.Suggestion)) *events.Subscription {
	return e.quality.OnSuggestion(fn)
}

// SetQualityLevel stages a manual override, applied at the next frame
// boundary like any other transition.
func (e *Engine) SetQualityLevel(level quality.Level) { e.quality.SetLevel(level) }

// LoadResource requests a texture by key. The returned handle is valid
// immediately and upgrades in the background.
func (e *Engine) LoadResource(key string, cat texture.Category) *texture.Handle {
	return e.cache.Load(key, cat)
}

// Tick advances one frame. It is a no-op while the context is lost or the
// scene is frozen after a draw failure. All staged state (quality bundles,
// completed loads) becomes visible here and only here.
func (e *Engine) Tick(nowMs float64) {
	if e.disposed {
		return
	}
	now := e.now()
	if !e.supervisor.Usable(now) {
		return
	}

	e.cache.DrainCompletions()
	if e.quality.Apply() {
		e.applyTextureTier(e.quality.Current())
	}
	if e.frozen {
		return
	}
	settings := e.quality.Current()

	frame := e.buildFrame(nowMs, settings)
	if err := e.submit(frame); err != nil {
		if err == gfx.ErrContextLost {
			e.supervisor.NotifyLost(now)
			return
		}
		if !e.frameErrLogged {
			e.log.Printf("draw failed, freezing scene: %v", err)
			e.frameErrLogged = true
		}
		e.frozen = true
		return
	}
	e.frames++

	e.sampler.RecordFrame(nowMs)
	e.quality.Evaluate(e.sampler.CurrentFPS(), e.sampler.WindowFull(), now)
}

// buildFrame solves every body's position for the simulated time and
// issues texture loads lazily on first need.
func (e *Engine) buildFrame(nowMs float64, settings quality.Settings) *gfx.Frame {
	simT := nowMs / 1000.0 * e.cfg.TimeScale

	frame := &gfx.Frame{
		TimeMs:       nowMs,
		PixelRatio:   settings.PixelRatio,
		Antialiasing: settings.Antialiasing,
		Shadows:      settings.Shadows,
	}

	for i := range e.bodies {
		rb := &e.bodies[i]
		pos, err := orbit.Position(rb.body.Elements, simT)
		if err != nil {
			continue // validated at construction; defensive only for NaN drift
		}
		if rb.surface == nil {
			if key := rb.body.Textures["surface"]; key != "" {
				rb.surface = e.cache.Load(key, texture.CategorySurface)
			}
		}
		var tex gfx.TextureID
		if rb.surface != nil {
			tex = rb.surface.Resource().Texture
		}
		frame.Bodies = append(frame.Bodies, gfx.BodyDraw{
			Name:      rb.body.Name,
			Position:  [3]float64{pos.X, pos.Y, pos.Z},
			Radius:    rb.body.Radius,
			SpinAngle: rb.body.Elements.SpinAngle(simT),
			GlowColor: rb.body.GlowColor,
			HasRing:   rb.body.HasRing,
			Surface:   tex,
		})
	}
	return frame
}

// submit isolates the draw call so a panic in the backend freezes the
// scene instead of propagating into the host.
func (e *Engine) submit(frame *gfx.Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: draw panic: %v", r)
		}
	}()
	return e.dev.Draw(frame)
}

func (e *Engine) applyTextureTier(s quality.Settings) {
	edge := e.caps.MaxTextureSize
	switch s.TextureTier {
	case quality.TierLow:
		edge = min(edge, 1024)
	case quality.TierMedium:
		edge = min(edge, 2048)
	case quality.TierHigh:
		edge = min(edge, 4096)
	}
	e.cache.SetMaxTextureSize(edge)
}

// Dispose releases all GPU state, abandons pending loads, and drops every
// event subscription. The engine is unusable afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for i := range e.bodies {
		if e.bodies[i].surface != nil {
			e.bodies[i].surface.Release()
		}
	}
	e.ctxSub.Unsubscribe()
	e.supervisor.Close()
	e.quality.Close()
	e.cache.Dispose()
	e.dev.Close()
}
