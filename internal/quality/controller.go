package quality

import (
	"time"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/events"
)

// Tuning constants. These were tuned empirically; changing them changes
// observable behavior, so they live in Tuning rather than as literals.
const (
	DefaultFPSTarget          = 60.0
	DefaultCriticalMultiplier = 0.5
	DefaultWarningMultiplier  = 0.75
	DefaultUpgradeMultiplier  = 1.5
	DefaultCooldown           = 5 * time.Second
	DefaultEvalInterval       = 3 * time.Second
)

// Tuning holds the controller's thresholds and cadence.
type Tuning struct {
	FPSTarget          float64
	CriticalMultiplier float64
	WarningMultiplier  float64
	UpgradeMultiplier  float64
	Cooldown           time.Duration
	EvalInterval       time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		FPSTarget:          DefaultFPSTarget,
		CriticalMultiplier: DefaultCriticalMultiplier,
		WarningMultiplier:  DefaultWarningMultiplier,
		UpgradeMultiplier:  DefaultUpgradeMultiplier,
		Cooldown:           DefaultCooldown,
		EvalInterval:       DefaultEvalInterval,
	}
}

// Suggestion is published whenever the controller decides on a new level.
type Suggestion struct {
	From    Level
	To      Level
	MeanFPS float64
	Manual  bool
}

// Controller owns the quality level. Evaluations run on a coarse cadence
// with a cooldown between transitions; the resulting bundle is staged and
// becomes visible only at the next frame boundary.
type Controller struct {
	tuning     Tuning
	autoAdjust bool

	current Settings
	pending *Settings

	lastEval       time.Time
	lastTransition time.Time
	hasTransition  bool

	bus *events.Bus[Suggestion]
}

func NewController(initial Level, autoAdjust bool, tuning Tuning) *Controller {
	s := SettingsFor(initial)
	s.AutoAdjust = autoAdjust
	s.FPSTarget = tuning.FPSTarget
	return &Controller{
		tuning:     tuning,
		autoAdjust: autoAdjust,
		current:    s,
		bus:        events.NewBus[Suggestion](),
	}
}

// Current returns the active settings bundle. Cheap read, no computation.
func (c *Controller) Current() Settings { return c.current }

// Level returns the active level.
func (c *Controller) Level() Level { return c.current.Level }

// OnSuggestion subscribes to level-change decisions.
func (c *Controller) OnSuggestion(fn func(Suggestion)) *events.Subscription {
	return c.bus.Subscribe(fn)
}

// Close releases all suggestion subscribers.
func (c *Controller) Close() { c.bus.Close() }

// SetLevel stages a manual override. It bypasses hysteresis but still
// applies atomically at the next frame boundary.
func (c *Controller) SetLevel(level Level) {
	if level < Low || level > Ultra {
		return
	}
	s := SettingsFor(level)
	s.AutoAdjust = c.autoAdjust
	s.FPSTarget = c.tuning.FPSTarget
	c.pending = &s
	c.lastTransition = time.Now()
	c.hasTransition = true
	c.bus.Publish(Suggestion{From: c.current.Level, To: level, Manual: true})
}

// SetAutoAdjust toggles automatic upgrades/downgrades.
func (c *Controller) SetAutoAdjust(enabled bool) {
	c.autoAdjust = enabled
	c.current.AutoAdjust = enabled
}

// Evaluate inspects the mean FPS and stages at most one transition.
// windowFull gates against deciding on partial data; now drives both the
// evaluation cadence and the transition cooldown.
func (c *Controller) Evaluate(meanFPS float64, windowFull bool, now time.Time) {
	if !c.autoAdjust || !windowFull {
		return
	}
	if !c.lastEval.IsZero() && now.Sub(c.lastEval) < c.tuning.EvalInterval {
		return
	}
	c.lastEval = now

	if c.hasTransition && now.Sub(c.lastTransition) < c.tuning.Cooldown {
		return
	}

	target := c.tuning.FPSTarget
	cur := c.current.Level
	next := cur

	switch {
	case meanFPS < target*c.tuning.CriticalMultiplier:
		next = Low
	case meanFPS < target*c.tuning.WarningMultiplier && cur != Low:
		next = cur - 1
	case meanFPS > target*c.tuning.UpgradeMultiplier && cur != Ultra:
		next = cur + 1
	}

	if next == cur {
		return
	}

	s := SettingsFor(next)
	s.AutoAdjust = c.autoAdjust
	s.FPSTarget = target
	c.pending = &s
	c.lastTransition = now
	c.hasTransition = true
	c.bus.Publish(Suggestion{From: cur, To: next, MeanFPS: meanFPS})
}

// Apply promotes any staged bundle. The frame scheduler calls this exactly
// once per frame, before reading settings, so a bundle never changes
// mid-frame. Reports whether a new bundle took effect.
func (c *Controller) Apply() bool {
	if c.pending == nil {
		return false
	}
	c.current = *c.pending
	c.pending = nil
	return true
}
