package gfx

import (
	"testing"
	"time"
)

func TestSupervisorLostAndRestored(t *testing.T) {
	dev := NewSoftwareDevice()
	sup := NewSupervisor(dev, time.Minute)
	defer sup.Close()

	var states []ContextState
	sub := sup.OnStateChange(func(ev ContextEvent) { states = append(states, ev.State) })
	defer sub.Unsubscribe()

	now := time.Now()
	if !sup.Usable(now) {
		t.Fatal("fresh supervisor should be usable")
	}

	sup.NotifyLost(now)
	if sup.State() != ContextLost {
		t.Fatal("expected lost state")
	}
	if sup.Usable(now.Add(time.Second)) {
		t.Error("lost context must not be usable before timeout")
	}

	sup.NotifyRestored()
	if sup.State() != ContextValid {
		t.Fatal("expected valid state after restore signal")
	}
	if !sup.Usable(now.Add(2 * time.Second)) {
		t.Error("restored context should be usable")
	}

	if len(states) != 2 || states[0] != ContextLost || states[1] != ContextValid {
		t.Errorf("unexpected transition sequence %v", states)
	}
}

func TestSupervisorManualRestoreAfterTimeout(t *testing.T) {
	dev := NewSoftwareDevice()
	sup := NewSupervisor(dev, 5*time.Second)
	defer sup.Close()

	now := time.Now()
	dev.LoseContext()
	sup.NotifyLost(now)

	if sup.Usable(now.Add(time.Second)) {
		t.Error("manual restore must wait for the timeout")
	}
	if !sup.Usable(now.Add(6 * time.Second)) {
		t.Error("restorable device should recover after timeout")
	}
	if sup.State() != ContextValid {
		t.Errorf("expected valid after manual restore, got %s", sup.State())
	}
}

func TestSupervisorPersistentNoticeWhenUnrestorable(t *testing.T) {
	dev := NewSoftwareDevice()
	dev.SetRestorable(false)
	sup := NewSupervisor(dev, 5*time.Second)
	defer sup.Close()

	var persistent bool
	sub := sup.OnStateChange(func(ev ContextEvent) {
		if ev.Persistent {
			persistent = true
		}
	})
	defer sub.Unsubscribe()

	now := time.Now()
	dev.LoseContext()
	sup.NotifyLost(now)

	if sup.Usable(now.Add(10 * time.Second)) {
		t.Error("unrestorable device must stay lost")
	}
	if !sup.PersistentNotice() || !persistent {
		t.Error("expected a persistent degraded notice")
	}

	// Only one manual attempt; later ticks stay quietly lost.
	if sup.Usable(now.Add(20 * time.Second)) {
		t.Error("supervisor must not retry forever")
	}

	// The platform signal still recovers it.
	sup.NotifyRestored()
	if !sup.Usable(now.Add(21 * time.Second)) {
		t.Error("platform restore signal should still work")
	}
	if sup.PersistentNotice() {
		t.Error("notice should clear on restore")
	}
}

func TestSupervisorDuplicateSignals(t *testing.T) {
	dev := NewSoftwareDevice()
	sup := NewSupervisor(dev, time.Minute)
	defer sup.Close()

	count := 0
	sub := sup.OnStateChange(func(ContextEvent) { count++ })
	defer sub.Unsubscribe()

	now := time.Now()
	sup.NotifyLost(now)
	sup.NotifyLost(now.Add(time.Second))
	sup.NotifyRestored()
	sup.NotifyRestored()

	if count != 2 {
		t.Errorf("duplicate signals must not re-publish, got %d events", count)
	}
}
