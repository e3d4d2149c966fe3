package engine_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/config"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/device"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/engine"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/gfx"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/orbit"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/quality"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/scene"
	"github.com/Victordtesla24/containerised-birth-time-rectifier-sub006/internal/texture"
)

// noFetcher fails every fetch so all textures resolve to placeholders.
var noFetcher = texture.FetcherFunc(func(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("offline")
})

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Quality.Initial = "high"
	cfg.Quality.WindowSize = 5
	cfg.Quality.CooldownSec = 0
	cfg.Quality.EvalIntervalSec = 0
	cfg.Textures.MaxRetries = 1
	return cfg
}

func testCaps() device.Capabilities {
	return device.Capabilities{MaxTextureSize: 4096, DeviceMemoryBytes: 8 << 30, Renderer: "test"}
}

var _ = Describe("Engine", func() {
	var (
		dev *gfx.SoftwareDevice
		eng *engine.Engine
	)

	BeforeEach(func() {
		dev = gfx.NewSoftwareDevice()
		var err error
		eng, err = engine.New(testConfig(), scene.Default(), dev, testCaps(), noFetcher)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		eng.Dispose()
	})

	Describe("frame sequencing", func() {
		It("submits one frame per tick with every valid body", func() {
			eng.Tick(0)
			eng.Tick(16.7)

			Expect(eng.Frames()).To(Equal(uint64(2)))
			frame := dev.LastFrame()
			Expect(frame).NotTo(BeNil())
			Expect(frame.Bodies).To(HaveLen(8))
		})

		It("moves bodies between frames", func() {
			eng.Tick(0)
			first := dev.LastFrame().Bodies[0].Position
			eng.Tick(60_000)
			second := dev.LastFrame().Bodies[0].Position

			Expect(second).NotTo(Equal(first))
		})

		It("reads quality settings once per frame", func() {
			eng.Tick(0)
			Expect(dev.LastFrame().PixelRatio).To(Equal(2.0))

			eng.SetQualityLevel(quality.Low)
			// The override stages; the in-flight settings stay intact
			// until the next frame boundary.
			Expect(eng.Quality().Level()).To(Equal(quality.High))
			eng.Tick(16.7)
			Expect(eng.Quality().Level()).To(Equal(quality.Low))
			Expect(dev.LastFrame().PixelRatio).To(Equal(1.0))
		})
	})

	Describe("adaptive quality", func() {
		It("drops to low under sustained critical frame times", func() {
			// 100ms frames = 10 fps against a 60 fps target.
			for i := 0; i < 10; i++ {
				eng.Tick(float64(i) * 100)
			}
			Expect(eng.Quality().Level()).To(Equal(quality.Low))
		})

		It("holds the level when frame times meet the target", func() {
			for i := 0; i < 20; i++ {
				eng.Tick(float64(i) * 16.7)
			}
			Expect(eng.Quality().Level()).To(Equal(quality.High))
		})
	})

	Describe("context loss", func() {
		It("turns ticks into no-ops while lost and flags re-uploads on restore", func() {
			eng.Tick(0)
			eng.Tick(16.7)
			before := eng.Frames()

			eng.NotifyContextLost()
			Expect(eng.ContextState()).To(Equal(gfx.ContextLost))

			eng.Tick(33.4)
			eng.Tick(50.1)
			Expect(eng.Frames()).To(Equal(before), "no draw may be submitted while lost")

			eng.NotifyContextRestored()
			Expect(eng.Cache().NeedsReupload()).To(BeTrue())

			eng.Tick(66.8)
			Expect(eng.Frames()).To(Equal(before + 1))
			Expect(eng.Cache().NeedsReupload()).To(BeFalse())
		})

		It("publishes context events for UI banners", func() {
			var states []gfx.ContextState
			sub := eng.OnContextEvent(func(ev gfx.ContextEvent) {
				states = append(states, ev.State)
			})
			defer sub.Unsubscribe()

			eng.NotifyContextLost()
			eng.NotifyContextRestored()

			Expect(states).To(Equal([]gfx.ContextState{gfx.ContextLost, gfx.ContextValid}))
		})

		It("detects loss reported by the device itself", func() {
			eng.Tick(0)
			dev.LoseContext()
			eng.Tick(16.7)

			Expect(eng.ContextState()).To(Equal(gfx.ContextLost))
			Expect(eng.Frames()).To(Equal(uint64(1)))
		})
	})

	Describe("scene validation", func() {
		It("drops only the invalid body", func() {
			sc := scene.Default()
			sc.Bodies = append(sc.Bodies, scene.Body{
				Name:     "comet",
				Elements: orbit.Elements{SemiMajorAxis: 4, Eccentricity: 1.2, OrbitalPeriodDays: 3},
			})

			e2, err := engine.New(testConfig(), sc, gfx.NewSoftwareDevice(), testCaps(), noFetcher)
			Expect(err).NotTo(HaveOccurred())
			defer e2.Dispose()

			Expect(e2.Rejected()).To(ConsistOf("comet"))
			e2.Tick(0)
			Expect(e2.Frames()).To(Equal(uint64(1)))
		})
	})

	Describe("disposal", func() {
		It("releases all textures and ignores further ticks", func() {
			eng.Tick(0)
			Expect(dev.TextureCount()).To(BeNumerically(">", 0))

			eng.Dispose()
			Expect(dev.TextureCount()).To(BeZero())

			eng.Tick(16.7)
			Expect(eng.Frames()).To(Equal(uint64(1)))
		})
	})
})
