package core_test

import (
	"context"
	"errors"
	"strings"

	"github.com/go-logr/logr/funcr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/timing/cache"
	"github.com/sarchlab/c8sim/timing/core"
)

// scriptHost replays a fixed list of inputs, then reports no keys.
type scriptHost struct {
	core.Headless
	inputs []core.Input
}

func (h *scriptHost) Poll() core.Input {
	if len(h.inputs) == 0 {
		return core.Input{}
	}
	in := h.inputs[0]
	h.inputs = h.inputs[1:]
	return in
}

var _ = Describe("Core", func() {
	var (
		e *emu.Emulator
		c *core.Core
	)

	load := func(words ...uint16) {
		Expect(e.LoadProgram(program(words...))).To(Succeed())
	}

	BeforeEach(func() {
		e = emu.NewEmulator(emu.WithSeed(1))
		c = core.NewCore(e)
	})

	Describe("RunFrame", func() {
		It("should run one slice of cycles", func() {
			load(0x1200) // JP $200

			result := c.RunFrame(emu.KeyState{})

			Expect(result.Cycles).To(Equal(8))
			Expect(result.Done()).To(BeFalse())
			Expect(c.Stats().Instructions).To(Equal(uint64(8)))
			Expect(c.Stats().Frames).To(Equal(uint64(1)))
		})

		It("should tick the timers once per frame", func() {
			load(0x6002, 0xF018, 0x6107, 0xF115, 0x1208)

			first := c.RunFrame(emu.KeyState{})
			Expect(first.Sound).To(BeTrue())
			Expect(e.Timers().Delay()).To(Equal(uint8(6)))

			second := c.RunFrame(emu.KeyState{})
			Expect(second.Sound).To(BeTrue())
			Expect(e.SoundActive()).To(BeFalse())

			third := c.RunFrame(emu.KeyState{})
			Expect(third.Sound).To(BeFalse())
			Expect(e.Timers().Delay()).To(Equal(uint8(4)))
			Expect(c.Stats().SoundFrames).To(Equal(uint64(2)))
		})

		It("should report a redraw only in the frame that drew", func() {
			load(0x00E0, 0x1202)

			Expect(c.RunFrame(emu.KeyState{}).Redraw).To(BeTrue())
			Expect(c.RunFrame(emu.KeyState{}).Redraw).To(BeFalse())
			Expect(c.Stats().Redraws).To(Equal(uint64(1)))
		})

		It("should stop at the end of the image", func() {
			load(0x6001, 0x6102)

			result := c.RunFrame(emu.KeyState{})

			Expect(result.Cycles).To(Equal(2))
			Expect(result.Finished).To(BeTrue())
			Expect(result.Done()).To(BeTrue())
		})

		It("should stop on a fatal error without ticking the timers", func() {
			load(0x6005, 0xF018, 0x00EE)

			result := c.RunFrame(emu.KeyState{})

			var underflow *emu.StackUnderflowError
			Expect(errors.As(result.Err, &underflow)).To(BeTrue())
			Expect(result.Cycles).To(Equal(3))
			Expect(result.Sound).To(BeFalse())
			Expect(e.Timers().Sound()).To(Equal(uint8(5)))
		})

		It("should latch keys for a waiting LD Vx, K", func() {
			load(0xF00A, 0x1202)

			waiting := c.RunFrame(emu.KeyState{})
			Expect(waiting.Waiting).To(BeTrue())
			Expect(c.Stats().WaitCycles).To(Equal(uint64(7)))

			var keys emu.KeyState
			keys[0x5] = true
			resumed := c.RunFrame(keys)

			Expect(resumed.Waiting).To(BeFalse())
			Expect(e.RegFile().V[0]).To(Equal(uint8(0x5)))
			Expect(e.RegFile().PC).To(Equal(uint16(0x202)))
		})
	})

	Describe("RunFrames", func() {
		It("should present frames and count beeps", func() {
			load(0x6003, 0xF018, 0x00E0, 0x1206)
			host := &core.Headless{}

			Expect(c.RunFrames(context.Background(), host, 10)).To(Succeed())

			Expect(c.Stats().Frames).To(Equal(uint64(10)))
			Expect(host.Presents).To(Equal(1))
			Expect(host.BeepFrames).To(Equal(3))
			Expect(host.Frame.Lit()).To(Equal(0))
		})

		It("should return the fatal error", func() {
			load(0x0123)

			err := c.RunFrames(context.Background(), &core.Headless{}, 10)

			var decodeErr *emu.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
			Expect(c.Stats().Frames).To(Equal(uint64(1)))
		})

		It("should stop cleanly when the program finishes", func() {
			load(0x6001)

			Expect(c.RunFrames(context.Background(), &core.Headless{}, 10)).To(Succeed())
			Expect(c.Stats().Frames).To(Equal(uint64(1)))
		})

		It("should stop when the host quits", func() {
			load(0x1200)
			host := &scriptHost{inputs: []core.Input{{}, {Quit: true}}}

			Expect(c.RunFrames(context.Background(), host, 10)).To(Succeed())
			Expect(c.Stats().Frames).To(Equal(uint64(1)))
		})

		It("should reset when the host asks", func() {
			load(0x7001, 0x1200) // ADD V0, 1; JP $200
			host := &scriptHost{inputs: []core.Input{{}, {Reset: true}}}

			Expect(c.RunFrames(context.Background(), host, 2)).To(Succeed())

			// 8 cycles after the reset: four ADDs
			Expect(e.RegFile().V[0]).To(Equal(uint8(4)))
			Expect(c.Stats().Resets).To(Equal(uint64(1)))
		})

		It("should honor cancellation between frames", func() {
			load(0x1200)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := c.RunFrames(ctx, &core.Headless{}, 10)

			Expect(err).To(MatchError(context.Canceled))
			Expect(c.Stats().Frames).To(BeZero())
		})
	})

	Describe("Run", func() {
		It("should pace frames until the host quits", func() {
			load(0x6001, 0x1204, 0x1204)
			c = core.NewCore(e, core.WithRates(600, 600))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			host := &scriptHost{inputs: []core.Input{{}, {}, {Quit: true}}}

			Expect(c.Run(ctx, host)).To(Succeed())
			Expect(c.Stats().Frames).To(Equal(uint64(2)))
		})

		It("should return when the context is cancelled", func() {
			load(0x1200)
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(c.Run(ctx, &core.Headless{})).To(MatchError(context.Canceled))
		})
	})

	Describe("fetch cache", func() {
		var fetch *cache.Cache

		BeforeEach(func() {
			fetch = cache.New(cache.DefaultFetchConfig(), cache.NewMemoryBacking(e.Memory()))
			c = core.NewCore(e, core.WithFetchCache(fetch))
		})

		It("should hit after the first fetch of a loop", func() {
			load(0x1200)

			c.RunFrame(emu.KeyState{})

			Expect(fetch.Stats().Reads).To(Equal(uint64(8)))
			Expect(fetch.Stats().Misses).To(Equal(uint64(1)))
			Expect(c.Stats().FetchCycles).To(Equal(uint64(4 + 7)))
		})

		It("should refetch code overwritten by a store", func() {
			// I = $20A; V0 = $12; LD [I], V0; JP $206
			load(0xA20A, 0x6012, 0xF055, 0x1206)

			c.RunFrame(emu.KeyState{})

			Expect(fetch.Stats().Invalidations).To(Equal(uint64(1)))
			Expect(fetch.Stats().Misses).To(Equal(uint64(2)))
			Expect(fetch.Read(0x20A, 1).Data).To(Equal(uint64(0x12)))
		})

		It("should flush on reset", func() {
			load(0x1200)
			c.RunFrame(emu.KeyState{})

			c.Reset()

			Expect(fetch.Contains(0x200)).To(BeFalse())
		})
	})

	Describe("logging", func() {
		It("should trace retired instructions at V(2)", func() {
			var lines []string
			logger := funcr.New(func(prefix, args string) {
				lines = append(lines, args)
			}, funcr.Options{Verbosity: 2})
			load(0x6001, 0x1202)
			c = core.NewCore(e, core.WithLogger(logger))

			c.RunFrame(emu.KeyState{})

			Expect(strings.Join(lines, "\n")).To(ContainSubstring("LD V0, $01"))
			Expect(strings.Join(lines, "\n")).To(ContainSubstring("JP $202"))
		})

		It("should stay quiet at V(0)", func() {
			var lines []string
			logger := funcr.New(func(prefix, args string) {
				lines = append(lines, args)
			}, funcr.Options{})
			load(0x1200)
			c = core.NewCore(e, core.WithLogger(logger))

			c.RunFrame(emu.KeyState{})
			c.Reset()

			Expect(lines).To(BeEmpty())
		})
	})
})
