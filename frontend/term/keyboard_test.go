package term_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/config"
	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/frontend/term"
)

var _ = Describe("Keyboard", func() {
	var kb *term.Keyboard

	BeforeEach(func() {
		kb = term.NewKeyboard(config.Default().KeyMap(), 2)
	})

	It("should map the QWERTY layout onto the keypad", func() {
		kb.Feed([]byte("1qav"))

		keys, _, _ := kb.Frame()

		var want emu.KeyState
		want[0x1], want[0x4], want[0x7], want[0xF] = true, true, true, true
		Expect(keys).To(Equal(want))
	})

	It("should hold a key for the configured number of frames", func() {
		kb.Feed([]byte("x"))

		first, _, _ := kb.Frame()
		second, _, _ := kb.Frame()
		third, _, _ := kb.Frame()

		Expect(first[0x0]).To(BeTrue())
		Expect(second[0x0]).To(BeTrue())
		Expect(third[0x0]).To(BeFalse())
	})

	It("should restart the hold on a repeated press", func() {
		kb.Feed([]byte("w"))
		kb.Frame()
		kb.Feed([]byte("w"))

		kb.Frame()
		keys, _, _ := kb.Frame()

		Expect(keys[0x5]).To(BeTrue())
	})

	It("should ignore unmapped characters", func() {
		kb.Feed([]byte("ghj"))

		keys, _, _ := kb.Frame()

		Expect(keys).To(Equal(emu.KeyState{}))
	})

	It("should report reset once for Ctrl+R", func() {
		kb.Feed([]byte{0x12})

		_, reset, quit := kb.Frame()
		Expect(reset).To(BeTrue())
		Expect(quit).To(BeFalse())

		_, reset, _ = kb.Frame()
		Expect(reset).To(BeFalse())
	})

	DescribeTable("quit requests",
		func(input []byte) {
			kb.Feed(input)
			_, _, quit := kb.Frame()
			Expect(quit).To(BeTrue())
		},
		Entry("escape", []byte{0x1B}),
		Entry("Ctrl+C", []byte{0x03}),
	)

	It("should skip arrow key sequences", func() {
		kb.Feed([]byte("\x1b[A\x1bOBq"))

		keys, _, quit := kb.Frame()

		Expect(quit).To(BeFalse())
		Expect(keys[0x4]).To(BeTrue())
		Expect(keys[0xB]).To(BeFalse())
	})
})
