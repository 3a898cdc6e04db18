package loader_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/c8sim/emu"
	"github.com/sarchlab/c8sim/loader"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device unplugged")
}

var _ = Describe("ROM Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "rom-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	writeROM := func(name string, data []byte) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, data, 0644)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		Context("with a valid image", func() {
			It("should read the image verbatim", func() {
				path := writeROM("pong.ch8", []byte{0x12, 0x00, 0x00, 0xE0})

				prog, err := loader.Load(path)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Name).To(Equal("pong.ch8"))
				Expect(prog.Data).To(Equal([]byte{0x12, 0x00, 0x00, 0xE0}))
				Expect(prog.Size()).To(Equal(4))
				Expect(prog.End()).To(Equal(uint16(0x204)))
			})

			It("should accept an image that fills program space", func() {
				path := writeROM("full.ch8", make([]byte, emu.MaxProgramSize))

				prog, err := loader.Load(path)

				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Size()).To(Equal(emu.MaxProgramSize))
				Expect(prog.End()).To(Equal(uint16(0x1000)))
			})
		})

		Context("with an invalid image", func() {
			It("should report a missing file", func() {
				_, err := loader.Load(filepath.Join(tempDir, "missing.ch8"))

				var loadErr *loader.LoadError
				Expect(errors.As(err, &loadErr)).To(BeTrue())
				Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
			})

			It("should reject an image one byte too large", func() {
				path := writeROM("big.ch8", make([]byte, emu.MaxProgramSize+1))

				_, err := loader.Load(path)

				var loadErr *loader.LoadError
				Expect(errors.As(err, &loadErr)).To(BeTrue())
				Expect(loadErr.Size).To(Equal(int64(emu.MaxProgramSize + 1)))
				Expect(errors.Is(err, emu.ErrProgramTooLarge)).To(BeTrue())
			})

			It("should reject an empty image", func() {
				path := writeROM("empty.ch8", nil)

				_, err := loader.Load(path)

				Expect(errors.Is(err, loader.ErrEmptyImage)).To(BeTrue())
			})
		})
	})

	Describe("LoadReader", func() {
		It("should stop reading past the program space limit", func() {
			r := bytes.NewReader(make([]byte, 2*emu.MaxProgramSize))

			_, err := loader.LoadReader("stream", r)

			Expect(errors.Is(err, emu.ErrProgramTooLarge)).To(BeTrue())
			Expect(r.Len()).To(Equal(emu.MaxProgramSize - 1))
		})

		It("should wrap read failures", func() {
			_, err := loader.LoadReader("stream", failingReader{})

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("device unplugged"))
			Expect(err.Error()).To(ContainSubstring(`"stream"`))
		})
	})

	Describe("LoadBytes", func() {
		It("should copy the caller's slice", func() {
			data := []byte{0x00, 0xE0}

			prog, err := loader.LoadBytes("inline", data)
			Expect(err).NotTo(HaveOccurred())

			data[0] = 0xFF
			Expect(prog.Data[0]).To(Equal(byte(0x00)))
		})
	})
})
