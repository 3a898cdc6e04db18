package insts

import (
	"fmt"
	"io"
)

// Disassemble writes one line per instruction word of image, assuming the
// image is loaded at base. A trailing odd byte is emitted as a byte
// directive. Lines have the form "ADDR  WORD  MNEMONIC".
func Disassemble(w io.Writer, base uint16, image []byte) error {
	d := NewDecoder()

	for off := 0; off+1 < len(image); off += 2 {
		word := uint16(image[off])<<8 | uint16(image[off+1])
		inst := d.Decode(word)
		addr := base + uint16(off)

		if _, err := fmt.Fprintf(w, "%03X  %04X  %s\n", addr, word, inst); err != nil {
			return err
		}
	}

	if len(image)%2 == 1 {
		last := len(image) - 1
		_, err := fmt.Fprintf(w, "%03X  %02X    DB $%02X\n",
			base+uint16(last), image[last], image[last])
		return err
	}

	return nil
}
