package loader

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ReadWords reads a raw stream of little-endian 32-bit words. A trailing
// partial word yields io.ErrUnexpectedEOF.
func ReadWords(r io.Reader) ([]uint32, error) {
	br := bufio.NewReader(r)

	var words []uint32
	var buf [WordSize]byte
	for {
		_, err := io.ReadFull(br, buf[:])
		if errors.Is(err, io.EOF) {
			return words, nil
		}
		if err != nil {
			return nil, fmt.Errorf("could not decode word %d: %w", len(words), err)
		}
		words = append(words, binary.LittleEndian.Uint32(buf[:]))
	}
}
