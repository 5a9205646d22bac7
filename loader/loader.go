// Package loader reads an LC-3 program image off disk into memory (§6 of
// the specification this module implements).
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"gone/mem"
)

// ErrOddLength is returned when an image file's length is not a multiple
// of two bytes (§6).
var ErrOddLength = fmt.Errorf("loader: image length must be a multiple of 2 bytes")

// Load reads the program image at path into m and returns the initial
// program counter, which is the image's first word (§6). The first word is
// the load address; every subsequent word is stored at consecutive
// addresses starting there.
func Load(path string, m *mem.Memory) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return 0, fmt.Errorf("loader: %w", err)
	}
	if len(data)%2 != 0 {
		return 0, ErrOddLength
	}
	if len(data) == 0 {
		return 0, fmt.Errorf("loader: empty image")
	}

	origin := binary.BigEndian.Uint16(data[0:2])
	addr := origin
	for i := 2; i < len(data); i += 2 {
		m.Cells[addr] = binary.BigEndian.Uint16(data[i : i+2])
		addr++
	}

	return origin, nil
}
