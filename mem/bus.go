// Package mem implements the LC-3's 64K-word address space, including the
// memory-mapped keyboard and display registers (§3, §4.4 of the
// specification this module implements).
package mem

import (
	"os"

	"golang.org/x/sys/unix"
)

// Memory-mapped register addresses (§3).
const (
	KBSR = 0xFE00 // keyboard status register
	KBDR = 0xFE02 // keyboard data register
	DSR  = 0xFE04 // display status register
	DDR  = 0xFE06 // display data register
	MCR  = 0xFFFE // machine control register
)

// A KeyboardPoller reports whether a byte is waiting on stdin without
// blocking, and consumes one byte once the caller has observed readiness.
// It backs the KBSR/KBDR registers. GETC/IN, by contrast, read stdin
// directly and are allowed to block (§4.3, §5).
type KeyboardPoller interface {
	Ready() bool
	ReadByte() (byte, error)
}

// stdinPoller implements KeyboardPoller against the real controlling
// terminal, using a zero-timeout poll so a KBSR read never blocks the
// execution loop, per §5's "non-blocking descriptor-readiness check".
type stdinPoller struct {
	fd int32
}

// NewStdinPoller returns a KeyboardPoller backed by the process's stdin.
func NewStdinPoller() KeyboardPoller {
	return &stdinPoller{fd: int32(os.Stdin.Fd())}
}

func (p *stdinPoller) Ready() bool {
	fds := []unix.PollFd{{Fd: p.fd, Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil || n <= 0 {
		return false
	}
	return fds[0].Revents&unix.POLLIN != 0
}

func (p *stdinPoller) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := os.Stdin.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// Memory is the sole mediator of reads and writes to the 64K-word address
// space. Both the executor and the debugger's read command go through it,
// so MMIO side effects (polling the keyboard) are identical regardless of
// the caller (design note, §9).
type Memory struct {
	Cells [65536]uint16

	Keyboard KeyboardPoller
	Display  func(byte)

	running bool
	kbReady bool // latched by the last KBSR read, consumed by the next KBDR read
}

// New returns a Memory with MCR initialized to 0x8000, the machine marked
// running, and the keyboard wired to the real controlling terminal.
func New() *Memory {
	m := &Memory{
		Keyboard: NewStdinPoller(),
		Display:  func(b byte) { os.Stdout.Write([]byte{b}) },
		running:  true,
	}
	m.Cells[MCR] = 0x8000
	return m
}

// Running reports whether the machine has not yet halted.
func (m *Memory) Running() bool { return m.running }

// Halt clears the running flag. Called by the HALT trap, a debugger
// "exit" command, and by a write to MCR that clears bit 15.
func (m *Memory) Halt() { m.running = false }

// Read returns the word at addr, applying MMIO semantics (§4.4).
func (m *Memory) Read(addr uint16) uint16 {
	switch addr {
	case KBSR:
		m.kbReady = m.Keyboard != nil && m.Keyboard.Ready()
		if m.kbReady {
			return 0x8000
		}
		return 0
	case KBDR:
		if !m.kbReady {
			return 0
		}
		m.kbReady = false
		b, err := m.Keyboard.ReadByte()
		if err != nil {
			return 0
		}
		return uint16(b)
	case DSR:
		return 0x8000
	case DDR:
		return 0
	default:
		return m.Cells[addr]
	}
}

// Write stores data at addr, applying MMIO semantics (§4.4). KBSR, KBDR,
// and DSR writes are ignored; DDR prints the low byte; MCR halts the
// machine when bit 15 is cleared.
func (m *Memory) Write(addr uint16, data uint16) {
	switch addr {
	case KBSR, KBDR, DSR:
		// read-only from the program's point of view
	case DDR:
		if m.Display != nil {
			m.Display(byte(data))
		}
	case MCR:
		m.Cells[MCR] = data
		if data&0x8000 == 0 {
			m.Halt()
		}
	default:
		m.Cells[addr] = data
	}
}
