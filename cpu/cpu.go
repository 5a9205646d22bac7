// Package cpu implements the LC-3 fetch-decode-execute core: the register
// file, condition code, machine state, instruction decoder, and the
// executor state transition, including the directly-implemented trap
// service routines (§2, §3, §4.2, §4.3 of the specification this module
// implements).
package cpu

import (
	"io"
	"os"

	"gone/mem"
)

// State aggregates everything the fetch-decode-execute loop needs: memory,
// the register file, the program counter, the condition code, and the
// running flag (§3, §5). It is created by the loader, mutated by Step,
// and optionally observed/mutated by a debugger — both readers share the
// same Memory, so MMIO side effects are identical regardless of caller
// (§9).
type State struct {
	Memory    *mem.Memory
	Registers Registers
	PC        uint16
	CC        ConditionCode

	// Stdin/Stdout back the directly-implemented trap service routines
	// (GETC, OUT, PUTS, IN, PUTSP, HALT). Unlike Memory.Keyboard, these
	// may block (§4.3, §5).
	Stdin  io.Reader
	Stdout io.Writer
}

// NewState returns a State with PC set to the given load address, CC
// initialized to P, and Stdin/Stdout wired to the controlling terminal
// (§3).
func NewState(memory *mem.Memory, pc uint16) *State {
	return &State{
		Memory: memory,
		PC:     pc,
		CC:     P,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

// Running reports whether the machine has not yet halted.
func (s *State) Running() bool { return s.Memory.Running() }

// Fetch reads the word at PC without side effects beyond those of a normal
// memory read (MMIO addresses still apply — see Memory.Read).
func (s *State) Fetch() uint16 {
	return s.Memory.Read(s.PC)
}

// setRegisterCC writes value into register reg and updates the condition
// code from its signed interpretation, for the instructions marked CC in
// §4.3's table.
func (s *State) setRegisterCC(reg uint16, value uint16) {
	s.Registers.Write(reg, value)
	s.CC = conditionFor(value)
}
