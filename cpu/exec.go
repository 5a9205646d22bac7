package cpu

import (
	"errors"
	"fmt"
)

// ErrFatalDecode is returned when the fetched word decodes to RTI or the
// reserved 1101 opcode, neither of which this emulator implements (§4.2,
// §4.3, §7).
var ErrFatalDecode = errors.New("cpu: fatal decode error")

// ErrUnrecognizedTrap is returned when a TRAP instruction names a vector
// outside {0x20..0x25} (§4.3, §7).
var ErrUnrecognizedTrap = errors.New("cpu: unrecognized trap vector")

type flusher interface {
	Flush() error
}

func flush(w any) {
	if f, ok := w.(flusher); ok {
		f.Flush()
	}
}

// Step fetches and executes exactly one instruction (§4.3's contract).
// PC is advanced by one, wrapping, before any operand semantics are
// applied, so a BR/JSR/LD/LEA target computed relative to PC sees the
// incremented value. Step returns ErrFatalDecode or ErrUnrecognizedTrap
// for the two error conditions the executor can raise; neither is
// recoverable (§7) — the caller should stop the run.
func (s *State) Step() error {
	word := s.Fetch()
	inst := Decode(word)
	s.PC++

	switch inst.Op {
	case OpBR:
		taken := (inst.N && s.CC == N) || (inst.Z && s.CC == Z) || (inst.Pcc && s.CC == P)
		if taken {
			s.PC += inst.PCOffset9
		}

	case OpADD:
		s.setRegisterCC(inst.DR, s.Registers.Read(inst.SR1)+s.Registers.Read(inst.SR2))
	case OpADDIMM:
		s.setRegisterCC(inst.DR, s.Registers.Read(inst.SR1)+inst.Imm5)

	case OpAND:
		s.setRegisterCC(inst.DR, s.Registers.Read(inst.SR1)&s.Registers.Read(inst.SR2))
	case OpANDIMM:
		s.setRegisterCC(inst.DR, s.Registers.Read(inst.SR1)&inst.Imm5)

	case OpNOT:
		s.setRegisterCC(inst.DR, ^s.Registers.Read(inst.SR))

	case OpLD:
		s.setRegisterCC(inst.DR, s.Memory.Read(s.PC+inst.PCOffset9))

	case OpLDI:
		addr := s.Memory.Read(s.PC + inst.PCOffset9)
		s.setRegisterCC(inst.DR, s.Memory.Read(addr))

	case OpLDR:
		s.setRegisterCC(inst.DR, s.Memory.Read(s.Registers.Read(inst.BaseR)+inst.Offset6))

	case OpLEA:
		s.setRegisterCC(inst.DR, s.PC+inst.PCOffset9)

	case OpST:
		s.Memory.Write(s.PC+inst.PCOffset9, s.Registers.Read(inst.SR))

	case OpSTI:
		addr := s.Memory.Read(s.PC + inst.PCOffset9)
		s.Memory.Write(addr, s.Registers.Read(inst.SR))

	case OpSTR:
		s.Memory.Write(s.Registers.Read(inst.BaseR)+inst.Offset6, s.Registers.Read(inst.SR))

	case OpJMP:
		// §9: the base register field must be masked with 0x7, not 0xa —
		// a known bug in the reference this emulator does not reproduce.
		s.PC = s.Registers.Read(inst.BaseR & 0x7)

	case OpJSR:
		temp := s.PC
		s.PC += inst.PCOffset11
		s.Registers.Write(7, temp)

	case OpJSRR:
		temp := s.PC
		s.PC = s.Registers.Read(inst.BaseR)
		s.Registers.Write(7, temp)

	case OpTRAP:
		return s.trap(inst.TrapVector)

	case OpRTI, OpReserved:
		return fmt.Errorf("%w: opcode bits %#06x", ErrFatalDecode, word)
	}

	return nil
}

// trap dispatches a TRAP instruction's vector to one of the six directly
// implemented service routines (§4.3). Traps never mutate R7 — they are
// intercepted rather than run through the trap-vector table.
func (s *State) trap(vector uint16) error {
	switch vector {
	case TrapGETC:
		b, err := readByte(s.Stdin)
		if err != nil {
			return err
		}
		s.Registers.Write(0, uint16(b))

	case TrapOUT:
		fmt.Fprintf(s.Stdout, "%c", byte(s.Registers.Read(0)))
		flush(s.Stdout)

	case TrapPUTS:
		addr := s.Registers.Read(0)
		for {
			word := s.Memory.Read(addr)
			if word == 0 {
				break
			}
			fmt.Fprintf(s.Stdout, "%c", byte(word))
			addr++
		}
		flush(s.Stdout)

	case TrapIN:
		fmt.Fprint(s.Stdout, "Enter a character: ")
		flush(s.Stdout)
		b, err := readByte(s.Stdin)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.Stdout, "%c", b)
		flush(s.Stdout)
		s.Registers.Write(0, uint16(b))

	case TrapPUTSP:
		addr := s.Registers.Read(0)
		for {
			word := s.Memory.Read(addr)
			if word == 0 {
				break
			}
			lo := byte(word)
			hi := byte(word >> 8)
			fmt.Fprintf(s.Stdout, "%c", lo)
			if hi != 0 {
				fmt.Fprintf(s.Stdout, "%c", hi)
			}
			addr++
		}
		flush(s.Stdout)

	case TrapHALT:
		fmt.Fprintln(s.Stdout, "HALT")
		flush(s.Stdout)
		s.Memory.Halt()

	default:
		return fmt.Errorf("%w: %#04x", ErrUnrecognizedTrap, vector)
	}

	return nil
}

func readByte(r interface{ Read([]byte) (int, error) }) (byte, error) {
	var b [1]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}
