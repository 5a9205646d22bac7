package cpu

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Disassemble renders a decoded instruction the way the debugger's
// "d"/"disassemble" command and the executor's verbose trace report it: the
// mnemonic and operands, followed by the raw word split into its binary
// fields (§4.5).
func Disassemble(word uint16) string {
	inst := Decode(word)

	var operands string
	switch inst.Op {
	case OpBR:
		operands = fmt.Sprintf("%s%s%s #%d", flagLetter(inst.N, "n"), flagLetter(inst.Z, "z"), flagLetter(inst.Pcc, "p"), int16(inst.PCOffset9))
	case OpADD:
		operands = fmt.Sprintf("R%d, R%d, R%d", inst.DR, inst.SR1, inst.SR2)
	case OpADDIMM:
		operands = fmt.Sprintf("R%d, R%d, #%d", inst.DR, inst.SR1, int16(inst.Imm5))
	case OpAND:
		operands = fmt.Sprintf("R%d, R%d, R%d", inst.DR, inst.SR1, inst.SR2)
	case OpANDIMM:
		operands = fmt.Sprintf("R%d, R%d, #%d", inst.DR, inst.SR1, int16(inst.Imm5))
	case OpNOT:
		operands = fmt.Sprintf("R%d, R%d", inst.DR, inst.SR)
	case OpLD, OpLDI, OpLEA:
		operands = fmt.Sprintf("R%d, #%d", inst.DR, int16(inst.PCOffset9))
	case OpLDR:
		operands = fmt.Sprintf("R%d, R%d, #%d", inst.DR, inst.BaseR, int16(inst.Offset6))
	case OpST, OpSTI:
		operands = fmt.Sprintf("R%d, #%d", inst.SR, int16(inst.PCOffset9))
	case OpSTR:
		operands = fmt.Sprintf("R%d, R%d, #%d", inst.SR, inst.BaseR, int16(inst.Offset6))
	case OpJMP:
		operands = fmt.Sprintf("R%d", inst.BaseR&0x7)
	case OpJSR:
		operands = fmt.Sprintf("#%d", int16(inst.PCOffset11))
	case OpJSRR:
		operands = fmt.Sprintf("R%d", inst.BaseR)
	case OpTRAP:
		operands = fmt.Sprintf("%#02x", inst.TrapVector)
	}

	return fmt.Sprintf("%s %s (%s)", inst.Name(), strings.TrimSpace(operands), binaryString(word))
}

func flagLetter(set bool, letter string) string {
	if set {
		return letter
	}
	return ""
}

func binaryString(word uint16) string {
	return fmt.Sprintf("%04b %03b %01b %04b %04b",
		word>>12, (word>>9)&0x7, (word>>8)&0x1, (word>>4)&0xf, word&0xf)
}

// DumpState renders the full machine state (registers, PC, CC) using
// go-spew.
func DumpState(s *State) string {
	return spew.Sdump(struct {
		PC        uint16
		CC        ConditionCode
		Registers Registers
	}{s.PC, s.CC, s.Registers})
}
