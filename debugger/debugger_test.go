package debugger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gone/cpu"
	"gone/mem"
)

func newTestState() *cpu.State {
	m := mem.New()
	s := cpu.NewState(m, 0x3000)
	s.Stdin = strings.NewReader("")
	s.Stdout = &bytes.Buffer{}
	return s
}

func TestParseKnownCommands(t *testing.T) {
	assert.Equal(t, command{kind: cmdContinue}, parse("c"))
	assert.Equal(t, command{kind: cmdContinue}, parse("continue"))
	assert.Equal(t, command{kind: cmdFlags}, parse("f"))
	assert.Equal(t, command{kind: cmdRegisters}, parse("registers"))
	assert.Equal(t, command{kind: cmdDisassemble}, parse("d"))
	assert.Equal(t, command{kind: cmdHelp}, parse("help"))
	assert.Equal(t, command{kind: cmdExit}, parse("exit"))
}

func TestParseReadAndBreakAddress(t *testing.T) {
	assert.Equal(t, command{kind: cmdRead, address: 0x3000}, parse("read 0x3000"))
	assert.Equal(t, command{kind: cmdBreakAddress, address: 0x1}, parse("break-address 0x1"))
}

func TestParseRejectsMalformedHex(t *testing.T) {
	for _, line := range []string{"read", "read 0x", "read 0x12345", "read 0x1z", "a read 0x1"} {
		got := parse(line)
		assert.Equal(t, cmdUnknown, got.kind, "line %q", line)
	}
}

func TestParseUnknown(t *testing.T) {
	got := parse("frobnicate")
	assert.Equal(t, command{kind: cmdUnknown, raw: "frobnicate"}, got)
}

func TestHandleContinueSetsContinueMode(t *testing.T) {
	d := New()
	s := newTestState()
	s.PC = 0x3000

	resp := d.handle(s, command{kind: cmdContinue})
	assert.Equal(t, "PC 0x3000", resp)
	assert.True(t, d.debugContinue)
}

func TestHandleRegisters(t *testing.T) {
	d := New()
	s := newTestState()
	s.Registers.Write(0, 0x1234)

	resp := d.handle(s, command{kind: cmdRegisters})
	lines := strings.Split(resp, "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "R0: 0x1234", lines[0])
}

func TestHandleBreakAddress(t *testing.T) {
	d := New()
	s := newTestState()

	resp := d.handle(s, command{kind: cmdBreakAddress, address: 0x3010})
	assert.Equal(t, "Break address set to 0x3010", resp)
	assert.NotNil(t, d.breakAddress)
	assert.Equal(t, uint16(0x3010), *d.breakAddress)
}

func TestHandleUnknown(t *testing.T) {
	d := New()
	s := newTestState()

	resp := d.handle(s, command{kind: cmdUnknown, raw: "nope"})
	assert.Equal(t, `Unknown command "nope"`, resp)
}

func TestHandleExitHaltsMachine(t *testing.T) {
	d := New()
	s := newTestState()
	assert.True(t, s.Running())

	resp := d.handle(s, command{kind: cmdExit})
	assert.Equal(t, "Exiting...", resp)
	assert.False(t, s.Running())
}

func TestShouldBreakWithNoBreakpointAlwaysBreaks(t *testing.T) {
	d := New()
	assert.True(t, d.shouldBreak(0x3000))
	assert.True(t, d.shouldBreak(0x3001))
}

func TestShouldBreakClearsOnceHit(t *testing.T) {
	d := New()
	addr := uint16(0x3005)
	d.breakAddress = &addr

	assert.False(t, d.shouldBreak(0x3000))
	assert.True(t, d.shouldBreak(0x3005))
	assert.Nil(t, d.breakAddress)
}
