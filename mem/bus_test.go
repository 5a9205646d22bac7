package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeKeyboard struct {
	ready bool
	byte_ byte
}

func (f *fakeKeyboard) Ready() bool             { return f.ready }
func (f *fakeKeyboard) ReadByte() (byte, error) { return f.byte_, nil }

func TestPlainReadWrite(t *testing.T) {
	m := New()
	m.Write(0x3000, 0x1234)
	assert.Equal(t, uint16(0x1234), m.Read(0x3000))
}

func TestDSRAlwaysReady(t *testing.T) {
	m := New()
	assert.Equal(t, uint16(0x8000), m.Read(DSR))
	m.Write(DSR, 0x0000) // ignored
	assert.Equal(t, uint16(0x8000), m.Read(DSR))
}

func TestDDRWritesToDisplay(t *testing.T) {
	m := New()
	var got []byte
	m.Display = func(b byte) { got = append(got, b) }

	m.Write(DDR, 0x41)
	m.Write(DDR, 0x0042) // high byte dropped
	assert.Equal(t, []byte{'A', 'B'}, got)
	assert.Equal(t, uint16(0), m.Read(DDR))
}

func TestKBSRAndKBDRLatch(t *testing.T) {
	m := New()
	kb := &fakeKeyboard{ready: false}
	m.Keyboard = kb

	assert.Equal(t, uint16(0), m.Read(KBSR))
	assert.Equal(t, uint16(0), m.Read(KBDR)) // nothing latched

	kb.ready = true
	kb.byte_ = 'x'
	assert.Equal(t, uint16(0x8000), m.Read(KBSR))
	assert.Equal(t, uint16('x'), m.Read(KBDR))

	// the latch is consumed: a second KBDR read without an intervening
	// KBSR read returns 0
	assert.Equal(t, uint16(0), m.Read(KBDR))
}

func TestKBSRKBDRWritesIgnored(t *testing.T) {
	m := New()
	m.Write(KBSR, 0xffff)
	m.Write(KBDR, 0xffff)
	assert.Equal(t, uint16(0), m.Cells[KBSR])
	assert.Equal(t, uint16(0), m.Cells[KBDR])
}

func TestMCRHalt(t *testing.T) {
	m := New()
	assert.True(t, m.Running())
	assert.Equal(t, uint16(0x8000), m.Read(MCR))

	m.Write(MCR, 0x0000)
	assert.False(t, m.Running())
}

func TestHaltSetsRunningFalse(t *testing.T) {
	m := New()
	m.Halt()
	assert.False(t, m.Running())
}
