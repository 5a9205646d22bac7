package cpu

// Trap vectors for the six trap service routines this emulator implements
// directly rather than by jumping through a trap vector table in memory
// (§4.3, design note in §9).
const (
	TrapGETC  = 0x20
	TrapOUT   = 0x21
	TrapPUTS  = 0x22
	TrapIN    = 0x23
	TrapPUTSP = 0x24
	TrapHALT  = 0x25
)
