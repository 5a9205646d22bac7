// Package debugger implements the single-client, line-oriented TCP
// debugger described in §4.5 of the specification this module implements:
// a REPL bound to 127.0.0.1:6379 that pauses the executor at breakpoints
// and answers a small command grammar.
package debugger

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"

	"gone/cpu"
)

const address = "127.0.0.1:6379"

// Debugger holds the breakpoint state shared across the lifetime of one
// debug session (§4.5). It is not safe for concurrent use — the
// specification's concurrency model runs the debugger loop and the
// executor on a single thread of control (§5).
type Debugger struct {
	debugContinue bool
	breakAddress  *uint16
}

// New returns a Debugger with no breakpoint set.
func New() *Debugger {
	return &Debugger{}
}

// Run binds the debugger's listener, accepts exactly one client, and
// drives state until it stops running (§4.5, §6). Any bind, accept, read,
// or write failure is a debugger I/O error (§7): it is logged and Run
// returns, leaving state as it was.
func (d *Debugger) Run(state *cpu.State) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		log.Printf("debugger: unable to bind to %s: %v", address, err)
		return
	}
	defer listener.Close()

	log.Printf("debugger: waiting for a connection on %s", address)
	conn, err := listener.Accept()
	if err != nil {
		log.Printf("debugger: accept failed: %v", err)
		return
	}
	defer conn.Close()
	log.Printf("debugger: client connected: %s", conn.RemoteAddr())

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for state.Running() {
		for state.Running() && !d.debugContinue && d.shouldBreak(state.PC) {
			d.debugContinue = false

			line, err := reader.ReadString('\n')
			if err != nil {
				log.Printf("debugger: read failed: %v", err)
				return
			}
			response := d.handle(state, parse(strings.TrimSpace(line)))

			if _, err := writer.WriteString(response + "\n"); err != nil {
				log.Printf("debugger: write failed: %v", err)
				return
			}
			if err := writer.Flush(); err != nil {
				log.Printf("debugger: flush failed: %v", err)
				return
			}
		}

		d.debugContinue = false

		if !state.Running() {
			break
		}
		if err := state.Step(); err != nil {
			log.Printf("debugger: %v", err)
			return
		}
	}
}

// shouldBreak implements §4.5's three-way rule: break when there is no
// breakpoint, or when the current PC matches one (clearing it in the
// process); otherwise don't.
func (d *Debugger) shouldBreak(pc uint16) bool {
	if d.breakAddress == nil {
		return true
	}
	if *d.breakAddress == pc {
		d.breakAddress = nil
		return true
	}
	return false
}

func (d *Debugger) handle(state *cpu.State, cmd command) string {
	switch cmd.kind {
	case cmdContinue:
		d.debugContinue = true
		return fmt.Sprintf("PC %#04x", state.PC)

	case cmdFlags:
		return state.CC.String()

	case cmdRegisters:
		lines := make([]string, 8)
		for i := range lines {
			lines[i] = fmt.Sprintf("R%d: %#04x", i, state.Registers.Read(uint16(i)))
		}
		return strings.Join(lines, "\n")

	case cmdDisassemble:
		return cpu.Disassemble(state.Fetch())

	case cmdRead:
		value := state.Memory.Read(cmd.address)
		return fmt.Sprintf("%#04x, %016b", value, value)

	case cmdBreakAddress:
		addr := cmd.address
		d.breakAddress = &addr
		return fmt.Sprintf("Break address set to %#04x", addr)

	case cmdHelp:
		return strings.Join([]string{
			"c, continue               Continue execution.",
			"r, registers              Print registers.",
			"f, flags                  Print flags.",
			"d, disassemble            Disassemble current instruction.",
			"   read <addr>            Read and display memory address. e.g. read 0x3000",
			"   break-address <addr>   Break at address. e.g. break-address 0x3000",
		}, "\n")

	case cmdExit:
		state.Memory.Halt()
		return "Exiting..."

	default:
		return fmt.Sprintf("Unknown command %q", cmd.raw)
	}
}

type commandKind int

const (
	cmdUnknown commandKind = iota
	cmdContinue
	cmdFlags
	cmdRegisters
	cmdDisassemble
	cmdRead
	cmdBreakAddress
	cmdHelp
	cmdExit
)

type command struct {
	kind    commandKind
	address uint16
	raw     string
}

// parse maps a trimmed input line to a command (§4.5's grammar, matched
// case-sensitively on the whole line).
func parse(line string) command {
	switch line {
	case "c", "continue":
		return command{kind: cmdContinue}
	case "f", "flags":
		return command{kind: cmdFlags}
	case "r", "registers":
		return command{kind: cmdRegisters}
	case "d", "disassemble":
		return command{kind: cmdDisassemble}
	case "h", "help":
		return command{kind: cmdHelp}
	case "exit":
		return command{kind: cmdExit}
	}

	if addr, ok := parseHexAfterPattern("read 0x", line); ok {
		return command{kind: cmdRead, address: addr}
	}
	if addr, ok := parseHexAfterPattern("break-address 0x", line); ok {
		return command{kind: cmdBreakAddress, address: addr}
	}

	return command{kind: cmdUnknown, raw: line}
}

// parseHexAfterPattern reports whether line starts with pattern followed
// by 1 to 4 hex digits and nothing else, per §4.5's `read`/`break-address`
// grammar.
func parseHexAfterPattern(pattern, line string) (uint16, bool) {
	if !strings.HasPrefix(line, pattern) {
		return 0, false
	}
	digits := line[len(pattern):]
	if len(digits) == 0 || len(digits) > 4 {
		return 0, false
	}
	value, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(value), true
}
