package drive

// Z80 opcodes used by the built-in programs.
const (
	opLDSP    = 0x31 // LD SP,nn
	opLDA     = 0x3E // LD A,n
	opLDBC    = 0x01 // LD BC,nn
	opOutA    = 0xD3 // OUT (n),A
	opCall    = 0xCD // CALL nn
	opRet     = 0xC9
	opXorA    = 0xAF
	opHalt    = 0x76
	opDecBC   = 0x0B
	opLDAB    = 0x78 // LD A,B
	opOrC     = 0xB1
	opJRNZ    = 0x20
	opDI      = 0xF3
	stackTop  = RAMSize
	delayAddr = 0x0100
)

// delayLoopCycles is the cost of one pass through the delay routine.
// DEC BC(6) + LD A,B(4) + OR C(4) + JR NZ taken(12).
const delayLoopCycles = 26

// program assembles a boot program. The delay routine always lives at
// delayAddr so calls need no fixups.
type program struct {
	code []byte
}

func (p *program) emit(b ...byte) *program {
	p.code = append(p.code, b...)
	return p
}

func (p *program) out(port, val uint8) *program {
	return p.emit(opLDA, val, opOutA, port)
}

// wait burns roughly cycles Z80 cycles.
func (p *program) wait(cycles int) *program {
	n := cycles / delayLoopCycles
	if n < 1 {
		n = 1
	}
	if n > 0xFFFF {
		n = 0xFFFF
	}
	return p.emit(opLDBC, uint8(n), uint8(n>>8), opCall, uint8(delayAddr&0xFF), uint8(delayAddr>>8))
}

func (p *program) bytes() []byte {
	if len(p.code) > delayAddr {
		panic("drive: boot program overlaps delay routine")
	}
	code := make([]byte, delayAddr, delayAddr+6)
	copy(code, p.code)
	// delay: DEC BC; LD A,B; OR C; JR NZ,delay; RET
	return append(code, opDecBC, opLDAB, opOrC, opJRNZ, 0xFB, opRet)
}

func newProgram() *program {
	p := &program{}
	return p.emit(opDI, opLDSP, uint8(stackTop&0xFF), uint8(stackTop>>8))
}

// DemoProgram returns a boot program that exercises every drive sound
// against PAL frame lengths: a short PSG chime while the motor spins up,
// a seek, a read, then motor off and halt.
func DemoProgram() []byte {
	frame := PALTiming.CyclesPerFrame()
	p := newProgram()

	// Chime: channel 0 tone 0x0FE at volume 12.
	p.out(PortPSG, 0x8E).out(PortPSG, 0x0F).out(PortPSG, 0x9C)
	p.out(PortMotor, 0x01)
	p.wait(2 * frame)
	p.out(PortPSG, 0x9F)

	p.out(PortCommand, fdcSeek)
	p.wait(3 * frame)

	p.out(PortCommand, 0x40|fdcReadData)
	p.wait(4 * frame)

	p.out(PortCommand, fdcSenseInterrupt)
	p.wait(frame)

	p.emit(opXorA, opOutA, PortMotor)
	p.emit(opHalt)
	return p.bytes()
}

// IdleProgram returns a boot program that halts immediately, leaving the
// drive under manual control.
func IdleProgram() []byte {
	return newProgram().emit(opHalt).bytes()
}

// BuiltinProgram returns the named built-in boot program ("demo" or "idle").
func BuiltinProgram(name string) ([]byte, bool) {
	switch name {
	case "demo":
		return DemoProgram(), true
	case "idle":
		return IdleProgram(), true
	}
	return nil, false
}
