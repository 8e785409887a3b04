package drive

import "github.com/user-none/go-chip-sn76489"

// RAMSize is the Z80 RAM size. The 64KB address space mirrors it.
const RAMSize = 0x4000

// I/O ports, decoded on the low address byte.
const (
	PortPSG     = 0x40 // SN76489 write port
	PortMotor   = 0x7E // Motor latch
	PortCommand = 0x7F // Floppy controller command / main status
)

// Bus implements z80.Bus for the drive host.
//
// Memory map (16-bit):
//
//	0x0000-0x3FFF  RAM (16KB), program loaded at 0x0000
//	0x4000-0xFFFF  RAM mirrors
type Bus struct {
	ram   [RAMSize]uint8
	drive *Drive
	psg   *sn76489.SN76489
}

// NewBus creates a bus connecting RAM, the drive and the PSG.
func NewBus(drive *Drive, psg *sn76489.SN76489) *Bus {
	return &Bus{drive: drive, psg: psg}
}

// Fetch reads an opcode byte during an M1 cycle.
func (b *Bus) Fetch(addr uint16) uint8 {
	return b.Read(addr)
}

// Read reads a byte from RAM.
func (b *Bus) Read(addr uint16) uint8 {
	return b.ram[addr&(RAMSize-1)]
}

// Write writes a byte to RAM.
func (b *Bus) Write(addr uint16, val uint8) {
	b.ram[addr&(RAMSize-1)] = val
}

// In reads from an I/O port. Unmapped ports return 0xFF.
func (b *Bus) In(port uint16) uint8 {
	switch uint8(port) {
	case PortMotor:
		return b.drive.MotorLatch()
	case PortCommand:
		return b.drive.Status()
	default:
		return 0xFF
	}
}

// Out writes to an I/O port.
func (b *Bus) Out(port uint16, val uint8) {
	switch uint8(port) {
	case PortPSG:
		b.psg.Write(val)
	case PortMotor:
		b.drive.WriteMotor(val)
	case PortCommand:
		b.drive.WriteCommand(val)
	}
}

// LoadProgram copies program into RAM at address 0.
func (b *Bus) LoadProgram(program []byte) {
	b.ram = [RAMSize]uint8{}
	copy(b.ram[:], program)
}
