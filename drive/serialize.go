package drive

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"log"

	"github.com/user-none/emfx/fx"
	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eMFXState\x00\x00\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + programCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	driveSerializeSize   = 3 // motor(1) + reading(1) + lastCmd(1)
	machineSerializeSize = 4 // pendingCycles(4)
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes of a save state.
func SerializeSize() int {
	return stateHeaderSize +
		z80.SerializeSize +
		sn76489.SerializeSize +
		RAMSize +
		driveSerializeSize +
		fx.SerializeSize +
		machineSerializeSize
}

// Serialize creates a save state and returns it as a byte slice.
func (m *Machine) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], m.programCRC)

	offset := stateHeaderSize

	if err := m.cpu.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += z80.SerializeSize

	if err := m.psg.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += sn76489.SerializeSize

	copy(data[offset:], m.bus.ram[:])
	offset += RAMSize

	data[offset] = boolByte(m.drive.motor)
	data[offset+1] = boolByte(m.drive.reading)
	data[offset+2] = m.drive.lastCmd
	offset += driveSerializeSize

	if err := m.sounds.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += fx.SerializeSize

	binary.LittleEndian.PutUint32(data[offset:], uint32(int32(m.pendingCycles)))

	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores machine state from a save state. A state that is
// rejected, by the header checks or by any component, leaves the machine
// as it was.
func (m *Machine) Deserialize(data []byte) error {
	if err := m.VerifyState(data); err != nil {
		return err
	}

	rollback, err := m.Serialize()
	if err != nil {
		return err
	}

	if err := m.restore(data); err != nil {
		if rerr := m.restore(rollback); rerr != nil {
			log.Printf("Warning: rolling back rejected save state failed: %v", rerr)
		}
		return err
	}
	return nil
}

// restore applies a verified save state component by component.
func (m *Machine) restore(data []byte) error {
	offset := stateHeaderSize

	if err := m.cpu.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += z80.SerializeSize

	if err := m.psg.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += sn76489.SerializeSize

	copy(m.bus.ram[:], data[offset:offset+RAMSize])
	offset += RAMSize

	m.drive.motor = data[offset] != 0
	m.drive.reading = data[offset+1] != 0
	m.drive.lastCmd = data[offset+2]
	offset += driveSerializeSize

	if err := m.sounds.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += fx.SerializeSize

	m.pendingCycles = int(int32(binary.LittleEndian.Uint32(data[offset:])))

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (m *Machine) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	programCRC := binary.LittleEndian.Uint32(data[14:18])
	if programCRC != m.programCRC {
		return errors.New("save state is for a different program")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}
