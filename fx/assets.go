package fx

import (
	_ "embed"

	"golang.org/x/sys/cpu"
)

// Drive sounds in little-endian layout.
var (
	//go:embed assets/motor.wav
	motorWAV []byte
	//go:embed assets/seek.wav
	seekWAV []byte
	//go:embed assets/read.wav
	readWAV []byte
)

// Drive sounds with every header field and sample byte-swapped, for
// big-endian hosts.
var (
	//go:embed assets/motor_be.wav
	motorBEWAV []byte
	//go:embed assets/seek_be.wav
	seekBEWAV []byte
	//go:embed assets/read_be.wav
	readBEWAV []byte
)

// EmbeddedAssets returns the built-in drive sounds in the host's byte order.
func EmbeddedAssets() Assets {
	return assetsFor(cpu.IsBigEndian)
}

func assetsFor(bigEndian bool) Assets {
	if bigEndian {
		return Assets{
			SlotMotor: motorBEWAV,
			SlotSeek:  seekBEWAV,
			SlotRead:  readBEWAV,
		}
	}
	return Assets{
		SlotMotor: motorWAV,
		SlotSeek:  seekWAV,
		SlotRead:  readWAV,
	}
}
