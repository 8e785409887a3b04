package fx

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// HeaderSize is the size of the canonical minimal RIFF/WAVE header.
const HeaderSize = 44

// Required source clip format.
const (
	clipChannels      = 1
	clipBitsPerSample = 16
	clipBytesPerFrame = clipChannels * clipBitsPerSample / 8
)

// MaxClipBytes bounds the sample buffer a single clip may allocate.
// A data chunk declaring more than this fails with ErrAllocation.
const MaxClipBytes = 4 << 20

var (
	ErrShortBuffer        = errors.New("wav buffer shorter than header")
	ErrIncompatibleFormat = errors.New("incompatible audio format (1ch/16bits required)")
	ErrAllocation         = errors.New("cannot allocate clip samples")
)

// Header is the fixed 44 byte WAV header. Fields are taken in host byte
// order; big-endian hosts are expected to be given pre-swapped assets.
type Header struct {
	ChunkID   [4]byte
	ChunkSize uint32
	Format    [4]byte

	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16

	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// ParseHeader decodes the first HeaderSize bytes of buf. Only the length is
// checked; tags and format fields are copied verbatim.
func ParseHeader(buf []byte) (Header, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(buf))
	}

	ne := binary.NativeEndian
	copy(h.ChunkID[:], buf[0:4])
	h.ChunkSize = ne.Uint32(buf[4:8])
	copy(h.Format[:], buf[8:12])

	copy(h.Subchunk1ID[:], buf[12:16])
	h.Subchunk1Size = ne.Uint32(buf[16:20])
	h.AudioFormat = ne.Uint16(buf[20:22])
	h.NumChannels = ne.Uint16(buf[22:24])
	h.SampleRate = ne.Uint32(buf[24:28])
	h.ByteRate = ne.Uint32(buf[28:32])
	h.BlockAlign = ne.Uint16(buf[32:34])
	h.BitsPerSample = ne.Uint16(buf[34:36])

	copy(h.Subchunk2ID[:], buf[36:40])
	h.Subchunk2Size = ne.Uint32(buf[40:44])

	return h, nil
}

// Validate checks the mono/16-bit constraint.
func (h *Header) Validate() error {
	if h.NumChannels != clipChannels || h.BitsPerSample != clipBitsPerSample {
		return fmt.Errorf("%w: got %dch/%dbits", ErrIncompatibleFormat, h.NumChannels, h.BitsPerSample)
	}
	return nil
}

// Frames returns the number of samples declared by the data chunk.
func (h *Header) Frames() int {
	return int(h.Subchunk2Size) / clipBytesPerFrame
}
