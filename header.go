package midg

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bodgit/midg/crc16"
)

const (
	// Signature is the big-endian packing of the bytes "MIDG".
	Signature uint32 = 'M'<<24 | 'I'<<16 | 'D'<<8 | 'G'

	// Magic is the byte string prefix of every MIDG file.
	Magic = "MIDG"

	// HeaderSize is the on-disk size of the header in bytes. Fields are
	// packed with no padding.
	HeaderSize = 16

	// MinFileSize is the smallest file Check will read a header from.
	MinFileSize = HeaderSize
)

// The checksum covers width, height, flags, mipmap count and unique colors.
const (
	checksumStart = 4
	checksumEnd   = 12
)

var (
	// ErrInvalid is wrapped by every error reporting a structurally
	// invalid container.
	ErrInvalid = errors.New("midg: invalid container")

	ErrShortHeader   = fmt.Errorf("%w: header too short", ErrInvalid)
	ErrBadSignature  = fmt.Errorf("%w: bad signature", ErrInvalid)
	ErrBadChecksum   = fmt.Errorf("%w: checksum mismatch", ErrInvalid)
	ErrZeroDimension = fmt.Errorf("%w: zero dimension with extended header", ErrInvalid)
)

// Header is the fixed-size record at the start of a MIDG file. It implements
// the encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	Signature    uint32
	Width        uint16
	Height       uint16
	Flags        Flags
	MipmapCount  uint8
	UniqueColors uint16
	Checksum     uint32
}

// Checksum computes the header checksum over the eight bytes following the
// signature. The bytes are fed through the accumulator twice, the first pass
// forms the upper half of the result and the low 16 bits of the second pass,
// continued from the first, form the lower half.
func Checksum(mid []byte) uint32 {
	h := crc16.New()
	_, _ = h.Write(mid)
	pass1 := h.Sum32()
	_, _ = h.Write(mid)
	pass2 := h.Sum32()
	return pass1<<16 | pass2&0xffff
}

func putFields(b []byte, h *Header) {
	binary.BigEndian.PutUint32(b[0:4], h.Signature)
	binary.LittleEndian.PutUint16(b[4:6], h.Width)
	binary.LittleEndian.PutUint16(b[6:8], h.Height)
	b[8] = byte(h.Flags)
	b[9] = h.MipmapCount
	binary.LittleEndian.PutUint16(b[10:12], h.UniqueColors)
	binary.LittleEndian.PutUint32(b[12:16], h.Checksum)
}

// MarshalBinary encodes the header exactly as stored, including whatever
// signature and checksum it currently holds.
func (h *Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	putFields(b, h)
	return b, nil
}

// UnmarshalBinary decodes the first HeaderSize bytes of b without validating
// them.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrShortHeader
	}
	h.Signature = binary.BigEndian.Uint32(b[0:4])
	h.Width = binary.LittleEndian.Uint16(b[4:6])
	h.Height = binary.LittleEndian.Uint16(b[6:8])
	h.Flags = Flags(b[8])
	h.MipmapCount = b[9]
	h.UniqueColors = binary.LittleEndian.Uint16(b[10:12])
	h.Checksum = binary.LittleEndian.Uint32(b[12:16])
	return nil
}

// Seal sets the signature and recomputes the checksum from the other fields.
func (h *Header) Seal() {
	h.Signature = Signature
	var b [HeaderSize]byte
	putFields(b[:], h)
	h.Checksum = Checksum(b[checksumStart:checksumEnd])
}

// Valid reports whether the header as it would be encoded passes Validate.
func (h *Header) Valid() bool {
	var b [HeaderSize]byte
	putFields(b[:], h)
	return Valid(b[:])
}

// BytesPerPixel returns the pixel stride implied by the header flags.
func (h *Header) BytesPerPixel() uint8 {
	return BytesPerPixel(h.Flags)
}

// DataSize predicts the payload footprint. A nonzero MipmapCount declares a
// full mip chain, otherwise only the base level is counted.
func (h *Header) DataSize() uint64 {
	bpp := uint16(h.BytesPerPixel())
	if h.MipmapCount > 0 {
		return MipChainSize(h.Width, h.Height, bpp)
	}
	return uint64(h.Width) * uint64(h.Height) * uint64(bpp)
}

// Validate checks the first HeaderSize bytes of b and returns nil if they hold
// a valid header. Any returned error wraps ErrInvalid.
func Validate(b []byte) error {
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return err
	}

	if h.Signature != Signature {
		return fmt.Errorf("%w: got %08X", ErrBadSignature, h.Signature)
	}

	if sum := Checksum(b[checksumStart:checksumEnd]); sum != h.Checksum {
		return fmt.Errorf("%w: stored %08X, computed %08X", ErrBadChecksum, h.Checksum, sum)
	}

	if (h.Width == 0 || h.Height == 0) && h.Flags.Has(FlagExtendedHeader) {
		return ErrZeroDimension
	}

	return nil
}

// Valid reports whether b starts with a valid header. It is defined for any
// input, including nil.
func Valid(b []byte) bool {
	return Validate(b) == nil
}

// DecodeHeader validates and decodes the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if err := Validate(b); err != nil {
		return Header{}, err
	}
	var h Header
	if err := h.UnmarshalBinary(b); err != nil {
		return Header{}, err
	}
	return h, nil
}
