package midg

import (
	"strconv"
	"strings"
)

// Flags is the bitmask stored in a MIDG header. The low three bits hold a
// channel code, the remaining bits are independent markers.
type Flags uint8

// Channel codes, stored in the low three bits.
const (
	FlagAlpha      Flags = 0
	FlagLuminosity Flags = 1
	FlagRGB        Flags = 2
	FlagRGBA       Flags = 4
)

// Marker bits.
const (
	FlagExtendedHeader Flags = 1 << (iota + 3)
	FlagReserved1
	FlagReserved2
	FlagReserved3
	FlagUseIndices
)

const channelMask Flags = 0x07

// Channels returns the channel code held in the low three bits.
func (f Flags) Channels() Flags {
	return f & channelMask
}

// Has reports whether every bit of m is set in f.
func (f Flags) Has(m Flags) bool {
	return f&m == m
}

var channelNames = map[Flags]string{
	FlagAlpha:      "alpha",
	FlagLuminosity: "luminosity",
	FlagRGB:        "rgb",
	FlagRGBA:       "rgba",
}

var markerNames = []struct {
	flag Flags
	name string
}{
	{FlagExtendedHeader, "extended"},
	{FlagReserved1, "reserved1"},
	{FlagReserved2, "reserved2"},
	{FlagReserved3, "reserved3"},
	{FlagUseIndices, "indices"},
}

func (f Flags) String() string {
	name, ok := channelNames[f.Channels()]
	if !ok {
		name = "code" + strconv.Itoa(int(f.Channels()))
	}
	parts := []string{name}
	for _, m := range markerNames {
		if f.Has(m.flag) {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseChannels maps a channel name as printed by Flags.String back to its
// code.
func ParseChannels(s string) (Flags, bool) {
	for f, name := range channelNames {
		if name == s {
			return f, true
		}
	}
	return 0, false
}

// BytesPerPixel returns the pixel stride in bytes for the channel code held in
// the low three bits of f. Every 3-bit code is defined, including those
// without a named constant.
func BytesPerPixel(f Flags) uint8 {
	x := uint8(f.Channels())
	n := 1 + x/2
	if x > 1 {
		n++
	}
	return n
}
