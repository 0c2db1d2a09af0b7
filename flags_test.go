package midg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesPerPixel(t *testing.T) {
	tables := []struct {
		flags Flags
		want  uint8
	}{
		{0, 1},
		{1, 1},
		{2, 3},
		{3, 3},
		{4, 4},
		{5, 4},
		{6, 5},
		{7, 5},
		{FlagRGBA | FlagExtendedHeader | FlagUseIndices, 4},
		{FlagAlpha | FlagReserved1, 1},
	}

	for _, table := range tables {
		assert.Equal(t, table.want, BytesPerPixel(table.flags), "flags %08b", uint8(table.flags))
	}
}

func TestFlagBits(t *testing.T) {
	assert.Equal(t, Flags(8), FlagExtendedHeader)
	assert.Equal(t, Flags(16), FlagReserved1)
	assert.Equal(t, Flags(32), FlagReserved2)
	assert.Equal(t, Flags(64), FlagReserved3)
	assert.Equal(t, Flags(128), FlagUseIndices)

	f := FlagRGB | FlagExtendedHeader
	assert.Equal(t, FlagRGB, f.Channels())
	assert.True(t, f.Has(FlagExtendedHeader))
	assert.False(t, f.Has(FlagUseIndices))
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "rgb", FlagRGB.String())
	assert.Equal(t, "alpha|extended|indices", (FlagAlpha | FlagExtendedHeader | FlagUseIndices).String())
	assert.Equal(t, "code7", Flags(7).String())
}

func TestParseChannels(t *testing.T) {
	f, ok := ParseChannels("luminosity")
	assert.True(t, ok)
	assert.Equal(t, FlagLuminosity, f)

	_, ok = ParseChannels("cmyk")
	assert.False(t, ok)
}
