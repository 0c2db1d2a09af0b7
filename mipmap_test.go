package midg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMipChainSize(t *testing.T) {
	tables := []struct {
		name          string
		width, height uint16
		bpp           uint16
		want          uint64
	}{
		{"1x1", 1, 1, 1, 1},
		{"1x1 rgba", 1, 1, 4, 4},
		{"1x1 zero bpp", 1, 1, 0, 0},
		{"4x4", 4, 4, 1, 16 + 4 + 1},
		{"4x4 rgb", 4, 4, 3, (16 + 4 + 1) * 3},
		{"5x3", 5, 3, 1, 15 + 3*2 + 2*1 + 1},
		{"8x1", 8, 1, 2, (8 + 4 + 2 + 1) * 2},
		{"zero", 0, 0, 4, 4},
		{"zero width", 0, 4, 1, 0 + 2 + 1},
		{"max", 0xffff, 0xffff, 4, 0},
	}

	// Enumerated by hand for the largest input
	var total uint64
	for w, h := uint64(0xffff), uint64(0xffff); ; {
		total += w * h * 4
		if w == 1 && h == 1 {
			break
		}
		w, h = (w+1)/2, (h+1)/2
	}
	tables[len(tables)-1].want = total

	for _, table := range tables {
		table := table
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, MipChainSize(table.width, table.height, table.bpp))
		})
	}
}

func TestMipLevels(t *testing.T) {
	assert.Equal(t, 1, MipLevels(1, 1))
	assert.Equal(t, 3, MipLevels(4, 4))
	assert.Equal(t, 4, MipLevels(5, 3))
	assert.Equal(t, 2, MipLevels(0, 0))
	assert.Equal(t, 17, MipLevels(0xffff, 1))
}
