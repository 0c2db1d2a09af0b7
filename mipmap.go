package midg

func nextLevel(n uint16) uint16 {
	// Computed in 32 bits so that 0xffff rounds up to 0x8000
	n = uint16((uint32(n) + 1) / 2)
	if n < 1 {
		return 1
	}
	return n
}

// MipChainSize returns the number of bytes occupied by a full mipmap pyramid
// starting at width by height pixels, each level halving (rounding up) until
// 1x1 is reached. Zero dimensions are clamped to one after the first level.
func MipChainSize(width, height, bytesPerPixel uint16) uint64 {
	var total uint64
	w, h := width, height
	for {
		total += uint64(w) * uint64(h) * uint64(bytesPerPixel)
		if w == 1 && h == 1 {
			break
		}
		w, h = nextLevel(w), nextLevel(h)
	}
	return total
}

// MipLevels returns the number of levels in the pyramid that MipChainSize
// walks, including the base level and the final 1x1 level.
func MipLevels(width, height uint16) int {
	levels := 1
	for w, h := width, height; w != 1 || h != 1; levels++ {
		w, h = nextLevel(w), nextLevel(h)
	}
	return levels
}
