/*
Package pixel implements a generic row-major pixel buffer.

A Buffer owns width*height elements of a single pixel type stored
contiguously, row y occupying indices [y*width, y*width+width). Elements are
addressed by (x, y) with x across and y down from the top-left corner.

The raw byte view returned by Bytes reinterprets the storage in place and so
requires the element type to be plain data: fixed size, no pointers, slices,
strings or interfaces, and no padding between or after fields. Types such as
uint8, float32, [4]uint16 and the RGB, RGBA and Gray types in this package
qualify. A struct mixing uint8 and uint32 fields does not, as the compiler
pads it. Asking for the byte view of a non-plain type panics.
*/
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unsafe"
)

var (
	// ErrTooLarge is returned when width*height elements cannot be
	// addressed as a single slice.
	ErrTooLarge = errors.New("pixel: buffer too large")

	// ErrSizeMismatch is returned when supplied storage does not match
	// the requested dimensions.
	ErrSizeMismatch = errors.New("pixel: storage does not match dimensions")
)

// Buffer is a row-major grid of pixels of type T. The zero value is an empty
// 0x0 buffer.
type Buffer[T any] struct {
	width, height uint16
	pix           []T
}

func elemSize[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

func count[T any](width, height uint16) (int, error) {
	n := uint64(width) * uint64(height)
	if size := uint64(elemSize[T]()); size > 0 && n > math.MaxInt/size {
		return 0, ErrTooLarge
	}
	return int(n), nil
}

// New returns a buffer of width by height zero-valued pixels.
func New[T any](width, height uint16) (*Buffer[T], error) {
	b := new(Buffer[T])
	if err := b.Reallocate(width, height); err != nil {
		return nil, err
	}
	return b, nil
}

// FromSlice returns a buffer that takes ownership of pix, which must hold
// exactly width*height elements in row-major order.
func FromSlice[T any](width, height uint16, pix []T) (*Buffer[T], error) {
	n, err := count[T](width, height)
	if err != nil {
		return nil, err
	}
	if len(pix) != n {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrSizeMismatch, len(pix), width, height)
	}
	return &Buffer[T]{width: width, height: height, pix: pix}, nil
}

// FromBytes returns a new buffer holding a copy of p reinterpreted as
// elements of type T. It is the inverse of Bytes and panics if T is not
// plain data.
func FromBytes[T any](width, height uint16, p []byte) (*Buffer[T], error) {
	b, err := New[T](width, height)
	if err != nil {
		return nil, err
	}
	if len(p) != b.ByteSize() {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(p), width, height)
	}
	copy(b.Bytes(), p)
	return b, nil
}

// Reallocate discards the current contents and replaces them with width by
// height zero-valued pixels. Any byte view previously returned by Bytes no
// longer refers to the buffer.
func (b *Buffer[T]) Reallocate(width, height uint16) error {
	n, err := count[T](width, height)
	if err != nil {
		return err
	}
	b.width, b.height = width, height
	b.pix = make([]T, n)
	return nil
}

// Width returns the width in pixels.
func (b *Buffer[T]) Width() uint16 { return b.width }

// Height returns the height in pixels.
func (b *Buffer[T]) Height() uint16 { return b.height }

// Len returns the number of pixels.
func (b *Buffer[T]) Len() int { return len(b.pix) }

func (b *Buffer[T]) offset(x, y uint16) int {
	if x >= b.width || y >= b.height {
		panic(fmt.Sprintf("pixel: (%d, %d) out of bounds of %dx%d buffer", x, y, b.width, b.height))
	}
	return int(y)*int(b.width) + int(x)
}

// Pixel returns a pointer to the pixel at (x, y). It panics if the
// coordinate lies outside the buffer.
func (b *Buffer[T]) Pixel(x, y uint16) *T {
	return &b.pix[b.offset(x, y)]
}

// At returns the pixel at (x, y). It panics if the coordinate lies outside
// the buffer.
func (b *Buffer[T]) At(x, y uint16) T {
	return b.pix[b.offset(x, y)]
}

// Set replaces the pixel at (x, y). It panics if the coordinate lies outside
// the buffer.
func (b *Buffer[T]) Set(x, y uint16, v T) {
	b.pix[b.offset(x, y)] = v
}

// MapEach replaces every pixel with fn applied to its current value, in
// storage order.
func (b *Buffer[T]) MapEach(fn func(T) T) {
	for i := range b.pix {
		b.pix[i] = fn(b.pix[i])
	}
}

// MapCoords replaces every pixel with the result of fn for its coordinate.
// Rows are visited top to bottom and each row left to right, callers may
// rely on that order.
func (b *Buffer[T]) MapCoords(fn func(x, y uint16) T) {
	i := 0
	for y := 0; y < int(b.height); y++ {
		for x := 0; x < int(b.width); x++ {
			b.pix[i] = fn(uint16(x), uint16(y))
			i++
		}
	}
}

// ByteSize returns the size of the storage in bytes without building a view.
func (b *Buffer[T]) ByteSize() int {
	return len(b.pix) * int(elemSize[T]())
}

func mustBePlain[T any]() {
	var zero T
	if n := binary.Size(zero); n < 0 || uintptr(n) != unsafe.Sizeof(zero) {
		panic(fmt.Sprintf("pixel: %T is not plain data", zero))
	}
}

// Bytes returns the storage reinterpreted as raw bytes in host byte order,
// ByteSize bytes long. The view shares the buffer's storage, writes through
// it change pixels, and it must not be used after Reallocate. A buffer with
// no pixels yields an empty view. Bytes panics if T is not plain data.
func (b *Buffer[T]) Bytes() []byte {
	mustBePlain[T]()
	if len(b.pix) == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.pix[0])), b.ByteSize())
}
