package pixel

import (
	"image"
	"image/color"
)

// Convert builds a buffer the size of m by passing every pixel of m through
// fn. The result's (0, 0) corresponds to m.Bounds().Min.
func Convert[T any](m image.Image, fn func(color.Color) T) (*Buffer[T], error) {
	r := m.Bounds()
	if r.Dx() > 0xffff || r.Dy() > 0xffff {
		return nil, ErrTooLarge
	}
	b, err := New[T](uint16(r.Dx()), uint16(r.Dy()))
	if err != nil {
		return nil, err
	}
	b.MapCoords(func(x, y uint16) T {
		return fn(m.At(r.Min.X+int(x), r.Min.Y+int(y)))
	})
	return b, nil
}

// Image adapts a buffer of colors to image.Image, with its origin at (0, 0).
type Image[T color.Color] struct {
	buf   *Buffer[T]
	model color.Model
}

// NewImage wraps b. The buffer is shared, not copied.
func NewImage[T color.Color](b *Buffer[T], model color.Model) *Image[T] {
	return &Image[T]{buf: b, model: model}
}

// Buffer returns the wrapped buffer.
func (m *Image[T]) Buffer() *Buffer[T] { return m.buf }

func (m *Image[T]) ColorModel() color.Model { return m.model }

func (m *Image[T]) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(m.buf.Width()), int(m.buf.Height()))
}

func (m *Image[T]) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		var zero T
		return zero
	}
	return m.buf.At(uint16(x), uint16(y))
}
