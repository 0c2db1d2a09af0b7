package pixel

import (
	"image/color"
)

// Gray is a single 8-bit channel, used for both luminosity and alpha-only
// containers.
type Gray struct {
	Y uint8
}

// RGBA returns the color as an opaque gray.
func (c Gray) RGBA() (r, g, b, a uint32) {
	return color.Gray{Y: c.Y}.RGBA()
}

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// RGBA returns the color as an opaque color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Add returns the component-wise sum of c and o, saturating at 255.
func (c RGB) Add(o RGB) RGB {
	return RGB{addSat(c.R, o.R), addSat(c.G, o.G), addSat(c.B, o.B)}
}

// Lerp interpolates linearly from c towards o. t is clamped to [0, 1] and a
// NaN t is treated as 0.
func (c RGB) Lerp(o RGB, t float32) RGB {
	switch {
	case t != t, t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return RGB{lerp(c.R, o.R, t), lerp(c.G, o.G, t), lerp(c.B, o.B, t)}
}

// Blend returns the average of c and o, rounding down.
func (c RGB) Blend(o RGB) RGB {
	return RGB{avg(c.R, o.R), avg(c.G, o.G), avg(c.B, o.B)}
}

// RGBA is a 32-bit color with non-premultiplied alpha, like color.NRGBA.
type RGBA struct {
	R, G, B, A uint8
}

// RGBA returns the alpha-premultiplied components.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func addSat(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 0xff {
		return uint8(s)
	}
	return 0xff
}

func lerp(a, b uint8, t float32) uint8 {
	return uint8(float32(a)*(1-t) + float32(b)*t)
}

func avg(a, b uint8) uint8 {
	return uint8((uint16(a) + uint16(b)) / 2)
}

// Models for the pixel types in this package.
var (
	GrayModel color.Model = color.ModelFunc(grayModel)
	RGBModel  color.Model = color.ModelFunc(rgbModel)
	RGBAModel color.Model = color.ModelFunc(rgbaModel)
)

func grayModel(c color.Color) color.Color {
	if _, ok := c.(Gray); ok {
		return c
	}
	return ToGray(c)
}

func rgbModel(c color.Color) color.Color {
	if _, ok := c.(RGB); ok {
		return c
	}
	return ToRGB(c)
}

func rgbaModel(c color.Color) color.Color {
	if _, ok := c.(RGBA); ok {
		return c
	}
	return ToRGBA(c)
}

// ToGray converts c to its luminance.
func ToGray(c color.Color) Gray {
	return Gray{color.GrayModel.Convert(c).(color.Gray).Y}
}

// ToAlpha keeps only the alpha channel of c.
func ToAlpha(c color.Color) Gray {
	return Gray{color.AlphaModel.Convert(c).(color.Alpha).A}
}

// ToRGB converts c to an opaque color, dropping alpha after
// un-premultiplying.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// ToRGBA converts c to non-premultiplied alpha.
func ToRGBA(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{n.R, n.G, n.B, n.A}
}
