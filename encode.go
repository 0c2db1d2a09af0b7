package midg

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/bodgit/midg/pixel"
	"github.com/ericpauley/go-quantize/quantize"
)

var ErrImageTooLarge = errors.New("midg: image is too large")

// Channels values accepted by EncodeOptions. ChannelsAuto picks luminosity for
// gray images, RGB for opaque images and RGBA otherwise.
const ChannelsAuto Flags = 0xff

// EncodeOptions are optional arguments to Encode. The zero value is valid and
// means to infer the channel layout.
type EncodeOptions struct {
	// Channels is one of the channel codes or ChannelsAuto. A zero value
	// together with Explicit unset means ChannelsAuto.
	Channels Flags
	// Explicit forces Channels to be used as given, allowing FlagAlpha.
	Explicit bool
	// Markers are OR'd into the header flags, for example
	// FlagExtendedHeader.
	Markers Flags
	// MaxColors, if positive, reduces the image to at most that many
	// colors with median cut quantization before encoding.
	MaxColors int
}

func opaque(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

func inferChannels(m image.Image) Flags {
	switch m.ColorModel() {
	case color.GrayModel, color.Gray16Model, pixel.GrayModel:
		return FlagLuminosity
	case color.AlphaModel, color.Alpha16Model:
		return FlagAlpha
	}
	if opaque(m) {
		return FlagRGB
	}
	return FlagRGBA
}

func quantized(m image.Image, n int) image.Image {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

func uniqueColors[T comparable](b *pixel.Buffer[T]) uint16 {
	seen := make(map[T]struct{})
	b.MapEach(func(p T) T {
		seen[p] = struct{}{}
		return p
	})
	if len(seen) > 0xffff {
		return 0xffff
	}
	return uint16(len(seen))
}

func encodePixels[T comparable](w io.Writer, h Header, m image.Image, fn func(color.Color) T) error {
	b, err := pixel.Convert(m, fn)
	if err != nil {
		return err
	}

	h.UniqueColors = uniqueColors(b)
	h.Seal()

	hb, err := h.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(hb); err != nil {
		return err
	}
	_, err = w.Write(b.Bytes())
	return err
}

// Encode writes m to w as a MIDG container holding the uncompressed base
// level. options may be nil.
func Encode(w io.Writer, m image.Image, options *EncodeOptions) error {
	var o EncodeOptions
	if options != nil {
		o = *options
	}

	b := m.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return ErrImageTooLarge
	}

	if o.MaxColors > 0 {
		m = quantized(m, o.MaxColors)
	}

	channels := o.Channels
	if channels == ChannelsAuto || (channels == 0 && !o.Explicit) {
		channels = inferChannels(m)
	}

	h := Header{
		Width:  uint16(b.Dx()),
		Height: uint16(b.Dy()),
		Flags:  channels.Channels() | o.Markers&^channelMask,
	}

	if h.Flags.Has(FlagExtendedHeader) && (h.Width == 0 || h.Height == 0) {
		return ErrZeroDimension
	}

	switch channels {
	case FlagAlpha:
		return encodePixels(w, h, m, pixel.ToAlpha)
	case FlagLuminosity:
		return encodePixels(w, h, m, pixel.ToGray)
	case FlagRGB:
		return encodePixels(w, h, m, pixel.ToRGB)
	case FlagRGBA:
		return encodePixels(w, h, m, pixel.ToRGBA)
	default:
		return ErrUnsupportedFormat
	}
}
