package midg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/midg/pixel"
)

var (
	ErrUnsupportedFormat = errors.New("midg: unsupported channel code")
	ErrNotEnough         = errors.New("midg: not enough pixel data")
)

func init() {
	image.RegisterFormat("midg", Magic, Decode, DecodeConfig)
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func readHeader(r io.Reader) (Header, error) {
	var b [HeaderSize]byte
	if err := readFull(r, b[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return Header{}, ErrShortHeader
		}
		return Header{}, err
	}
	return DecodeHeader(b[:])
}

func colorModel(f Flags) (color.Model, error) {
	switch f.Channels() {
	case FlagAlpha:
		return color.AlphaModel, nil
	case FlagLuminosity:
		return color.GrayModel, nil
	case FlagRGB:
		return pixel.RGBModel, nil
	case FlagRGBA:
		return color.NRGBAModel, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, f.Channels())
	}
}

// decodePayload builds an image from the uncompressed base level at the start
// of p. Any mip levels after it are ignored.
func decodePayload(h Header, p []byte) (image.Image, error) {
	if _, err := colorModel(h.Flags); err != nil {
		return nil, err
	}

	n := int(h.Width) * int(h.Height) * int(h.BytesPerPixel())
	if len(p) < n {
		return nil, ErrNotEnough
	}
	p = p[:n]

	w, ht := int(h.Width), int(h.Height)
	r := image.Rect(0, 0, w, ht)

	switch h.Flags.Channels() {
	case FlagAlpha:
		m := image.NewAlpha(r)
		copy(m.Pix, p)
		return m, nil
	case FlagLuminosity:
		m := image.NewGray(r)
		copy(m.Pix, p)
		return m, nil
	case FlagRGBA:
		m := image.NewNRGBA(r)
		copy(m.Pix, p)
		return m, nil
	}

	b, err := pixel.FromBytes[pixel.RGB](h.Width, h.Height, p)
	if err != nil {
		return nil, err
	}
	return pixel.NewImage(b, pixel.RGBModel), nil
}

// Decode reads a MIDG image from r, returning the base level.
func Decode(r io.Reader) (image.Image, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if _, err := colorModel(h.Flags); err != nil {
		return nil, err
	}

	// The size is taken from an unverified header, so read incrementally.
	n := int64(h.Width) * int64(h.Height) * int64(h.BytesPerPixel())
	p, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, err
	}
	if int64(len(p)) < n {
		return nil, ErrNotEnough
	}
	return decodePayload(h, p)
}

// DecodeConfig returns the color model and dimensions of a MIDG image without
// reading the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model, err := colorModel(h.Flags)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: model,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}
