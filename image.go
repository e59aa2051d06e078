package psd

import (
	"image"

	"github.com/pkg/errors"
)

// MergedImage is the flattened composite stored in the file's final block:
// full-canvas scanlines, channel-planar (all of channel 0, then channel 1,
// and so on).
type MergedImage struct {
	file   *File
	header *Header

	Compression uint16
	Planes      [][]byte // one full-canvas plane per channel
}

// Width returns the canvas width.
func (m *MergedImage) Width() int {
	return int(m.header.Width())
}

// Height returns the canvas height.
func (m *MergedImage) Height() int {
	return int(m.header.Height())
}

// Parse reads the 16-bit compression code and then every channel's
// scanlines.
func (m *MergedImage) Parse() error {
	compression, err := m.file.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "compression code")
	}
	m.Compression = compression

	width, height := m.Width(), m.Height()
	channels := int(m.header.Channels)

	switch compression {
	case CompressionRaw:
		return m.parseRaw(width, height, channels)
	case CompressionRLE:
		return m.parseRLE(width, height, channels)
	case CompressionZIP, CompressionZIPPre:
		return errors.Wrap(ErrUnsupportedCompression, "merged image uses ZIP compression")
	default:
		return errors.Wrapf(ErrUnsupportedCompression, "merged image compression code %d", compression)
	}
}

func (m *MergedImage) parseRaw(width, height, channels int) error {
	m.Planes = make([][]byte, channels)
	for ch := range m.Planes {
		plane := make([]byte, width*height)
		if len(plane) > 0 {
			if _, err := m.file.Read(plane); err != nil {
				return errors.Wrapf(err, "channel %d", ch)
			}
		}
		m.Planes[ch] = plane
	}
	return nil
}

func (m *MergedImage) parseRLE(width, height, channels int) error {
	// All per-scanline compressed lengths come first, channels * height of
	// them, then the scanline payloads in the same order.
	lengths := make([]uint16, channels*height)
	for i := range lengths {
		n, err := m.file.ReadUint16()
		if err != nil {
			return errors.Wrap(err, "scanline lengths")
		}
		lengths[i] = n
	}

	m.Planes = make([][]byte, channels)
	for ch := 0; ch < channels; ch++ {
		plane := make([]byte, 0, width*height)
		for row := 0; row < height; row++ {
			n := int(lengths[ch*height+row])
			buf := make([]byte, n)
			if _, err := m.file.Read(buf); err != nil {
				return errors.Wrapf(err, "channel %d row %d", ch, row)
			}

			scanline, err := UnpackBits(buf)
			if err != nil {
				return errors.Wrapf(err, "channel %d row %d", ch, row)
			}
			if len(scanline) != width {
				return errors.Wrapf(ErrMalformedPackBits, "channel %d row %d decoded to %d bytes, want %d", ch, row, len(scanline), width)
			}
			plane = append(plane, scanline...)
		}
		m.Planes[ch] = plane
	}
	return nil
}

// ToImage converts the stored composite to an image according to the
// document color mode. RGB documents with a fourth channel use it as alpha;
// grayscale uses the single plane.
func (m *MergedImage) ToImage() (image.Image, error) {
	width, height := m.Width(), m.Height()

	switch m.header.Mode {
	case ColorModeRGB:
		if len(m.Planes) < 3 {
			return nil, errors.Wrapf(ErrUnsupportedColorMode, "RGB merged image with %d channels", len(m.Planes))
		}
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		hasAlpha := len(m.Planes) >= 4
		for i := 0; i < width*height; i++ {
			o := i * 4
			img.Pix[o+0] = m.Planes[0][i]
			img.Pix[o+1] = m.Planes[1][i]
			img.Pix[o+2] = m.Planes[2][i]
			if hasAlpha {
				img.Pix[o+3] = m.Planes[3][i]
			} else {
				img.Pix[o+3] = 0xff
			}
		}
		return img, nil

	case ColorModeGrayscale:
		if len(m.Planes) < 1 {
			return nil, errors.Wrap(ErrUnsupportedColorMode, "grayscale merged image with no channels")
		}
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, m.Planes[0])
		return img, nil

	default:
		return nil, errors.Wrapf(ErrUnsupportedColorMode, "merged image in %s mode", m.header.Mode)
	}
}
