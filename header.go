package psd

import (
	"fmt"

	"github.com/pkg/errors"
)

// ColorMode is the document color mode from the file header.
type ColorMode uint16

const (
	ColorModeBitmap       ColorMode = 0
	ColorModeGrayscale    ColorMode = 1
	ColorModeIndexed      ColorMode = 2
	ColorModeRGB          ColorMode = 3
	ColorModeCMYK         ColorMode = 4
	ColorModeMultichannel ColorMode = 7
	ColorModeDuotone      ColorMode = 8
	ColorModeLab          ColorMode = 9
)

var colorModeNames = map[ColorMode]string{
	ColorModeBitmap:       "Bitmap",
	ColorModeGrayscale:    "Grayscale",
	ColorModeIndexed:      "Indexed",
	ColorModeRGB:          "RGB",
	ColorModeCMYK:         "CMYK",
	ColorModeMultichannel: "Multichannel",
	ColorModeDuotone:      "Duotone",
	ColorModeLab:          "Lab",
}

// String returns the human-readable color mode name.
func (m ColorMode) String() string {
	if name, ok := colorModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(m))
}

// Renderable reports whether the compositor can produce output for this mode.
// Indexed, Multichannel and Duotone are parsed but never rendered.
func (m ColorMode) Renderable() bool {
	switch m {
	case ColorModeIndexed, ColorModeMultichannel, ColorModeDuotone:
		return false
	}
	return true
}

// Header represents the 26-byte PSD file header.
type Header struct {
	file *File

	Sig      string
	Version  uint16
	Channels uint16
	Rows     uint32
	Cols     uint32
	Depth    uint16
	Mode     ColorMode
}

// Width returns the width of the document.
func (h *Header) Width() uint32 {
	return h.Cols
}

// Height returns the height of the document.
func (h *Header) Height() uint32 {
	return h.Rows
}

// Parse parses the header section.
func (h *Header) Parse() error {
	sig, err := h.file.ReadString(4)
	if err != nil {
		return errors.Wrap(err, "signature")
	}
	if sig != "8BPS" {
		return errors.Wrapf(ErrBadSignature, "%q is not a Photoshop file signature", sig)
	}
	h.Sig = sig

	version, err := h.file.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "version")
	}
	if version != 1 {
		// Version 2 is PSB, the large document format.
		return errors.Wrapf(ErrUnsupportedVersion, "version %d", version)
	}
	h.Version = version

	if err := h.file.Skip(6); err != nil {
		return errors.Wrap(err, "reserved bytes")
	}

	if h.Channels, err = h.file.ReadUint16(); err != nil {
		return errors.Wrap(err, "channel count")
	}

	// Height comes before width.
	if h.Rows, err = h.file.ReadUint32(); err != nil {
		return errors.Wrap(err, "rows")
	}
	if h.Cols, err = h.file.ReadUint32(); err != nil {
		return errors.Wrap(err, "cols")
	}

	if h.Depth, err = h.file.ReadUint16(); err != nil {
		return errors.Wrap(err, "depth")
	}
	if h.Depth != 8 {
		return errors.Wrapf(ErrUnsupportedDepth, "%d bits per channel", h.Depth)
	}

	mode, err := h.file.ReadUint16()
	if err != nil {
		return errors.Wrap(err, "color mode")
	}
	if _, ok := colorModeNames[ColorMode(mode)]; !ok {
		return errors.Wrapf(ErrUnsupportedColorMode, "color mode code %d", mode)
	}
	h.Mode = ColorMode(mode)

	return nil
}
