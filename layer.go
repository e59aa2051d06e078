package psd

import (
	"image"

	"github.com/pkg/errors"
)

// Layer flag bits.
const (
	FlagTransparencyProtected = 1 << 0
	FlagHidden                = 1 << 1 // set means the layer is NOT visible
	FlagObsolete              = 1 << 2
	FlagHasUsefulBit4         = 1 << 3
	FlagPixelDataIrrelevant   = 1 << 4
)

// Layer is one entry of the layer list: a pixel layer, a group marker, or a
// bounding section divider. Parent and Children are non-owning links filled
// in by the tree builder after parsing; Children are in visual order, topmost
// first.
type Layer struct {
	header *Header

	Name         string
	Rect         Rect
	Channels     []*Channel
	Blend        *BlendMode
	Opacity      uint8
	ClippingBase bool
	Flags        uint8
	Mask         *Mask
	Ranges       *BlendingRanges
	Infos        []LayerInfo

	Parent   *Layer
	Children []*Layer

	divider *SectionDivider
}

// Width returns the width of the layer.
func (l *Layer) Width() int32 {
	return l.Rect.Width()
}

// Height returns the height of the layer.
func (l *Layer) Height() int32 {
	return l.Rect.Height()
}

// Visible reports whether the layer is shown. The flag is inverted on disk:
// a set bit hides the layer.
func (l *Layer) Visible() bool {
	return l.Flags&FlagHidden == 0
}

// TransparencyProtected reports whether the layer's transparency is locked.
func (l *Layer) TransparencyProtected() bool {
	return l.Flags&FlagTransparencyProtected != 0
}

// PixelDataIrrelevant reports whether pixel data does not affect the
// document's appearance. Bit 4 only counts when bit 3 says it is in use.
func (l *Layer) PixelDataIrrelevant() bool {
	return l.Flags&FlagHasUsefulBit4 != 0 && l.Flags&FlagPixelDataIrrelevant != 0
}

// SectionDivider returns the layer's divider record, or nil.
func (l *Layer) SectionDivider() *SectionDivider {
	return l.divider
}

// IsGroup reports whether this layer is an open or closed folder marker.
func (l *Layer) IsGroup() bool {
	if l.divider == nil {
		return false
	}
	return l.divider.Type == DividerOpenFolder || l.divider.Type == DividerClosedFolder
}

// IsBoundingSectionDivider reports whether this layer terminates a group.
func (l *Layer) IsBoundingSectionDivider() bool {
	return l.divider != nil && l.divider.Type == DividerBoundingSection
}

// Channel returns the channel with the given id, or nil.
func (l *Layer) Channel(id int16) *Channel {
	for _, c := range l.Channels {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HasTransparency reports whether the layer declares a transparency channel.
func (l *Layer) HasTransparency() bool {
	return l.Channel(ChannelTransparencyMask) != nil
}

// FillOpacity is the layer-fill factor. The file field is not read in this
// version; the hook stays at full fill.
func (l *Layer) FillOpacity() float64 {
	return 1.0
}

// parseLayerRecord reads one layer record at the current stream position.
func parseLayerRecord(f *File, header *Header) (*Layer, error) {
	l := &Layer{header: header}

	rect, err := readRect(f)
	if err != nil {
		return nil, errors.Wrap(err, "rect")
	}
	l.Rect = rect

	count, err := f.ReadUint16()
	if err != nil {
		return nil, errors.Wrap(err, "channel count")
	}

	l.Channels = make([]*Channel, count)
	for i := range l.Channels {
		id, err := f.ReadInt16()
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d id", i)
		}
		length, err := f.ReadUint32()
		if err != nil {
			return nil, errors.Wrapf(err, "channel %d length", i)
		}
		l.Channels[i] = &Channel{ID: id, Length: length}
	}

	sig, err := f.ReadString(4)
	if err != nil {
		return nil, errors.Wrap(err, "blend mode signature")
	}
	if sig != "8BIM" {
		return nil, errors.Wrapf(ErrBadSignature, "blend mode signature %q", sig)
	}

	key, err := f.ReadString(4)
	if err != nil {
		return nil, errors.Wrap(err, "blend mode key")
	}
	if l.Blend, err = BlendModeFromKey(key); err != nil {
		return nil, err
	}

	if l.Opacity, err = f.ReadByte(); err != nil {
		return nil, errors.Wrap(err, "opacity")
	}

	clipping, err := f.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "clipping")
	}
	l.ClippingBase = clipping == 0

	if l.Flags, err = f.ReadByte(); err != nil {
		return nil, errors.Wrap(err, "flags")
	}
	if err := f.Skip(1); err != nil {
		return nil, errors.Wrap(err, "filler")
	}

	err = f.Section(func(extra *Section) error {
		if extra.Length == 0 {
			return nil
		}

		if err := f.Section(func(s *Section) error {
			if s.Length == 0 {
				return nil
			}
			mask, err := parseMask(f, s.Length)
			if err != nil {
				return err
			}
			l.Mask = mask
			return nil
		}); err != nil {
			return errors.Wrap(err, "layer mask")
		}

		if err := f.Section(func(s *Section) error {
			if s.Length == 0 {
				return nil
			}
			ranges, err := parseBlendingRanges(f, s)
			if err != nil {
				return err
			}
			l.Ranges = ranges
			return nil
		}); err != nil {
			return errors.Wrap(err, "blending ranges")
		}

		name, err := f.ReadPascalString(4)
		if err != nil {
			return errors.Wrap(err, "name")
		}
		l.Name = name

		for {
			pos, err := f.Tell()
			if err != nil {
				return err
			}
			if pos >= extra.End {
				return nil
			}

			info, err := parseLayerInfoRecord(f)
			if err != nil {
				return errors.Wrap(err, "layer info")
			}
			l.Infos = append(l.Infos, info)

			switch v := info.(type) {
			case *SectionDivider:
				l.divider = v
			case *UnicodeName:
				if v.Value != "" {
					l.Name = v.Value
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return l, nil
}

// readChannels reads this layer's channel data in declared order. Color and
// transparency channels are sized to the layer rect; mask channels to their
// mask rect.
func (l *Layer) readChannels(f *File) error {
	for _, c := range l.Channels {
		w, h := int(l.Width()), int(l.Height())
		switch c.ID {
		case ChannelUserMask:
			if l.Mask != nil {
				w, h = int(l.Mask.Width()), int(l.Mask.Height())
			}
		case ChannelRealUserMask:
			if l.Mask != nil && l.Mask.HasReal {
				w, h = int(l.Mask.RealRect.Width()), int(l.Mask.RealRect.Height())
			}
		}
		if w < 0 {
			w = 0
		}
		if h < 0 {
			h = 0
		}
		if err := c.readChannelData(f, w, h); err != nil {
			return errors.Wrapf(err, "layer %q", l.Name)
		}
	}
	return nil
}

// ImageData returns the layer's own raster as a non-premultiplied RGBA
// image. Without a transparency channel the alpha is fully opaque, scaled by
// the layer-fill factor.
func (l *Layer) ImageData() *image.NRGBA {
	w, h := int(l.Width()), int(l.Height())
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}

	channel := func(id int16) []byte {
		if c := l.Channel(id); c != nil && len(c.Data) == w*h {
			return c.Data
		}
		return nil
	}

	r := channel(ChannelRed)
	g := channel(ChannelGreen)
	b := channel(ChannelBlue)
	a := channel(ChannelTransparencyMask)

	if l.header != nil && l.header.Mode == ColorModeGrayscale {
		g, b = r, r
	}

	fill := floatToByte(l.FillOpacity())
	for i := 0; i < w*h; i++ {
		o := i * 4
		if r != nil {
			img.Pix[o+0] = r[i]
		}
		if g != nil {
			img.Pix[o+1] = g[i]
		}
		if b != nil {
			img.Pix[o+2] = b[i]
		}
		if a != nil {
			img.Pix[o+3] = a[i]
		} else {
			img.Pix[o+3] = fill
		}
	}

	return img
}

// MaskData returns the mask raster as a grayscale image, or MaskMissing.
func (l *Layer) MaskData() (*image.Gray, error) {
	if l.Mask == nil {
		return nil, errors.Wrapf(ErrMaskMissing, "layer %q", l.Name)
	}

	w, h := int(l.Mask.Width()), int(l.Mask.Height())
	img := image.NewGray(image.Rect(0, 0, w, h))
	if c := l.Channel(ChannelUserMask); c != nil && len(c.Data) == w*h {
		copy(img.Pix, c.Data)
	}
	return img, nil
}
