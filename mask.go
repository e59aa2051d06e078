package psd

// Mask flag bits.
const (
	MaskPositionRelative   = 1 << 0
	MaskDisabled           = 1 << 1
	MaskInvertWhenBlending = 1 << 2
	MaskFromRendering      = 1 << 3
	MaskParametersApplied  = 1 << 4
)

// Mask is a layer's raster mask. Its rect may differ from the layer rect;
// DefaultColor fills everything outside the rect when the mask is composed
// into screen space. The "real" fields are present when the mask block is
// longer than 20 bytes; they are retained but unused.
type Mask struct {
	Rect         Rect
	DefaultColor uint8
	Flags        uint8

	HasReal        bool
	RealFlags      uint8
	RealBackground uint8
	RealRect       Rect
}

// Width returns the width of the mask.
func (m *Mask) Width() int32 {
	return m.Rect.Width()
}

// Height returns the height of the mask.
func (m *Mask) Height() int32 {
	return m.Rect.Height()
}

// Disabled reports whether the mask is switched off.
func (m *Mask) Disabled() bool {
	return m.Flags&MaskDisabled != 0
}

// FlagSet reports whether a particular flag bit is set.
func (m *Mask) FlagSet(flag uint8) bool {
	return m.Flags&flag != 0
}

// parseMask reads the layer-mask block. A 20-byte block carries two padding
// bytes in place of the real mask fields.
func parseMask(f *File, length uint32) (*Mask, error) {
	m := &Mask{}

	rect, err := readRect(f)
	if err != nil {
		return nil, err
	}
	m.Rect = rect

	if m.DefaultColor, err = f.ReadByte(); err != nil {
		return nil, err
	}
	if m.Flags, err = f.ReadByte(); err != nil {
		return nil, err
	}

	if length == 20 {
		if err := f.Skip(2); err != nil {
			return nil, err
		}
		return m, nil
	}

	m.HasReal = true
	if m.RealFlags, err = f.ReadByte(); err != nil {
		return nil, err
	}
	if m.RealBackground, err = f.ReadByte(); err != nil {
		return nil, err
	}
	if m.RealRect, err = readRect(f); err != nil {
		return nil, err
	}

	return m, nil
}
