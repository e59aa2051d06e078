package psd

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writer builds PSD byte streams for tests.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v byte)     { w.buf.WriteByte(v) }
func (w *writer) raw(p []byte)  { w.buf.Write(p) }
func (w *writer) str(s string)  { w.buf.WriteString(s) }
func (w *writer) u16(v uint16)  { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *writer) i16(v int16)   { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *writer) u32(v uint32)  { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *writer) i32(v int32)   { binary.Write(&w.buf, binary.BigEndian, v) }
func (w *writer) bytes() []byte { return w.buf.Bytes() }

func (w *writer) pascal(name string, alignment int) {
	w.u8(byte(len(name)))
	w.str(name)
	if rem := (len(name) + 1) % alignment; rem != 0 {
		w.raw(make([]byte, alignment-rem))
	}
}

type testChannel struct {
	id   int16
	data []byte
}

type testLayer struct {
	name    string
	rect    Rect
	blend   string
	opacity uint8
	flags   uint8
	divider int // -1 for none, else the divider type
	mask    *testMask
	chans   []testChannel
}

type testMask struct {
	rect         Rect
	defaultColor uint8
	flags        uint8
}

func solidLayer(name string, rect Rect, blend string, r, g, b byte) testLayer {
	n := int(rect.Width() * rect.Height())
	fill := func(v byte) []byte {
		data := make([]byte, n)
		for i := range data {
			data[i] = v
		}
		return data
	}
	return testLayer{
		name:    name,
		rect:    rect,
		blend:   blend,
		opacity: 255,
		divider: -1,
		chans: []testChannel{
			{ChannelRed, fill(r)},
			{ChannelGreen, fill(g)},
			{ChannelBlue, fill(b)},
		},
	}
}

func groupLayer(name, blend string, dividerType int) testLayer {
	return testLayer{
		name:    name,
		blend:   blend,
		opacity: 255,
		divider: dividerType,
	}
}

func (l testLayer) record() []byte {
	w := &writer{}
	w.i32(l.rect.Top)
	w.i32(l.rect.Left)
	w.i32(l.rect.Bottom)
	w.i32(l.rect.Right)

	w.u16(uint16(len(l.chans)))
	for _, c := range l.chans {
		w.i16(c.id)
		w.u32(uint32(2 + len(c.data)))
	}

	w.str("8BIM")
	w.str(l.blend)
	w.u8(l.opacity)
	w.u8(0) // clipping
	w.u8(l.flags)
	w.u8(0) // filler

	extra := &writer{}
	if l.mask != nil {
		extra.u32(20)
		extra.i32(l.mask.rect.Top)
		extra.i32(l.mask.rect.Left)
		extra.i32(l.mask.rect.Bottom)
		extra.i32(l.mask.rect.Right)
		extra.u8(l.mask.defaultColor)
		extra.u8(l.mask.flags)
		extra.u16(0) // padding
	} else {
		extra.u32(0)
	}
	extra.u32(0) // blending ranges
	extra.pascal(l.name, 4)
	if l.divider >= 0 {
		extra.str("8BIM")
		extra.str("lsct")
		extra.u32(4)
		extra.u32(uint32(l.divider))
	}

	w.u32(uint32(len(extra.bytes())))
	w.raw(extra.bytes())
	return w.bytes()
}

// channelData writes each channel's data with raw compression.
func (l testLayer) channelData() []byte {
	w := &writer{}
	for _, c := range l.chans {
		w.u16(0)
		w.raw(c.data)
	}
	return w.bytes()
}

// buildDoc assembles a complete RGB PSD: header, empty color mode data, an
// empty resource section, the given layers in file order (bottom to top),
// and a flat gray merged image.
func buildDoc(width, height int, layers ...testLayer) []byte {
	w := &writer{}

	// Header
	w.str("8BPS")
	w.u16(1)
	w.raw(make([]byte, 6))
	w.u16(3)
	w.u32(uint32(height))
	w.u32(uint32(width))
	w.u16(8)
	w.u16(uint16(ColorModeRGB))

	// Color mode data, image resources
	w.u32(0)
	w.u32(0)

	// Layer and mask information
	inner := &writer{}
	inner.i16(int16(len(layers)))
	for _, l := range layers {
		inner.raw(l.record())
	}
	for _, l := range layers {
		inner.raw(l.channelData())
	}

	if len(layers) == 0 {
		w.u32(0)
	} else {
		w.u32(uint32(4 + len(inner.bytes())))
		w.u32(uint32(len(inner.bytes())))
		w.raw(inner.bytes())
	}

	// Merged image data: raw, channel planar
	w.u16(0)
	for ch := 0; ch < 3; ch++ {
		plane := make([]byte, width*height)
		for i := range plane {
			plane[i] = 128
		}
		w.raw(plane)
	}

	return w.bytes()
}

func parseDoc(t *testing.T, doc []byte) *PSD {
	t.Helper()
	p := NewFromReader(bytes.NewReader(doc))
	require.NoError(t, p.Parse())
	return p
}

func TestParseEmptyDocument(t *testing.T) {
	p := parseDoc(t, buildDoc(4, 4))

	assert.True(t, p.Parsed())
	assert.Empty(t, p.Layers())
	assert.Equal(t, uint32(4), p.Header().Width())
	require.NotNil(t, p.Merged())
	assert.Len(t, p.Merged().Planes, 3)
}

func TestParseLayers(t *testing.T) {
	doc := buildDoc(4, 4,
		solidLayer("Background", Rect{0, 0, 4, 4}, "norm", 10, 20, 30),
		solidLayer("Tint", Rect{1, 1, 3, 3}, "mul ", 200, 100, 50),
	)
	p := parseDoc(t, doc)

	layers := p.Layers()
	require.Len(t, layers, 2)

	bg := layers[0]
	assert.Equal(t, "Background", bg.Name)
	assert.Equal(t, int32(4), bg.Width())
	assert.Equal(t, int32(4), bg.Height())
	assert.Equal(t, ModeNormal, bg.Blend)
	assert.True(t, bg.Visible())
	assert.True(t, bg.ClippingBase)
	assert.False(t, bg.IsGroup())

	tint := layers[1]
	assert.Equal(t, "Tint", tint.Name)
	assert.Equal(t, ModeMultiply, tint.Blend)
	assert.Equal(t, int32(2), tint.Width())

	require.Len(t, tint.Channels, 3)
	for _, c := range tint.Channels {
		assert.Len(t, c.Data, 4, "channel %d", c.ID)
	}
	assert.Equal(t, byte(200), tint.Channel(ChannelRed).Data[0])
	assert.Nil(t, tint.Channel(ChannelTransparencyMask))
	assert.False(t, tint.HasTransparency())
}

func TestParseNegativeLayerCount(t *testing.T) {
	// A negative count flags merged-alpha; its magnitude is the layer count.
	doc := buildDoc(2, 2, solidLayer("Only", Rect{0, 0, 2, 2}, "norm", 1, 2, 3))
	// Patch the layer count to -1.
	countOffset := 26 + 4 + 4 + 4 + 4 // header, color mode, resources, section len, subsection len
	doc[countOffset] = 0xff
	doc[countOffset+1] = 0xff

	p := parseDoc(t, doc)
	assert.Len(t, p.Layers(), 1)
}

func TestParseLayerMask(t *testing.T) {
	layer := solidLayer("Masked", Rect{0, 0, 2, 2}, "norm", 9, 9, 9)
	layer.mask = &testMask{rect: Rect{0, 0, 2, 2}, defaultColor: 255}
	layer.chans = append(layer.chans, testChannel{ChannelUserMask, []byte{0, 64, 128, 255}})

	p := parseDoc(t, buildDoc(2, 2, layer))

	parsed := p.Layers()[0]
	require.NotNil(t, parsed.Mask)
	assert.Equal(t, uint8(255), parsed.Mask.DefaultColor)
	assert.Equal(t, int32(2), parsed.Mask.Width())
	assert.False(t, parsed.Mask.Disabled())
	assert.False(t, parsed.Mask.HasReal)

	mc := parsed.Channel(ChannelUserMask)
	require.NotNil(t, mc)
	assert.Equal(t, []byte{0, 64, 128, 255}, mc.Data)
}

func TestParseRLEChannel(t *testing.T) {
	// 4x2 layer, red channel RLE compressed: each row is one repeat run.
	layer := testLayer{
		name:    "RLE",
		rect:    Rect{0, 0, 2, 4},
		blend:   "norm",
		opacity: 255,
		divider: -1,
	}

	ch := &writer{}
	ch.u16(1)       // RLE
	ch.u16(2)       // row 0 compressed length
	ch.u16(2)       // row 1 compressed length
	ch.u8(0xfd)     // repeat 4x
	ch.u8(0xaa)
	ch.u8(0xfd)
	ch.u8(0x55)

	// Declare one channel in the record; the data written below is RLE.
	layer.chans = []testChannel{{ChannelRed, make([]byte, 8)}}
	record := layer.record()

	w := &writer{}
	w.str("8BPS")
	w.u16(1)
	w.raw(make([]byte, 6))
	w.u16(3)
	w.u32(2)
	w.u32(4)
	w.u16(8)
	w.u16(uint16(ColorModeRGB))
	w.u32(0)
	w.u32(0)

	inner := &writer{}
	inner.i16(1)
	inner.raw(record)
	inner.raw(ch.bytes())

	w.u32(uint32(4 + len(inner.bytes())))
	w.u32(uint32(len(inner.bytes())))
	w.raw(inner.bytes())

	w.u16(0)
	w.raw(make([]byte, 3*8))

	p := parseDoc(t, w.bytes())
	red := p.Layers()[0].Channel(ChannelRed)
	require.NotNil(t, red)
	assert.Equal(t, []byte{0xaa, 0xaa, 0xaa, 0xaa, 0x55, 0x55, 0x55, 0x55}, red.Data)
}

func TestParseZIPChannelUnsupported(t *testing.T) {
	layer := solidLayer("Zipped", Rect{0, 0, 1, 1}, "norm", 1, 2, 3)
	doc := buildDoc(1, 1, layer)

	// Flip the first channel's compression code to ZIP.
	record := layer.record()
	idx := bytes.Index(doc, record)
	require.Greater(t, idx, 0)
	doc[idx+len(record)] = 0
	doc[idx+len(record)+1] = 2

	p := NewFromReader(bytes.NewReader(doc))
	err := p.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedCompression)
}

func TestUnknownBlendModeKey(t *testing.T) {
	doc := buildDoc(1, 1, solidLayer("Bad", Rect{0, 0, 1, 1}, "zzzz", 0, 0, 0))

	p := NewFromReader(bytes.NewReader(doc))
	err := p.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBlendMode)
}

func TestLayerLookup(t *testing.T) {
	p := parseDoc(t, buildDoc(2, 2, solidLayer("Hero", Rect{0, 0, 2, 2}, "norm", 1, 2, 3)))

	layer, err := p.Layer("Hero")
	require.NoError(t, err)
	assert.Equal(t, "Hero", layer.Name)

	_, err = p.Layer("Missing")
	assert.ErrorIs(t, err, ErrLayerNotFound)
}

func TestOpaqueLayerInfoRetained(t *testing.T) {
	layer := solidLayer("Tagged", Rect{0, 0, 1, 1}, "norm", 1, 2, 3)
	doc := buildDoc(1, 1, layer)

	// Append an unknown info record inside the extra data by rebuilding.
	extraInfo := &writer{}
	extraInfo.str("8BIM")
	extraInfo.str("lyid")
	extraInfo.u32(4)
	extraInfo.u32(42)

	record := layer.record()
	idx := bytes.Index(doc, record)
	require.Greater(t, idx, 0)

	patched := &writer{}
	patched.raw(doc[:idx])

	// Rebuild the record with the extra info block appended.
	w := &writer{}
	w.i32(layer.rect.Top)
	w.i32(layer.rect.Left)
	w.i32(layer.rect.Bottom)
	w.i32(layer.rect.Right)
	w.u16(uint16(len(layer.chans)))
	for _, c := range layer.chans {
		w.i16(c.id)
		w.u32(uint32(2 + len(c.data)))
	}
	w.str("8BIM")
	w.str(layer.blend)
	w.u8(layer.opacity)
	w.u8(0)
	w.u8(layer.flags)
	w.u8(0)

	extra := &writer{}
	extra.u32(0)
	extra.u32(0)
	extra.pascal(layer.name, 4)
	extra.raw(extraInfo.bytes())
	w.u32(uint32(len(extra.bytes())))
	w.raw(extra.bytes())

	grow := len(w.bytes()) - len(record)
	patched.raw(w.bytes())
	rest := doc[idx+len(record):]
	patched.raw(rest)

	// Fix up the two section lengths that cover the record.
	out := patched.bytes()
	sectionOffset := 26 + 4 + 4
	outer := binary.BigEndian.Uint32(out[sectionOffset:])
	binary.BigEndian.PutUint32(out[sectionOffset:], outer+uint32(grow))
	innerLen := binary.BigEndian.Uint32(out[sectionOffset+4:])
	binary.BigEndian.PutUint32(out[sectionOffset+4:], innerLen+uint32(grow))

	p := parseDoc(t, out)
	parsed := p.Layers()[0]
	require.Len(t, parsed.Infos, 1)

	opaque, ok := parsed.Infos[0].(*OpaqueInfo)
	require.True(t, ok)
	assert.Equal(t, "lyid", opaque.Key())
	assert.Equal(t, []byte{0, 0, 0, 42}, opaque.Data)
}

func TestResourceBlocks(t *testing.T) {
	w := &writer{}
	w.str("8BPS")
	w.u16(1)
	w.raw(make([]byte, 6))
	w.u16(3)
	w.u32(1)
	w.u32(1)
	w.u16(8)
	w.u16(uint16(ColorModeRGB))
	w.u32(0)

	// One resource block with a 3-byte payload (odd, so one pad byte).
	block := &writer{}
	block.str("8BIM")
	block.u16(1050)
	block.u8(0) // null name
	block.u8(0)
	block.u32(3)
	block.raw([]byte{1, 2, 3})
	block.u8(0)

	w.u32(uint32(len(block.bytes())))
	w.raw(block.bytes())

	w.u32(0) // no layers
	w.u16(0)
	w.raw(make([]byte, 3))

	p := parseDoc(t, w.bytes())
	require.Len(t, p.Resources(), 1)
	assert.Equal(t, uint16(1050), p.Resources()[0].ID)
	assert.Equal(t, uint32(3), p.Resources()[0].Size)
}
