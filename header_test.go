package psd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderParse(t *testing.T) {
	data := []byte{
		0x38, 0x42, 0x50, 0x53, // 8BPS
		0x00, 0x01, // version
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // reserved
		0x00, 0x03, // channels
		0x00, 0x00, 0x00, 0x40, // height
		0x00, 0x00, 0x00, 0x20, // width
		0x00, 0x08, // depth
		0x00, 0x03, // RGB
	}

	h := &Header{file: fileOf(data)}
	require.NoError(t, h.Parse())

	assert.Equal(t, uint16(1), h.Version)
	assert.Equal(t, uint16(3), h.Channels)
	assert.Equal(t, uint32(64), h.Height())
	assert.Equal(t, uint32(32), h.Width())
	assert.Equal(t, uint16(8), h.Depth)
	assert.Equal(t, ColorModeRGB, h.Mode)
	assert.Equal(t, "RGB", h.Mode.String())
}

func TestHeaderBadSignature(t *testing.T) {
	w := &writer{}
	w.str("8BPX")
	w.raw(make([]byte, 22))

	h := &Header{file: fileOf(w.bytes())}
	assert.ErrorIs(t, h.Parse(), ErrBadSignature)
}

func TestHeaderPSBRejected(t *testing.T) {
	w := &writer{}
	w.str("8BPS")
	w.u16(2)
	w.raw(make([]byte, 20))

	h := &Header{file: fileOf(w.bytes())}
	assert.ErrorIs(t, h.Parse(), ErrUnsupportedVersion)
}

func TestHeaderDepthRejected(t *testing.T) {
	w := &writer{}
	w.str("8BPS")
	w.u16(1)
	w.raw(make([]byte, 6))
	w.u16(3)
	w.u32(1)
	w.u32(1)
	w.u16(16)
	w.u16(3)

	h := &Header{file: fileOf(w.bytes())}
	assert.ErrorIs(t, h.Parse(), ErrUnsupportedDepth)
}

func TestHeaderUnknownColorMode(t *testing.T) {
	w := &writer{}
	w.str("8BPS")
	w.u16(1)
	w.raw(make([]byte, 6))
	w.u16(3)
	w.u32(1)
	w.u32(1)
	w.u16(8)
	w.u16(42)

	h := &Header{file: fileOf(w.bytes())}
	assert.ErrorIs(t, h.Parse(), ErrUnsupportedColorMode)
}

func TestColorModeRenderable(t *testing.T) {
	assert.True(t, ColorModeRGB.Renderable())
	assert.True(t, ColorModeGrayscale.Renderable())
	assert.False(t, ColorModeIndexed.Renderable())
	assert.False(t, ColorModeMultichannel.Renderable())
	assert.False(t, ColorModeDuotone.Renderable())
}
