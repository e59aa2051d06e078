package psd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileOf(data []byte) *File {
	return &File{rs: bytes.NewReader(data)}
}

func TestSectionAdvancesToEnd(t *testing.T) {
	w := &writer{}
	w.u32(8)
	w.raw([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	w.str("tail")
	f := fileOf(w.bytes())

	// Read only two of the eight body bytes; the scope must still land at
	// the section end.
	err := f.Section(func(s *Section) error {
		assert.Equal(t, uint32(8), s.Length)
		_, err := f.ReadUint16()
		return err
	})
	require.NoError(t, err)

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(12), pos)

	tail, err := f.ReadString(4)
	require.NoError(t, err)
	assert.Equal(t, "tail", tail)
}

func TestSectionOverconsumptionResets(t *testing.T) {
	w := &writer{}
	w.u32(2)
	w.raw([]byte{1, 2, 3, 4})
	f := fileOf(w.bytes())

	err := f.Section(func(s *Section) error {
		// Read past the declared length; exit must seek back.
		_, err := f.ReadUint32()
		return err
	})
	require.NoError(t, err)

	pos, err := f.Tell()
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)
}

func TestNestedSections(t *testing.T) {
	inner := &writer{}
	inner.u32(2)
	inner.raw([]byte{0xaa, 0xbb})

	w := &writer{}
	w.u32(uint32(len(inner.bytes()) + 3))
	w.raw(inner.bytes())
	w.raw([]byte{9, 9, 9})
	w.u8(0x77)
	f := fileOf(w.bytes())

	err := f.Section(func(outer *Section) error {
		return f.Section(func(s *Section) error {
			assert.Equal(t, uint32(2), s.Length)
			return nil
		})
	})
	require.NoError(t, err)

	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x77), b)
}

func TestReadPascalString(t *testing.T) {
	w := &writer{}
	w.pascal("abc", 4)
	w.u8(0xee)
	f := fileOf(w.bytes())

	s, err := f.ReadPascalString(4)
	require.NoError(t, err)
	assert.Equal(t, "abc", s)

	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xee), b)
}

func TestReadPascalStringEmpty(t *testing.T) {
	// A null name still consumes its alignment padding.
	f := fileOf([]byte{0, 0, 0, 0, 0x55})

	s, err := f.ReadPascalString(4)
	require.NoError(t, err)
	assert.Equal(t, "", s)

	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x55), b)
}

func TestReadPascalStringEvenPadding(t *testing.T) {
	f := fileOf([]byte{1, 'x', 0x99})

	s, err := f.ReadPascalString(2)
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	// 1 + 1 is already even, so no pad byte.
	b, err := f.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x99), b)
}

func TestReadUnicodeString(t *testing.T) {
	w := &writer{}
	w.u32(2)
	w.u16('H')
	w.u16('i')
	f := fileOf(w.bytes())

	s, err := f.ReadUnicodeString()
	require.NoError(t, err)
	assert.Equal(t, "Hi", s)
}
