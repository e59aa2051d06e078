package psd

import (
	"io"
	"unicode/utf16"
)

// Section is a scope over a length-prefixed region of the stream. It is
// created positioned just past the 4-byte length field; End is the absolute
// offset of the first byte after the section.
type Section struct {
	file   *File
	Length uint32
	Start  int64
	End    int64
}

// Remaining reports how many bytes of the section body are left unread.
func (s *Section) Remaining() (int64, error) {
	pos, err := s.file.Tell()
	if err != nil {
		return 0, err
	}
	return s.End - pos, nil
}

// Section reads a 4-byte length and runs fn over the section body. On return
// the stream is positioned at section start + 4 + length no matter how much
// the body consumed, which is what keeps the parser resynchronized across
// unknown or partially read extension blocks. Sections nest.
func (f *File) Section(fn func(*Section) error) error {
	length, err := f.ReadUint32()
	if err != nil {
		return err
	}

	start, err := f.Tell()
	if err != nil {
		return err
	}

	s := &Section{
		file:   f,
		Length: length,
		Start:  start,
		End:    start + int64(length),
	}

	if err := fn(s); err != nil {
		return err
	}

	_, err = f.Seek(s.End, io.SeekStart)
	return err
}

// ReadPascalString reads a length byte, that many bytes of UTF-8 data, and
// then padding so the total (1 + length) is a multiple of alignment. A zero
// length is legal and yields the empty string, still consuming the padding.
func (f *File) ReadPascalString(alignment int) (string, error) {
	count, err := f.ReadByte()
	if err != nil {
		return "", err
	}

	var value string
	if count > 0 {
		value, err = f.ReadString(int(count))
		if err != nil {
			return "", err
		}
	}

	if alignment > 1 {
		if rem := (int(count) + 1) % alignment; rem != 0 {
			if err := f.Skip(int64(alignment - rem)); err != nil {
				return "", err
			}
		}
	}

	return value, nil
}

// ReadUnicodeString reads a 4-byte UTF-16 code unit count followed by the
// code units in big-endian order.
func (f *File) ReadUnicodeString() (string, error) {
	count, err := f.ReadUint32()
	if err != nil {
		return "", err
	}

	if count == 0 {
		return "", nil
	}

	buf := make([]byte, count*2)
	if _, err := f.Read(buf); err != nil {
		return "", err
	}

	units := make([]uint16, count)
	for i := range units {
		units[i] = uint16(buf[i*2])<<8 | uint16(buf[i*2+1])
	}

	return string(utf16.Decode(units)), nil
}
