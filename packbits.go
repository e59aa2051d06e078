package psd

import (
	"github.com/pkg/errors"
)

// UnpackBits decompresses a PackBits run-length encoded byte stream.
// A header byte of -128 is skipped, a non-negative header copies the next
// header+1 bytes literally, and a negative header repeats the next byte
// 1-header times.
func UnpackBits(compressed []byte) ([]byte, error) {
	out := make([]byte, 0, len(compressed)*2)
	pos := 0

	for pos < len(compressed) {
		header := int8(compressed[pos])
		pos++

		switch {
		case header == -128:
			continue
		case header >= 0:
			n := int(header) + 1
			if pos+n > len(compressed) {
				return nil, errors.Wrapf(ErrMalformedPackBits, "literal run of %d bytes at offset %d overruns input", n, pos-1)
			}
			out = append(out, compressed[pos:pos+n]...)
			pos += n
		default:
			if pos >= len(compressed) {
				return nil, errors.Wrapf(ErrMalformedPackBits, "repeat run at offset %d has no data byte", pos-1)
			}
			n := 1 - int(header)
			b := compressed[pos]
			pos++
			for i := 0; i < n; i++ {
				out = append(out, b)
			}
		}
	}

	return out, nil
}
