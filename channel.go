package psd

import (
	"github.com/pkg/errors"
)

// Channel ids as declared in the layer record.
const (
	ChannelRed              int16 = 0
	ChannelGreen            int16 = 1
	ChannelBlue             int16 = 2
	ChannelTransparencyMask int16 = -1
	ChannelUserMask         int16 = -2
	ChannelRealUserMask     int16 = -3
)

// Compression codes used for channel and merged image data.
const (
	CompressionRaw    uint16 = 0
	CompressionRLE    uint16 = 1
	CompressionZIP    uint16 = 2
	CompressionZIPPre uint16 = 3
)

// Channel holds one plane of a layer: a color or transparency channel sized
// to the layer rect, or a mask channel sized to its mask rect.
type Channel struct {
	ID     int16
	Length uint32 // declared byte length; channels are located by sequential reads
	Width  int
	Height int
	Data   []byte
}

var channelNames = map[int16]string{
	ChannelRed:              "red",
	ChannelGreen:            "green",
	ChannelBlue:             "blue",
	ChannelTransparencyMask: "transparency mask",
	ChannelUserMask:         "user supplied layer mask",
	ChannelRealUserMask:     "real user supplied layer mask",
}

// Name returns the conventional channel name for the id, or "" if unknown.
func (c *Channel) Name() string {
	return channelNames[c.ID]
}

// readChannelData decodes one channel's scanlines at the current stream
// position: a 2-byte compression code followed by width*height bytes of
// row-major data, raw or PackBits-compressed per scanline.
func (c *Channel) readChannelData(f *File, width, height int) error {
	c.Width = width
	c.Height = height

	compression, err := f.ReadUint16()
	if err != nil {
		return errors.Wrapf(err, "channel %d compression code", c.ID)
	}

	switch compression {
	case CompressionRaw:
		data := make([]byte, width*height)
		if len(data) > 0 {
			if _, err := f.Read(data); err != nil {
				return errors.Wrapf(err, "channel %d raw data", c.ID)
			}
		}
		c.Data = data
		return nil

	case CompressionRLE:
		return c.readRLE(f, width, height)

	case CompressionZIP, CompressionZIPPre:
		return errors.Wrapf(ErrUnsupportedCompression, "channel %d uses ZIP compression", c.ID)

	default:
		return errors.Wrapf(ErrUnsupportedCompression, "channel %d compression code %d", c.ID, compression)
	}
}

func (c *Channel) readRLE(f *File, width, height int) error {
	lengths := make([]uint16, height)
	for i := range lengths {
		n, err := f.ReadUint16()
		if err != nil {
			return errors.Wrapf(err, "channel %d scanline lengths", c.ID)
		}
		lengths[i] = n
	}

	data := make([]byte, 0, width*height)
	buf := make([]byte, 0)
	for row, n := range lengths {
		if cap(buf) < int(n) {
			buf = make([]byte, n)
		}
		buf = buf[:n]
		if _, err := f.Read(buf); err != nil {
			return errors.Wrapf(err, "channel %d row %d", c.ID, row)
		}

		scanline, err := UnpackBits(buf)
		if err != nil {
			return errors.Wrapf(err, "channel %d row %d", c.ID, row)
		}
		if len(scanline) != width {
			return errors.Wrapf(ErrMalformedPackBits, "channel %d row %d decoded to %d bytes, want %d", c.ID, row, len(scanline), width)
		}
		data = append(data, scanline...)
	}

	c.Data = data
	return nil
}
