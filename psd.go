package psd

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// PSD represents a parsed Photoshop document. Decoding is one-shot: Parse
// reads the whole file into an immutable model, after which the renderer may
// be invoked any number of times without touching the stream.
type PSD struct {
	file *File
	path string

	header    *Header
	resources []*ResourceBlock
	layers    []*Layer
	root      *Layer
	merged    *MergedImage
	parsed    bool
}

// New creates a new PSD instance from a file path.
func New(filename string) (*PSD, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return &PSD{
		file: &File{rs: f, closer: f},
		path: filename,
	}, nil
}

// NewFromReader creates a PSD that decodes from an in-memory or otherwise
// seekable stream.
func NewFromReader(rs io.ReadSeeker) *PSD {
	return &PSD{file: &File{rs: rs}}
}

// Open opens a PSD file, parses it, and executes the provided function.
func Open(filename string, fn func(*PSD) error) error {
	psd, err := New(filename)
	if err != nil {
		return err
	}
	defer psd.Close()

	if err := psd.Parse(); err != nil {
		return err
	}

	return fn(psd)
}

// Close closes the underlying file.
func (p *PSD) Close() error {
	if p.file != nil && p.file.closer != nil {
		return p.file.closer.Close()
	}
	return nil
}

// Parse decodes all sections of the PSD file in order: header, color mode
// data, image resources, layer and mask information, merged image data.
func (p *PSD) Parse() error {
	if p.parsed {
		return nil
	}

	header := &Header{file: p.file}
	if err := header.Parse(); err != nil {
		return errors.Wrap(err, "header")
	}
	p.header = header

	// Color mode data: only indexed and duotone modes store anything here,
	// and neither is renderable, so the section is skipped wholesale.
	if err := p.file.Section(func(s *Section) error { return nil }); err != nil {
		return errors.Wrap(err, "color mode data")
	}

	resources, err := parseResources(p.file)
	if err != nil {
		return errors.Wrap(err, "image resources")
	}
	p.resources = resources

	layers, err := parseLayerSection(p.file, p.header)
	if err != nil {
		return errors.Wrap(err, "layer and mask information")
	}
	p.layers = layers
	p.root = buildLayerTree(p.header, p.layers)

	merged := &MergedImage{file: p.file, header: p.header}
	if err := merged.Parse(); err != nil {
		return errors.Wrap(err, "merged image data")
	}
	p.merged = merged

	p.parsed = true
	return nil
}

// Parsed returns whether the PSD has been parsed.
func (p *PSD) Parsed() bool {
	return p.parsed
}

// Path returns the file path this document was opened from.
func (p *PSD) Path() string {
	return p.path
}

// Header returns the PSD header.
func (p *PSD) Header() *Header {
	return p.header
}

// Resources returns the image resource blocks.
func (p *PSD) Resources() []*ResourceBlock {
	return p.resources
}

// Layers returns all layers in file order (bottom to top).
func (p *PSD) Layers() []*Layer {
	return p.layers
}

// Root returns the synthetic root of the layer forest.
func (p *PSD) Root() *Layer {
	return p.root
}

// Merged returns the flattened composite stored in the file's final block.
func (p *PSD) Merged() *MergedImage {
	return p.merged
}

// Layer retrieves a layer by name.
func (p *PSD) Layer(name string) (*Layer, error) {
	for _, layer := range p.layers {
		if layer.Name == name {
			return layer, nil
		}
	}
	return nil, errors.Wrapf(ErrLayerNotFound, "%q", name)
}

// IterLayers returns the pixel layers in file order, skipping group markers
// and bounding section dividers.
func (p *PSD) IterLayers() []*Layer {
	var out []*Layer
	for _, layer := range p.layers {
		if layer.IsGroup() || layer.IsBoundingSectionDivider() {
			continue
		}
		out = append(out, layer)
	}
	return out
}

// IterGroups returns the group layers in file order.
func (p *PSD) IterGroups() []*Layer {
	var out []*Layer
	for _, layer := range p.layers {
		if layer.IsGroup() {
			out = append(out, layer)
		}
	}
	return out
}

// File wraps a seekable stream with big-endian primitive reads. All PSD
// integers are big-endian; offsets are tracked against the underlying stream.
type File struct {
	rs     io.ReadSeeker
	closer io.Closer
}

// Read fills p, erroring if fewer bytes are available.
func (f *File) Read(p []byte) (int, error) {
	return io.ReadFull(f.rs, p)
}

// Seek seeks to a position in the stream.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.rs.Seek(offset, whence)
}

// Tell returns the current position in the stream.
func (f *File) Tell() (int64, error) {
	return f.rs.Seek(0, io.SeekCurrent)
}

// Skip advances n bytes.
func (f *File) Skip(n int64) error {
	_, err := f.rs.Seek(n, io.SeekCurrent)
	return err
}

// ReadString reads a string of the specified byte length.
func (f *File) ReadString(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := f.Read(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadByte reads a single byte.
func (f *File) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a 16-bit unsigned integer.
func (f *File) ReadUint16() (uint16, error) {
	buf := make([]byte, 2)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadInt16 reads a 16-bit signed integer.
func (f *File) ReadInt16() (int16, error) {
	v, err := f.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a 32-bit unsigned integer.
func (f *File) ReadUint32() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadInt32 reads a 32-bit signed integer.
func (f *File) ReadInt32() (int32, error) {
	v, err := f.ReadUint32()
	return int32(v), err
}
