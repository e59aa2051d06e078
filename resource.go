package psd

import (
	"github.com/pkg/errors"
)

// ResourceBlock is one image resource. Image resources store non-pixel data
// such as guides, slices and thumbnails; their payloads are skipped and only
// the identity is retained.
type ResourceBlock struct {
	ID   uint16
	Name string
	Size uint32
}

func parseResources(f *File) ([]*ResourceBlock, error) {
	var blocks []*ResourceBlock

	err := f.Section(func(s *Section) error {
		for {
			pos, err := f.Tell()
			if err != nil {
				return err
			}
			if pos >= s.End {
				return nil
			}

			block, err := parseResourceBlock(f)
			if err != nil {
				return err
			}
			blocks = append(blocks, block)
		}
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

func parseResourceBlock(f *File) (*ResourceBlock, error) {
	sig, err := f.ReadString(4)
	if err != nil {
		return nil, err
	}
	if sig != "8BIM" {
		return nil, errors.Wrapf(ErrBadSignature, "resource block signature %q", sig)
	}

	block := &ResourceBlock{}
	if block.ID, err = f.ReadUint16(); err != nil {
		return nil, err
	}

	// Name is a Pascal string padded to an even total length.
	if block.Name, err = f.ReadPascalString(2); err != nil {
		return nil, err
	}

	if block.Size, err = f.ReadUint32(); err != nil {
		return nil, err
	}

	// Payload skipped; an odd payload carries one pad byte.
	skip := int64(block.Size)
	if block.Size%2 != 0 {
		skip++
	}
	if err := f.Skip(skip); err != nil {
		return nil, err
	}

	return block, nil
}
