package psd

import (
	"github.com/pkg/errors"
)

// LayerInfo is one tagged extension record from a layer's extra data. The
// decoder interprets the keys it understands and keeps everything else as an
// OpaqueInfo so unknown records survive without desynchronizing the stream.
type LayerInfo interface {
	Key() string
}

// OpaqueInfo retains an uninterpreted layer-info record.
type OpaqueInfo struct {
	Signature string
	InfoKey   string
	Data      []byte
}

// Key returns the record's 4-byte key.
func (o *OpaqueInfo) Key() string { return o.InfoKey }

// DividerType classifies a section divider record.
type DividerType uint32

const (
	DividerOther           DividerType = 0
	DividerOpenFolder      DividerType = 1
	DividerClosedFolder    DividerType = 2
	DividerBoundingSection DividerType = 3
)

// String returns a readable divider type name.
func (d DividerType) String() string {
	switch d {
	case DividerOther:
		return "other"
	case DividerOpenFolder:
		return "open folder"
	case DividerClosedFolder:
		return "closed folder"
	case DividerBoundingSection:
		return "bounding section divider"
	}
	return "unknown"
}

// SubType distinguishes normal groups from scene groups on the timeline.
type SubType uint32

const (
	SubTypeNormal     SubType = 0
	SubTypeSceneGroup SubType = 1
)

// SectionDivider marks group structure in the flat layer list. Open and
// closed folders start a group; a bounding section divider ends one.
type SectionDivider struct {
	Type      DividerType
	BlendMode *BlendMode // optional override; nil when the record has none
	Sub       SubType
}

// Key returns "lsct".
func (s *SectionDivider) Key() string { return "lsct" }

// UnicodeName carries the layer's name as UTF-16, overriding the Pascal name.
type UnicodeName struct {
	Value string
}

// Key returns "luni".
func (u *UnicodeName) Key() string { return "luni" }

// parseLayerInfoRecord reads one tagged record: signature, key, and a
// length-prefixed body dispatched on the key. Unknown keys are retained
// opaquely; the section scope guarantees their length is honored.
func parseLayerInfoRecord(f *File) (LayerInfo, error) {
	sig, err := f.ReadString(4)
	if err != nil {
		return nil, err
	}
	if sig != "8BIM" && sig != "8B64" {
		return nil, errors.Wrapf(ErrBadSignature, "layer info signature %q", sig)
	}

	key, err := f.ReadString(4)
	if err != nil {
		return nil, err
	}

	switch key {
	case "lsct":
		return parseSectionDivider(f)
	case "luni":
		name := &UnicodeName{}
		err := f.Section(func(s *Section) error {
			value, err := f.ReadUnicodeString()
			if err != nil {
				return err
			}
			name.Value = value
			return nil
		})
		if err != nil {
			return nil, err
		}
		return name, nil
	default:
		info := &OpaqueInfo{Signature: sig, InfoKey: key}
		err := f.Section(func(s *Section) error {
			info.Data = make([]byte, s.Length)
			if s.Length == 0 {
				return nil
			}
			_, err := f.Read(info.Data)
			return err
		})
		if err != nil {
			return nil, err
		}
		return info, nil
	}
}

// parseSectionDivider reads the divider type, then an optional blend-mode
// override when the body is at least 12 bytes, then an optional sub type
// when it is at least 16.
func parseSectionDivider(f *File) (*SectionDivider, error) {
	divider := &SectionDivider{}

	err := f.Section(func(s *Section) error {
		t, err := f.ReadUint32()
		if err != nil {
			return err
		}
		divider.Type = DividerType(t)

		if s.Length >= 12 {
			sig, err := f.ReadString(4)
			if err != nil {
				return err
			}
			if sig != "8BIM" {
				return errors.Wrapf(ErrBadSignature, "section divider blend signature %q", sig)
			}
			key, err := f.ReadString(4)
			if err != nil {
				return err
			}
			if divider.BlendMode, err = BlendModeFromKey(key); err != nil {
				return err
			}

			if s.Length >= 16 {
				sub, err := f.ReadUint32()
				if err != nil {
					return err
				}
				divider.Sub = SubType(sub)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return divider, nil
}
