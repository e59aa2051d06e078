package psd

import (
	"github.com/pkg/errors"
)

// parseLayerSection reads the layer-and-mask information section: layer
// info, then the global layer mask and additional layer info, which are
// skipped by the enclosing scope.
func parseLayerSection(f *File, header *Header) ([]*Layer, error) {
	var layers []*Layer

	err := f.Section(func(outer *Section) error {
		if outer.Length == 0 {
			// No layers in this document.
			return nil
		}

		var err error
		layers, err = parseLayerInfoSubsection(f, header)
		return err
	})
	if err != nil {
		return nil, err
	}

	return layers, nil
}

// parseLayerInfoSubsection reads the layer count, every layer record, and
// then every layer's channel data in file order.
func parseLayerInfoSubsection(f *File, header *Header) ([]*Layer, error) {
	var layers []*Layer

	err := f.Section(func(s *Section) error {
		if s.Length == 0 {
			return nil
		}

		count, err := f.ReadInt16()
		if err != nil {
			return errors.Wrap(err, "layer count")
		}
		// A negative count means the first alpha channel of the merged
		// result holds its transparency; the magnitude is the layer count.
		if count < 0 {
			count = -count
		}

		layers = make([]*Layer, count)
		for i := range layers {
			layer, err := parseLayerRecord(f, header)
			if err != nil {
				return errors.Wrapf(err, "layer record %d", i)
			}
			layers[i] = layer
		}

		for _, layer := range layers {
			if err := layer.readChannels(f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return layers, nil
}
