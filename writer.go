package psd

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// WriteImage encodes img to path. The format is taken from the extension
// when format is empty; png, bmp and tiff are supported. An existing path is
// an error unless overwrite is set.
func WriteImage(img image.Image, path string, format string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Wrap(ErrOutputExists, path)
		}
	}

	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	format = strings.ToLower(format)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "png":
		return png.Encode(f, img)
	case "bmp":
		return bmp.Encode(f, img)
	case "tif", "tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported output format %q", format)
	}
}
