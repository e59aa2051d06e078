package psd

import (
	"github.com/pkg/errors"
)

// Decode and render failures are classified by sentinel so callers can test
// with errors.Is; call sites wrap them with offset and field context.
var (
	ErrBadSignature           = errors.New("bad signature")
	ErrUnsupportedVersion     = errors.New("unsupported version")
	ErrUnsupportedDepth       = errors.New("unsupported bit depth")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrUnsupportedColorMode   = errors.New("unsupported color mode")
	ErrMalformedPackBits      = errors.New("malformed packbits data")
	ErrUnknownBlendMode       = errors.New("unknown blend mode")
	ErrLayerNotFound          = errors.New("layer not found")
	ErrMaskMissing            = errors.New("layer has no mask")
	ErrOutputExists           = errors.New("output file exists")
)
