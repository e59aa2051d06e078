package psd

import (
	"github.com/pkg/errors"
)

// Compositing happens on canvas-sized buffers, but layers carry only their
// own bounded rect. The screen-space transform crops a layer raster to the
// canvas and pads the remainder with a fill value: zero for color and alpha,
// the mask's default color for masks.

// cropPad places a rect-positioned single-channel raster onto a canvas-sized
// byte raster filled with fill. Where data is missing the fill value stays.
func cropPad(data []byte, rect Rect, canvasW, canvasH int, fill byte) []byte {
	out := make([]byte, canvasW*canvasH)
	if fill != 0 {
		for i := range out {
			out[i] = fill
		}
	}

	layerW := int(rect.Width())
	layerH := int(rect.Height())
	if layerW <= 0 || layerH <= 0 {
		return out
	}

	x0 := clampInt(int(rect.Left), 0, canvasW)
	x1 := clampInt(int(rect.Right), 0, canvasW)
	y0 := clampInt(int(rect.Top), 0, canvasH)
	y1 := clampInt(int(rect.Bottom), 0, canvasH)

	for y := y0; y < y1; y++ {
		srcRow := (y - int(rect.Top)) * layerW
		dstRow := y * canvasW
		for x := x0; x < x1; x++ {
			src := srcRow + (x - int(rect.Left))
			if src < len(data) {
				out[dstRow+x] = data[src]
			}
		}
	}

	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LayerToScreenSpace returns the layer's RGBA raster placed on the canvas.
// A missing transparency channel means the layer is opaque inside its rect,
// scaled by the layer-fill factor; outside the rect everything is
// transparent.
func LayerToScreenSpace(l *Layer, canvasW, canvasH int) *Raster {
	w, h := int(l.Width()), int(l.Height())
	out := NewRaster(canvasW, canvasH)
	if w <= 0 || h <= 0 {
		return out
	}

	channel := func(id int16) []byte {
		if c := l.Channel(id); c != nil && len(c.Data) == w*h {
			return c.Data
		}
		return nil
	}

	r := channel(ChannelRed)
	g := channel(ChannelGreen)
	b := channel(ChannelBlue)
	a := channel(ChannelTransparencyMask)

	if l.header != nil && l.header.Mode == ColorModeGrayscale {
		g, b = r, r
	}

	if a == nil {
		opaque := make([]byte, w*h)
		fill := floatToByte(l.FillOpacity())
		for i := range opaque {
			opaque[i] = fill
		}
		a = opaque
	}

	toPlane := func(data []byte) []float64 {
		ss := cropPad(data, l.Rect, canvasW, canvasH, 0)
		plane := make([]float64, len(ss))
		for i, v := range ss {
			plane[i] = byteToFloat(v)
		}
		return plane
	}

	out.R = toPlane(r)
	out.G = toPlane(g)
	out.B = toPlane(b)
	out.A = toPlane(a)
	return out
}

// MaskToScreenSpace returns the layer's mask as a canvas-sized coverage
// plane, filling outside the mask rect with the mask's default color.
func MaskToScreenSpace(l *Layer, canvasW, canvasH int) (*Plane, error) {
	if l.Mask == nil {
		return nil, errors.Wrapf(ErrMaskMissing, "layer %q", l.Name)
	}

	var data []byte
	w, h := int(l.Mask.Width()), int(l.Mask.Height())
	if c := l.Channel(ChannelUserMask); c != nil && len(c.Data) == w*h {
		data = c.Data
	}

	ss := cropPad(data, l.Mask.Rect, canvasW, canvasH, l.Mask.DefaultColor)
	return PlaneFromBytes(ss, canvasW, canvasH), nil
}
