package psd

import (
	"image"
	"math"
)

// The compositor works on normalized float planes: uint8 samples divided by
// 255 on the way in, rounded half-to-even and scaled back on the way out.
// Rounding before the cast avoids off-by-one results on pure colors.

func byteToFloat(b uint8) float64 {
	return float64(b) / 255.0
}

func floatToByte(v float64) uint8 {
	v = math.RoundToEven(v * 255.0)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Plane is a single-channel float raster.
type Plane struct {
	W, H int
	Pix  []float64
}

// NewPlane returns a zero-filled plane.
func NewPlane(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]float64, w*h)}
}

// NewPlaneFilled returns a plane with every sample set to v.
func NewPlaneFilled(w, h int, v float64) *Plane {
	p := NewPlane(w, h)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// PlaneFromBytes normalizes a uint8 raster into a plane.
func PlaneFromBytes(data []byte, w, h int) *Plane {
	p := NewPlane(w, h)
	for i, b := range data {
		p.Pix[i] = byteToFloat(b)
	}
	return p
}

// Bytes converts the plane back to uint8 samples.
func (p *Plane) Bytes() []byte {
	out := make([]byte, len(p.Pix))
	for i, v := range p.Pix {
		out[i] = floatToByte(v)
	}
	return out
}

// Raster is a four-plane RGBA float raster with straight (non-premultiplied)
// color.
type Raster struct {
	W, H       int
	R, G, B, A []float64
}

// NewRaster returns a fully transparent raster.
func NewRaster(w, h int) *Raster {
	return &Raster{
		W: w, H: h,
		R: make([]float64, w*h),
		G: make([]float64, w*h),
		B: make([]float64, w*h),
		A: make([]float64, w*h),
	}
}

// ToImage converts the raster to a non-premultiplied RGBA image.
func (r *Raster) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	for i := 0; i < r.W*r.H; i++ {
		o := i * 4
		img.Pix[o+0] = floatToByte(r.R[i])
		img.Pix[o+1] = floatToByte(r.G[i])
		img.Pix[o+2] = floatToByte(r.B[i])
		img.Pix[o+3] = floatToByte(r.A[i])
	}
	return img
}

// Premultiply scales the color planes by alpha, in place.
func (r *Raster) Premultiply() {
	for i, a := range r.A {
		r.R[i] *= a
		r.G[i] *= a
		r.B[i] *= a
	}
}

// Unpremultiply divides the color planes by alpha, in place. Fully
// transparent pixels come out black rather than NaN.
func (r *Raster) Unpremultiply() {
	for i, a := range r.A {
		if a == 0 {
			r.R[i], r.G[i], r.B[i] = 0, 0, 0
			continue
		}
		r.R[i] /= a
		r.G[i] /= a
		r.B[i] /= a
	}
}

// RGB is one pixel's normalized color triple.
type RGB [3]float64

// Luminosity is the rec-601 style weighted sum used by the HSL blend modes.
func Luminosity(c RGB) float64 {
	return 0.30*c[0] + 0.59*c[1] + 0.11*c[2]
}

// SaturationOf is the channel spread max - min.
func SaturationOf(c RGB) float64 {
	return maxChannel(c) - minChannel(c)
}

// ClipColor recenters a color whose channels may have left [0, 1] by pulling
// them toward the luminosity.
func ClipColor(c RGB) RGB {
	l := Luminosity(c)
	n := minChannel(c)
	x := maxChannel(c)

	if n < 0 {
		for i := range c {
			c[i] = l + ((c[i]-l)*l)/(l-n)
		}
		return c
	}
	if x > 1 {
		for i := range c {
			c[i] = l + ((c[i]-l)*(1-l))/(x-l)
		}
		return c
	}
	return c
}

// SetLuminosity shifts the color to the target luminosity and clips.
func SetLuminosity(c RGB, l float64) RGB {
	d := l - Luminosity(c)
	return ClipColor(RGB{c[0] + d, c[1] + d, c[2] + d})
}

// SetSaturation rescales the channel spread to the target saturation while
// keeping the per-pixel channel ordering: min maps to 0, max to the target,
// and the middle channel proportionally. A flat color maps to zero.
func SetSaturation(c RGB, s float64) RGB {
	n := minChannel(c)
	x := maxChannel(c)
	if x <= n {
		return RGB{}
	}

	var out RGB
	for i := range c {
		switch c[i] {
		case x:
			out[i] = s
		case n:
			out[i] = 0
		default:
			out[i] = (c[i] - n) * s / (x - n)
		}
	}
	return out
}

func minChannel(c RGB) float64 {
	return math.Min(c[0], math.Min(c[1], c[2]))
}

func maxChannel(c RGB) float64 {
	return math.Max(c[0], math.Max(c[1], c[2]))
}
