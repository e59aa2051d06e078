package psd

import (
	"math/rand"
)

// Composite composes fg over bg with Porter-Duff "over", using the blend
// kernel for the region where both are covered. The effective source alpha
// is fg alpha scaled by opacity and the optional single-channel mask. The
// result is unpremultiplied; fully transparent pixels come out black.
func Composite(fg, bg *Raster, mask *Plane, opacity float64, mode *BlendMode) *Raster {
	out := NewRaster(bg.W, bg.H)

	for i := range out.A {
		sa := fg.A[i] * opacity
		if mask != nil {
			sa *= mask.Pix[i]
		}
		da := bg.A[i]

		s := RGB{fg.R[i], fg.G[i], fg.B[i]}
		d := RGB{bg.R[i], bg.G[i], bg.B[i]}
		both := mode.Fn(s, d)

		areaSrc := sa * (1 - da)
		areaDst := da * (1 - sa)
		areaBoth := sa * da

		out.R[i] = areaSrc*s[0] + areaDst*d[0] + areaBoth*both[0]
		out.G[i] = areaSrc*s[1] + areaDst*d[1] + areaBoth*both[1]
		out.B[i] = areaSrc*s[2] + areaDst*d[2] + areaBoth*both[2]
		out.A[i] = areaSrc + areaDst + areaBoth
	}

	out.Unpremultiply()
	return out
}

// compositeDissolve replaces the effective source alpha with a stochastic
// all-or-nothing coverage: a pixel keeps the source wherever the draw falls
// below its alpha, otherwise the background shows through. The caller owns
// the generator, so a seeded rng makes renders reproducible.
func compositeDissolve(fg, bg *Raster, mask *Plane, opacity float64, rng *rand.Rand) *Raster {
	snapped := NewRaster(fg.W, fg.H)
	copy(snapped.R, fg.R)
	copy(snapped.G, fg.G)
	copy(snapped.B, fg.B)

	for i, a := range fg.A {
		sa := a * opacity
		if mask != nil {
			sa *= mask.Pix[i]
		}
		if rng.Float64() < sa {
			snapped.A[i] = 1
		}
	}

	return Composite(snapped, bg, nil, 1.0, ModeNormal)
}
