package psd

import (
	"image"
	"math/rand"

	"github.com/pkg/errors"
)

// dissolveSeed makes dissolve coverage reproducible: two renders of the same
// document produce identical output.
const dissolveSeed = 0x70736400 // "psd\0"

// Renderer flattens the layer forest of a parsed document onto a canvas.
// The parsed model is read-only, so a renderer may be used repeatedly and
// renders never disturb one another.
type Renderer struct {
	psd *PSD
	rng *rand.Rand
}

// NewRenderer creates a renderer for a parsed document.
func NewRenderer(p *PSD) *Renderer {
	return &Renderer{
		psd: p,
		rng: rand.New(rand.NewSource(dissolveSeed)),
	}
}

// Render flattens the whole document and returns the canvas as a
// non-premultiplied RGBA image.
func (r *Renderer) Render() (*image.NRGBA, error) {
	if err := r.checkMode(); err != nil {
		return nil, err
	}

	r.rng = rand.New(rand.NewSource(dissolveSeed))
	w, h := int(r.psd.header.Width()), int(r.psd.header.Height())
	canvas := r.flatten(r.psd.Root(), NewRaster(w, h))
	return canvas.ToImage(), nil
}

// RenderLayer flattens a single layer or group onto a transparent canvas.
func (r *Renderer) RenderLayer(name string) (*image.NRGBA, error) {
	if err := r.checkMode(); err != nil {
		return nil, err
	}

	layer, err := r.psd.Layer(name)
	if err != nil {
		return nil, err
	}

	r.rng = rand.New(rand.NewSource(dissolveSeed))
	w, h := int(r.psd.header.Width()), int(r.psd.header.Height())
	if layer.IsGroup() {
		return r.flatten(layer, NewRaster(w, h)).ToImage(), nil
	}
	return r.composeLayer(layer, NewRaster(w, h)).ToImage(), nil
}

func (r *Renderer) checkMode() error {
	mode := r.psd.header.Mode
	if !mode.Renderable() {
		return errors.Wrapf(ErrUnsupportedColorMode, "cannot render %s documents", mode)
	}
	return nil
}

// flatten composites a group's children onto bg, bottom to top. Children
// are stored topmost first, so iteration runs back to front.
func (r *Renderer) flatten(group *Layer, bg *Raster) *Raster {
	for i := len(group.Children) - 1; i >= 0; i-- {
		child := group.Children[i]
		if !child.Visible() || child.IsBoundingSectionDivider() {
			continue
		}

		if child.IsGroup() {
			bg = r.composeGroup(child, bg)
			continue
		}
		bg = r.composeLayer(child, bg)
	}
	return bg
}

func (r *Renderer) composeGroup(group *Layer, bg *Raster) *Raster {
	// A pass-through group merges into the enclosing stack: its children
	// see and composite onto the caller's background directly.
	if group.Blend.IsPassThrough() {
		return r.flatten(group, bg)
	}

	content := r.flatten(group, NewRaster(bg.W, bg.H))
	return Composite(content, bg, nil, float64(group.Opacity)/255.0, group.Blend)
}

func (r *Renderer) composeLayer(layer *Layer, bg *Raster) *Raster {
	fg := LayerToScreenSpace(layer, bg.W, bg.H)

	var mask *Plane
	if layer.Mask != nil && !layer.Mask.Disabled() {
		mask, _ = MaskToScreenSpace(layer, bg.W, bg.H)
	}

	opacity := float64(layer.Opacity) / 255.0
	mode := layer.Blend
	if mode.IsDissolve() {
		return compositeDissolve(fg, bg, mask, opacity, r.rng)
	}
	// A single layer cannot be pass through; compose it as normal.
	if mode.IsPassThrough() {
		mode = ModeNormal
	}
	return Composite(fg, bg, mask, opacity, mode)
}

// Render is a convenience wrapper over a one-off Renderer.
func (p *PSD) Render() (*image.NRGBA, error) {
	return NewRenderer(p).Render()
}

// RenderMerged decodes the stored flattened composite according to the
// document color mode.
func (p *PSD) RenderMerged() (image.Image, error) {
	return p.merged.ToImage()
}
