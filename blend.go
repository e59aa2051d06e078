package psd

import (
	"math"

	"github.com/pkg/errors"
)

// BlendFunc combines one foreground pixel with one background pixel over
// normalized RGB. Kernels are pure: the over-operator wrapper supplies
// alpha, mask and opacity handling around them.
type BlendFunc func(fg, bg RGB) RGB

// BlendMode pairs a 4-byte wire key and human name with a blend kernel. The
// set is closed; keys include their trailing spaces ("mul ", "hue ").
type BlendMode struct {
	Key  string
	Name string
	Fn   BlendFunc
}

// Dissolve thresholds the source alpha stochastically instead of blending
// color, so the renderer special-cases it by key.
const dissolveKey = "diss"

// passThroughKey marks groups whose children composite straight onto the
// enclosing background.
const passThroughKey = "pass"

// IsPassThrough reports whether this is the pass through group mode.
func (b *BlendMode) IsPassThrough() bool {
	return b.Key == passThroughKey
}

// IsDissolve reports whether this mode uses stochastic coverage.
func (b *BlendMode) IsDissolve() bool {
	return b.Key == dissolveKey
}

// The closed blend mode set.
var (
	ModePassThrough = &BlendMode{passThroughKey, "pass through", blendNormal}

	ModeNormal   = &BlendMode{"norm", "normal", blendNormal}
	ModeDissolve = &BlendMode{dissolveKey, "dissolve", blendNormal}

	ModeDarken      = &BlendMode{"dark", "darken", perChannel(darkenChannel)}
	ModeMultiply    = &BlendMode{"mul ", "multiply", perChannel(multiplyChannel)}
	ModeColorBurn   = &BlendMode{"idiv", "color burn", perChannel(colorBurnChannel)}
	ModeLinearBurn  = &BlendMode{"lbrn", "linear burn", perChannel(linearBurnChannel)}
	ModeDarkerColor = &BlendMode{"dkCl", "darker color", blendDarkerColor}

	ModeLighten      = &BlendMode{"lite", "lighten", perChannel(lightenChannel)}
	ModeScreen       = &BlendMode{"scrn", "screen", perChannel(screenChannel)}
	ModeColorDodge   = &BlendMode{"div ", "color dodge", perChannel(colorDodgeChannel)}
	ModeLinearDodge  = &BlendMode{"lddg", "linear dodge", perChannel(linearDodgeChannel)}
	ModeLighterColor = &BlendMode{"lgCl", "lighter color", blendLighterColor}

	ModeOverlay     = &BlendMode{"over", "overlay", perChannel(overlayChannel)}
	ModeSoftLight   = &BlendMode{"sLit", "soft light", perChannel(softLightChannel)}
	ModeHardLight   = &BlendMode{"hLit", "hard light", perChannel(hardLightChannel)}
	ModeVividLight  = &BlendMode{"vLit", "vivid light", perChannel(vividLightChannel)}
	ModeLinearLight = &BlendMode{"lLit", "linear light", perChannel(linearLightChannel)}
	ModePinLight    = &BlendMode{"pLit", "pin light", perChannel(pinLightChannel)}
	ModeHardMix     = &BlendMode{"hMix", "hard mix", perChannel(hardMixChannel)}

	ModeDifference = &BlendMode{"diff", "difference", perChannel(differenceChannel)}
	ModeExclusion  = &BlendMode{"smud", "exclusion", perChannel(exclusionChannel)}
	ModeSubtract   = &BlendMode{"fsub", "subtract", perChannel(subtractChannel)}
	ModeDivide     = &BlendMode{"fdiv", "divide", perChannel(divideChannel)}

	ModeHue        = &BlendMode{"hue ", "hue", blendHue}
	ModeSaturation = &BlendMode{"sat ", "saturation", blendSaturation}
	ModeColor      = &BlendMode{"colr", "color", blendColor}
	ModeLuminosity = &BlendMode{"lum ", "luminosity", blendLuminosity}
)

// AllBlendModes lists the closed set in the order Photoshop's mode menu
// groups them.
var AllBlendModes = []*BlendMode{
	ModePassThrough,
	ModeNormal, ModeDissolve,
	ModeDarken, ModeMultiply, ModeColorBurn, ModeLinearBurn, ModeDarkerColor,
	ModeLighten, ModeScreen, ModeColorDodge, ModeLinearDodge, ModeLighterColor,
	ModeOverlay, ModeSoftLight, ModeHardLight, ModeVividLight, ModeLinearLight, ModePinLight, ModeHardMix,
	ModeDifference, ModeExclusion, ModeSubtract, ModeDivide,
	ModeHue, ModeSaturation, ModeColor, ModeLuminosity,
}

// BlendModeFromKey resolves a 4-byte wire key.
func BlendModeFromKey(key string) (*BlendMode, error) {
	for _, mode := range AllBlendModes {
		if mode.Key == key {
			return mode, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownBlendMode, "key %q", key)
}

// BlendModeFromName resolves a human name.
func BlendModeFromName(name string) (*BlendMode, error) {
	for _, mode := range AllBlendModes {
		if mode.Name == name {
			return mode, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownBlendMode, "name %q", name)
}

// perChannel lifts a scalar kernel over the three color channels.
func perChannel(fn func(f, b float64) float64) BlendFunc {
	return func(fg, bg RGB) RGB {
		return RGB{fn(fg[0], bg[0]), fn(fg[1], bg[1]), fn(fg[2], bg[2])}
	}
}

func blendNormal(fg, bg RGB) RGB {
	return fg
}

func darkenChannel(f, b float64) float64 {
	return math.Min(f, b)
}

func multiplyChannel(f, b float64) float64 {
	return f * b
}

func colorBurnChannel(f, b float64) float64 {
	if b == 1 {
		return 1
	}
	if f == 0 {
		return 0
	}
	return 1 - clamp01((1-b)/f)
}

func linearBurnChannel(f, b float64) float64 {
	if f+b < 1 {
		return 0
	}
	return f + b - 1
}

func lightenChannel(f, b float64) float64 {
	return math.Max(f, b)
}

func screenChannel(f, b float64) float64 {
	return 1 - (1-b)*(1-f)
}

func colorDodgeChannel(f, b float64) float64 {
	if b == 0 {
		return 0
	}
	if f == 1 {
		return 1
	}
	return clamp01(b / (1 - f))
}

func linearDodgeChannel(f, b float64) float64 {
	return clamp01(f + b)
}

func overlayChannel(f, b float64) float64 {
	if b < 0.5 {
		return 2 * f * b
	}
	return 1 - 2*(1-f)*(1-b)
}

func softLightChannel(f, b float64) float64 {
	if f <= 0.5 {
		return b - (1-2*f)*b*(1-b)
	}
	if b <= 0.25 {
		return b + (2*f-1)*((4*b)*(4*b+1)*(b-1)+7*b)
	}
	return b + (2*f-1)*(math.Sqrt(b)-b)
}

func hardLightChannel(f, b float64) float64 {
	if f <= 0.5 {
		return 2 * f * b
	}
	return 1 - 2*(1-f)*(1-b)
}

// The three half-domain light modes scale the foreground to cover the burn
// and dodge halves separately.
func vividLightChannel(f, b float64) float64 {
	if f == 1 || f == 0 {
		return f
	}
	if f <= 0.5 {
		return clamp01(1 - clamp01((1-b)/clamp01(2*f)))
	}
	return clamp01(b / (1 - clamp01(2*(f-0.5))))
}

func linearLightChannel(f, b float64) float64 {
	if f <= 0.5 {
		return clamp01(clamp01(2*f) + b - 1)
	}
	return clamp01(clamp01(2*(f-0.5)) + b)
}

func pinLightChannel(f, b float64) float64 {
	if f <= 0.5 {
		return clamp01(math.Min(clamp01(2*f), b))
	}
	return clamp01(math.Max(clamp01(2*(f-0.5)), b))
}

func hardMixChannel(f, b float64) float64 {
	// Comparing at three decimals sheds float noise that would flip the
	// threshold on values that are equal in 8 bits.
	if b == 0 {
		return 0
	}
	if round3(f)+round3(b) >= 1 {
		return 1
	}
	return 0
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func differenceChannel(f, b float64) float64 {
	return math.Abs(f - b)
}

func exclusionChannel(f, b float64) float64 {
	return clamp01((f + b) - 2*f*b)
}

func subtractChannel(f, b float64) float64 {
	return clamp01(b - f)
}

func divideChannel(f, b float64) float64 {
	if b == 0 {
		return 0
	}
	if f == 0 {
		return 1
	}
	return clamp01(b / f)
}

func blendDarkerColor(fg, bg RGB) RGB {
	if Luminosity(fg) < Luminosity(bg) {
		return fg
	}
	return bg
}

func blendLighterColor(fg, bg RGB) RGB {
	if Luminosity(fg) > Luminosity(bg) {
		return fg
	}
	return bg
}

func blendHue(fg, bg RGB) RGB {
	return SetLuminosity(SetSaturation(fg, SaturationOf(bg)), Luminosity(bg))
}

func blendSaturation(fg, bg RGB) RGB {
	return SetLuminosity(SetSaturation(bg, SaturationOf(fg)), Luminosity(bg))
}

func blendColor(fg, bg RGB) RGB {
	return SetLuminosity(fg, Luminosity(bg))
}

func blendLuminosity(fg, bg RGB) RGB {
	return SetLuminosity(bg, Luminosity(fg))
}
