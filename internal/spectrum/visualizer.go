package spectrum

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Effect is post-processing a surface applies to subsequent fills.
type Effect int

const (
	EffectNone Effect = iota
	EffectBlur
	EffectShadow
)

// Surface is a fixed-size 2D drawing target. Its lifecycle and size belong to
// the caller.
type Surface interface {
	Size() (width, height float64)
	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64, c color.Color)
	SetEffect(e Effect)
}

// Style holds the knobs of the bar mapping.
type Style struct {
	Scale    float64 // surface units per dB above the floor
	HueSweep float64 // degrees covered from the first to the last band
	Effects  bool    // blur and drop shadow while drawing
}

// DefaultStyle draws three units per dB over a half-circle sweep from red
// towards cyan.
var DefaultStyle = Style{Scale: 3, HueSweep: -180, Effects: true}

// BarHeight maps a magnitude to a non-negative bar height.
func BarHeight(magnitude, threshold, scale float64) float64 {
	return math.Max(0, magnitude-threshold) * scale
}

// Hue returns the hue in [0, 360) for band index out of bands.
func Hue(index, bands int, sweep float64) float64 {
	if bands <= 0 {
		return 0
	}
	h := math.Mod(float64(index)*sweep/float64(bands), 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Render draws frame onto s. The previous frame is cleared first and every
// effect is switched off again before returning, so the output depends on
// this frame alone.
func Render(frame Frame, s Surface, style Style) {
	width, height := s.Size()
	s.ClearRect(0, 0, width, height)
	defer s.SetEffect(EffectNone)

	n := len(frame.Magnitudes)
	if n == 0 {
		return
	}
	if style.Effects {
		s.SetEffect(EffectBlur)
	}

	barWidth := width / float64(n)
	half := height / 2
	for i, m := range frame.Magnitudes {
		h := BarHeight(m, frame.Threshold, style.Scale)
		c := colorful.Hsv(Hue(i, n, style.HueSweep), 1, 1)
		s.FillRect(float64(i)*barWidth, half-h/2, barWidth, h, c)
		if style.Effects && i == 0 {
			s.SetEffect(EffectShadow)
		}
	}
}
