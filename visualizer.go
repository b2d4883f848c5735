package main

import (
	"image/color"
	"math"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"arbor/internal/spectrum"
)

// spectrumView is a spectrum.Surface backed by a terminal bar chart. Bands
// that share a terminal column keep the tallest bar.
type spectrumView struct {
	chart   barchart.Model
	width   int
	height  int
	columns []column
	effect  spectrum.Effect
	style   spectrum.Style
	idle    lipgloss.Style
}

type column struct {
	value float64
	color string
	glow  bool
}

func newSpectrumView(width, height int, muted string) *spectrumView {
	v := &spectrumView{
		style: spectrum.DefaultStyle,
		idle:  lipgloss.NewStyle().Foreground(lipgloss.Color(muted)),
	}
	v.Resize(width, height)
	return v
}

// Resize changes the chart size; the bar scale follows the height so a 0 dB
// band fills the chart.
func (v *spectrumView) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.columns = make([]column, v.width)
	v.style.Scale = float64(v.height) / -spectrum.Threshold
	v.chart = barchart.New(v.width, v.height,
		barchart.WithNoAxis(),
		barchart.WithBarGap(0),
		barchart.WithBarWidth(1),
		barchart.WithNoAutoBarWidth(),
		barchart.WithMaxValue(float64(v.height)),
		barchart.WithNoAutoMaxValue(),
	)
}

func (v *spectrumView) Size() (float64, float64) {
	return float64(v.width), float64(v.height)
}

func (v *spectrumView) ClearRect(x, y, w, h float64) {
	for i := range v.columns {
		v.columns[i] = column{}
	}
}

// FillRect covers every column the bar overlaps; a bar narrower than a
// column still lands on the column it starts in.
func (v *spectrumView) FillRect(x, y, w, h float64, c color.Color) {
	first := int(math.Floor(x))
	last := max(int(math.Ceil(x+w))-1, first)
	cf, _ := colorful.MakeColor(c)
	for i := max(first, 0); i <= last && i < len(v.columns); i++ {
		if h <= v.columns[i].value {
			continue
		}
		v.columns[i] = column{value: h, color: cf.Hex(), glow: v.effect == spectrum.EffectShadow}
	}
}

// SetEffect records the effect for subsequent bars. A terminal cannot blur,
// so only the shadow is rendered, as bold.
func (v *spectrumView) SetEffect(e spectrum.Effect) {
	v.effect = e
}

// Draw renders frame into the chart.
func (v *spectrumView) Draw(frame spectrum.Frame) {
	spectrum.Render(frame, v, v.style)

	data := make([]barchart.BarData, len(v.columns))
	for i, col := range v.columns {
		style := v.idle
		if col.color != "" {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(col.color)).Bold(col.glow)
		}
		data[i] = barchart.BarData{
			Values: []barchart.BarValue{{Name: "", Value: col.value, Style: style}},
		}
	}
	v.chart.Clear()
	v.chart.PushAll(data)
	v.chart.Draw()
}

func (v *spectrumView) View() string {
	return v.chart.View()
}
