// Package spectrum turns audio samples into per-band magnitude frames and
// draws those frames as coloured bars.
package spectrum

import "time"

const (
	// Interval is the cadence at which frames are produced.
	Interval = 16 * time.Millisecond
	// Bands is the number of magnitude values per frame.
	Bands = 128
	// Threshold is the noise floor in dB; no magnitude is reported below it.
	Threshold = -90.0
)

// Frame is one periodic sample of the spectrum. Magnitudes are in dB and never
// below Threshold. Frames are produced and consumed per tick, never stored.
type Frame struct {
	Magnitudes []float64
	Threshold  float64
	At         time.Duration // playback position the frame was taken at
}

// Silent returns a frame with every band at the floor.
func Silent(bands int, threshold float64) Frame {
	m := make([]float64, bands)
	for i := range m {
		m[i] = threshold
	}
	return Frame{Magnitudes: m, Threshold: threshold}
}
