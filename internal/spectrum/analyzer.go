package spectrum

import (
	"math"
	"math/cmplx"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyzer converts a window of mono samples into a Frame. It keeps scratch
// buffers, so one Analyzer must not be shared between goroutines.
type Analyzer struct {
	bands     int
	threshold float64
	fft       *fourier.FFT
	window    []float64
	seq       []float64
	coeff     []complex128
}

// NewAnalyzer creates an analyzer for windows of size samples.
func NewAnalyzer(bands int, threshold float64, size int) *Analyzer {
	window := make([]float64, size)
	for i := range window {
		// Hann window
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size-1))
	}
	return &Analyzer{
		bands:     bands,
		threshold: threshold,
		fft:       fourier.NewFFT(size),
		window:    window,
		seq:       make([]float64, size),
	}
}

// Frame computes band magnitudes for samples. Shorter input is zero padded,
// longer input uses its most recent part.
func (a *Analyzer) Frame(samples []float64, at time.Duration) Frame {
	size := len(a.window)
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}
	for i := range a.seq {
		a.seq[i] = 0
	}
	for i, s := range samples {
		a.seq[i] = s * a.window[i]
	}
	a.coeff = a.fft.Coefficients(a.coeff, a.seq)

	// skip the DC bin; spread the rest linearly over the bands
	bins := a.coeff[1:]
	out := make([]float64, a.bands)
	for b := range out {
		lo := b * len(bins) / a.bands
		hi := (b + 1) * len(bins) / a.bands
		if hi <= lo {
			hi = lo + 1
		}
		peak := 0.0
		for _, c := range bins[lo:min(hi, len(bins))] {
			peak = math.Max(peak, cmplx.Abs(c))
		}
		out[b] = a.decibels(peak * 4 / float64(size))
	}
	return Frame{Magnitudes: out, Threshold: a.threshold, At: at}
}

func (a *Analyzer) decibels(amplitude float64) float64 {
	if amplitude <= 0 {
		return a.threshold
	}
	return math.Max(a.threshold, 20*math.Log10(amplitude))
}
