package audio

import (
	"sync"

	"github.com/gopxl/beep"
)

// Tap wraps a streamer and keeps the most recent mono mix of what passed
// through it, for the spectrum analyzer.
type Tap struct {
	s    beep.Streamer
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

// NewTap wraps s with a ring buffer of size samples.
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{
		s:    s,
		buf:  make([]float64, size),
		size: size,
	}
}

// Stream passes audio through while capturing it.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for i := range n {
		t.buf[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples returns the last n captured samples, oldest first.
func (t *Tap) Samples(n int) []float64 {
	if n > t.size {
		n = t.size
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := range n {
		out[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
	return out
}
