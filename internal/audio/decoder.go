package audio

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"arbor/internal/playback"
	"arbor/internal/spectrum"
)

const (
	// volumeCurve shapes the linear [0, 1] volume into a base-2 exponent.
	volumeCurve = 0.5
	minVolume   = -10.0
)

// Decoder is one opened track. Fields touched by the speaker goroutine are
// guarded by the speaker lock.
type Decoder struct {
	id       string
	path     string
	engine   *Engine
	streamer beep.StreamSeekCloser
	format   beep.Format
	analyzer *spectrum.Analyzer
	box      *mailbox

	// speaker lock
	ctrl   *beep.Ctrl
	volume *effects.Volume
	level  float64
	queued bool

	tap      atomic.Pointer[Tap]
	playing  atomic.Bool
	disposed atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

func newDecoder(e *Engine, path string, s beep.StreamSeekCloser, format beep.Format, events chan<- playback.Event) *Decoder {
	d := &Decoder{
		id:       uuid.NewString(),
		path:     path,
		engine:   e,
		streamer: s,
		format:   format,
		analyzer: spectrum.NewAnalyzer(spectrum.Bands, spectrum.Threshold, e.opts.fftSize),
		box:      newMailbox(events),
		level:    1,
		done:     make(chan struct{}),
	}
	d.box.post(playback.Event{Decoder: d.id, Kind: playback.EventReady, Duration: format.SampleRate.D(s.Len())})
	go d.analyse()
	return d
}

func (d *Decoder) ID() string { return d.id }

// Play starts or resumes output. A decoder whose stream already ran out is
// queued on the mixer again.
func (d *Decoder) Play() {
	if d.disposed.Load() {
		return
	}
	speaker.Lock()
	if !d.queued {
		d.enqueue()
	}
	d.ctrl.Paused = false
	speaker.Unlock()

	d.playing.Store(true)
	d.post(playback.EventPlaying)
}

// enqueue builds a fresh pipeline over the streamer and adds it to the mixer.
// Must hold the speaker lock.
func (d *Decoder) enqueue() {
	resampled := beep.Resample(ResampleQuality, d.format.SampleRate, d.engine.opts.sampleRate, d.streamer)
	tap := NewTap(resampled, d.engine.opts.fftSize)
	d.tap.Store(tap)
	d.volume = &effects.Volume{Streamer: tap, Base: 2}
	d.applyVolume()
	d.ctrl = &beep.Ctrl{Streamer: d.volume, Paused: true}
	d.engine.mixer.Add(beep.Seq(d.ctrl, beep.Callback(d.finished)))
	d.queued = true
}

// finished runs on the speaker goroutine with the speaker lock held.
func (d *Decoder) finished() {
	d.queued = false
	d.playing.Store(false)
	if d.disposed.Load() {
		return
	}
	log.Debug().Str("path", d.path).Msg("Reached end of track")
	d.post(playback.EventEndOfMedia)
}

func (d *Decoder) Pause() {
	speaker.Lock()
	if d.ctrl != nil {
		d.ctrl.Paused = true
	}
	speaker.Unlock()
	d.playing.Store(false)
	d.post(playback.EventPaused)
}

// Stop pauses and rewinds to the start.
func (d *Decoder) Stop() {
	speaker.Lock()
	if d.ctrl != nil {
		d.ctrl.Paused = true
	}
	var err error
	if !d.disposed.Load() {
		err = d.streamer.Seek(0)
	}
	speaker.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("path", d.path).Msg("Failed to rewind")
	}
	d.playing.Store(false)
	d.post(playback.EventStopped)
}

// Seek moves to position, clamped to the stream.
func (d *Decoder) Seek(position time.Duration) error {
	speaker.Lock()
	defer speaker.Unlock()
	if d.disposed.Load() {
		return nil
	}
	n := lo.Clamp(d.format.SampleRate.N(position), 0, d.streamer.Len())
	return d.streamer.Seek(n)
}

// SetVolume takes a linear volume in [0, 1].
func (d *Decoder) SetVolume(v float64) {
	speaker.Lock()
	d.level = lo.Clamp(v, 0, 1)
	d.applyVolume()
	speaker.Unlock()
}

func (d *Decoder) applyVolume() {
	if d.volume == nil {
		return
	}
	d.volume.Volume = gain(d.level)
	d.volume.Silent = d.level == 0
}

// gain maps a linear volume onto the exponent effects.Volume expects.
func gain(level float64) float64 {
	if level <= 0 {
		return minVolume
	}
	if level >= 1 {
		return 0
	}
	return (1 - math.Pow(level, volumeCurve)) * minVolume
}

// Position reports how far into the track playback is. A disposed decoder
// reports zero.
func (d *Decoder) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if d.disposed.Load() {
		return 0
	}
	return d.format.SampleRate.D(d.streamer.Position())
}

// Dispose detaches the decoder from the mixer and closes the stream. The
// stream is closed under the speaker lock, so the analysis loop never touches
// a closed stream.
func (d *Decoder) Dispose() error {
	if !d.disposed.CompareAndSwap(false, true) {
		return nil
	}
	d.stopOnce.Do(func() { close(d.done) })
	d.box.close()
	d.playing.Store(false)

	speaker.Lock()
	defer speaker.Unlock()
	if d.ctrl != nil {
		d.ctrl.Streamer = nil
	}
	return d.streamer.Close()
}

func (d *Decoder) post(kind playback.EventKind) {
	d.box.post(playback.Event{Decoder: d.id, Kind: kind})
}

// analyse publishes a spectrum frame every spectrum.Interval while playing
// and reports the stream stalling on a decode error.
func (d *Decoder) analyse() {
	ticker := time.NewTicker(spectrum.Interval)
	defer ticker.Stop()
	stalled := false
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
		}
		if !d.playing.Load() {
			continue
		}
		speaker.Lock()
		if d.disposed.Load() {
			speaker.Unlock()
			return
		}
		err := d.streamer.Err()
		at := d.format.SampleRate.D(d.streamer.Position())
		speaker.Unlock()
		if err != nil && !stalled {
			stalled = true
			log.Warn().Err(err).Str("path", d.path).Msg("Decoder error")
			d.box.post(playback.Event{Decoder: d.id, Kind: playback.EventStalled, Err: err})
		}
		tap := d.tap.Load()
		if tap == nil {
			continue
		}
		frame := d.analyzer.Frame(tap.Samples(d.engine.opts.fftSize), at)
		d.box.post(playback.Event{Decoder: d.id, Kind: playback.EventSpectrum, Frame: frame})
	}
}
