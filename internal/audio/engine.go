// Package audio plays local files through the system speaker with gopxl/beep.
package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"arbor/internal/library"
	"arbor/internal/playback"
	"arbor/internal/spectrum"
)

const (
	DefaultSampleRate = beep.SampleRate(44100)
	SpeakerBuffer     = time.Second / 10
	ResampleQuality   = 4
	FFTSize           = 2048
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

type engineOptions struct {
	sampleRate beep.SampleRate
	speaker    bool
	fftSize    int
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithSampleRate sets the output sample rate.
func WithSampleRate(sr beep.SampleRate) Option {
	return func(o *engineOptions) { o.sampleRate = sr }
}

// WithoutSpeaker keeps the mixer detached from the sound card. The caller
// pulls audio from Mixer instead.
func WithoutSpeaker() Option {
	return func(o *engineOptions) { o.speaker = false }
}

// Engine decodes files into decoders that all play through one mixer.
type Engine struct {
	opts    engineOptions
	mixer   *beep.Mixer
	once    sync.Once
	running bool
	initErr error
}

func NewEngine(opts ...Option) *Engine {
	o := engineOptions{sampleRate: DefaultSampleRate, speaker: true, fftSize: FFTSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Engine{opts: o, mixer: &beep.Mixer{}}
}

// Mixer returns the streamer every decoder is added to.
func (e *Engine) Mixer() beep.Streamer {
	return e.mixer
}

func (e *Engine) start() error {
	e.once.Do(func() {
		if !e.opts.speaker {
			return
		}
		sr := e.opts.sampleRate
		if err := speaker.Init(sr, sr.N(SpeakerBuffer)); err != nil {
			e.initErr = fmt.Errorf("init speaker: %w", err)
			return
		}
		speaker.Play(e.mixer)
		e.running = true
		log.Debug().Int("sampleRate", int(sr)).Msg("Speaker initialized")
	})
	return e.initErr
}

// Open decodes path. The returned decoder is paused at the start.
func (e *Engine) Open(path string, events chan<- playback.Event) (playback.Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !lo.Contains(library.DefaultExtensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", playback.ErrNotFound, err)
		}
		return nil, err
	}

	streamer, format, err := decode(ext, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := e.start(); err != nil {
		streamer.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Int("sampleRate", int(format.SampleRate)).Int("channels", format.NumChannels).Msg("Decoded track")
	return newDecoder(e, path, streamer, format, events), nil
}

// Placeholder returns a decoder for an empty track.
func (e *Engine) Placeholder(events chan<- playback.Event) (playback.Decoder, error) {
	if err := e.start(); err != nil {
		return nil, err
	}
	format := beep.Format{SampleRate: e.opts.sampleRate, NumChannels: 2, Precision: 2}
	empty := beep.NewBuffer(format).Streamer(0, 0)
	return newDecoder(e, "", nopCloser{empty}, format, events), nil
}

// Close stops all audio and releases the speaker.
func (e *Engine) Close() {
	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	if e.running {
		speaker.Close()
	}
}

func decode(ext string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

type nopCloser struct {
	beep.StreamSeeker
}

func (nopCloser) Close() error { return nil }
