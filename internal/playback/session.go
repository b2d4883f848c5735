// Package playback drives one track at a time through its lifecycle and
// sequences track changes.
package playback

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const defaultEventBuffer = 64

type sessionOptions struct {
	volume float64
	repeat bool
	buffer int
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

// WithVolume sets the initial volume, clamped to [0, 1].
func WithVolume(v float64) SessionOption {
	return func(o *sessionOptions) { o.volume = lo.Clamp(v, 0, 1) }
}

// WithRepeat sets the initial repeat flag.
func WithRepeat(repeat bool) SessionOption {
	return func(o *sessionOptions) { o.repeat = repeat }
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(n int) SessionOption {
	return func(o *sessionOptions) {
		if n > 0 {
			o.buffer = n
		}
	}
}

// Session owns the live decoder and the state of the current track.
//
// A Session is not safe for concurrent use. Commands and Handle must be called
// from the same goroutine, which also drains Events.
type Session struct {
	engine  Engine
	nav     Navigator
	events  chan Event
	decoder Decoder
	state   State
	atEnd   bool
}

// NewSession returns an idle session with no track loaded. nav may be nil, in
// which case playback stops at the end of each track.
func NewSession(engine Engine, nav Navigator, opts ...SessionOption) *Session {
	o := sessionOptions{volume: 1, buffer: defaultEventBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{
		engine: engine,
		nav:    nav,
		events: make(chan Event, o.buffer),
		state:  State{Status: StatusIdle, Volume: o.volume, Repeat: o.repeat},
	}
}

// Events returns the channel decoder events arrive on. Every received event
// must be passed to Handle.
func (s *Session) Events() <-chan Event {
	return s.events
}

// SetNavigator replaces the navigator, typically after a rescan.
func (s *Session) SetNavigator(nav Navigator) {
	s.nav = nav
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	st := s.state
	if s.decoder != nil {
		st.Position = s.decoder.Position()
		if st.DurationKnown && st.Position > st.Duration {
			st.Position = st.Duration
		}
	}
	return st
}

// Open loads track without starting it. A track that cannot be opened is
// replaced by the placeholder so the session always ends up with a decoder.
func (s *Session) Open(track string) error {
	s.release()

	d, err := s.engine.Open(track, s.events)
	placeholder := false
	if err != nil {
		log.Warn().Err(err).Str("track", track).Msg("Falling back to placeholder track")
		d, err = s.engine.Placeholder(s.events)
		if err != nil {
			s.state = s.fresh(StatusStopped, track)
			return fmt.Errorf("%w: %w: %w", ErrResourceExhausted, errPlaceholderMissing, err)
		}
		placeholder = true
	}

	s.decoder = d
	s.state = s.fresh(StatusIdle, track)
	s.state.Placeholder = placeholder
	d.SetVolume(s.state.Volume)
	return nil
}

// ChangeTrack releases the current decoder, opens path and starts playing it
// at the volume the previous track had.
func (s *Session) ChangeTrack(path string) error {
	s.release()

	d, err := s.engine.Open(path, s.events)
	if err != nil {
		s.state = s.fresh(StatusStopped, path)
		return fmt.Errorf("open %s: %w: %w", path, ErrResourceExhausted, err)
	}

	s.decoder = d
	s.state = s.fresh(StatusIdle, path)
	d.SetVolume(s.state.Volume)
	d.Play()
	log.Debug().Str("track", path).Str("decoder", d.ID()).Msg("Track changed")
	return nil
}

// Play starts or resumes playback. A track that ended starts over.
func (s *Session) Play() error {
	if s.decoder == nil {
		return ErrInvalidState
	}
	switch s.state.Status {
	case StatusReady, StatusPaused, StatusStopped, StatusEndOfMedia:
	default:
		return fmt.Errorf("play while %s: %w", s.state.Status, ErrInvalidState)
	}
	if s.atEnd {
		if err := s.decoder.Seek(0); err != nil {
			return fmt.Errorf("rewind: %w", err)
		}
		s.atEnd = false
	}
	s.decoder.Play()
	return nil
}

// Pause pauses a playing track.
func (s *Session) Pause() error {
	if s.decoder == nil || !s.state.Status.IsActive() {
		return fmt.Errorf("pause while %s: %w", s.state.Status, ErrInvalidState)
	}
	s.decoder.Pause()
	return nil
}

// TogglePlay pauses an active track and plays anything else.
func (s *Session) TogglePlay() error {
	if s.state.Status.IsActive() {
		return s.Pause()
	}
	return s.Play()
}

// Stop halts playback and rewinds to the start.
func (s *Session) Stop() error {
	if s.decoder == nil {
		return ErrInvalidState
	}
	switch s.state.Status {
	case StatusIdle, StatusStopped:
		return nil
	}
	s.decoder.Stop()
	s.atEnd = false
	return nil
}

// Seek moves to position, clamped to the track. The duration must be known.
func (s *Session) Seek(position time.Duration) error {
	if s.decoder == nil || !s.state.DurationKnown {
		return fmt.Errorf("seek before ready: %w", ErrInvalidState)
	}
	position = lo.Clamp(position, 0, s.state.Duration)
	if err := s.decoder.Seek(position); err != nil {
		return fmt.Errorf("seek to %s: %w", position, err)
	}
	s.atEnd = false
	return nil
}

// SeekBy moves relative to the current position.
func (s *Session) SeekBy(delta time.Duration) error {
	if s.decoder == nil {
		return ErrInvalidState
	}
	return s.Seek(s.decoder.Position() + delta)
}

// SetVolume clamps v to [0, 1], applies it and returns the applied value. The
// volume carries over to later tracks.
func (s *Session) SetVolume(v float64) float64 {
	v = lo.Clamp(v, 0, 1)
	s.state.Volume = v
	if s.decoder != nil {
		s.decoder.SetVolume(v)
	}
	return v
}

// SetRepeat toggles restarting the current track when it ends.
func (s *Session) SetRepeat(repeat bool) {
	s.state.Repeat = repeat
}

// Next changes to the track after the current one.
func (s *Session) Next() error {
	return s.step(Navigator.Next)
}

// Previous changes to the track before the current one.
func (s *Session) Previous() error {
	return s.step(Navigator.Previous)
}

func (s *Session) step(pick func(Navigator, string) (string, error)) error {
	if s.nav == nil {
		return ErrNoNavigator
	}
	target, err := pick(s.nav, s.state.Track)
	if err != nil {
		return err
	}
	return s.ChangeTrack(target)
}

// Handle applies one decoder event. Events of released decoders are dropped
// with ErrStaleEvent.
func (s *Session) Handle(ev Event) error {
	if s.decoder == nil || ev.Decoder != s.decoder.ID() {
		return ErrStaleEvent
	}

	switch ev.Kind {
	case EventReady:
		s.state.Duration = ev.Duration
		s.state.DurationKnown = true
		if s.state.Status == StatusIdle {
			s.state.Status = StatusReady
		}
	case EventPlaying:
		s.state.Status = StatusPlaying
	case EventPaused:
		s.state.Status = StatusPaused
	case EventStopped:
		s.state.Status = StatusStopped
	case EventStalled:
		log.Warn().Err(ev.Err).Str("track", s.state.Track).Msg("Playback stalled")
		s.state.Status = StatusStalled
	case EventEndOfMedia:
		return s.endOfMedia()
	case EventSpectrum:
	}
	return nil
}

func (s *Session) endOfMedia() error {
	s.state.Status = StatusEndOfMedia

	if s.state.Repeat && !s.state.Placeholder {
		if err := s.decoder.Seek(0); err != nil {
			return fmt.Errorf("repeat: %w", err)
		}
		s.decoder.Play()
		return nil
	}

	s.atEnd = true
	if s.nav == nil {
		s.state.Status = StatusStopped
		return nil
	}
	next, err := s.nav.Next(s.state.Track)
	if err != nil {
		s.state.Status = StatusStopped
		return fmt.Errorf("advance from %s: %w", s.state.Track, err)
	}
	return s.ChangeTrack(next)
}

// Close releases the current decoder.
func (s *Session) Close() error {
	s.atEnd = false
	if s.decoder == nil {
		return nil
	}
	err := s.decoder.Dispose()
	s.decoder = nil
	return err
}

// release disposes the current decoder. The end-of-track mark belongs to it
// and goes with it.
func (s *Session) release() {
	s.atEnd = false
	if s.decoder == nil {
		return
	}
	id := s.decoder.ID()
	if err := s.decoder.Dispose(); err != nil {
		log.Warn().Err(err).Str("decoder", id).Msg("Failed to release decoder")
	}
	s.decoder = nil
}

func (s *Session) fresh(status Status, track string) State {
	return State{
		Status: status,
		Track:  track,
		Volume: s.state.Volume,
		Repeat: s.state.Repeat,
	}
}
