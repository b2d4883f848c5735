package playback

import (
	"errors"
	"time"
)

var (
	ErrInvalidState       = errors.New("command not valid in the current state")
	ErrResourceExhausted  = errors.New("could not create a decoder")
	ErrStaleEvent         = errors.New("event from a released decoder")
	ErrNotFound           = errors.New("track not found")
	ErrNoNavigator        = errors.New("no library to navigate")
	errPlaceholderMissing = errors.New("placeholder track unavailable")
)

// Engine creates decoder instances. Decoders are single-track and cannot be
// reused: a new track needs a new decoder.
type Engine interface {
	// Open prepares path for playback. Lifecycle and spectrum events of the
	// new decoder are delivered to events. Errors wrap ErrNotFound when the
	// file does not exist.
	Open(path string, events chan<- Event) (Decoder, error)
	// Placeholder returns a decoder for the bundled zero-length track.
	Placeholder(events chan<- Event) (Decoder, error)
}

// Decoder is one live playback instance. Commands return immediately; their
// effect is reported through events.
type Decoder interface {
	ID() string
	Play()
	Pause()
	Stop()
	Seek(position time.Duration) error
	SetVolume(v float64)
	Position() time.Duration
	// Dispose stops playback and releases every resource of the decoder. No
	// events are delivered for it afterwards.
	Dispose() error
}

// Navigator picks neighbouring tracks by path.
type Navigator interface {
	Next(track string) (string, error)
	Previous(track string) (string, error)
}
