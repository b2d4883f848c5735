package playback

import (
	"time"

	"arbor/internal/spectrum"
)

// EventKind tells what a decoder is reporting.
type EventKind int

const (
	EventReady EventKind = iota
	EventPlaying
	EventPaused
	EventStopped
	EventStalled
	EventEndOfMedia
	EventSpectrum
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventStopped:
		return "stopped"
	case EventStalled:
		return "stalled"
	case EventEndOfMedia:
		return "end-of-media"
	case EventSpectrum:
		return "spectrum"
	default:
		return "unknown"
	}
}

// Event is a message from a decoder instance. Events are handled one at a
// time, in arrival order, on the goroutine that owns the Session.
type Event struct {
	Decoder  string // ID of the emitting decoder
	Kind     EventKind
	Duration time.Duration  // EventReady
	Frame    spectrum.Frame // EventSpectrum
	Err      error          // EventStalled
}
