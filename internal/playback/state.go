package playback

import "time"

// Status is the lifecycle state of the current track.
type Status int

const (
	StatusIdle Status = iota
	StatusReady
	StatusPlaying
	StatusPaused
	StatusStalled
	StatusStopped
	StatusEndOfMedia
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusReady:
		return "Ready"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusStalled:
		return "Stalled"
	case StatusStopped:
		return "Stopped"
	case StatusEndOfMedia:
		return "EndOfMedia"
	default:
		return "Unknown"
	}
}

// IsActive returns true while audio is (or is about to be) coming out.
func (s Status) IsActive() bool {
	return s == StatusPlaying || s == StatusStalled
}

// State is a snapshot of the session. A new State is started for every track.
type State struct {
	Status        Status
	Track         string
	Position      time.Duration
	Duration      time.Duration
	DurationKnown bool // false until the decoder reported ready
	Volume        float64
	Repeat        bool
	Placeholder   bool // the requested track was unavailable
}

// Progress returns the position as a fraction of the duration, or 0 while
// the duration is unknown or zero.
func (s State) Progress() float64 {
	if !s.DurationKnown || s.Duration <= 0 {
		return 0
	}
	p := float64(s.Position) / float64(s.Duration)
	if p > 1 {
		p = 1
	}
	return p
}
