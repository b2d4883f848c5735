package audio

import (
	"sync"

	"arbor/internal/playback"
)

// mailbox forwards the events of one decoder to the session in order. post
// never blocks, so it is safe from the speaker goroutine. A queued spectrum
// frame is replaced by a newer one instead of piling up.
type mailbox struct {
	sink  chan<- playback.Event
	mu    sync.Mutex
	queue []playback.Event
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newMailbox(sink chan<- playback.Event) *mailbox {
	m := &mailbox{
		sink: sink,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go m.run()
	return m
}

func (m *mailbox) post(ev playback.Event) {
	m.mu.Lock()
	if n := len(m.queue); ev.Kind == playback.EventSpectrum && n > 0 && m.queue[n-1].Kind == playback.EventSpectrum {
		m.queue[n-1] = ev
	} else {
		m.queue = append(m.queue, ev)
	}
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *mailbox) pop() (playback.Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return playback.Event{}, false
	}
	ev := m.queue[0]
	m.queue = m.queue[1:]
	return ev, true
}

func (m *mailbox) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.wake:
		}
		for {
			ev, ok := m.pop()
			if !ok {
				break
			}
			select {
			case m.sink <- ev:
			case <-m.done:
				return
			}
		}
	}
}

// close drops anything still queued.
func (m *mailbox) close() {
	m.once.Do(func() { close(m.done) })
}
