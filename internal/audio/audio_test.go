package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"arbor/internal/playback"
	"arbor/internal/spectrum"
)

func writeTone(t *testing.T, path string, samples int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := gowav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 44100},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/44100))
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

// pump pulls audio out of the mixer the way the speaker would.
func pump(e *Engine, times int) {
	buf := make([][2]float64, 2048)
	for range times {
		speaker.Lock()
		e.Mixer().Stream(buf)
		speaker.Unlock()
	}
}

// await returns the next event of kind, skipping spectrum frames.
func await(t *testing.T, events <-chan playback.Event, kind playback.EventKind) playback.Event {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Kind == kind {
				return ev
			}
			if ev.Kind != playback.EventSpectrum {
				t.Fatalf("got %s while waiting for %s", ev.Kind, kind)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func TestTap_KeepsLatestSamples(t *testing.T) {
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 0}
		}
		return len(samples), true
	})
	tap := NewTap(src, 4)

	tap.Stream(make([][2]float64, 6))
	got := tap.Samples(8)

	if len(got) != 4 {
		t.Fatalf("expected ring size 4, got %d", len(got))
	}
	for _, v := range got {
		if v != 0.5 {
			t.Errorf("expected mono mix 0.5, got %v", v)
		}
	}
}

func TestMailbox_CoalescesSpectrum(t *testing.T) {
	sink := make(chan playback.Event)
	m := &mailbox{sink: sink, wake: make(chan struct{}, 1), done: make(chan struct{})}

	m.post(playback.Event{Kind: playback.EventPlaying})
	m.post(playback.Event{Kind: playback.EventSpectrum, Frame: spectrum.Frame{At: 1}})
	m.post(playback.Event{Kind: playback.EventSpectrum, Frame: spectrum.Frame{At: 2}})
	m.post(playback.Event{Kind: playback.EventPaused})
	go m.run()
	defer m.close()

	want := []playback.EventKind{playback.EventPlaying, playback.EventSpectrum, playback.EventPaused}
	for i, kind := range want {
		ev := <-sink
		if ev.Kind != kind {
			t.Fatalf("event %d = %s, want %s", i, ev.Kind, kind)
		}
		if kind == playback.EventSpectrum && ev.Frame.At != 2 {
			t.Errorf("expected newest frame, got %v", ev.Frame.At)
		}
	}
}

func TestEngine_OpenErrors(t *testing.T) {
	e := NewEngine(WithoutSpeaker())
	events := make(chan playback.Event, 8)
	dir := t.TempDir()

	if _, err := e.Open(filepath.Join(dir, "cover.jpg"), events); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("jpg: err = %v", err)
	}
	if _, err := e.Open(filepath.Join(dir, "gone.mp3"), events); !errors.Is(err, playback.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}

	broken := filepath.Join(dir, "broken.wav")
	if err := os.WriteFile(broken, []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Open(broken, events); err == nil {
		t.Error("expected decode error")
	}
}

func TestEngine_PlaysToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTone(t, path, 4410)

	e := NewEngine(WithoutSpeaker())
	events := make(chan playback.Event, 16)
	d, err := e.Open(path, events)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Dispose()

	ready := await(t, events, playback.EventReady)
	if ready.Duration != 100*time.Millisecond {
		t.Errorf("duration = %v, want 100ms", ready.Duration)
	}
	if ready.Decoder != d.ID() {
		t.Error("event carries the wrong decoder id")
	}

	d.Play()
	await(t, events, playback.EventPlaying)
	pump(e, 8)
	await(t, events, playback.EventEndOfMedia)

	// Rewinding and playing again queues the track once more.
	if err := d.Seek(0); err != nil {
		t.Fatal(err)
	}
	d.Play()
	await(t, events, playback.EventPlaying)
	pump(e, 8)
	await(t, events, playback.EventEndOfMedia)
}

func TestEngine_ResamplesToOutputRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTone(t, path, 44100)

	e := NewEngine(WithoutSpeaker(), WithSampleRate(22050))
	events := make(chan playback.Event, 16)
	d, err := e.Open(path, events)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Dispose()

	if ready := await(t, events, playback.EventReady); ready.Duration != time.Second {
		t.Errorf("duration = %v, want the file's own 1s", ready.Duration)
	}

	// One second at 22050 Hz fits in 12 buffers; at 44100 Hz it would not.
	d.Play()
	await(t, events, playback.EventPlaying)
	pump(e, 12)
	await(t, events, playback.EventEndOfMedia)
}

func TestEngine_DisposeSilencesDecoder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTone(t, path, 44100)

	e := NewEngine(WithoutSpeaker())
	events := make(chan playback.Event, 16)
	d, err := e.Open(path, events)
	if err != nil {
		t.Fatal(err)
	}
	await(t, events, playback.EventReady)
	d.Play()
	await(t, events, playback.EventPlaying)

	if err := d.Dispose(); err != nil {
		t.Fatal(err)
	}
	pump(e, 2)

	select {
	case ev := <-events:
		if ev.Kind != playback.EventSpectrum {
			t.Errorf("unexpected %s after dispose", ev.Kind)
		}
	case <-time.After(100 * time.Millisecond):
	}
	if err := d.Dispose(); err != nil {
		t.Errorf("second dispose: %v", err)
	}
}

func TestEngine_DisposeWhileAnalysing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTone(t, path, 4*44100)

	e := NewEngine(WithoutSpeaker())
	events := make(chan playback.Event, 64)
	d, err := e.Open(path, events)
	if err != nil {
		t.Fatal(err)
	}
	await(t, events, playback.EventReady)
	d.Play()
	await(t, events, playback.EventPlaying)

	// keep the mixer and the analysis loop busy while the decoder goes away
	stop := make(chan struct{})
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		for {
			select {
			case <-stop:
				return
			default:
				pump(e, 1)
			}
		}
	}()
	await(t, events, playback.EventSpectrum)

	if err := d.Dispose(); err != nil {
		t.Fatal(err)
	}
	close(stop)
	<-pumped

	if p := d.Position(); p != 0 {
		t.Errorf("position after dispose = %s, want 0", p)
	}
	if err := d.Seek(time.Second); err != nil {
		t.Errorf("seek after dispose: %v", err)
	}
	d.Stop()
}

func TestEngine_Placeholder(t *testing.T) {
	e := NewEngine(WithoutSpeaker())
	events := make(chan playback.Event, 4)
	d, err := e.Placeholder(events)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Dispose()

	ready := await(t, events, playback.EventReady)
	if ready.Duration != 0 {
		t.Errorf("placeholder duration = %v", ready.Duration)
	}
}

func TestGain(t *testing.T) {
	if gain(0) != minVolume || gain(1) != 0 {
		t.Error("unexpected gain at the ends")
	}
	prev := gain(0)
	for v := 0.1; v <= 1; v += 0.1 {
		g := gain(v)
		if g < prev {
			t.Fatalf("gain not monotonic at %v", v)
		}
		prev = g
	}
}
