package main

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"arbor/internal/config"
	"arbor/internal/library"
	"arbor/internal/playback"
)

type stubDecoder struct {
	id     string
	events chan<- playback.Event
}

func (d *stubDecoder) ID() string { return d.id }

func (d *stubDecoder) emit(kind playback.EventKind) {
	d.events <- playback.Event{Decoder: d.id, Kind: kind, Duration: 3 * time.Minute}
}

func (d *stubDecoder) Play() { d.emit(playback.EventPlaying) }
func (d *stubDecoder) Pause() { d.emit(playback.EventPaused) }
func (d *stubDecoder) Stop() { d.emit(playback.EventStopped) }
func (d *stubDecoder) Seek(time.Duration) error { return nil }
func (d *stubDecoder) SetVolume(float64) {}
func (d *stubDecoder) Position() time.Duration { return 0 }
func (d *stubDecoder) Dispose() error { return nil }

type stubEngine struct {
	missing map[string]bool
	opened  int
}

func (e *stubEngine) Open(path string, events chan<- playback.Event) (playback.Decoder, error) {
	if e.missing[path] {
		return nil, fmt.Errorf("open %s: %w", path, playback.ErrNotFound)
	}
	e.opened++
	d := &stubDecoder{id: fmt.Sprintf("d%d", e.opened), events: events}
	d.emit(playback.EventReady)
	return d, nil
}

func (e *stubEngine) Placeholder(events chan<- playback.Event) (playback.Decoder, error) {
	return &stubDecoder{id: "placeholder", events: events}, nil
}

func testModel(t *testing.T, engine *stubEngine) model {
	t.Helper()
	cfg := config.Defaults()
	cfg.LibraryRoot = "/music"
	session := playback.NewSession(engine, nil)
	m := newModel(cfg, session, library.NewScanner(), builtinThemes())
	t.Cleanup(func() { m.shutdown() })
	return m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

// pumpEvents feeds queued decoder events through Update.
func pumpEvents(t *testing.T, m model) model {
	t.Helper()
	for {
		select {
		case ev := <-m.session.Events():
			m = update(t, m, playbackMsg(ev))
		default:
			return m
		}
	}
}

func scanned(t *testing.T, m model) model {
	t.Helper()
	m = update(t, m, scanDoneMsg{root: "/music", tree: browserTree(t)})
	m.shutdown()
	m.stopWatch = nil
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestClick_IsDouble(t *testing.T) {
	at := time.Unix(100, 0)
	c := click{id: 3, at: at}

	tests := []struct {
		name string
		id   library.NodeID
		at   time.Time
		want bool
	}{
		{"same row quickly", 3, at.Add(200 * time.Millisecond), true},
		{"same row at the limit", 3, at.Add(doubleClickWindow), true},
		{"same row too late", 3, at.Add(doubleClickWindow + time.Millisecond), false},
		{"other row", 4, at.Add(100 * time.Millisecond), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.isDouble(tt.id, tt.at); got != tt.want {
				t.Errorf("isDouble = %v, want %v", got, tt.want)
			}
		})
	}
	if (click{}).isDouble(0, at) {
		t.Error("a first click is never a double click")
	}
}

func TestModel_DoubleClickPlaysLeaf(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	id, ok := m.browser.Tree().Lookup("/music/Single.flac")
	if !ok {
		t.Fatal("track not in tree")
	}
	at := time.Unix(100, 0)

	next, _ := m.clickRow(id, at)
	m = next.(model)
	if track := m.session.State().Track; track != "" {
		t.Fatalf("single click played %q", track)
	}
	if m.browser.Selected() != id {
		t.Error("single click should select the row")
	}

	next, _ = m.clickRow(id, at.Add(250*time.Millisecond))
	m = pumpEvents(t, next.(model))
	st := m.session.State()
	if st.Track != "/music/Single.flac" || st.Status != playback.StatusPlaying {
		t.Errorf("state = %+v, want Single.flac playing", st)
	}
}

func TestModel_ClickFoldsDirectory(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	artist, _ := m.browser.Tree().Lookup("/music/Artist")

	before := len(m.browser.rows)
	next, _ := m.clickRow(artist, time.Unix(100, 0))
	m = next.(model)
	if len(m.browser.rows) != before+1 {
		t.Errorf("rows = %d, want %d", len(m.browser.rows), before+1)
	}
}

func TestModel_FoldKeys(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	artist, _ := m.browser.Tree().Lookup("/music/Artist")
	m.browser.Select(artist)

	before := len(m.browser.rows)
	m = update(t, m, key("l"))
	if len(m.browser.rows) != before+1 {
		t.Fatalf("l: rows = %d, want %d", len(m.browser.rows), before+1)
	}
	m = update(t, m, key("l"))
	if len(m.browser.rows) != before+1 {
		t.Errorf("l on an open directory changed rows to %d", len(m.browser.rows))
	}
	m = update(t, m, key("h"))
	if len(m.browser.rows) != before {
		t.Errorf("h: rows = %d, want %d", len(m.browser.rows), before)
	}
}

func TestModel_EnterThenNextWrapsAround(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	id, _ := m.browser.Tree().Lookup("/music/Single.flac")
	m.browser.Reveal(id)

	m = pumpEvents(t, update(t, m, key("enter")))
	if st := m.session.State(); st.Status != playback.StatusPlaying {
		t.Fatalf("status = %v, want Playing", st.Status)
	}

	m = pumpEvents(t, update(t, m, key("n")))
	if track := m.session.State().Track; track != "/music/Artist/Album/01 Opening.mp3" {
		t.Errorf("next = %q", track)
	}
	if got := m.browser.Tree().Path(m.browser.Selected()); got != "/music/Artist/Album/01 Opening.mp3" {
		t.Errorf("tree should follow the playing track, selected %q", got)
	}

	m = pumpEvents(t, update(t, m, key(" ")))
	if st := m.session.State(); st.Status != playback.StatusPaused {
		t.Errorf("space: status = %v, want Paused", st.Status)
	}
}

func TestModel_VolumeAndRepeatKeys(t *testing.T) {
	m := testModel(t, &stubEngine{})
	for range 30 {
		m = update(t, m, key("+"))
	}
	if v := m.session.State().Volume; v != 1 {
		t.Errorf("volume = %v, want clamped to 1", v)
	}
	m = update(t, m, key("-"))
	if v := m.session.State().Volume; v < 0.949 || v > 0.951 {
		t.Errorf("volume = %v, want 0.95", v)
	}
	m = update(t, m, key("r"))
	if !m.session.State().Repeat {
		t.Error("r should enable repeat")
	}
}

func TestModel_ScanResults(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	leaves := len(m.browser.Tree().Leaves())

	m = update(t, m, scanDoneMsg{root: "/music", err: library.ErrSuperseded})
	if len(m.browser.Tree().Leaves()) != leaves {
		t.Error("a superseded scan must not replace the tree")
	}

	m = update(t, m, scanDoneMsg{root: "/elsewhere", tree: library.Empty("/elsewhere")})
	if m.browser.Tree().Base() != "/music" {
		t.Error("a scan of another root must be ignored")
	}

	m = update(t, m, scanDoneMsg{root: "/music", err: library.ErrNotFound})
	if m.lastErr == nil || len(m.browser.Tree().Leaves()) != 0 {
		t.Errorf("failed scan: err %v, %d leaves", m.lastErr, len(m.browser.Tree().Leaves()))
	}
}

func TestModel_StaleEventsIgnored(t *testing.T) {
	m := scanned(t, testModel(t, &stubEngine{}))
	m = update(t, m, playbackMsg(playback.Event{Decoder: "gone", Kind: playback.EventEndOfMedia}))
	if m.lastErr != nil {
		t.Errorf("stale event surfaced an error: %v", m.lastErr)
	}
}

func TestModel_SettingsToSave(t *testing.T) {
	engine := &stubEngine{missing: map[string]bool{"/music/gone.mp3": true}}
	m := testModel(t, engine)
	m.cfg.LastPlayed = "/music/gone.mp3"
	if err := m.session.Open("/music/gone.mp3"); err != nil {
		t.Fatal(err)
	}

	cfg := m.settingsToSave()
	if cfg.LastPlayed != "/music/gone.mp3" || cfg.LibraryRoot != "/music" {
		t.Errorf("placeholder must keep the configured track: %+v", cfg)
	}

	m = scanned(t, m)
	id, _ := m.browser.Tree().Lookup("/music/Single.flac")
	m.play(id)
	m.session.SetVolume(0.5)
	m.applyTheme("forest")

	cfg = m.settingsToSave()
	if cfg.LastPlayed != "/music/Single.flac" || cfg.Volume != 0.5 || cfg.Theme != "forest" {
		t.Errorf("saved %+v", cfg)
	}
}

func TestModel_ViewLayouts(t *testing.T) {
	for _, width := range []int{60, 120} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			m := scanned(t, testModel(t, &stubEngine{}))
			m = update(t, m, tea.WindowSizeMsg{Width: width, Height: 30})

			view := m.View()
			if !strings.Contains(view, "Single.flac") {
				t.Error("tree row missing from view")
			}
			if !strings.Contains(view, "Nothing playing") {
				t.Error("now playing panel missing from view")
			}
			if m.narrow() != (width < narrowWidth) {
				t.Errorf("narrow = %v at width %d", m.narrow(), width)
			}
		})
	}
}

func TestModel_FolderViewChoosesLibrary(t *testing.T) {
	root := t.TempDir()
	m := scanned(t, testModel(t, &stubEngine{}))
	m.cfg.LibraryRoot = root

	m = update(t, m, key("o"))
	if m.currentView != viewFolder {
		t.Fatalf("view = %q", m.currentView)
	}
	if m.folder.CurrentPath() != root {
		t.Errorf("folder browser starts at %q, want %q", m.folder.CurrentPath(), root)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	m = update(t, m, key("c"))
	if m.currentView != viewLibrary || !m.scanning {
		t.Errorf("view %q scanning %v", m.currentView, m.scanning)
	}
	if m.cfg.LibraryRoot == root {
		t.Error("library root should have moved to the parent")
	}
}
