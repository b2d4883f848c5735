package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"arbor/internal/config"
	"arbor/internal/library"
	"arbor/internal/navigation"
	"arbor/internal/playback"
	"arbor/internal/spectrum"
)

const (
	narrowWidth       = 80
	doubleClickWindow = 400 * time.Millisecond
	seekStep          = 5 * time.Second
	volumeStep        = 0.05
	watchDebounce     = 500 * time.Millisecond
	probeLimit        = 4
	nowPlayingHeight  = 7
)

const (
	viewLibrary  = "library"
	viewFolder   = "folder"
	viewSettings = "settings"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/20, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type playbackMsg playback.Event

// waitForEvent hands the next decoder event to Update, which keeps every
// session call on the UI goroutine.
func waitForEvent(events <-chan playback.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return playbackMsg(ev)
	}
}

type scanDoneMsg struct {
	root string
	tree *library.Tree
	err  error
}

func scanCmd(scanner *library.Scanner, root string) tea.Cmd {
	return func() tea.Msg {
		tree, err := scanner.Scan(context.Background(), root)
		return scanDoneMsg{root: root, tree: tree, err: err}
	}
}

type libraryChangedMsg struct {
	changes <-chan struct{}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return libraryChangedMsg{changes: changes}
	}
}

type trackInfoMsg library.TrackInfo

func probeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return trackInfoMsg(library.Probe(path))
	}
}

type probedMsg map[string]library.TrackInfo

func probeAllCmd(paths []string) tea.Cmd {
	return func() tea.Msg {
		infos, err := library.ProbeAll(context.Background(), paths, probeLimit)
		if err != nil {
			log.Debug().Err(err).Int("tracks", len(paths)).Msg("Probe interrupted")
		}
		return probedMsg(infos)
	}
}

// click remembers the last tree row clicked, for double clicks.
type click struct {
	id library.NodeID
	at time.Time
}

func (c click) isDouble(id library.NodeID, at time.Time) bool {
	return c.id == id && !c.at.IsZero() && at.Sub(c.at) <= doubleClickWindow
}

type model struct {
	cfg     config.Config
	session *playback.Session
	scanner *library.Scanner
	zones   *zone.Manager
	now     func() time.Time

	currentView string
	width       int
	height      int

	browser  *TreeBrowser
	folder   *FolderBrowser
	settings *SettingsBrowser
	visual   *spectrumView
	spinner  spinner.Model
	scanning bool

	themes map[string]Theme
	theme  Theme
	styles ThemeStyles

	info  library.TrackInfo
	infos map[string]library.TrackInfo

	changes     <-chan struct{}
	stopWatch   context.CancelFunc
	lastClick   click
	lastErr     error
	statusFlash string
}

func newModel(cfg config.Config, session *playback.Session, scanner *library.Scanner, themes map[string]Theme) model {
	theme := pickTheme(themes, cfg.Theme)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Primary))

	return model{
		cfg:         cfg,
		session:     session,
		scanner:     scanner,
		zones:       zone.New(),
		now:         time.Now,
		currentView: viewLibrary,
		width:       narrowWidth,
		height:      24,
		browser:     NewTreeBrowser(library.Empty(cfg.LibraryRoot)),
		visual:      newSpectrumView(narrowWidth/2, 10, theme.Muted),
		spinner:     s,
		scanning:    true,
		themes:      themes,
		theme:       theme,
		styles:      newThemeStyles(theme),
		infos:       map[string]library.TrackInfo{},
	}
}

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(),
		m.spinner.Tick,
		waitForEvent(m.session.Events()),
		scanCmd(m.scanner, m.cfg.LibraryRoot),
	}
	if st := m.session.State(); st.Track != "" && !st.Placeholder {
		cmds = append(cmds, probeCmd(st.Track))
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case playbackMsg:
		return m.handlePlayback(playback.Event(msg))

	case scanDoneMsg:
		return m.handleScan(msg)

	case libraryChangedMsg:
		if msg.changes != m.changes {
			return m, nil
		}
		log.Debug().Str("root", m.cfg.LibraryRoot).Msg("Library changed, rescanning")
		m.scanning = true
		return m, tea.Batch(scanCmd(m.scanner, m.cfg.LibraryRoot), waitForChange(m.changes))

	case trackInfoMsg:
		if msg.Path == m.session.State().Track {
			m.info = library.TrackInfo(msg)
		}
		return m, nil

	case probedMsg:
		for path, info := range msg {
			m.infos[path] = info
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.shutdown()
			return m, tea.Quit
		}
		switch m.currentView {
		case viewFolder:
			return m.updateFolder(msg)
		case viewSettings:
			return m.updateSettings(msg)
		default:
			return m.updateLibrary(msg)
		}
	}
	return m, nil
}

func (m model) handlePlayback(ev playback.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.session.Events())}

	err := m.session.Handle(ev)
	switch {
	case errors.Is(err, playback.ErrStaleEvent):
		log.Debug().Str("decoder", ev.Decoder).Stringer("kind", ev.Kind).Msg("Dropped stale event")
		return m, tea.Batch(cmds...)
	case err != nil:
		m.lastErr = err
	}

	if ev.Kind == playback.EventSpectrum {
		m.visual.Draw(ev.Frame)
	} else if !m.session.State().Status.IsActive() {
		m.visual.Draw(spectrum.Silent(spectrum.Bands, spectrum.Threshold))
	}

	cmds = append(cmds, m.syncTrack())
	return m, tea.Batch(cmds...)
}

func (m model) handleScan(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, library.ErrSuperseded) || msg.root != m.cfg.LibraryRoot {
		return m, nil
	}
	m.scanning = false

	tree := msg.tree
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("root", msg.root).Msg("Library scan failed")
		m.lastErr = msg.err
		tree = library.Empty(msg.root)
	}
	m.browser.SetTree(tree)
	m.session.SetNavigator(navigation.New(tree))
	m.reveal(m.session.State().Track)

	var cmds []tea.Cmd
	if msg.err == nil && m.changes == nil {
		cmds = append(cmds, m.watch(msg.root))
	}
	cmds = append(cmds, m.probeVisible())
	return m, tea.Batch(cmds...)
}

// watch starts reporting changes below root, replacing the previous watcher.
func (m *model) watch(root string) tea.Cmd {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
		m.changes = nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	changes, err := library.Watch(ctx, root, watchDebounce)
	if err != nil {
		cancel()
		log.Warn().Err(err).Str("root", root).Msg("Library will not be watched")
		return nil
	}
	m.stopWatch = cancel
	m.changes = changes
	return waitForChange(changes)
}

func (m model) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.session.State()
	m.statusFlash = ""

	switch msg.String() {
	case "q":
		m.shutdown()
		return m, tea.Quit
	case "up", "k":
		m.browser.MoveUp()
	case "down", "j":
		m.browser.MoveDown()
	case "g", "home":
		m.browser.Home()
	case "G", "end":
		m.browser.End()
	case "backspace", "h":
		m.browser.Collapse()
	case "l":
		m.browser.Expand()
		return m, m.probeVisible()
	case "enter":
		id := m.browser.Selected()
		if m.browser.Tree().IsLeaf(id) {
			return m, m.play(id)
		}
		m.browser.Toggle(id)
		return m, m.probeVisible()
	case " ":
		m.check(m.session.TogglePlay())
	case "s":
		m.check(m.session.Stop())
	case "left":
		m.check(m.session.SeekBy(-seekStep))
	case "right":
		m.check(m.session.SeekBy(seekStep))
	case "+", "=":
		v := m.session.SetVolume(st.Volume + volumeStep)
		m.statusFlash = fmt.Sprintf("Volume %d%%", int(v*100+0.5))
	case "-":
		v := m.session.SetVolume(st.Volume - volumeStep)
		m.statusFlash = fmt.Sprintf("Volume %d%%", int(v*100+0.5))
	case "r":
		m.session.SetRepeat(!st.Repeat)
	case "n":
		m.check(m.session.Next())
		return m, m.syncTrack()
	case "p":
		m.check(m.session.Previous())
		return m, m.syncTrack()
	case "ctrl+r":
		m.scanning = true
		return m, scanCmd(m.scanner, m.cfg.LibraryRoot)
	case "o":
		fb, err := NewFolderBrowser(m.cfg.LibraryRoot)
		if err != nil {
			log.Debug().Err(err).Msg("Library root not browsable, starting at home")
			fb, err = NewFolderBrowser("")
		}
		if err != nil {
			m.lastErr = err
			return m, nil
		}
		m.folder = fb
		m.currentView = viewFolder
		m.layout()
	case "t":
		m.settings = NewSettingsBrowser(m.themes, m.cfg.Theme)
		m.currentView = viewSettings
	}
	return m, nil
}

func (m model) updateFolder(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.currentView = viewLibrary
	case "up", "k":
		m.folder.MoveUp()
	case "down", "j":
		m.folder.MoveDown()
	case "enter":
		m.check(m.folder.Enter())
	case "backspace":
		m.check(m.folder.GoBack())
	case "c":
		m.currentView = viewLibrary
		return m, m.setLibrary(m.folder.CurrentPath())
	}
	return m, nil
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.currentView = viewLibrary
	case "up", "k":
		m.settings.MoveUp()
	case "down", "j":
		m.settings.MoveDown()
	case "enter":
		m.applyTheme(m.settings.Selected())
		m.currentView = viewLibrary
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.currentView != viewLibrary {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.browser.MoveUp()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.browser.MoveDown()
		return m, nil
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	for _, ctl := range controls {
		if m.zones.Get(ctl.zone).InBounds(msg) {
			return m.activateControl(ctl.zone)
		}
	}
	for _, row := range m.browser.VisibleRows() {
		if m.zones.Get(rowZone(row.id)).InBounds(msg) {
			return m.clickRow(row.id, m.now())
		}
	}
	return m, nil
}

// clickRow selects a row; a second click within doubleClickWindow plays a
// leaf, a single click on a directory folds it.
func (m model) clickRow(id library.NodeID, at time.Time) (tea.Model, tea.Cmd) {
	double := m.lastClick.isDouble(id, at)
	m.lastClick = click{id: id, at: at}
	m.browser.Select(id)

	tree := m.browser.Tree()
	if !tree.IsLeaf(id) {
		m.browser.Toggle(id)
		return m, m.probeVisible()
	}
	if double {
		m.lastClick = click{}
		return m, m.play(id)
	}
	return m, nil
}

type control struct {
	zone  string
	label string
}

var controls = []control{
	{zone: "ctl-prev", label: "⏮ Prev"},
	{zone: "ctl-play", label: "⏯ Play"},
	{zone: "ctl-next", label: "⏭ Next"},
	{zone: "ctl-stop", label: "⏹ Stop"},
}

func (m model) activateControl(id string) (tea.Model, tea.Cmd) {
	switch id {
	case "ctl-prev":
		m.check(m.session.Previous())
	case "ctl-play":
		m.check(m.session.TogglePlay())
	case "ctl-next":
		m.check(m.session.Next())
	case "ctl-stop":
		m.check(m.session.Stop())
	}
	return m, m.syncTrack()
}

func rowZone(id library.NodeID) string {
	return fmt.Sprintf("row-%d", id)
}

func (m *model) play(id library.NodeID) tea.Cmd {
	m.check(m.session.ChangeTrack(m.browser.Tree().Path(id)))
	return m.syncTrack()
}

// check records err for the status line. Commands that do not apply in the
// current state are not worth reporting.
func (m *model) check(err error) {
	if err == nil {
		m.lastErr = nil
		return
	}
	if errors.Is(err, playback.ErrInvalidState) {
		log.Debug().Err(err).Msg("Command ignored")
		return
	}
	log.Warn().Err(err).Msg("Command failed")
	m.lastErr = err
}

// syncTrack follows the session to a new track: selects it in the tree and
// fetches its tags.
func (m *model) syncTrack() tea.Cmd {
	st := m.session.State()
	if st.Track == m.info.Path {
		return nil
	}
	m.info = library.TrackInfo{Path: st.Track}
	if st.Track == "" || st.Placeholder {
		return nil
	}
	m.reveal(st.Track)
	return probeCmd(st.Track)
}

func (m *model) reveal(track string) {
	if track == "" {
		return
	}
	if id, ok := m.browser.Tree().Lookup(track); ok {
		m.browser.Reveal(id)
	}
}

// probeVisible reads durations for visible tracks that have not been probed.
func (m *model) probeVisible() tea.Cmd {
	tree := m.browser.Tree()
	var paths []string
	for _, row := range m.browser.VisibleRows() {
		if !tree.IsLeaf(row.id) {
			continue
		}
		path := tree.Path(row.id)
		if _, ok := m.infos[path]; !ok {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return probeAllCmd(paths)
}

func (m *model) setLibrary(root string) tea.Cmd {
	if root == m.cfg.LibraryRoot {
		return nil
	}
	log.Info().Str("root", root).Msg("Library root changed")
	m.cfg.LibraryRoot = root
	m.scanning = true
	m.browser.SetTree(library.Empty(root))
	m.session.SetNavigator(nil)
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	m.changes = nil
	return scanCmd(m.scanner, root)
}

func (m *model) applyTheme(name string) {
	m.cfg.Theme = name
	m.theme = pickTheme(m.themes, name)
	m.styles = newThemeStyles(m.theme)
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Primary))
	m.visual = newSpectrumView(m.visual.width, m.visual.height, m.theme.Muted)
}

// layout sizes the panes for the current window.
func (m *model) layout() {
	body := max(m.bodyHeight(), 3)
	m.browser.SetViewportHeight(body)
	if m.folder != nil {
		m.folder.SetViewportHeight(body - 1)
	}
	if !m.narrow() {
		m.visual.Resize(m.width-m.treeWidth()-2, body)
	}
}

func (m model) narrow() bool {
	return m.width < narrowWidth
}

func (m model) treeWidth() int {
	if m.narrow() {
		return m.width
	}
	return m.width * 3 / 5
}

func (m model) bodyHeight() int {
	// header, blank, now playing box, status
	return m.height - 1 - 1 - nowPlayingHeight - 1
}

// shutdown stops background work before the program exits.
func (m *model) shutdown() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	m.scanner.Cancel()
}

// settingsToSave is what goes back to the config file: the library root and
// the track being played, plus volume, repeat and theme.
func (m model) settingsToSave() config.Config {
	cfg := m.cfg
	st := m.session.State()
	if !st.Placeholder && st.Track != "" {
		cfg.LastPlayed = st.Track
	}
	cfg.Volume = st.Volume
	cfg.Repeat = st.Repeat
	return cfg
}

func (m model) View() string {
	header := m.renderHeader()

	var body string
	switch m.currentView {
	case viewFolder:
		body = m.renderFolderBrowser()
	case viewSettings:
		body = m.renderSettings()
	default:
		body = m.renderLibrary()
	}

	status := m.renderStatus()
	view := lipgloss.JoinVertical(lipgloss.Left, header, "", body, m.renderNowPlaying(), status)
	return m.zones.Scan(view)
}

func (m model) renderHeader() string {
	text := m.styles.Primary.Render("♪ arbor") + m.styles.Muted.Render("  "+m.cfg.LibraryRoot)
	if m.scanning {
		text += " " + m.spinner.View() + m.styles.Muted.Render(" scanning")
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(text)
}

func (m model) renderLibrary() string {
	height := max(m.bodyHeight(), 3)
	tree := m.renderTree(m.treeWidth(), height)
	if m.narrow() {
		return tree
	}
	visual := lipgloss.NewStyle().PaddingLeft(2).Render(m.visual.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, tree, visual)
}

func (m model) renderTree(width, height int) string {
	tree := m.browser.Tree()
	current := m.session.State().Track
	rows := m.browser.VisibleRows()
	selected := m.browser.VisibleSelectedIndex()

	lines := make([]string, 0, height)
	for i, row := range rows {
		path := ""
		if tree.IsLeaf(row.id) {
			path = tree.Path(row.id)
		}

		suffix := ""
		if info, ok := m.infos[path]; ok && info.Duration > 0 {
			suffix = " " + formatDuration(info.Duration)
		}
		text := m.browser.RowText(row, width-1-lipgloss.Width(suffix))
		gap := max(width-1-lipgloss.Width(text)-lipgloss.Width(suffix), 0)
		line := " " + text + strings.Repeat(" ", gap) + suffix

		var style lipgloss.Style
		switch {
		case i == selected:
			style = m.styles.Selected
		case path != "" && path == current:
			style = m.styles.Highlight
		case tree.IsLeaf(row.id):
			style = m.styles.Foreground
		default:
			style = m.styles.Secondary
		}
		lines = append(lines, m.zones.Mark(rowZone(row.id), style.Render(line)))
	}
	if len(rows) == 1 && !m.scanning {
		lines = append(lines, m.styles.Muted.Render("   no playable tracks"))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func formatDuration(d time.Duration) string {
	h, mm, s := split(d)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mm, s)
	}
	return fmt.Sprintf("%d:%02d", mm, s)
}

func (m model) renderNowPlaying() string {
	st := m.session.State()
	width := max(m.width, 40)
	inner := width - 6

	title := "Nothing playing"
	switch {
	case st.Placeholder:
		title = "Last track unavailable"
	case m.info.Title != "":
		title = m.info.Title
		if m.info.Artist != "" {
			title += " - " + m.info.Artist
		}
		if m.info.Album != "" {
			title += fmt.Sprintf(" (%s)", m.info.Album)
		}
	case st.Track != "":
		title = filepath.Base(st.Track)
	}
	titleLine := m.styles.Foreground.Render("♪ "+truncate(title, inner-2)) +
		m.styles.Muted.Render("  "+st.Status.String())

	var timeText string
	if st.DurationKnown {
		timeText = formatTime(st.Position, st.Duration)
	} else {
		timeText = formatPosition(st.Position)
	}
	barWidth := max(inner-lipgloss.Width(timeText)-1, 1)
	progress := m.renderProgressBar(barWidth, st.Progress()) + " " + m.styles.Muted.Render(timeText)

	buttons := make([]string, 0, len(controls))
	for _, ctl := range controls {
		label := ctl.label
		if ctl.zone == "ctl-play" && st.Status.IsActive() {
			label = "⏸ Pause"
		}
		buttons = append(buttons, m.zones.Mark(ctl.zone, m.styles.Primary.Padding(0, 1).Render(label)))
	}
	repeat := "off"
	if st.Repeat {
		repeat = "on"
	}
	info := m.styles.Muted.Render(fmt.Sprintf("vol %d%%  repeat %s", int(st.Volume*100+0.5), repeat))
	controlsLine := strings.Join(buttons, " ") + "  " + info

	content := strings.Join([]string{titleLine, progress, controlsLine}, "\n")
	return m.styles.Border.Width(width-2).Padding(0, 2).Render(content)
}

func (m model) renderProgressBar(width int, progress float64) string {
	filled := int(lo.Clamp(progress, 0, 1) * float64(width))
	gradient := makeProgressGradient(width, m.theme)

	var sb strings.Builder
	for i := range width {
		if i < filled {
			sb.WriteString(gradient[i].Render("━"))
		} else {
			sb.WriteString(m.styles.Muted.Render("─"))
		}
	}
	return sb.String()
}

func (m model) renderFolderBrowser() string {
	height := max(m.bodyHeight(), 3)
	lines := []string{m.styles.Highlight.Render(" Choose library: ") + m.styles.Muted.Render(truncate(m.folder.CurrentPath(), m.width-18))}

	selected := m.folder.VisibleSelectedIndex()
	for i, entry := range m.folder.VisibleEntries() {
		line := " 📁 " + entry
		if i == selected {
			lines = append(lines, m.styles.Selected.Render(line))
		} else {
			lines = append(lines, m.styles.Foreground.Render(line))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) renderSettings() string {
	height := max(m.bodyHeight(), 3)
	lines := []string{m.styles.Highlight.Render(" Theme")}
	for i, name := range m.settings.ThemeNames() {
		line := "   " + name
		if name == m.cfg.Theme {
			line = " ✓ " + name
		}
		if i == m.settings.SelectedIndex() {
			lines = append(lines, m.styles.Selected.Render(line))
		} else {
			lines = append(lines, m.styles.Foreground.Render(line))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) renderStatus() string {
	style := lipgloss.NewStyle().PaddingLeft(1)
	if m.lastErr != nil {
		return style.Inherit(m.styles.Error).Render(truncate(m.lastErr.Error(), m.width-2))
	}
	if m.statusFlash != "" {
		return style.Inherit(m.styles.Success).Render(m.statusFlash)
	}

	var help string
	switch m.currentView {
	case viewFolder:
		help = "↑/↓ navigate, enter to open, backspace for parent, c to use this folder, esc to cancel"
	case viewSettings:
		help = "↑/↓ navigate, enter to apply theme, esc to cancel"
	default:
		help = "enter play/fold, h/l fold, space pause, ←/→ seek, +/- volume, r repeat, n/p next/prev, s stop, o library, t theme, q quit"
	}
	return style.Inherit(m.styles.Muted).Render(truncate(help, m.width-2))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
