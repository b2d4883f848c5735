package main

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FolderBrowser picks a new library directory. It lists only directories.
type FolderBrowser struct {
	currentPath    string
	entries        []string
	selected       int
	viewportTop    int
	viewportHeight int
}

func NewFolderBrowser(start string) (*FolderBrowser, error) {
	if start == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		start = home
	}
	if abs, err := filepath.Abs(start); err == nil {
		start = abs
	}

	fb := &FolderBrowser{
		currentPath:    start,
		viewportHeight: 20, // Default height, will be updated by main app
	}
	err := fb.refreshEntries()
	return fb, err
}

func (fb *FolderBrowser) refreshEntries() error {
	entries, err := os.ReadDir(fb.currentPath)
	if err != nil {
		return err
	}

	fb.entries = fb.entries[:0]
	if parent := filepath.Dir(fb.currentPath); parent != fb.currentPath {
		fb.entries = append(fb.entries, "..")
	}

	var dirs []string
	for _, entry := range entries {
		// Skip hidden directories
		if strings.HasPrefix(entry.Name(), ".") || !entry.IsDir() {
			continue
		}
		dirs = append(dirs, entry.Name())
	}
	sort.Strings(dirs)
	fb.entries = append(fb.entries, dirs...)

	if fb.selected >= len(fb.entries) {
		fb.selected = 0
	}
	fb.viewportTop = 0
	return nil
}

func (fb *FolderBrowser) CurrentPath() string {
	return fb.currentPath
}

func (fb *FolderBrowser) Entries() []string {
	return fb.entries
}

// SelectedPath returns the directory under the cursor.
func (fb *FolderBrowser) SelectedPath() string {
	if fb.selected < 0 || fb.selected >= len(fb.entries) {
		return ""
	}
	entry := fb.entries[fb.selected]
	if entry == ".." {
		return filepath.Dir(fb.currentPath)
	}
	return filepath.Join(fb.currentPath, entry)
}

// Enter opens the directory under the cursor.
func (fb *FolderBrowser) Enter() error {
	path := fb.SelectedPath()
	if path == "" {
		return nil
	}
	return fb.open(path)
}

// GoBack opens the parent directory.
func (fb *FolderBrowser) GoBack() error {
	parent := filepath.Dir(fb.currentPath)
	if parent == fb.currentPath {
		return nil
	}
	return fb.open(parent)
}

func (fb *FolderBrowser) open(path string) error {
	previous := fb.currentPath
	fb.currentPath = path
	fb.selected = 0
	if err := fb.refreshEntries(); err != nil {
		fb.currentPath = previous
		fb.refreshEntries()
		return err
	}
	return nil
}

func (fb *FolderBrowser) MoveUp() {
	if fb.selected > 0 {
		fb.selected--
		fb.adjustViewport()
	}
}

func (fb *FolderBrowser) MoveDown() {
	if fb.selected < len(fb.entries)-1 {
		fb.selected++
		fb.adjustViewport()
	}
}

func (fb *FolderBrowser) SetViewportHeight(height int) {
	fb.viewportHeight = max(height, 1)
	fb.adjustViewport()
}

func (fb *FolderBrowser) adjustViewport() {
	if fb.selected < fb.viewportTop {
		fb.viewportTop = fb.selected
	} else if fb.selected >= fb.viewportTop+fb.viewportHeight {
		fb.viewportTop = fb.selected - fb.viewportHeight + 1
	}
	if fb.viewportTop < 0 {
		fb.viewportTop = 0
	}
}

func (fb *FolderBrowser) VisibleEntries() []string {
	if len(fb.entries) == 0 {
		return nil
	}
	end := min(fb.viewportTop+fb.viewportHeight, len(fb.entries))
	return fb.entries[fb.viewportTop:end]
}

func (fb *FolderBrowser) VisibleSelectedIndex() int {
	return fb.selected - fb.viewportTop
}
