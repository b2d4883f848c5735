package main

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"arbor/internal/library"
)

// treeRow is one visible line of the library tree.
type treeRow struct {
	id    library.NodeID
	depth int
}

// TreeBrowser keeps the expansion, selection and scroll state of the library
// tree view.
type TreeBrowser struct {
	tree           *library.Tree
	expanded       map[library.NodeID]bool
	rows           []treeRow
	selected       int
	viewportTop    int
	viewportHeight int
}

func NewTreeBrowser(tree *library.Tree) *TreeBrowser {
	tb := &TreeBrowser{viewportHeight: 20}
	tb.SetTree(tree)
	return tb
}

// SetTree replaces the tree, keeping only the root expanded.
func (tb *TreeBrowser) SetTree(tree *library.Tree) {
	tb.tree = tree
	tb.expanded = map[library.NodeID]bool{}
	tb.selected = 0
	tb.viewportTop = 0
	if tree != nil {
		tb.expanded[tree.Root()] = true
	}
	tb.refreshRows()
}

func (tb *TreeBrowser) Tree() *library.Tree {
	return tb.tree
}

func (tb *TreeBrowser) refreshRows() {
	tb.rows = tb.rows[:0]
	if tb.tree == nil {
		return
	}
	var walk func(id library.NodeID, depth int)
	walk = func(id library.NodeID, depth int) {
		tb.rows = append(tb.rows, treeRow{id: id, depth: depth})
		if !tb.expanded[id] {
			return
		}
		for _, child := range tb.tree.Children(id) {
			walk(child, depth+1)
		}
	}
	walk(tb.tree.Root(), 0)

	if tb.selected >= len(tb.rows) {
		tb.selected = len(tb.rows) - 1
	}
	if tb.selected < 0 {
		tb.selected = 0
	}
	tb.adjustViewport()
}

// Selected returns the node under the cursor.
func (tb *TreeBrowser) Selected() library.NodeID {
	if tb.selected < 0 || tb.selected >= len(tb.rows) {
		return library.NoNode
	}
	return tb.rows[tb.selected].id
}

// Select moves the cursor to id if it is visible.
func (tb *TreeBrowser) Select(id library.NodeID) bool {
	for i, row := range tb.rows {
		if row.id == id {
			tb.selected = i
			tb.adjustViewport()
			return true
		}
	}
	return false
}

// Reveal expands every ancestor of id and selects it.
func (tb *TreeBrowser) Reveal(id library.NodeID) {
	if tb.tree == nil {
		return
	}
	for p := tb.tree.Parent(id); p != library.NoNode; p = tb.tree.Parent(p) {
		tb.expanded[p] = true
	}
	tb.refreshRows()
	tb.Select(id)
}

// Toggle expands or collapses a directory row.
func (tb *TreeBrowser) Toggle(id library.NodeID) {
	if tb.tree == nil || tb.tree.IsLeaf(id) || tb.tree.IsRoot(id) {
		return
	}
	tb.expanded[id] = !tb.expanded[id]
	tb.refreshRows()
	tb.Select(id)
}

// Collapse folds the selected directory, or jumps to the parent of a leaf.
func (tb *TreeBrowser) Collapse() {
	id := tb.Selected()
	if id == library.NoNode {
		return
	}
	if !tb.tree.IsLeaf(id) && tb.expanded[id] && !tb.tree.IsRoot(id) {
		tb.Toggle(id)
		return
	}
	if p := tb.tree.Parent(id); p != library.NoNode {
		tb.Select(p)
	}
}

// Expand unfolds the selected directory.
func (tb *TreeBrowser) Expand() {
	id := tb.Selected()
	if id == library.NoNode || tb.tree.IsLeaf(id) || tb.expanded[id] {
		return
	}
	tb.Toggle(id)
}

func (tb *TreeBrowser) MoveUp() {
	if tb.selected > 0 {
		tb.selected--
		tb.adjustViewport()
	}
}

func (tb *TreeBrowser) MoveDown() {
	if tb.selected < len(tb.rows)-1 {
		tb.selected++
		tb.adjustViewport()
	}
}

func (tb *TreeBrowser) Home() {
	tb.selected = 0
	tb.adjustViewport()
}

func (tb *TreeBrowser) End() {
	tb.selected = max(len(tb.rows)-1, 0)
	tb.adjustViewport()
}

func (tb *TreeBrowser) SetViewportHeight(height int) {
	tb.viewportHeight = max(height, 1)
	tb.adjustViewport()
}

func (tb *TreeBrowser) adjustViewport() {
	// Keep selected item visible
	if tb.selected < tb.viewportTop {
		tb.viewportTop = tb.selected
	} else if tb.selected >= tb.viewportTop+tb.viewportHeight {
		tb.viewportTop = tb.selected - tb.viewportHeight + 1
	}
	if tb.viewportTop < 0 {
		tb.viewportTop = 0
	}
}

// VisibleRows returns the rows inside the viewport.
func (tb *TreeBrowser) VisibleRows() []treeRow {
	if len(tb.rows) == 0 {
		return nil
	}
	end := min(tb.viewportTop+tb.viewportHeight, len(tb.rows))
	return tb.rows[tb.viewportTop:end]
}

// VisibleSelectedIndex is the cursor position inside VisibleRows.
func (tb *TreeBrowser) VisibleSelectedIndex() int {
	return tb.selected - tb.viewportTop
}

// RowText renders the label of row with indentation and a fold marker,
// truncated to width cells.
func (tb *TreeBrowser) RowText(row treeRow, width int) string {
	var marker string
	switch {
	case tb.tree.IsLeaf(row.id):
		marker = "♪ "
	case tb.expanded[row.id]:
		marker = "▾ "
	default:
		marker = "▸ "
	}
	text := strings.Repeat("  ", row.depth) + marker + tb.tree.DisplayLabel(row.id)
	return runewidth.Truncate(text, max(width, 1), "…")
}
