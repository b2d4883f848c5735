// Package library builds the ordered directory tree that drives track
// navigation. Nodes live in a flat table and refer to each other by index,
// so a child can reach its parent without the tree owning a cycle.
package library

import (
	"path/filepath"
	"strings"
)

// NodeID indexes a node inside a Tree.
type NodeID int

// NoNode is returned where a node does not exist (the parent of the root,
// the sibling after the last child, ...).
const NoNode NodeID = -1

// RootMarker is appended to the root label when it is shown to the user.
const RootMarker = " ★"

// Node is a single entry of the library: a directory with at least one
// playable track somewhere below it, or a track.
type Node struct {
	Label    string
	Parent   NodeID
	Children []NodeID
	IsRoot   bool
}

// Tree is an immutable snapshot of a library directory. It is rebuilt
// wholesale when the library changes, never mutated in place.
type Tree struct {
	base  string
	nodes []Node
}

// Empty returns a tree holding only a root for base. It is the fallback
// when a scan fails.
func Empty(base string) *Tree {
	t := &Tree{base: base}
	t.add(filepath.Base(base), NoNode)
	t.nodes[0].IsRoot = true
	return t
}

func (t *Tree) add(label string, parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Label: label, Parent: parent})
	if parent != NoNode {
		t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	}
	return id
}

// Base is the absolute directory the tree was built from.
func (t *Tree) Base() string {
	return t.base
}

// Root returns the top node. It is always node 0.
func (t *Tree) Root() NodeID {
	return 0
}

// Len returns the number of nodes, root included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if !t.valid(id) {
		return Node{}, false
	}
	n := t.nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	return n, true
}

// Label returns the file or directory name of a node.
func (t *Tree) Label(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	return t.nodes[id].Label
}

// DisplayLabel is the label shown to the user; the root carries RootMarker.
func (t *Tree) DisplayLabel(id NodeID) string {
	if t.IsRoot(id) {
		return t.nodes[id].Label + RootMarker
	}
	return t.Label(id)
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	return t.nodes[id].Parent
}

// Children returns the ordered children of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].Children
}

// IsRoot reports whether id is the top node.
func (t *Tree) IsRoot(id NodeID) bool {
	return t.valid(id) && t.nodes[id].IsRoot
}

// IsLeaf reports whether id is a playable track. The root is never a leaf,
// even when the library is empty.
func (t *Tree) IsLeaf(id NodeID) bool {
	return t.valid(id) && !t.nodes[id].IsRoot && len(t.nodes[id].Children) == 0
}

// NextSibling returns the node following id in its parent's children.
func (t *Tree) NextSibling(id NodeID) NodeID {
	siblings, i := t.position(id)
	if i < 0 || i+1 >= len(siblings) {
		return NoNode
	}
	return siblings[i+1]
}

// PrevSibling returns the node preceding id in its parent's children.
func (t *Tree) PrevSibling(id NodeID) NodeID {
	siblings, i := t.position(id)
	if i <= 0 {
		return NoNode
	}
	return siblings[i-1]
}

func (t *Tree) position(id NodeID) ([]NodeID, int) {
	parent := t.Parent(id)
	if parent == NoNode {
		return nil, -1
	}
	siblings := t.nodes[parent].Children
	for i, s := range siblings {
		if s == id {
			return siblings, i
		}
	}
	return nil, -1
}

// FirstLeaf descends through first children until a leaf is reached.
// It returns NoNode for an empty library.
func (t *Tree) FirstLeaf(id NodeID) NodeID {
	return t.descend(id, func(c []NodeID) NodeID { return c[0] })
}

// LastLeaf descends through last children until a leaf is reached.
func (t *Tree) LastLeaf(id NodeID) NodeID {
	return t.descend(id, func(c []NodeID) NodeID { return c[len(c)-1] })
}

func (t *Tree) descend(id NodeID, pick func([]NodeID) NodeID) NodeID {
	if !t.valid(id) {
		return NoNode
	}
	for !t.IsLeaf(id) {
		children := t.nodes[id].Children
		if len(children) == 0 {
			return NoNode
		}
		id = pick(children)
	}
	return id
}

// Path reconstructs the absolute filesystem path of id by walking up to the
// root. The root contributes the base directory rather than its label.
func (t *Tree) Path(id NodeID) string {
	if !t.valid(id) {
		return ""
	}
	var segments []string
	for n := id; !t.IsRoot(n); n = t.nodes[n].Parent {
		segments = append(segments, t.nodes[n].Label)
	}
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, t.base)
	for i := len(segments) - 1; i >= 0; i-- {
		parts = append(parts, segments[i])
	}
	return filepath.Join(parts...)
}

// Lookup resolves an absolute path below Base back to its node by
// descending from the root one path segment at a time.
func (t *Tree) Lookup(path string) (NodeID, bool) {
	if path == "" {
		return NoNode, false
	}
	rel, err := filepath.Rel(t.base, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return NoNode, false
	}
	id := t.Root()
	if rel == "." {
		return id, true
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		next := NoNode
		for _, c := range t.nodes[id].Children {
			if t.nodes[c].Label == segment {
				next = c
				break
			}
		}
		if next == NoNode {
			return NoNode, false
		}
		id = next
	}
	return id, true
}

// Leaves returns every track in depth-first document order.
func (t *Tree) Leaves() []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(id NodeID) {
		if t.IsLeaf(id) {
			out = append(out, id)
			return
		}
		for _, c := range t.nodes[id].Children {
			walk(c)
		}
	}
	walk(t.Root())
	return out
}
