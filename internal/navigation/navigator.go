package navigation

import (
	"arbor/internal/library"
)

// Navigator answers "which track comes next" in terms of file paths, which
// is what the playback session deals in.
type Navigator struct {
	tree *library.Tree
}

// New returns a Navigator over tree. A new tree means a new Navigator.
func New(tree *library.Tree) *Navigator {
	return &Navigator{tree: tree}
}

// Next returns the path of the track after track. A track that is not part
// of the library (the library was switched, or the placeholder is playing)
// continues from the first track.
func (n *Navigator) Next(track string) (string, error) {
	return n.step(track, SelectNext, n.tree.FirstLeaf)
}

// Previous returns the path of the track before track, or the last track when
// track is not part of the library.
func (n *Navigator) Previous(track string) (string, error) {
	return n.step(track, SelectPrevious, n.tree.LastLeaf)
}

func (n *Navigator) step(
	track string,
	sel func(*library.Tree, library.NodeID) (Target, error),
	fallback func(library.NodeID) library.NodeID,
) (string, error) {
	if n.tree == nil {
		return "", ErrEmptyLibrary
	}
	id, ok := n.tree.Lookup(track)
	if !ok || n.tree.IsRoot(id) {
		t, err := target(n.tree, fallback(n.tree.Root()))
		return t.Path, err
	}
	t, err := sel(n.tree, id)
	return t.Path, err
}
