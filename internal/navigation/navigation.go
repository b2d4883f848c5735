// Package navigation picks the track that follows (or precedes) the current
// one in library order, crossing directory boundaries and wrapping around at
// the ends of the library.
package navigation

import (
	"errors"
	"fmt"

	"arbor/internal/library"
)

var (
	ErrEmptyLibrary = errors.New("library has no tracks")
	ErrNotInTree    = errors.New("node is not part of the library")
)

// Target is a playable leaf together with its reconstructed absolute path.
type Target struct {
	Node library.NodeID
	Path string
}

// SelectNext returns the leaf after current in depth-first order. When current
// is the last leaf of the library the first leaf is returned, so a library
// with a single track wraps to itself.
//
// The walk looks for a next sibling at the current level; failing that it
// moves up one level and tries again. Reaching the root means the end of the
// library was passed. Every step either returns or moves one level closer to
// the root, so the walk always terminates.
func SelectNext(tree *library.Tree, current library.NodeID) (Target, error) {
	return selectFrom(tree, current, tree.NextSibling, tree.FirstLeaf)
}

// SelectPrevious mirrors SelectNext: the leaf before current, wrapping from
// the first leaf to the last one.
func SelectPrevious(tree *library.Tree, current library.NodeID) (Target, error) {
	return selectFrom(tree, current, tree.PrevSibling, tree.LastLeaf)
}

func selectFrom(
	tree *library.Tree,
	current library.NodeID,
	sibling func(library.NodeID) library.NodeID,
	descend func(library.NodeID) library.NodeID,
) (Target, error) {
	root := tree.Root()
	if len(tree.Children(root)) == 0 {
		return Target{}, ErrEmptyLibrary
	}
	if _, ok := tree.Node(current); !ok {
		return Target{}, fmt.Errorf("node %d: %w", current, ErrNotInTree)
	}

	node := current
	for !tree.IsRoot(node) {
		if s := sibling(node); s != library.NoNode {
			return target(tree, descend(s))
		}
		node = tree.Parent(node)
	}
	// wraparound
	return target(tree, descend(root))
}

func target(tree *library.Tree, leaf library.NodeID) (Target, error) {
	if leaf == library.NoNode {
		return Target{}, ErrEmptyLibrary
	}
	return Target{Node: leaf, Path: tree.Path(leaf)}, nil
}
