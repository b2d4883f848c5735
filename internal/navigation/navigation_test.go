package navigation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"arbor/internal/library"
)

const base = "/music"

func build(t *testing.T, files ...string) *library.Tree {
	t.Helper()
	m := fstest.MapFS{}
	for _, f := range files {
		m[f] = &fstest.MapFile{Data: []byte("x")}
	}
	tree, err := library.Build(context.Background(), m, base)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tree
}

func lookup(t *testing.T, tree *library.Tree, rel string) library.NodeID {
	t.Helper()
	id, ok := tree.Lookup(filepath.Join(base, rel))
	if !ok {
		t.Fatalf("no node for %s", rel)
	}
	return id
}

func TestSelectNext_Scenario(t *testing.T) {
	tree := build(t, "A/song1.mp3", "A/song2.mp3", "B/song3.mp3")

	tests := []struct {
		from string
		want string
	}{
		{"A/song1.mp3", "A/song2.mp3"},
		{"A/song2.mp3", "B/song3.mp3"},
		{"B/song3.mp3", "A/song1.mp3"},
	}
	for _, test := range tests {
		got, err := SelectNext(tree, lookup(t, tree, test.from))
		if err != nil {
			t.Fatalf("SelectNext(%s) failed: %v", test.from, err)
		}
		want := filepath.Join(base, test.want)
		if got.Path != want {
			t.Errorf("SelectNext(%s) = %s, want %s", test.from, got.Path, want)
		}
		if got.Node != lookup(t, tree, test.want) {
			t.Errorf("SelectNext(%s) node = %d", test.from, got.Node)
		}
	}
}

func TestSelectNext_CyclicOverAllLeaves(t *testing.T) {
	tree := build(t,
		"A/song1.mp3",
		"A/sub/deep/song2.mp3",
		"A/sub/song3.mp3",
		"B/song4.mp3",
		"C/D/E/F/song5.mp3",
		"song6.mp3",
		"song7.mp3",
	)
	leaves := tree.Leaves()
	if len(leaves) != 7 {
		t.Fatalf("expected 7 leaves, got %d", len(leaves))
	}

	for start := range leaves {
		current := leaves[start]
		for step := 1; step <= len(leaves); step++ {
			next, err := SelectNext(tree, current)
			if err != nil {
				t.Fatalf("SelectNext failed: %v", err)
			}
			want := leaves[(start+step)%len(leaves)]
			if next.Node != want {
				t.Fatalf("start %d step %d: got %s, want %s", start, step, tree.Label(next.Node), tree.Label(want))
			}
			if !tree.IsLeaf(next.Node) {
				t.Fatalf("returned a directory: %s", tree.Label(next.Node))
			}
			current = next.Node
		}
		if current != leaves[start] {
			t.Errorf("cycle from %d did not return to start", start)
		}
	}
}

func TestSelectPrevious_InvertsSelectNext(t *testing.T) {
	tree := build(t, "A/song1.mp3", "A/B/song2.mp3", "C/song3.mp3", "song4.mp3")

	for _, leaf := range tree.Leaves() {
		next, err := SelectNext(tree, leaf)
		if err != nil {
			t.Fatal(err)
		}
		back, err := SelectPrevious(tree, next.Node)
		if err != nil {
			t.Fatal(err)
		}
		if back.Node != leaf {
			t.Errorf("SelectPrevious(SelectNext(%s)) = %s", tree.Label(leaf), tree.Label(back.Node))
		}
	}
}

func TestSelectNext_SingleTrackWrapsToItself(t *testing.T) {
	tests := [][]string{
		{"only.mp3"},
		{"A/only.mp3"},
		{"A/B/C/only.mp3"},
	}
	for _, files := range tests {
		tree := build(t, files...)
		leaf := lookup(t, tree, files[0])
		got, err := SelectNext(tree, leaf)
		if err != nil {
			t.Fatalf("%v: SelectNext failed: %v", files, err)
		}
		if got.Node != leaf {
			t.Errorf("%v: expected wrap to itself, got %s", files, tree.Label(got.Node))
		}
		got, err = SelectPrevious(tree, leaf)
		if err != nil || got.Node != leaf {
			t.Errorf("%v: SelectPrevious = %v, %v", files, got, err)
		}
	}
}

func TestSelectNext_Errors(t *testing.T) {
	empty := build(t, "notes.txt")
	if _, err := SelectNext(empty, empty.Root()); !errors.Is(err, ErrEmptyLibrary) {
		t.Errorf("expected ErrEmptyLibrary, got %v", err)
	}

	tree := build(t, "a.mp3")
	if _, err := SelectNext(tree, library.NodeID(42)); !errors.Is(err, ErrNotInTree) {
		t.Errorf("expected ErrNotInTree, got %v", err)
	}
}

func TestNavigator(t *testing.T) {
	tree := build(t, "A/song1.mp3", "A/song2.mp3", "B/song3.mp3")
	nav := New(tree)

	tests := []struct {
		name string
		fn   func(string) (string, error)
		from string
		want string
	}{
		{"next", nav.Next, filepath.Join(base, "A/song2.mp3"), filepath.Join(base, "B/song3.mp3")},
		{"next wraps", nav.Next, filepath.Join(base, "B/song3.mp3"), filepath.Join(base, "A/song1.mp3")},
		{"next unknown", nav.Next, "/elsewhere/x.mp3", filepath.Join(base, "A/song1.mp3")},
		{"previous", nav.Previous, filepath.Join(base, "B/song3.mp3"), filepath.Join(base, "A/song2.mp3")},
		{"previous unknown", nav.Previous, "", filepath.Join(base, "B/song3.mp3")},
	}
	for _, test := range tests {
		got, err := test.fn(test.from)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: got %s, want %s", test.name, got, test.want)
		}
	}

	if _, err := New(nil).Next("x"); !errors.Is(err, ErrEmptyLibrary) {
		t.Errorf("nil tree: expected ErrEmptyLibrary, got %v", err)
	}
}
