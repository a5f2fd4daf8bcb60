package model

import (
	"testing"

	"pgregory.net/rapid"
)

func sampleTree() *KnowledgeTree {
	return &KnowledgeTree{
		Topic:       "Go",
		Description: "The Go programming language.",
		Subtopics: []KnowledgeNode{
			{Title: "Concurrency", Description: "Goroutines and channels.", Subtopics: []KnowledgeNode{
				{Title: "Goroutines", Description: "Lightweight threads."},
				{Title: "Channels", Description: "Typed conduits."},
			}},
			{Title: "Tooling", Description: "go build, go test."},
			{Title: "Generics", Description: "Type parameters."},
		},
	}
}

func TestApplyAtRoot(t *testing.T) {
	tree := sampleTree()
	next := ApplyAt(tree, nil, func(n KnowledgeNode) KnowledgeNode {
		n.Description = "updated"
		return n
	})

	if next.Description != "updated" {
		t.Errorf("root description = %q, want %q", next.Description, "updated")
	}
	if tree.Description != "The Go programming language." {
		t.Error("input tree was mutated")
	}
}

func TestApplyAtReplacesOnlyTargetSpine(t *testing.T) {
	tree := sampleTree()
	next := ApplyAt(tree, []int{0, 1}, MarkLoading)

	if next == tree {
		t.Fatal("expected a new tree value")
	}
	if !next.Subtopics[0].Subtopics[1].IsLoading {
		t.Error("target node not updated")
	}
	if tree.Subtopics[0].Subtopics[1].IsLoading {
		t.Error("input tree was mutated")
	}

	if next.Subtopics[0].Subtopics[0].IsLoading {
		t.Error("sibling of target changed")
	}
}

func TestApplyAtSharesSiblingSlices(t *testing.T) {
	tree := &KnowledgeTree{
		Topic: "T",
		Subtopics: []KnowledgeNode{
			{Title: "A", Subtopics: []KnowledgeNode{{Title: "A1"}}},
			{Title: "B", Subtopics: []KnowledgeNode{{Title: "B1"}}},
		},
	}
	next := ApplyAt(tree, []int{0}, MarkLoading)

	// B's subtopic slice must be the same backing array as the input's.
	if &next.Subtopics[1].Subtopics[0] != &tree.Subtopics[1].Subtopics[0] {
		t.Error("untouched sibling subtree was reallocated")
	}
}

func TestApplyAtOutOfBoundsIsNoOp(t *testing.T) {
	tree := sampleTree()
	for _, path := range [][]int{
		{5},
		{-1},
		{0, 9},
		{1, 0}, // Tooling has no children
		{0, 1, 0, 0},
	} {
		if got := ApplyAt(tree, path, MarkLoading); got != tree {
			t.Errorf("ApplyAt(%v) = new tree, want input unchanged", path)
		}
	}
}

func TestApplyAtNilTree(t *testing.T) {
	if got := ApplyAt(nil, []int{0}, MarkLoading); got != nil {
		t.Error("ApplyAt(nil) should return nil")
	}
}

func TestReplaceSubtopicsClearsLoading(t *testing.T) {
	tree := ApplyAt(sampleTree(), []int{2}, MarkLoading)
	children := []KnowledgeNode{{Title: "Constraints"}, {Title: "Inference"}}

	tree = ApplyAt(tree, []int{2}, ReplaceSubtopics(children))
	node, ok := NodeAt(tree, []int{2})
	if !ok {
		t.Fatal("node vanished")
	}
	if node.IsLoading {
		t.Error("loading flag not cleared by ReplaceSubtopics")
	}
	if len(node.Subtopics) != 2 {
		t.Errorf("got %d subtopics, want 2", len(node.Subtopics))
	}
}

func TestClearLoadingIdempotent(t *testing.T) {
	tree := sampleTree()
	once := ApplyAt(tree, []int{1}, ClearLoading)
	twice := ApplyAt(once, []int{1}, ClearLoading)
	n1, _ := NodeAt(once, []int{1})
	n2, _ := NodeAt(twice, []int{1})
	if n1.IsLoading || n2.IsLoading {
		t.Error("loading flag set after ClearLoading")
	}
}

func TestNodeAt(t *testing.T) {
	tree := sampleTree()

	root, ok := NodeAt(tree, nil)
	if !ok || root.Title != "Go" {
		t.Errorf("NodeAt(nil path) = %q, %v", root.Title, ok)
	}

	n, ok := NodeAt(tree, []int{0, 1})
	if !ok || n.Title != "Channels" {
		t.Errorf("NodeAt([0 1]) = %q, %v", n.Title, ok)
	}

	if _, ok := NodeAt(tree, []int{3}); ok {
		t.Error("NodeAt out of bounds should report !ok")
	}
	if _, ok := NodeAt(nil, nil); ok {
		t.Error("NodeAt(nil tree) should report !ok")
	}
}

func TestCountNodes(t *testing.T) {
	if got := CountNodes(sampleTree()); got != 6 {
		t.Errorf("CountNodes = %d, want 6", got)
	}
	if got := CountNodes(nil); got != 0 {
		t.Errorf("CountNodes(nil) = %d, want 0", got)
	}
}

func TestValidateRejectsEmptyTitles(t *testing.T) {
	tree := sampleTree()
	if err := tree.Validate(); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}
	tree.Subtopics[0].Subtopics[1].Title = "  "
	if err := tree.Validate(); err == nil {
		t.Error("blank title accepted")
	}
}

// genTree builds random trees up to depth 3.
func genTree(t *rapid.T) *KnowledgeTree {
	var gen func(depth int) []KnowledgeNode
	gen = func(depth int) []KnowledgeNode {
		if depth == 0 {
			return nil
		}
		n := rapid.IntRange(0, 3).Draw(t, "width")
		nodes := make([]KnowledgeNode, n)
		for i := range nodes {
			nodes[i] = KnowledgeNode{
				Title:     rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "title"),
				Subtopics: gen(depth - 1),
			}
		}
		return nodes
	}
	return &KnowledgeTree{Topic: "root", Subtopics: gen(3)}
}

func TestApplyAtNeverChangesShapeRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := genTree(rt)
		path := rapid.SliceOfN(rapid.IntRange(-1, 4), 0, 4).Draw(rt, "path")

		before := CountNodes(tree)
		next := ApplyAt(tree, path, MarkLoading)

		if CountNodes(next) != before {
			rt.Fatalf("MarkLoading changed node count: %d -> %d", before, CountNodes(next))
		}
		if _, ok := NodeAt(tree, path); !ok && next != tree {
			rt.Fatal("unresolvable path must be a strict no-op")
		}
	})
}
