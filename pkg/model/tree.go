// Package model defines the knowledge tree and its persistent update
// operations. Trees are immutable values: every mutation goes through
// ApplyAt, which rebuilds only the spine from the root to the target
// node and shares every untouched subtree by reference.
package model

import (
	"fmt"
	"strings"
)

// KnowledgeNode is a single topic in the tree. Subtopics are in display
// order; an empty or nil Subtopics slice means the node has not been
// expanded yet (or is a true leaf — the two are indistinguishable by
// design). IsLoading is transient UI state and never crosses the wire.
type KnowledgeNode struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Subtopics   []KnowledgeNode `json:"subtopics"`
	IsLoading   bool            `json:"-"`
}

// KnowledgeTree is the root wrapper. Structurally the root is a
// KnowledgeNode whose title is Topic.
type KnowledgeTree struct {
	Topic       string          `json:"topic"`
	Description string          `json:"description"`
	Subtopics   []KnowledgeNode `json:"subtopics"`
}

// NewTree builds a tree from a topic and its first level of subtopics.
func NewTree(topic, description string, subtopics []KnowledgeNode) *KnowledgeTree {
	return &KnowledgeTree{Topic: topic, Description: description, Subtopics: subtopics}
}

// Root returns the tree's root viewed as a node.
func (t *KnowledgeTree) Root() KnowledgeNode {
	return KnowledgeNode{Title: t.Topic, Description: t.Description, Subtopics: t.Subtopics}
}

// Validate checks the invariants the provider contract promises.
func (n *KnowledgeNode) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("node title cannot be empty")
	}
	for i := range n.Subtopics {
		if err := n.Subtopics[i].Validate(); err != nil {
			return fmt.Errorf("subtopic %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks the tree's invariants.
func (t *KnowledgeTree) Validate() error {
	if strings.TrimSpace(t.Topic) == "" {
		return fmt.Errorf("tree topic cannot be empty")
	}
	for i := range t.Subtopics {
		if err := t.Subtopics[i].Validate(); err != nil {
			return fmt.Errorf("subtopic %d: %w", i, err)
		}
	}
	return nil
}

// Updater is a pure transform applied to a single node by ApplyAt.
type Updater func(KnowledgeNode) KnowledgeNode

// MarkLoading sets the transient loading flag.
func MarkLoading(n KnowledgeNode) KnowledgeNode {
	n.IsLoading = true
	return n
}

// ClearLoading clears the transient loading flag. Used on expansion
// failure so the node stays childless but re-expandable.
func ClearLoading(n KnowledgeNode) KnowledgeNode {
	n.IsLoading = false
	return n
}

// ReplaceSubtopics returns an updater that installs the given children
// and clears the loading flag in one step.
func ReplaceSubtopics(children []KnowledgeNode) Updater {
	return func(n KnowledgeNode) KnowledgeNode {
		n.Subtopics = children
		n.IsLoading = false
		return n
	}
}

// ApplyAt returns a new tree with the updater applied to the node at
// indexPath. The empty path addresses the root. Any out-of-bounds index
// along the path makes the whole call a no-op that returns the input
// tree unchanged: a stale expansion callback racing a tree replacement
// must never corrupt or panic.
//
// Only the path from root to target is reallocated. Sibling subtrees
// keep referential equality with the input, so upstream memoization
// keyed on subtree identity stays cheap.
func ApplyAt(t *KnowledgeTree, indexPath []int, fn Updater) *KnowledgeTree {
	if t == nil {
		return nil
	}
	if len(indexPath) == 0 {
		root := fn(t.Root())
		return &KnowledgeTree{Topic: root.Title, Description: root.Description, Subtopics: root.Subtopics}
	}
	subs, ok := applyAtSiblings(t.Subtopics, indexPath, fn)
	if !ok {
		return t
	}
	next := *t
	next.Subtopics = subs
	return &next
}

// applyAtSiblings rebuilds exactly one slot of the sibling slice,
// descending on the path tail. Returns ok=false when the head index is
// out of bounds at any depth.
func applyAtSiblings(siblings []KnowledgeNode, path []int, fn Updater) ([]KnowledgeNode, bool) {
	i := path[0]
	if i < 0 || i >= len(siblings) {
		return nil, false
	}
	out := make([]KnowledgeNode, len(siblings))
	copy(out, siblings)
	if len(path) == 1 {
		out[i] = fn(out[i])
		return out, true
	}
	child := out[i]
	subs, ok := applyAtSiblings(child.Subtopics, path[1:], fn)
	if !ok {
		return nil, false
	}
	child.Subtopics = subs
	out[i] = child
	return out, true
}

// NodeAt returns the node at indexPath, or ok=false when the path does
// not resolve in the current tree. The empty path returns the root.
func NodeAt(t *KnowledgeTree, indexPath []int) (KnowledgeNode, bool) {
	if t == nil {
		return KnowledgeNode{}, false
	}
	node := t.Root()
	for _, i := range indexPath {
		if i < 0 || i >= len(node.Subtopics) {
			return KnowledgeNode{}, false
		}
		node = node.Subtopics[i]
	}
	return node, true
}

// CountNodes returns the total node count including the root.
func CountNodes(t *KnowledgeTree) int {
	if t == nil {
		return 0
	}
	n := 1
	for i := range t.Subtopics {
		n += countNodes(&t.Subtopics[i])
	}
	return n
}

func countNodes(n *KnowledgeNode) int {
	c := 1
	for i := range n.Subtopics {
		c += countNodes(&n.Subtopics[i])
	}
	return c
}
