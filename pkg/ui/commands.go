package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/knowtree/pkg/export"
	"github.com/vanderheijden86/knowtree/pkg/layout"
	"github.com/vanderheijden86/knowtree/pkg/model"
	"github.com/vanderheijden86/knowtree/pkg/provider"
)

// treeReadyMsg carries a freshly generated tree.
type treeReadyMsg struct {
	tree *model.KnowledgeTree
}

// generateFailedMsg reports a failed topic generation.
type generateFailedMsg struct {
	err error
}

// nodeExpandedMsg carries the children for the node at path. The path
// is captured at request time; if the tree was replaced meanwhile, the
// apply is a structural no-op.
type nodeExpandedMsg struct {
	path     []int
	children []model.KnowledgeNode
}

// expandFailedMsg reports a failed expansion for the node at path.
type expandFailedMsg struct {
	path []int
	err  error
}

// exportDoneMsg reports the result of a full export run.
type exportDoneMsg struct {
	paths []string
	err   error
}

// generateCmd asks the provider for a whole new tree.
func generateCmd(p provider.Provider, topic string) tea.Cmd {
	return func() tea.Msg {
		tree, err := p.GenerateTree(context.Background(), topic)
		if err != nil {
			return generateFailedMsg{err: err}
		}
		return treeReadyMsg{tree: tree}
	}
}

// expandNodeCmd asks the provider for the children of one node. The
// index path rides along so the result lands on the node it was
// requested for, not on whatever is selected when it arrives.
func expandNodeCmd(p provider.Provider, rootTopic, nodeTitle string, ancestry []string, path []int) tea.Cmd {
	return func() tea.Msg {
		children, err := p.ExpandNode(context.Background(), rootTopic, nodeTitle, ancestry)
		if err != nil {
			return expandFailedMsg{path: path, err: err}
		}
		return nodeExpandedMsg{path: path, children: children}
	}
}

// exportAllCmd writes every export format into dir off the UI thread.
func exportAllCmd(dir string, tree *model.KnowledgeTree, res layout.Result) tea.Cmd {
	return func() tea.Msg {
		paths, err := export.AllFormats(dir, tree, res)
		return exportDoneMsg{paths: paths, err: err}
	}
}
