// Package analysis computes shape metrics for a knowledge tree. The
// numbers feed the TUI footer and the export headers.
package analysis

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/knowtree/pkg/model"
)

// TreeStats summarizes the shape of a tree snapshot.
type TreeStats struct {
	Nodes           int     // total including root
	Leaves          int     // nodes with no subtopics
	Expandable      int     // leaves not currently loading
	MaxDepth        int     // root is depth 0
	MeanBranching   float64 // mean child count over internal nodes
	StdDevBranching float64
	DeepestPath     string // title path to one deepest leaf
}

// Stats walks the tree once and computes all metrics. A nil tree yields
// the zero value.
func Stats(t *model.KnowledgeTree) TreeStats {
	var s TreeStats
	if t == nil {
		return s
	}

	var branching []float64
	var deepest []string
	var walk func(n model.KnowledgeNode, depth int, titles []string)
	walk = func(n model.KnowledgeNode, depth int, titles []string) {
		titles = append(titles, n.Title)
		s.Nodes++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
			deepest = append(deepest[:0], titles...)
		}
		if len(n.Subtopics) == 0 {
			s.Leaves++
			if !n.IsLoading {
				s.Expandable++
			}
			return
		}
		branching = append(branching, float64(len(n.Subtopics)))
		for _, c := range n.Subtopics {
			walk(c, depth+1, titles)
		}
	}
	walk(t.Root(), 0, nil)

	if len(branching) > 0 {
		s.MeanBranching = stat.Mean(branching, nil)
		s.StdDevBranching = stat.StdDev(branching, nil)
	}
	s.DeepestPath = strings.Join(deepest, " > ")
	return s
}
