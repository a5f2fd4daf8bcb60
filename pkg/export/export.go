package export

import (
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/knowtree/pkg/analysis"
	"github.com/vanderheijden86/knowtree/pkg/layout"
	"github.com/vanderheijden86/knowtree/pkg/model"
)

// AllFormats writes every export format into dir using a common base
// name derived from the topic. The renderers are independent, so they
// run concurrently.
func AllFormats(dir string, tree *model.KnowledgeTree, res layout.Result) ([]string, error) {
	if tree == nil {
		return nil, fmt.Errorf("no tree to export")
	}
	stats := analysis.Stats(tree)
	base := filepath.Join(dir, slugify(tree.Topic))

	paths := []string{base + ".svg", base + ".png", base + ".md", base + ".html"}

	var g errgroup.Group
	g.Go(func() error { return WriteSVGFile(paths[0], res, tree.Topic) })
	g.Go(func() error { return WritePNGFile(paths[1], res, tree.Topic) })
	g.Go(func() error { return WriteMarkdownFile(paths[2], tree, stats) })
	g.Go(func() error { return WriteHTMLFile(paths[3], res, tree.Topic, HTMLOptions{}) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func slugify(topic string) string {
	out := make([]rune, 0, len(topic))
	for _, r := range topic {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	s := string(out)
	for len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	for len(s) > 0 && s[len(s)-1] == '-' {
		s = s[:len(s)-1]
	}
	if s == "" {
		s = "tree"
	}
	return s
}
