package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/knowtree/pkg/analysis"
	"github.com/vanderheijden86/knowtree/pkg/model"
)

// GenerateMarkdown creates an outline report of the knowledge tree:
// a summary block followed by nested bullets mirroring the hierarchy.
func GenerateMarkdown(tree *model.KnowledgeTree, stats analysis.TreeStats) (string, error) {
	if tree == nil {
		return "", fmt.Errorf("no tree to export")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", tree.Topic))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Nodes**: %d\n", stats.Nodes))
	sb.WriteString(fmt.Sprintf("- **Leaves**: %d\n", stats.Leaves))
	sb.WriteString(fmt.Sprintf("- **Max depth**: %d\n", stats.MaxDepth))
	sb.WriteString(fmt.Sprintf("- **Mean branching**: %.2f\n\n", stats.MeanBranching))

	if tree.Description != "" {
		sb.WriteString(tree.Description)
		sb.WriteString("\n\n")
	}
	sb.WriteString("---\n\n## Outline\n\n")

	var walk func(n model.KnowledgeNode, depth int)
	walk = func(n model.KnowledgeNode, depth int) {
		indent := strings.Repeat("  ", depth)
		sb.WriteString(fmt.Sprintf("%s- **%s**", indent, n.Title))
		if d := strings.TrimSpace(n.Description); d != "" {
			sb.WriteString(": " + d)
		}
		sb.WriteString("\n")
		for _, c := range n.Subtopics {
			walk(c, depth+1)
		}
	}
	for _, n := range tree.Subtopics {
		walk(n, 0)
	}

	return sb.String(), nil
}

// WriteMarkdownFile writes the outline to path.
func WriteMarkdownFile(path string, tree *model.KnowledgeTree, stats analysis.TreeStats) error {
	content, err := GenerateMarkdown(tree, stats)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
