package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/knowtree/pkg/analysis"
	"github.com/vanderheijden86/knowtree/pkg/layout"
	"github.com/vanderheijden86/knowtree/pkg/model"
)

func exportTree() *model.KnowledgeTree {
	return &model.KnowledgeTree{
		Topic:       "Fermentation",
		Description: "Microbes doing the work.",
		Subtopics: []model.KnowledgeNode{
			{Title: "Lacto", Description: "Bacteria.", Subtopics: []model.KnowledgeNode{
				{Title: "Kimchi", Description: "Spicy."},
			}},
			{Title: "Yeast", Description: "Fungi."},
		},
	}
}

func exportLayout() layout.Result {
	return layout.Layout(exportTree(), 0, 1)
}

func TestGenerateSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateSVG(&buf, exportLayout(), "Fermentation"); err != nil {
		t.Fatalf("GenerateSVG: %v", err)
	}
	out := buf.String()

	if nodes := strings.Count(out, "<rect"); nodes != 5 { // 4 node boxes + background
		t.Errorf("rect count = %d, want 5", nodes)
	}
	if edges := strings.Count(out, "<path"); edges != 3 {
		t.Errorf("path count = %d, want 3", edges)
	}
	for _, title := range []string{"Fermentation", "Lacto", "Kimchi", "Yeast"} {
		if !strings.Contains(out, title) {
			t.Errorf("SVG missing %q", title)
		}
	}
}

func TestGenerateSVGEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateSVG(&buf, layout.Result{}, "empty"); err == nil {
		t.Error("empty layout should refuse to export")
	}
}

func TestGenerateMarkdownOutline(t *testing.T) {
	tree := exportTree()
	out, err := GenerateMarkdown(tree, analysis.Stats(tree))
	if err != nil {
		t.Fatalf("GenerateMarkdown: %v", err)
	}

	if !strings.HasPrefix(out, "# Fermentation\n") {
		t.Error("missing topic header")
	}
	if !strings.Contains(out, "- **Nodes**: 4") {
		t.Error("missing stats summary")
	}
	if !strings.Contains(out, "- **Lacto**: Bacteria.") {
		t.Error("missing top-level bullet")
	}
	if !strings.Contains(out, "  - **Kimchi**: Spicy.") {
		t.Error("missing nested bullet with indent")
	}
}

func TestGenerateHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateHTML(&buf, exportLayout(), "Fermentation", HTMLOptions{}); err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<!DOCTYPE html>", "Fermentation", "Kimchi", "bezierCurveTo"} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	// Edge control points must reach the renderer under the keys the
	// canvas script reads.
	for _, key := range []string{`"x1"`, `"cx1"`, `"cy2"`, `"y2"`} {
		if !strings.Contains(out, key) {
			t.Errorf("embedded edge JSON missing %s", key)
		}
	}
	if strings.Contains(out, "EventSource") {
		t.Error("livereload script present without the option")
	}
}

func TestGenerateHTMLWithLiveReload(t *testing.T) {
	var buf bytes.Buffer
	if err := GenerateHTML(&buf, exportLayout(), "Fermentation", HTMLOptions{LiveReload: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "EventSource") {
		t.Error("livereload option did not embed the reload script")
	}
}

func TestHTMLEscapesTitle(t *testing.T) {
	var buf bytes.Buffer
	res := layout.Layout(&model.KnowledgeTree{Topic: "a<b>&c"}, 0, 1)
	if err := GenerateHTML(&buf, res, "a<b>&c", HTMLOptions{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<title>a<b>") {
		t.Error("title not escaped")
	}
}

func TestAllFormats(t *testing.T) {
	dir := t.TempDir()
	paths, err := AllFormats(dir, exportTree(), exportLayout())
	if err != nil {
		t.Fatalf("AllFormats: %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(paths))
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("missing export %s: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("export %s is empty", p)
		}
		if base := filepath.Base(p); !strings.HasPrefix(base, "fermentation.") {
			t.Errorf("unexpected base name %s", base)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Quantum Computing":  "quantum-computing",
		"  C++ (advanced) ":  "c-advanced",
		"":                   "tree",
		"---":                "tree",
		"Déjà Vu":            "dj-vu",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
