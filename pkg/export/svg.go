// Package export renders a laid-out knowledge tree to SVG, PNG,
// Markdown, and a self-contained interactive HTML bundle.
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

const (
	exportMargin = 40
	cornerRadius = 10
)

// Dracula-ish palette shared by the SVG and PNG exporters.
const (
	colorBg       = "#282a36"
	colorNodeFill = "#44475a"
	colorNodeLine = "#bd93f9"
	colorEdge     = "#6272a4"
	colorTitle    = "#f8f8f2"
	colorSubtle   = "#8be9fd"
)

// GenerateSVG writes the tree as an SVG document. Geometry comes
// straight from the layout result; nothing is recomputed here.
func GenerateSVG(w io.Writer, res layout.Result, title string) error {
	if len(res.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	min, max := res.Bounds()
	width := int(max.X-min.X) + 2*exportMargin
	height := int(max.Y-min.Y) + 2*exportMargin
	dx := exportMargin - int(min.X)
	dy := exportMargin - int(min.Y)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(title)
	canvas.Rect(0, 0, width, height, "fill:"+colorBg)

	edgeStyle := fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", colorEdge)
	for _, e := range res.Edges {
		d := fmt.Sprintf("M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f",
			e.From.X+float64(dx), e.From.Y+float64(dy),
			e.C1.X+float64(dx), e.C1.Y+float64(dy),
			e.C2.X+float64(dx), e.C2.Y+float64(dy),
			e.To.X+float64(dx), e.To.Y+float64(dy))
		canvas.Path(d, edgeStyle)
	}

	boxStyle := fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5", colorNodeFill, colorNodeLine)
	titleStyle := fmt.Sprintf("fill:%s;font-family:monospace;font-size:14px", colorTitle)
	badgeStyle := fmt.Sprintf("fill:%s;font-family:monospace;font-size:11px", colorSubtle)
	for _, n := range res.Nodes {
		x := int(n.Pos.X) + dx
		y := int(n.Pos.Y-layout.NodeHeight/2) + dy
		canvas.Roundrect(x, y, int(layout.NodeWidth), int(layout.NodeHeight), cornerRadius, cornerRadius, boxStyle)
		canvas.Text(x+12, y+int(layout.NodeHeight/2)+5, clipText(n.Title, 20), titleStyle)
		if n.HasChildren {
			canvas.Text(x+int(layout.NodeWidth)-18, y+int(layout.NodeHeight/2)+4, "▸", badgeStyle)
		}
	}

	canvas.End()
	return nil
}

// WriteSVGFile renders to path.
func WriteSVGFile(path string, res layout.Result, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return GenerateSVG(f, res, title)
}

// clipText truncates with an ellipsis; widths here are glyph counts,
// good enough for monospace export text.
func clipText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
