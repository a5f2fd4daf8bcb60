package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

// WritePNGFile rasterizes the tree to a PNG using the same geometry as
// the SVG export.
func WritePNGFile(path string, res layout.Result, title string) error {
	if len(res.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	min, max := res.Bounds()
	width := int(max.X-min.X) + 2*exportMargin
	height := int(max.Y-min.Y) + 2*exportMargin
	dx := float64(exportMargin) - min.X
	dy := float64(exportMargin) - min.Y

	dc := gg.NewContext(width, height)
	dc.SetHexColor(colorBg)
	dc.Clear()

	dc.SetHexColor(colorEdge)
	dc.SetLineWidth(2)
	for _, e := range res.Edges {
		dc.MoveTo(e.From.X+dx, e.From.Y+dy)
		dc.CubicTo(e.C1.X+dx, e.C1.Y+dy, e.C2.X+dx, e.C2.Y+dy, e.To.X+dx, e.To.Y+dy)
		dc.Stroke()
	}

	for _, n := range res.Nodes {
		x := n.Pos.X + dx
		y := n.Pos.Y - layout.NodeHeight/2 + dy

		dc.SetHexColor(colorNodeFill)
		dc.DrawRoundedRectangle(x, y, layout.NodeWidth, layout.NodeHeight, cornerRadius)
		dc.FillPreserve()
		dc.SetHexColor(colorNodeLine)
		dc.SetLineWidth(1.5)
		dc.Stroke()

		dc.SetHexColor(colorTitle)
		dc.DrawStringAnchored(clipText(n.Title, 20), x+12, n.Pos.Y+dy, 0, 0.35)
		if n.HasChildren {
			dc.SetHexColor(colorSubtle)
			dc.DrawStringAnchored("+", x+layout.NodeWidth-14, n.Pos.Y+dy, 0.5, 0.35)
		}
	}

	return dc.SavePNG(path)
}
