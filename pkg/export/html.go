package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/knowtree/pkg/layout"
)

// HTMLOptions tweaks the interactive export.
type HTMLOptions struct {
	// LiveReload embeds a script that reconnects to /events and reloads
	// the page when the served file changes. Only useful under ServePreview.
	LiveReload bool
}

type htmlNode struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Path        string  `json:"path"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	HasChildren bool    `json:"hasChildren"`
}

type htmlEdge struct {
	X1  float64 `json:"x1"`
	Y1  float64 `json:"y1"`
	CX1 float64 `json:"cx1"`
	CY1 float64 `json:"cy1"`
	CX2 float64 `json:"cx2"`
	CY2 float64 `json:"cy2"`
	X2  float64 `json:"x2"`
	Y2  float64 `json:"y2"`
}

// GenerateHTML writes a single self-contained page: the positioned tree
// as embedded JSON plus a canvas renderer with drag-to-pan and
// wheel zoom anchored at the cursor, using the same clamp as the TUI.
func GenerateHTML(w io.Writer, res layout.Result, title string, opts HTMLOptions) error {
	if len(res.Nodes) == 0 {
		return fmt.Errorf("no nodes to export")
	}

	nodes := make([]htmlNode, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		nodes = append(nodes, htmlNode{
			Title:       n.Title,
			Description: n.Description,
			Path:        n.Path,
			X:           n.Pos.X,
			Y:           n.Pos.Y,
			HasChildren: n.HasChildren,
		})
	}
	edges := make([]htmlEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		edges = append(edges, htmlEdge{
			X1: e.From.X, Y1: e.From.Y,
			CX1: e.C1.X, CY1: e.C1.Y,
			CX2: e.C2.X, CY2: e.C2.Y,
			X2: e.To.X, Y2: e.To.Y,
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("encode edges: %w", err)
	}

	reload := ""
	if opts.LiveReload {
		reload = liveReloadScript
	}

	page := fmt.Sprintf(htmlTemplate,
		escapeHTML(title),
		escapeHTML(title),
		nodesJSON,
		edgesJSON,
		layout.NodeWidth, layout.NodeHeight,
		layout.MinZoom, layout.MaxZoom,
		reload,
	)
	_, err = io.WriteString(w, page)
	return err
}

// WriteHTMLFile renders the interactive page to path.
func WriteHTMLFile(path string, res layout.Result, title string, opts HTMLOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return GenerateHTML(f, res, title, opts)
}

// HTMLFilename builds a timestamped output name from the topic.
func HTMLFilename(topic string) string {
	return fmt.Sprintf("%s-%s.html", slugify(topic), time.Now().Format("20060102-150405"))
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

const liveReloadScript = `<script>
(function(){
  var es = new EventSource('/events');
  es.onmessage = function(ev){ if (ev.data === 'reload') location.reload(); };
})();
</script>`

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
  html, body { margin: 0; height: 100%%; background: #282a36; color: #f8f8f2;
    font-family: ui-monospace, "SF Mono", Menlo, monospace; overflow: hidden; }
  #hud { position: fixed; top: 12px; left: 16px; opacity: .85; pointer-events: none; }
  #hud h1 { font-size: 15px; margin: 0 0 4px; color: #bd93f9; }
  #hud .hint { font-size: 11px; color: #6272a4; }
  #detail { position: fixed; right: 16px; top: 12px; max-width: 320px; font-size: 12px;
    background: #44475acc; border: 1px solid #6272a4; border-radius: 8px;
    padding: 10px 12px; display: none; }
  #detail b { color: #8be9fd; }
  canvas { display: block; cursor: grab; }
  canvas.panning { cursor: grabbing; }
</style>
</head>
<body>
<div id="hud"><h1>%s</h1><div class="hint">drag to pan · wheel to zoom · hover for detail</div></div>
<div id="detail"></div>
<canvas id="view"></canvas>
<script>
const NODES = %s;
const EDGES = %s;
const NODE_W = %v, NODE_H = %v;
const MIN_K = %v, MAX_K = %v;

const canvas = document.getElementById('view');
const detail = document.getElementById('detail');
const ctx = canvas.getContext('2d');
let tx = 0, ty = 0, k = 1;

function resize() {
  canvas.width = innerWidth * devicePixelRatio;
  canvas.height = innerHeight * devicePixelRatio;
  canvas.style.width = innerWidth + 'px';
  canvas.style.height = innerHeight + 'px';
  draw();
}

function fit() {
  let minX = Infinity, minY = Infinity, maxX = -Infinity, maxY = -Infinity;
  for (const n of NODES) {
    minX = Math.min(minX, n.x); maxX = Math.max(maxX, n.x + NODE_W);
    minY = Math.min(minY, n.y - NODE_H / 2); maxY = Math.max(maxY, n.y + NODE_H / 2);
  }
  const pad = 60;
  k = Math.min((innerWidth - pad) / (maxX - minX), (innerHeight - pad) / (maxY - minY), 1);
  k = Math.max(MIN_K, Math.min(MAX_K, k));
  tx = (innerWidth - (maxX - minX) * k) / 2 - minX * k;
  ty = (innerHeight - (maxY - minY) * k) / 2 - minY * k;
}

function draw() {
  ctx.setTransform(devicePixelRatio, 0, 0, devicePixelRatio, 0, 0);
  ctx.fillStyle = '#282a36';
  ctx.fillRect(0, 0, innerWidth, innerHeight);
  ctx.translate(tx, ty);
  ctx.scale(k, k);

  ctx.strokeStyle = '#6272a4';
  ctx.lineWidth = 2 / k;
  for (const e of EDGES) {
    ctx.beginPath();
    ctx.moveTo(e.x1, e.y1);
    ctx.bezierCurveTo(e.cx1, e.cy1, e.cx2, e.cy2, e.x2, e.y2);
    ctx.stroke();
  }

  for (const n of NODES) {
    const y = n.y - NODE_H / 2;
    ctx.fillStyle = '#44475a';
    ctx.strokeStyle = '#bd93f9';
    ctx.lineWidth = 1.5 / k;
    ctx.beginPath();
    ctx.roundRect(n.x, y, NODE_W, NODE_H, 10);
    ctx.fill();
    ctx.stroke();

    ctx.fillStyle = '#f8f8f2';
    ctx.font = '13px ui-monospace, monospace';
    let t = n.title;
    while (t.length > 1 && ctx.measureText(t).width > NODE_W - 30) t = t.slice(0, -1);
    if (t !== n.title) t += '…';
    ctx.fillText(t, n.x + 12, n.y + 4);
    if (n.hasChildren) {
      ctx.fillStyle = '#8be9fd';
      ctx.fillText('▸', n.x + NODE_W - 18, n.y + 4);
    }
  }
}

function hit(px, py) {
  const wx = (px - tx) / k, wy = (py - ty) / k;
  for (const n of NODES) {
    if (wx >= n.x && wx <= n.x + NODE_W && wy >= n.y - NODE_H / 2 && wy <= n.y + NODE_H / 2)
      return n;
  }
  return null;
}

let dragging = false, lastX = 0, lastY = 0;
canvas.addEventListener('mousedown', ev => {
  dragging = true; lastX = ev.clientX; lastY = ev.clientY;
  canvas.classList.add('panning');
});
addEventListener('mouseup', () => { dragging = false; canvas.classList.remove('panning'); });
addEventListener('mousemove', ev => {
  if (dragging) {
    tx += ev.clientX - lastX;
    ty += ev.clientY - lastY;
    lastX = ev.clientX; lastY = ev.clientY;
    draw();
    return;
  }
  const n = hit(ev.clientX, ev.clientY);
  if (n) {
    detail.style.display = 'block';
    detail.innerHTML = '<b>' + n.path + '</b><br>' + (n.description || '');
  } else {
    detail.style.display = 'none';
  }
});
canvas.addEventListener('wheel', ev => {
  ev.preventDefault();
  const factor = ev.deltaY < 0 ? 1.1 : 1 / 1.1;
  const nk = Math.max(MIN_K, Math.min(MAX_K, k * factor));
  tx = ev.clientX - (ev.clientX - tx) * (nk / k);
  ty = ev.clientY - (ev.clientY - ty) * (nk / k);
  k = nk;
  draw();
}, { passive: false });

addEventListener('resize', resize);
fit();
resize();
</script>
%s
</body>
</html>
`
