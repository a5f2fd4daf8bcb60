package layout

import "gonum.org/v1/gonum/spatial/r2"

// Zoom clamp defaults. Config may narrow these but never widen them
// past what the renderers handle legibly.
const (
	MinZoom = 0.25
	MaxZoom = 4.0
)

// Transform is the view-transform {x, y, k}: translation plus scale
// applied to world coordinates before rendering. It is independent of
// tree state and owned by the interaction layer.
type Transform struct {
	X float64
	Y float64
	K float64
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{K: 1}
}

// Apply maps a world-space point to view space.
func (tr Transform) Apply(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X*tr.K + tr.X, Y: p.Y*tr.K + tr.Y}
}

// Invert maps a view-space point back to world space.
func (tr Transform) Invert(p r2.Vec) r2.Vec {
	return r2.Vec{X: (p.X - tr.X) / tr.K, Y: (p.Y - tr.Y) / tr.K}
}

// Pan shifts the translation by a cursor delta in view space.
func (tr Transform) Pan(dx, dy float64) Transform {
	tr.X += dx
	tr.Y += dy
	return tr
}

// ZoomAt scales by factor anchored at the given view-space point: the
// world point under the anchor stays fixed. Derived from
// newT = anchor - (anchor - oldT) * (newK / oldK).
func (tr Transform) ZoomAt(anchor r2.Vec, factor float64) Transform {
	return tr.ZoomAtClamped(anchor, factor, MinZoom, MaxZoom)
}

// ZoomAtClamped is ZoomAt with an explicit scale clamp.
func (tr Transform) ZoomAtClamped(anchor r2.Vec, factor, min, max float64) Transform {
	k := tr.K * factor
	if k < min {
		k = min
	}
	if k > max {
		k = max
	}
	ratio := k / tr.K
	tr.X = anchor.X - (anchor.X-tr.X)*ratio
	tr.Y = anchor.Y - (anchor.Y-tr.Y)*ratio
	tr.K = k
	return tr
}
