package epa

import "github.com/go-gl/mathgl/mgl64"

// edge is one side of the expanding polytope polygon, running from vertex A
// to vertex B in Minkowski-difference space. The witness fields carry the
// support point on body A that produced each endpoint, so the winning edge
// can build a contact point without re-querying either shape.
type edge struct {
	a, b        mgl64.Vec2
	witnessAAtA mgl64.Vec2
	witnessAAtB mgl64.Vec2
	normal      mgl64.Vec2
	distance    float64
}

// outwardEdge computes the edge's outward-pointing normal and its distance
// from the origin. EPA only ever starts from an origin-enclosing simplex, so
// whichever way the raw tripleCross construction happens to point, flipping
// it whenever normal.Dot(a) comes out negative leaves the edge outward-facing,
// and the clamped distance never goes negative. When the origin lies on the
// edge's line the distance is zero and there is no sign to test; the
// polytope's edgeAt orients that case against a neighbouring vertex.
func outwardEdge(a, b, witnessA, witnessB mgl64.Vec2) edge {
	ab := b.Sub(a)
	ao := a.Mul(-1)

	normal := tripleCross(ab, ao, ab)
	if normal.LenSqr() < 1e-12 {
		normal = mgl64.Vec2{ab.Y(), -ab.X()}
	}
	if length := normal.Len(); length > 1e-12 {
		normal = normal.Mul(1 / length)
	}

	distance := normal.Dot(a)
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
	}
	if distance < 0 {
		distance = 0
	}

	return edge{
		a: a, b: b,
		witnessAAtA: witnessA,
		witnessAAtB: witnessB,
		normal:      normal,
		distance:    distance,
	}
}

// tripleCross is the 2D vector triple product b*(a.c) - a*(b.c), the same
// construction gjk's line case uses to find the perpendicular of ab facing a
// third point.
func tripleCross(a, b, c mgl64.Vec2) mgl64.Vec2 {
	return b.Mul(a.Dot(c)).Sub(a.Mul(b.Dot(c)))
}
