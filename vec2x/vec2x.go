// Package vec2x adds the 2D geometry kernel routines that github.com/go-gl/mathgl's
// mgl64.Vec2 leaves out: scalar cross product, the perpendicular operator, and the
// triple-product identity GJK/EPA use to find a Voronoi-region normal.
package vec2x

import "github.com/go-gl/mathgl/mgl64"

// Cross returns the scalar (z-component) of the 3D cross product of two 2D vectors.
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// Perp rotates v by +90 degrees: (x, y) -> (-y, x).
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// TripleCross computes (a x b) x c restricted to the 2D plane, i.e. the vector
// obtained by treating a, b, c as lying in the z=0 plane of 3D space and
// projecting the triple cross product back onto that plane. Used by GJK/EPA to
// build an edge normal that points away from a third point.
func TripleCross(a, b, c mgl64.Vec2) mgl64.Vec2 {
	// (a x b) x c = b*(a.c) - a*(b.c) in the z=0 plane, specialized to 2D.
	ac := a.Dot(c)
	bc := b.Dot(c)
	return mgl64.Vec2{b.X()*ac - a.X()*bc, b.Y()*ac - a.Y()*bc}
}

// Rotate rotates v by the angle whose sine and cosine are given
// (counter-clockwise, +y down conventions aside).
func Rotate(v mgl64.Vec2, sin, cos float64) mgl64.Vec2 {
	return mgl64.Vec2{v.X()*cos - v.Y()*sin, v.X()*sin + v.Y()*cos}
}
