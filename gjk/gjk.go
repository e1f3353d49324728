// Package gjk implements the 2D Gilbert-Johnson-Keerthi algorithm.
//
// GJK detects whether two convex shapes overlap by testing whether their
// Minkowski difference contains the origin. In 2D the simplex never needs
// more than 3 points (line, then triangle) — a triangle already has enough
// vertices to enclose a point in the plane, unlike 3D where a tetrahedron
// is required.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance
//     Between Complex Objects in Three-Dimensional Space" (1988)
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"github.com/hollow-engine/physics2d/vec2x"
)

// maxIterations caps the outer support-point loop. The support-past-origin
// test already guarantees termination for valid convex input; the cap only
// guards against the numerical degeneracies that guarantee would miss.
const maxIterations = 64

// Simplex holds up to 3 points of the Minkowski difference, together with
// the witness support point each one carries on shape A. EPA needs that
// witness to build its contact point without recomputing support queries
// against directions GJK already discarded. Points[Count-1]/SupportA[Count-1]
// is always the most recently added (newest) pair.
type Simplex struct {
	Points   [3]mgl64.Vec2
	SupportA [3]mgl64.Vec2
	Count    int
}

func (s *Simplex) Reset() { s.Count = 0 }

// Support computes a support point of the Minkowski difference A - B in the
// given direction, along with the witness point on A that produced it.
func Support(a, b *body.RigidBody, direction mgl64.Vec2) (point, witnessA mgl64.Vec2) {
	witnessA = a.Collider.Support(direction)
	supportB := b.Collider.Support(direction.Mul(-1))
	return witnessA.Sub(supportB), witnessA
}

// GJK reports whether the Minkowski difference of a and b's colliders
// contains the origin, i.e. whether the two shapes overlap. On a true
// result simplex holds the enclosing triangle for EPA to expand from, or a
// single point when the first support point is already the origin.
func GJK(a, b *body.RigidBody, simplex *Simplex) bool {
	direction := a.Collider.Centroid().Sub(b.Collider.Centroid())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec2{1, 0}
	}

	simplex.Points[0], simplex.SupportA[0] = Support(a, b, direction)
	simplex.Count = 1

	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < maxIterations; i++ {
		newPoint, witnessA := Support(a, b, direction)
		if newPoint.Dot(direction) < 0 {
			return false
		}

		simplex.Points[simplex.Count] = newPoint
		simplex.SupportA[simplex.Count] = witnessA
		simplex.Count++

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

func containsOrigin(simplex *Simplex, direction *mgl64.Vec2) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	}
	return false
}

// line handles the 2-point simplex: a (newest) and b.
func line(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	normal := vec2x.TripleCross(ab, ao, ab)
	if normal.LenSqr() < 1e-12 {
		normal = vec2x.Perp(ab)
	}
	*direction = normal
	return false
}

// triangle handles the 3-point simplex: a (newest), b, c (oldest).
func triangle(simplex *Simplex, direction *mgl64.Vec2) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)

	abNormal := vec2x.TripleCross(ac, ab, ab)
	if abNormal.Dot(ao) > 0 {
		// Drop c, keep edge a-b.
		dropVertex(simplex, 0)
		*direction = abNormal
		return false
	}

	acNormal := vec2x.TripleCross(ab, ac, ac)
	if acNormal.Dot(ao) > 0 {
		// Drop b, keep edge a-c.
		dropVertex(simplex, 1)
		*direction = acNormal
		return false
	}

	// Origin lies inside the triangle on both edge tests: enclosed.
	return true
}

// dropVertex removes simplex.Points[idx] (idx in {0,1} of a 3-point simplex),
// shifting the remaining two into slots 0 and 1 while preserving recency order.
func dropVertex(simplex *Simplex, idx int) {
	var kept [2]int
	j := 0
	for i := 0; i < 3; i++ {
		if i != idx {
			kept[j] = i
			j++
		}
	}
	p0, s0 := simplex.Points[kept[0]], simplex.SupportA[kept[0]]
	p1, s1 := simplex.Points[kept[1]], simplex.SupportA[kept[1]]
	simplex.Points[0], simplex.SupportA[0] = p0, s0
	simplex.Points[1], simplex.SupportA[1] = p1, s1
	simplex.Count = 2
}
