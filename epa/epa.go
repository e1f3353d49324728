// Package epa implements the Expanding Polytope Algorithm for 2D penetration
// depth and contact-point recovery.
//
// EPA runs once GJK has found an origin-enclosing simplex. It walks the
// simplex's triangle outward, edge by edge, toward the boundary of the
// Minkowski difference, until the closest edge stops improving — that edge's
// normal and distance are the minimum translation vector (MTV) separating
// the two shapes.
//
// Unlike a 3D polytope, a 2D one never needs face bookkeeping: the simplex is
// already a closed triangle, and each expansion step just splices one new
// vertex into the polygon between the closest edge's endpoints.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on
//     3D Game Objects" (2001), specialized here to the 2D case.
package epa

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"github.com/hollow-engine/physics2d/gjk"
)

const (
	// maxIterations caps polytope expansion. Convergence for the shapes this
	// engine supports (circle, polygon, capsule) is typically a handful of
	// iterations; the 100-iteration ceiling only ever fires on genuinely
	// degenerate input.
	maxIterations = 100

	// convergenceTolerance is how close a new support point's distance has to
	// land to the current closest edge's distance before EPA accepts that
	// edge as the answer.
	convergenceTolerance = 1e-3

	// witnessMergeThresholdSq: if an edge's two cached body-A witness points
	// are this close together (squared distance), either one is an
	// acceptable contact point and there's no need to interpolate.
	witnessMergeThresholdSq = 1.0
)

// Result is the single witness contact EPA recovers for a colliding pair.
// Unlike a multi-point SAT manifold, EPA here only ever produces one contact
// point per call; the engine's manifold cache is responsible for holding
// onto contacts across steps and building up to two points over time.
type Result struct {
	Normal        mgl64.Vec2 // points from A toward B
	Depth         float64
	WorldContactA mgl64.Vec2
	WorldContactB mgl64.Vec2
}

// EPA expands the GJK simplex into the penetration depth, separating normal,
// and a witness contact point for the pair (a, b).
func EPA(a, b *body.RigidBody, simplex *gjk.Simplex) (Result, error) {
	poly := newPolytope(simplex.Points[:simplex.Count], simplex.SupportA[:simplex.Count])

	for iter := 0; iter < maxIterations; iter++ {
		minIdx, minEdge := poly.closestEdge()

		supportPoint, witnessA := gjk.Support(a, b, minEdge.normal)
		distance := minEdge.normal.Dot(supportPoint)

		if distance-minEdge.distance < convergenceTolerance {
			return buildResult(poly, minIdx, minEdge), nil
		}

		poly.insert(minIdx, supportPoint, witnessA)
	}

	return Result{}, fmt.Errorf("epa: failed to converge after %d iterations", maxIterations)
}

// buildResult turns the winning edge into a contact. If the edge's two
// cached body-A witnesses are close enough together, either one already
// approximates the true contact point. Otherwise the origin is projected
// onto the Minkowski-space edge to find an interpolation factor, which is
// then applied to the edge's two witness points to locate the contact on A.
func buildResult(poly *polytope, minIdx int, minEdge edge) Result {
	var worldContactA mgl64.Vec2

	if minEdge.witnessAAtA.Sub(minEdge.witnessAAtB).LenSqr() < witnessMergeThresholdSq {
		worldContactA = minEdge.witnessAAtA
	} else {
		e := minEdge.b.Sub(minEdge.a)
		denom := e.Dot(e)
		t := 0.0
		if denom > 1e-12 {
			t = -(minEdge.a.Dot(e)) / denom
		}
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		worldContactA = minEdge.witnessAAtA.Add(minEdge.witnessAAtB.Sub(minEdge.witnessAAtA).Mul(t))
	}

	mtv := minEdge.normal.Mul(minEdge.distance)
	return Result{
		Normal:        minEdge.normal,
		Depth:         minEdge.distance,
		WorldContactA: worldContactA,
		WorldContactB: worldContactA.Sub(mtv),
	}
}
