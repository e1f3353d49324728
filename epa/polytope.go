package epa

import "github.com/go-gl/mathgl/mgl64"

// polytope is the expanding polygon EPA walks outward from the GJK simplex.
// vertices and witnessA are parallel slices read as a closed loop: the edge
// at index i runs from vertex i to vertex (i+1)%n.
type polytope struct {
	vertices []mgl64.Vec2
	witnessA []mgl64.Vec2
}

func newPolytope(points, witnessA []mgl64.Vec2) *polytope {
	return &polytope{
		vertices: append([]mgl64.Vec2(nil), points...),
		witnessA: append([]mgl64.Vec2(nil), witnessA...),
	}
}

func (p *polytope) edgeAt(i int) edge {
	n := len(p.vertices)
	j := (i + 1) % n
	e := outwardEdge(p.vertices[i], p.vertices[j], p.witnessA[i], p.witnessA[j])
	// With the origin on the edge's line there is no origin side to orient
	// by, so point the normal away from the polygon's next vertex instead.
	if k := (j + 1) % n; e.distance < 1e-9 && k != i {
		if e.normal.Dot(p.vertices[k].Sub(e.a)) > 0 {
			e.normal = e.normal.Mul(-1)
		}
	}
	return e
}

// closestEdge scans every edge and returns the index of (and the edge data
// for) the one nearest the origin.
func (p *polytope) closestEdge() (int, edge) {
	minIdx := 0
	minEdge := p.edgeAt(0)
	for i := 1; i < len(p.vertices); i++ {
		e := p.edgeAt(i)
		if e.distance < minEdge.distance {
			minIdx, minEdge = i, e
		}
	}
	return minIdx, minEdge
}

// insert splices a new vertex into the polygon immediately after index i,
// between that edge's two endpoints.
func (p *polytope) insert(i int, point, witness mgl64.Vec2) {
	j := i + 1
	p.vertices = append(p.vertices, mgl64.Vec2{})
	copy(p.vertices[j+1:], p.vertices[j:])
	p.vertices[j] = point

	p.witnessA = append(p.witnessA, mgl64.Vec2{})
	copy(p.witnessA[j+1:], p.witnessA[j:])
	p.witnessA[j] = witness
}
