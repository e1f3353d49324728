package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/vec2x"
)

// Kind identifies which of the three closed shape variants a Shape value is.
// Support, AABB, Translate, Rotate and the rest are dispatched through the
// Shape interface; no code in this module switches on Kind.
type Kind int

const (
	KindCircle Kind = iota
	KindPolygon
	KindCapsule
)

// Shape is the collider carried by a RigidBody. All three implementations store
// their geometry in world space and keep an internal AABB cache that Translate
// and Rotate refresh in place, so AABB() is always consistent with the shape's
// current pose without a separate recompute step.
type Shape interface {
	Kind() Kind
	Area() float64
	Centroid() mgl64.Vec2
	AABB() AABB
	Translate(delta mgl64.Vec2)
	Rotate(pivot mgl64.Vec2, angle float64)
	Clone() Shape
	// Support returns the furthest point of the shape, in world space, along direction.
	Support(direction mgl64.Vec2) mgl64.Vec2
	// MMOI returns the angular mass (scalar moment of inertia) for the given total mass.
	MMOI(mass float64) float64
}

// ---------------------------------------------------------------------------
// Circle

type Circle struct {
	Center mgl64.Vec2
	Radius float64
	aabb   AABB
}

func NewCircle(center mgl64.Vec2, radius float64) *Circle {
	c := &Circle{Center: center, Radius: radius}
	c.recomputeAABB()
	return c
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Area() float64 { return math.Pi * c.Radius * c.Radius }

func (c *Circle) Centroid() mgl64.Vec2 { return c.Center }

func (c *Circle) AABB() AABB { return c.aabb }

func (c *Circle) recomputeAABB() {
	r := mgl64.Vec2{c.Radius, c.Radius}
	c.aabb = AABB{Min: c.Center.Sub(r), Max: c.Center.Add(r)}
}

func (c *Circle) Translate(delta mgl64.Vec2) {
	c.Center = c.Center.Add(delta)
	c.recomputeAABB()
}

func (c *Circle) Rotate(pivot mgl64.Vec2, angle float64) {
	sin, cos := math.Sincos(angle)
	c.Center = pivot.Add(vec2x.Rotate(c.Center.Sub(pivot), sin, cos))
	c.recomputeAABB()
}

func (c *Circle) Clone() Shape {
	clone := *c
	return &clone
}

func (c *Circle) Support(direction mgl64.Vec2) mgl64.Vec2 {
	if direction.LenSqr() < 1e-16 {
		return c.Center.Add(mgl64.Vec2{c.Radius, 0})
	}
	return c.Center.Add(direction.Normalize().Mul(c.Radius))
}

func (c *Circle) MMOI(mass float64) float64 {
	return mass * c.Radius * c.Radius / 2.0
}

// ---------------------------------------------------------------------------
// Polygon

// Polygon is a convex shape defined by its vertices in world space, wound
// counter-clockwise.
type Polygon struct {
	Vertices []mgl64.Vec2
	aabb     AABB
}

func NewPolygon(vertices []mgl64.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, ErrTooFewVertices
	}
	verts := make([]mgl64.Vec2, len(vertices))
	copy(verts, vertices)
	p := &Polygon{Vertices: verts}
	p.recomputeAABB()
	return p, nil
}

func (p *Polygon) Kind() Kind { return KindPolygon }

// signedArea2 returns twice the polygon's signed area (positive for CCW winding).
func (p *Polygon) signedArea2() float64 {
	total := 0.0
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		total += vec2x.Cross(a, b)
	}
	return total
}

func (p *Polygon) Area() float64 {
	return math.Abs(p.signedArea2()) / 2.0
}

func (p *Polygon) Centroid() mgl64.Vec2 {
	n := len(p.Vertices)
	area2 := p.signedArea2()
	if math.Abs(area2) < 1e-12 {
		// degenerate: fall back to vertex average.
		sum := mgl64.Vec2{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Mul(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		cross := vec2x.Cross(a, b)
		cx += (a.X() + b.X()) * cross
		cy += (a.Y() + b.Y()) * cross
	}
	factor := 1.0 / (3.0 * area2)
	return mgl64.Vec2{cx * factor, cy * factor}
}

func (p *Polygon) AABB() AABB { return p.aabb }

func (p *Polygon) recomputeAABB() {
	min := p.Vertices[0]
	max := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min = mgl64.Vec2{math.Min(min.X(), v.X()), math.Min(min.Y(), v.Y())}
		max = mgl64.Vec2{math.Max(max.X(), v.X()), math.Max(max.Y(), v.Y())}
	}
	p.aabb = AABB{Min: min, Max: max}
}

func (p *Polygon) Translate(delta mgl64.Vec2) {
	for i := range p.Vertices {
		p.Vertices[i] = p.Vertices[i].Add(delta)
	}
	p.recomputeAABB()
}

func (p *Polygon) Rotate(pivot mgl64.Vec2, angle float64) {
	sin, cos := math.Sincos(angle)
	for i := range p.Vertices {
		p.Vertices[i] = pivot.Add(vec2x.Rotate(p.Vertices[i].Sub(pivot), sin, cos))
	}
	p.recomputeAABB()
}

func (p *Polygon) Clone() Shape {
	verts := make([]mgl64.Vec2, len(p.Vertices))
	copy(verts, p.Vertices)
	return &Polygon{Vertices: verts, aabb: p.aabb}
}

func (p *Polygon) Support(direction mgl64.Vec2) mgl64.Vec2 {
	best := p.Vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range p.Vertices[1:] {
		d := v.Dot(direction)
		if d > bestDot {
			bestDot = d
			best = v
		}
	}
	return best
}

// MMOI implements the fan-triangulation formula: triangulate at vertex 0, sum
// each triangle's own unit MMOI plus its parallel-axis offset from the polygon
// centroid, weighted by the triangle's share of the total area.
func (p *Polygon) MMOI(mass float64) float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	polyCentroid := p.Centroid()
	totalArea := p.Area()
	if totalArea < 1e-12 {
		return 0
	}

	unit := 0.0
	v0 := p.Vertices[0]
	for i := 1; i < n-1; i++ {
		v1 := p.Vertices[i]
		v2 := p.Vertices[i+1]
		triArea := math.Abs(vec2x.Cross(v1.Sub(v0), v2.Sub(v0))) / 2.0
		if triArea < 1e-12 {
			continue
		}
		triCentroid := v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
		triMMOI := (v1.Sub(v0).LenSqr() + v2.Sub(v0).LenSqr() + v1.Sub(v2).LenSqr()) / 36.0
		offset := triCentroid.Sub(polyCentroid).LenSqr()
		unit += (triArea / totalArea) * (triMMOI + offset)
	}
	return mass * unit
}

// ---------------------------------------------------------------------------
// Capsule

// Capsule is a rectangle of length |B-A| capped by two semicircles of Radius.
type Capsule struct {
	A, B   mgl64.Vec2
	Radius float64
	aabb   AABB
}

func NewCapsule(a, b mgl64.Vec2, radius float64) *Capsule {
	c := &Capsule{A: a, B: b, Radius: radius}
	c.recomputeAABB()
	return c
}

func (c *Capsule) Kind() Kind { return KindCapsule }

func (c *Capsule) Length() float64 { return c.B.Sub(c.A).Len() }

func (c *Capsule) Area() float64 {
	l := c.Length()
	return l*2*c.Radius + math.Pi*c.Radius*c.Radius
}

func (c *Capsule) Centroid() mgl64.Vec2 {
	return c.A.Add(c.B).Mul(0.5)
}

func (c *Capsule) AABB() AABB { return c.aabb }

func (c *Capsule) recomputeAABB() {
	r := mgl64.Vec2{c.Radius, c.Radius}
	min := mgl64.Vec2{math.Min(c.A.X(), c.B.X()), math.Min(c.A.Y(), c.B.Y())}.Sub(r)
	max := mgl64.Vec2{math.Max(c.A.X(), c.B.X()), math.Max(c.A.Y(), c.B.Y())}.Add(r)
	c.aabb = AABB{Min: min, Max: max}
}

func (c *Capsule) Translate(delta mgl64.Vec2) {
	c.A = c.A.Add(delta)
	c.B = c.B.Add(delta)
	c.recomputeAABB()
}

func (c *Capsule) Rotate(pivot mgl64.Vec2, angle float64) {
	sin, cos := math.Sincos(angle)
	c.A = pivot.Add(vec2x.Rotate(c.A.Sub(pivot), sin, cos))
	c.B = pivot.Add(vec2x.Rotate(c.B.Sub(pivot), sin, cos))
	c.recomputeAABB()
}

func (c *Capsule) Clone() Shape {
	clone := *c
	return &clone
}

func (c *Capsule) Support(direction mgl64.Vec2) mgl64.Vec2 {
	endpoint := c.A
	if c.B.Dot(direction) > c.A.Dot(direction) {
		endpoint = c.B
	}
	if direction.LenSqr() < 1e-16 {
		return endpoint.Add(mgl64.Vec2{c.Radius, 0})
	}
	return endpoint.Add(direction.Normalize().Mul(c.Radius))
}

// MMOI decomposes the capsule into a rectangle of length L and a pair of
// end caps treated as a single circle of Radius, weighted by mass share.
func (c *Capsule) MMOI(mass float64) float64 {
	r := c.Radius
	l := c.Length()
	capMMOI := r*r/2.0 + l*l/2.0
	rectMMOI := (l*l + (2*r)*(2*r)) / 12.0
	massCircleFrac := math.Pi * r / (math.Pi*r + 2*l)
	massRectFrac := 1 - massCircleFrac
	unit := capMMOI*massCircleFrac + rectMMOI*massRectFrac
	return mass * unit
}
