package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Each factory below builds its collider centered on the origin, computes
// mass/angularMass from the shape's own area and MMOI, then recenters the
// collider onto position. Rectangle and triangle bodies use their closed-form
// MMOI formulas directly rather than Polygon's generic fan-triangulation.

func validatePosition(position mgl64.Vec2) error {
	if math.IsNaN(position.X()) || math.IsInf(position.X(), 0) ||
		math.IsNaN(position.Y()) || math.IsInf(position.Y(), 0) {
		return ErrNaNPosition
	}
	return nil
}

func material(density, restitution, friction float64) Material {
	return Material{Density: density, Restitution: restitution, Friction: friction}
}

// centerAndPlace shifts shape so its centroid sits at position.
func centerAndPlace(shape Shape, position mgl64.Vec2) {
	shape.Translate(position.Sub(shape.Centroid()))
}

// FromCircle builds a circular rigid body of the given radius centered at position.
func FromCircle(position mgl64.Vec2, radius, density, restitution, friction float64, fixed bool) (*RigidBody, error) {
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	shape := NewCircle(mgl64.Vec2{}, radius)
	centerAndPlace(shape, position)

	mass := shape.Area() * density
	if !fixed && mass <= 0 {
		return nil, ErrZeroMass
	}
	angularMass := shape.MMOI(mass)
	return New(shape, position, mass, angularMass, material(density, restitution, friction), fixed), nil
}

// FromRect builds an axis-aligned rectangular body of the given full width/height.
func FromRect(position mgl64.Vec2, width, height, density, restitution, friction float64, fixed bool) (*RigidBody, error) {
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	hw, hh := width/2, height/2
	verts := []mgl64.Vec2{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	}
	shape, err := NewPolygon(verts)
	if err != nil {
		return nil, err
	}
	centerAndPlace(shape, position)

	mass := width * height * density
	if !fixed && mass <= 0 {
		return nil, ErrZeroMass
	}
	angularMass := mass * (width*width + height*height) / 12.0
	return New(shape, position, mass, angularMass, material(density, restitution, friction), fixed), nil
}

// FromTriangle builds a body from three vertices given relative to the
// triangle's own centroid (i.e. as if the centroid were the origin); the
// resulting collider is recentered at position.
func FromTriangle(position mgl64.Vec2, p1, p2, p3 mgl64.Vec2, density, restitution, friction float64, fixed bool) (*RigidBody, error) {
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	shape, err := NewPolygon([]mgl64.Vec2{p1, p2, p3})
	if err != nil {
		return nil, err
	}
	centerAndPlace(shape, position)

	mass := shape.Area() * density
	if !fixed && mass <= 0 {
		return nil, ErrZeroMass
	}
	unitMMOI := (p2.Sub(p1).LenSqr() + p3.Sub(p1).LenSqr() + p2.Sub(p3).LenSqr()) / 36.0
	angularMass := mass * unitMMOI
	return New(shape, position, mass, angularMass, material(density, restitution, friction), fixed), nil
}

// FromConvexPolygon builds a body from arbitrary CCW-wound vertices given
// relative to the polygon's own centroid.
func FromConvexPolygon(position mgl64.Vec2, vertices []mgl64.Vec2, density, restitution, friction float64, fixed bool) (*RigidBody, error) {
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	shape, err := NewPolygon(vertices)
	if err != nil {
		return nil, err
	}
	centerAndPlace(shape, position)

	mass := shape.Area() * density
	if !fixed && mass <= 0 {
		return nil, ErrZeroMass
	}
	angularMass := shape.MMOI(mass)
	return New(shape, position, mass, angularMass, material(density, restitution, friction), fixed), nil
}

// FromCapsule builds a capsule body whose endpoints lie length/2 either side
// of the origin along the x-axis, before being recentered at position.
func FromCapsule(position mgl64.Vec2, length, radius, density, restitution, friction float64, fixed bool) (*RigidBody, error) {
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	a := mgl64.Vec2{-length / 2, 0}
	b := mgl64.Vec2{length / 2, 0}
	shape := NewCapsule(a, b, radius)
	centerAndPlace(shape, position)

	mass := shape.Area() * density
	if !fixed && mass <= 0 {
		return nil, ErrZeroMass
	}
	angularMass := shape.MMOI(mass)
	return New(shape, position, mass, angularMass, material(density, restitution, friction), fixed), nil
}
