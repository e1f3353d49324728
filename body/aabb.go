package body

import "github.com/go-gl/mathgl/mgl64"

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// ContainsPoint reports whether point lies inside (or on the boundary of) the box.
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Contains reports whether other is fully enclosed by a.
func (a AABB) Contains(other AABB) bool {
	return other.Min.X() >= a.Min.X() && other.Max.X() <= a.Max.X() &&
		other.Min.Y() >= a.Min.Y() && other.Max.Y() <= a.Max.Y()
}

// Intersects reports whether a and other overlap on both axes.
func (a AABB) Intersects(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Translate returns a copy of a shifted by delta.
func (a AABB) Translate(delta mgl64.Vec2) AABB {
	return AABB{Min: a.Min.Add(delta), Max: a.Max.Add(delta)}
}

// Area returns the box's area; zero for a degenerate (point/line) box.
func (a AABB) Area() float64 {
	w := a.Max.X() - a.Min.X()
	h := a.Max.Y() - a.Min.Y()
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}
