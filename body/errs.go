package body

import "errors"

var (
	// ErrTooFewVertices is returned by NewPolygon and the polygon factory when
	// fewer than 3 vertices are supplied.
	ErrTooFewVertices = errors.New("body: polygon needs at least 3 vertices")
	// ErrZeroMass is returned when a dynamic body's shape/density combination
	// yields zero or negative mass.
	ErrZeroMass = errors.New("body: dynamic body has zero or negative mass")
	// ErrNaNPosition is returned when a body is constructed at a non-finite position.
	ErrNaNPosition = errors.New("body: position is NaN or infinite")
)
