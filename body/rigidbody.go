package body

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Material holds the per-body physical coefficients used to combine two
// bodies' surface properties into a single collision's restitution and
// friction (see the root package's Collision type for the combination rule).
type Material struct {
	Density     float64
	Restitution float64 // 0 = no rebound, 1 = perfectly elastic
	Friction    float64 // Coulomb friction coefficient, also reused as the
	// integration damping coefficient (see Integrate).
}

// RigidBody is a single simulated body: a shape, a pose, motion state, and
// the bookkeeping the engine needs to integrate, collide and sleep it.
type RigidBody struct {
	ID uint64

	Fixed     bool
	Sleeping  bool
	TimeStill float64

	// Island is a step-scoped back-pointer maintained by the root package's
	// island builder. It is nil outside of a step and for free-flying bodies.
	Island *Island

	Collider Shape

	Position mgl64.Vec2
	Rotation float64 // orientation angle in radians

	Material Material

	Mass               float64
	AngularMass        float64
	InverseMass        float64
	InverseAngularMass float64

	LinearVelocity  mgl64.Vec2
	AngularVelocity float64

	linearAccel  mgl64.Vec2
	angularAccel float64
}

// New builds a dynamic or fixed rigid body around an already-positioned shape.
// mass/angularMass must already reflect density (computed by the body
// factories in factory.go); fixed bodies get zero inverse mass regardless of
// the values passed in.
func New(shape Shape, position mgl64.Vec2, mass, angularMass float64, material Material, fixed bool) *RigidBody {
	rb := &RigidBody{
		Collider: shape,
		Position: position,
		Material: material,
		Fixed:    fixed,
	}
	if fixed {
		rb.Mass = math.Inf(1)
		rb.AngularMass = math.Inf(1)
		rb.InverseMass = 0
		rb.InverseAngularMass = 0
	} else {
		rb.Mass = mass
		rb.AngularMass = angularMass
		rb.InverseMass = 1.0 / mass
		rb.InverseAngularMass = 1.0 / angularMass
	}
	return rb
}

// Bounds returns the body's current world AABB, authoritative for broad-phase
// placement. It always matches the collider's pose since Shape.Translate and
// Shape.Rotate refresh their own cache.
func (rb *RigidBody) Bounds() AABB {
	return rb.Collider.AABB()
}

// ApplyForce accumulates a linear acceleration contribution (force/mass) for
// the next Integrate call. No-op on fixed bodies.
func (rb *RigidBody) ApplyForce(force mgl64.Vec2) {
	if rb.Fixed {
		return
	}
	rb.linearAccel = rb.linearAccel.Add(force.Mul(rb.InverseMass))
	rb.Wake()
}

// ApplyTorque accumulates an angular acceleration contribution for the next
// Integrate call. No-op on fixed bodies.
func (rb *RigidBody) ApplyTorque(torque float64) {
	if rb.Fixed {
		return
	}
	rb.angularAccel += torque * rb.InverseAngularMass
	rb.Wake()
}

// ApplyImpulseAtPoint applies impulse J at world offset r from the body's
// center, updating linear and angular velocity directly (used by the
// constraint solver, not queued like ApplyForce/ApplyTorque).
func (rb *RigidBody) ApplyImpulseAtPoint(impulse, r mgl64.Vec2) {
	if rb.Fixed {
		return
	}
	rb.LinearVelocity = rb.LinearVelocity.Add(impulse.Mul(rb.InverseMass))
	rb.AngularVelocity += rb.InverseAngularMass * cross(r, impulse)
}

// VelocityAtPoint returns the velocity of the material point at world offset
// r from the body's center: v + perp(r)*omega.
func (rb *RigidBody) VelocityAtPoint(r mgl64.Vec2) mgl64.Vec2 {
	return rb.LinearVelocity.Add(perp(r).Mul(rb.AngularVelocity))
}

func cross(a, b mgl64.Vec2) float64 { return a.X()*b.Y() - a.Y()*b.X() }
func perp(v mgl64.Vec2) mgl64.Vec2  { return mgl64.Vec2{-v.Y(), v.X()} }

// Integrate advances the body's pose by dt using semi-implicit Euler,
// followed by exponential damping. Gravity is applied by the engine before
// this call, not inside it. A no-op on fixed or sleeping bodies.
func (rb *RigidBody) Integrate(dt float64) {
	if rb.Fixed || rb.Sleeping {
		return
	}

	rb.LinearVelocity = rb.LinearVelocity.Add(rb.linearAccel.Mul(dt))
	translation := rb.LinearVelocity.Mul(dt)
	rb.Position = rb.Position.Add(translation)
	rb.Collider.Translate(translation)

	rb.AngularVelocity += rb.angularAccel * dt
	deltaAngle := rb.AngularVelocity * dt
	rb.Rotation += deltaAngle
	rb.Collider.Rotate(rb.Position, deltaAngle)

	damping := math.Exp(-dt * rb.Material.Friction)
	rb.LinearVelocity = rb.LinearVelocity.Mul(damping)
	rb.AngularVelocity *= damping

	rb.linearAccel = mgl64.Vec2{}
	rb.angularAccel = 0
}

// Teleport directly translates the body (used by external callers, e.g. the
// wrap-around collaborator) without going through force accumulation.
func (rb *RigidBody) Teleport(delta mgl64.Vec2) {
	rb.Position = rb.Position.Add(delta)
	rb.Collider.Translate(delta)
}

// Wake clears the sleeping flag and the still-time accumulator. Called
// whenever the body is force/torque-driven. Contact wake-up in the engine's
// collision pass clears only the Sleeping flag and does not call Wake.
func (rb *RigidBody) Wake() {
	rb.Sleeping = false
	rb.TimeStill = 0
}

// Sleep marks the body as sleeping. Velocities are left untouched: sleep
// arbitration only calls this once they have stayed below the sleep
// thresholds long enough, and integration skips sleeping bodies entirely, so
// the residual velocity is negligible without being clamped away.
func (rb *RigidBody) Sleep() {
	rb.Sleeping = true
}
