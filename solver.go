package physics2d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// positionCorrectionSlop is the penetration allowance below which linear
// position correction applies no bias.
const positionCorrectionSlop = 0.1

// restitutionVelocityCutoff is the closing-velocity threshold below which no
// restitution bias is baked in for a contact.
const restitutionVelocityCutoff = -0.1

// precomputeEffectiveMasses fills each contact's EffectiveMassNormal/Tangent
// from the pair's current inverse masses and moment arms.
func precomputeEffectiveMasses(collisions []*Collision) {
	for _, c := range collisions {
		a, b := c.BodyA, c.BodyB
		n, t := c.Manifold.Normal, c.Manifold.Tangent
		for _, ct := range c.Manifold.Contacts {
			rA := ct.WorldPosA.Sub(a.Position)
			rB := ct.WorldPosB.Sub(b.Position)

			rAcrossN := cross(rA, n)
			rBcrossN := cross(rB, n)
			denomN := a.InverseMass + b.InverseMass +
				a.InverseAngularMass*rAcrossN*rAcrossN +
				b.InverseAngularMass*rBcrossN*rBcrossN
			if denomN > 0 {
				ct.EffectiveMassNormal = 1.0 / denomN
			}

			rAcrossT := cross(rA, t)
			rBcrossT := cross(rB, t)
			denomT := a.InverseMass + b.InverseMass +
				a.InverseAngularMass*rAcrossT*rAcrossT +
				b.InverseAngularMass*rBcrossT*rBcrossT
			if denomT > 0 {
				ct.EffectiveMassTangent = 1.0 / denomT
			}
		}
	}
}

// warmStart reapplies each contact's previous-step accumulated impulse as
// this step's initial guess.
func warmStart(collisions []*Collision) {
	for _, c := range collisions {
		a, b := c.BodyA, c.BodyB
		n, t := c.Manifold.Normal, c.Manifold.Tangent
		for _, ct := range c.Manifold.Contacts {
			rA := ct.WorldPosA.Sub(a.Position)
			rB := ct.WorldPosB.Sub(b.Position)
			impulse := n.Mul(ct.AccumulatedNormalMagnitude).Add(t.Mul(ct.AccumulatedTangentMagnitude))
			a.ApplyImpulseAtPoint(impulse.Mul(-1), rA)
			b.ApplyImpulseAtPoint(impulse, rB)
		}
	}
}

// refreshRestitutionBias computes each contact's fixed-for-the-iteration-set
// restitution bias from the closing velocity at contact creation/refresh
// time.
func refreshRestitutionBias(collisions []*Collision) {
	for _, c := range collisions {
		a, b := c.BodyA, c.BodyB
		n := c.Manifold.Normal
		for _, ct := range c.Manifold.Contacts {
			rA := ct.WorldPosA.Sub(a.Position)
			rB := ct.WorldPosB.Sub(b.Position)
			vn := n.Dot(b.VelocityAtPoint(rB).Sub(a.VelocityAtPoint(rA)))
			if vn < restitutionVelocityCutoff {
				ct.OriginalRestitutionBias = -c.Restitution * vn
			} else {
				ct.OriginalRestitutionBias = 0
			}
		}
	}
}

// positionCorrect translates bodies apart along the manifold normal, once
// per collision. Linear-only: rotating stacked bodies apart destabilizes
// them.
func positionCorrect(collisions []*Collision) {
	for _, c := range collisions {
		a, b := c.BodyA, c.BodyB
		if a.InverseMass+b.InverseMass == 0 {
			continue
		}
		k := 1.0 / (a.InverseMass + b.InverseMass)
		correction := math.Max(0, c.Manifold.Depth-positionCorrectionSlop)
		cvec := c.Manifold.Normal.Mul(correction)
		if !a.Fixed {
			a.Teleport(cvec.Mul(-k * a.InverseMass))
		}
		if !b.Fixed {
			b.Teleport(cvec.Mul(k * b.InverseMass))
		}
	}
}

// velocityIteration runs one Gauss-Seidel pass of normal-then-tangent
// sequential impulses over every contact of every collision.
func velocityIteration(collisions []*Collision) {
	for _, c := range collisions {
		a, b := c.BodyA, c.BodyB
		n, t := c.Manifold.Normal, c.Manifold.Tangent
		for _, ct := range c.Manifold.Contacts {
			rA := ct.WorldPosA.Sub(a.Position)
			rB := ct.WorldPosB.Sub(b.Position)

			// Normal pass.
			vn := n.Dot(b.VelocityAtPoint(rB).Sub(a.VelocityAtPoint(rA)))
			lambda := -(vn - ct.OriginalRestitutionBias) * ct.EffectiveMassNormal
			newAccum := math.Max(0, ct.AccumulatedNormalMagnitude+lambda)
			deltaN := newAccum - ct.AccumulatedNormalMagnitude
			ct.AccumulatedNormalMagnitude = newAccum

			impulseN := n.Mul(deltaN)
			a.ApplyImpulseAtPoint(impulseN.Mul(-1), rA)
			b.ApplyImpulseAtPoint(impulseN, rB)

			// Tangent pass.
			vt := t.Dot(b.VelocityAtPoint(rB).Sub(a.VelocityAtPoint(rA)))
			lambdaT := -vt * ct.EffectiveMassTangent
			maxFriction := c.Friction * ct.AccumulatedNormalMagnitude
			newAccumT := clamp(ct.AccumulatedTangentMagnitude+lambdaT, -maxFriction, maxFriction)
			deltaT := newAccumT - ct.AccumulatedTangentMagnitude
			ct.AccumulatedTangentMagnitude = newAccumT

			impulseT := t.Mul(deltaT)
			a.ApplyImpulseAtPoint(impulseT.Mul(-1), rA)
			b.ApplyImpulseAtPoint(impulseT, rB)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cross(a, b mgl64.Vec2) float64 { return a.X()*b.Y() - a.Y()*b.X() }
