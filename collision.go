package physics2d

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"github.com/hollow-engine/physics2d/epa"
)

const (
	// manifoldDriftThresholdSq and manifoldSeparationThreshold are the two
	// stale-contact invalidation tests: a retained contact is dropped once
	// its anchors drift apart in world space or separate along the normal.
	manifoldDriftThresholdSq    = 4.0
	manifoldSeparationThreshold = 0.01

	// manifoldDedupThresholdSq governs "is this candidate a duplicate of a
	// retained contact": it is one only if both local anchors lie closer
	// than this (squared distance).
	manifoldDedupThresholdSq = 4.0
)

// PairID packs two body ids into a collision-free key, idA*1e10 + idB,
// valid for ids below 1e10. Callers must pass idA < idB.
func PairID(idA, idB uint64) uint64 {
	return idA*10_000_000_000 + idB
}

// Contact is one persistent witness point of a body pair's manifold.
type Contact struct {
	WorldPosA, WorldPosB mgl64.Vec2
	LocalPosA, LocalPosB mgl64.Vec2

	EffectiveMassNormal  float64
	EffectiveMassTangent float64

	OriginalRestitutionBias float64

	AccumulatedNormalMagnitude  float64
	AccumulatedTangentMagnitude float64
}

// CollisionManifold is the geometric description of an overlapping pair:
// separating normal/tangent, penetration depth, and up to two contacts.
type CollisionManifold struct {
	Normal  mgl64.Vec2
	Tangent mgl64.Vec2
	Depth   float64
	MTV     mgl64.Vec2

	Contacts []*Contact
}

// Collision is one active body-pair entry in the engine's manifold cache.
type Collision struct {
	ID          uint64
	BodyA       *body.RigidBody
	BodyB       *body.RigidBody
	Restitution float64
	Friction    float64
	Manifold    CollisionManifold
}

// ManifoldCache is the per body-pair persistence layer, in the mold of
// Bullet's btPersistentManifold::refreshContactPoints: contacts survive
// across steps, carrying their accumulated impulses for warm starting, and
// are invalidated once their anchors drift or separate. It caps manifolds at
// two points rather than Bullet's four — enough to pin a 2D body.
type ManifoldCache struct {
	collisions map[uint64]*Collision
	confirmed  map[uint64]bool
}

// NewManifoldCache returns an empty cache.
func NewManifoldCache() *ManifoldCache {
	return &ManifoldCache{
		collisions: make(map[uint64]*Collision),
		confirmed:  make(map[uint64]bool),
	}
}

// BeginStep clears the confirmed-this-step bookkeeping; call once before the
// collision pass.
func (mc *ManifoldCache) BeginStep() {
	clear(mc.confirmed)
}

// Collisions returns every currently active collision. Order is unspecified.
func (mc *ManifoldCache) Collisions() []*Collision {
	out := make([]*Collision, 0, len(mc.collisions))
	for _, c := range mc.collisions {
		out = append(out, c)
	}
	return out
}

// Get returns the cached collision for id, if any.
func (mc *ManifoldCache) Get(id uint64) (*Collision, bool) {
	c, ok := mc.collisions[id]
	return c, ok
}

// Confirm folds a fresh narrow-phase result for (a, b) into the cache,
// creating a new Collision entry or persisting/pruning/deduping contacts on
// an existing one, and marks id confirmed for this step's EndStep prune.
func (mc *ManifoldCache) Confirm(a, b *body.RigidBody, result epa.Result) *Collision {
	id := PairID(a.ID, b.ID)
	mc.confirmed[id] = true

	restitution := a.Material.Restitution * b.Material.Restitution
	friction := (a.Material.Friction + b.Material.Friction) / 2

	candidateLocalA := result.WorldContactA.Sub(a.Position)
	candidateLocalB := result.WorldContactB.Sub(b.Position)

	existing, ok := mc.collisions[id]
	if !ok {
		contact := &Contact{
			WorldPosA: result.WorldContactA,
			WorldPosB: result.WorldContactB,
			LocalPosA: candidateLocalA,
			LocalPosB: candidateLocalB,
		}
		c := &Collision{
			ID:          id,
			BodyA:       a,
			BodyB:       b,
			Restitution: restitution,
			Friction:    friction,
			Manifold: CollisionManifold{
				Normal:   result.Normal,
				Tangent:  perp(result.Normal),
				Depth:    result.Depth,
				MTV:      result.Normal.Mul(result.Depth),
				Contacts: []*Contact{contact},
			},
		}
		mc.collisions[id] = c
		return c
	}

	existing.Restitution = restitution
	existing.Friction = friction
	existing.Manifold.Normal = result.Normal
	existing.Manifold.Tangent = perp(result.Normal)
	existing.Manifold.Depth = result.Depth
	existing.Manifold.MTV = result.Normal.Mul(result.Depth)

	retained := existing.Manifold.Contacts[:0]
	for _, c := range existing.Manifold.Contacts {
		currentWorldA := a.Position.Add(c.LocalPosA)
		currentWorldB := b.Position.Add(c.LocalPosB)

		driftA := currentWorldA.Sub(c.WorldPosA).LenSqr()
		driftB := currentWorldB.Sub(c.WorldPosB).LenSqr()
		separation := result.Normal.Dot(currentWorldB.Sub(currentWorldA))

		if driftA > manifoldDriftThresholdSq || driftB > manifoldDriftThresholdSq ||
			separation > manifoldSeparationThreshold {
			continue
		}

		c.WorldPosA, c.WorldPosB = currentWorldA, currentWorldB
		retained = append(retained, c)
	}
	existing.Manifold.Contacts = retained

	duplicate := false
	for _, c := range existing.Manifold.Contacts {
		if c.LocalPosA.Sub(candidateLocalA).LenSqr() < manifoldDedupThresholdSq &&
			c.LocalPosB.Sub(candidateLocalB).LenSqr() < manifoldDedupThresholdSq {
			duplicate = true
			break
		}
	}
	if !duplicate {
		existing.Manifold.Contacts = append(existing.Manifold.Contacts, &Contact{
			WorldPosA: result.WorldContactA,
			WorldPosB: result.WorldContactB,
			LocalPosA: candidateLocalA,
			LocalPosB: candidateLocalB,
		})
	}

	if len(existing.Manifold.Contacts) > 2 {
		existing.Manifold.Contacts = capToTwoDeepest(existing.Manifold.Contacts)
	}

	return existing
}

// capToTwoDeepest keeps the contact with the largest squared distance
// between its own world witnesses (the "deepest"), plus whichever remaining
// contact sits furthest in world space from that one.
func capToTwoDeepest(contacts []*Contact) []*Contact {
	deepestIdx := 0
	deepestDepth := contacts[0].WorldPosB.Sub(contacts[0].WorldPosA).LenSqr()
	for i, c := range contacts[1:] {
		d := c.WorldPosB.Sub(c.WorldPosA).LenSqr()
		if d > deepestDepth {
			deepestDepth = d
			deepestIdx = i + 1
		}
	}
	deepest := contacts[deepestIdx]

	furthestIdx := -1
	furthestDist := -1.0
	for i, c := range contacts {
		if i == deepestIdx {
			continue
		}
		d := c.WorldPosA.Sub(deepest.WorldPosA).LenSqr()
		if d > furthestDist {
			furthestDist = d
			furthestIdx = i
		}
	}
	if furthestIdx == -1 {
		return []*Contact{deepest}
	}
	return []*Contact{deepest, contacts[furthestIdx]}
}

// EndStep removes every cached collision that was not Confirm'd since the
// last BeginStep.
func (mc *ManifoldCache) EndStep() {
	for id := range mc.collisions {
		if !mc.confirmed[id] {
			delete(mc.collisions, id)
		}
	}
}

func perp(v mgl64.Vec2) mgl64.Vec2 { return mgl64.Vec2{-v.Y(), v.X()} }
