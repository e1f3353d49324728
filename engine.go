package physics2d

import (
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"github.com/hollow-engine/physics2d/epa"
	"github.com/hollow-engine/physics2d/gjk"
)

// PhysicsEngine is the fixed-step driver: it owns bodies, the broad-phase,
// the manifold cache, and islands, and sequences every phase of a step.
type PhysicsEngine struct {
	Config Config

	bodies   []*body.RigidBody
	tree     *QuadTree
	manifold *ManifoldCache
	islands  IslandBuilder
	events   *Events

	nextBodyID uint64

	timeElapsed    float64
	stepsElapsed   uint64
	lastUpdateTime time.Duration
}

// NewEngine builds an engine around cfg, with an empty broad-phase spanning
// cfg.QuadTreeBounds.
func NewEngine(cfg Config) *PhysicsEngine {
	return &PhysicsEngine{
		Config:   cfg,
		tree:     NewQuadTree(cfg.QuadTreeBounds),
		manifold: NewManifoldCache(),
		events:   NewEvents(),
	}
}

// Events returns the engine's pub-sub hub for collision/sleep notifications.
func (e *PhysicsEngine) Events() *Events { return e.events }

// Bodies returns every body currently owned by the engine.
func (e *PhysicsEngine) Bodies() []*body.RigidBody { return e.bodies }

// Collisions returns every currently active collision.
func (e *PhysicsEngine) Collisions() []*Collision { return e.manifold.Collisions() }

// Islands returns the islands built during the most recent step.
func (e *PhysicsEngine) Islands() []*body.Island { return e.islands.Islands() }

// TimeElapsed returns total simulated time passed to Update so far.
func (e *PhysicsEngine) TimeElapsed() float64 { return e.timeElapsed }

// StepsElapsed returns the total number of fixed steps run so far.
func (e *PhysicsEngine) StepsElapsed() uint64 { return e.stepsElapsed }

// UpdateDuration returns the wall-clock time the most recent Update call
// spent running its fixed steps.
func (e *PhysicsEngine) UpdateDuration() time.Duration { return e.lastUpdateTime }

// AddBody assigns rb a unique id, inserts it into the body list and the
// broad-phase.
func (e *PhysicsEngine) AddBody(rb *body.RigidBody) {
	e.nextBodyID++
	rb.ID = e.nextBodyID
	e.bodies = append(e.bodies, rb)
	e.tree.Insert(rb)
}

// RemoveBody swap-removes rb from the body list and the broad-phase.
func (e *PhysicsEngine) RemoveBody(rb *body.RigidBody) {
	for i, b := range e.bodies {
		if b == rb {
			last := len(e.bodies) - 1
			e.bodies[i] = e.bodies[last]
			e.bodies = e.bodies[:last]
			break
		}
	}
	e.tree.Remove(rb)
	e.events.forget(rb)
}

// Update advances simulated time by dt and runs as many fixed steps as have
// newly elapsed since the previous call.
func (e *PhysicsEngine) Update(dt float64) (stepsPerformed uint64) {
	start := time.Now()
	defer func() { e.lastUpdateTime = time.Since(start) }()

	e.timeElapsed += dt
	fixedStep := e.Config.FixedTimeStep()
	targetSteps := uint64(math.Floor(e.timeElapsed / fixedStep))
	deltaSteps := targetSteps - e.stepsElapsed

	for i := uint64(0); i < deltaSteps; i++ {
		e.step(fixedStep)
	}
	e.stepsElapsed += deltaSteps
	return deltaSteps
}

// step runs one fixed-dt tick: integrate, broad-phase update, collision
// detection with island building, solve, sleep arbitration.
func (e *PhysicsEngine) step(dt float64) {
	for _, b := range e.bodies {
		if b.Fixed || b.Sleeping {
			continue
		}
		b.LinearVelocity = mgl64.Vec2{b.LinearVelocity.X(), b.LinearVelocity.Y() + e.Config.Gravity*dt}
		b.Integrate(dt)
		e.tree.Update(b)
	}

	e.islands.Reset(e.bodies)
	e.manifold.BeginStep()

	collisions, err := e.detectCollisions()
	if err != nil {
		slog.Error("physics2d: collision pass aborted", "error", err)
	}
	e.manifold.EndStep()

	precomputeEffectiveMasses(collisions)
	warmStart(collisions)
	positionCorrect(collisions)
	refreshRestitutionBias(collisions)

	buckets := bucketCollisionsByIsland(collisions)
	workers := max(1, e.Config.Workers)
	for i := 0; i < e.Config.VelocityIterations; i++ {
		solveBuckets(workers, buckets)
	}

	ArbitrateSleep(e.islands.Islands(), dt,
		e.Config.SleepLinearThreshold, e.Config.SleepAngularThreshold, e.Config.SleepTimeThreshold)

	e.events.syncCollisions(collisions)
	e.events.syncSleep(e.bodies)
}

// bucketCollisionsByIsland groups collisions by the island of whichever
// participant has one (a collision always has at least one non-fixed,
// awake body, which by construction belongs to exactly one island by the
// time this runs). Buckets never share a non-fixed body between them; a
// fixed body shared by several buckets is never written by the solver, so
// it can run one bucket per goroutine without synchronization.
func bucketCollisionsByIsland(collisions []*Collision) [][]*Collision {
	indexOf := make(map[*body.Island]int)
	var buckets [][]*Collision

	for _, c := range collisions {
		isl := c.BodyA.Island
		if isl == nil {
			isl = c.BodyB.Island
		}
		if isl == nil {
			continue
		}
		i, ok := indexOf[isl]
		if !ok {
			i = len(buckets)
			indexOf[isl] = i
			buckets = append(buckets, nil)
		}
		buckets[i] = append(buckets[i], c)
	}
	return buckets
}

// detectCollisions runs the broad-phase then narrow-phase pass: for each
// surviving candidate pair, GJK+EPA determine overlap, the manifold cache
// persists the contact, and the island builder folds the pair in and wakes
// both bodies. EPA non-convergence does not abort remaining pairs: the
// offending pair is skipped and ErrEPANonConvergence is returned once every
// pair has been tried. step logs that error and does not abort the step.
func (e *PhysicsEngine) detectCollisions() ([]*Collision, error) {
	var firstErr error
	var collisions []*Collision
	var candidates []*body.RigidBody

	for _, a := range e.bodies {
		candidates = candidates[:0]
		candidates = e.tree.Query(a.Bounds(), candidates)

		for _, b := range candidates {
			if b == a {
				continue
			}
			idA, idB := a.ID, b.ID
			if idA >= idB {
				continue
			}
			if (a.Fixed || a.Sleeping) && (b.Fixed || b.Sleeping) {
				continue
			}

			var simplex gjk.Simplex
			if !gjk.GJK(a, b, &simplex) {
				continue
			}
			result, err := epa.EPA(a, b, &simplex)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			collision := e.manifold.Confirm(a, b, result)
			collisions = append(collisions, collision)
			e.islands.Confirm(a, b)

			// Wake-up: a fresh/continuing contact with at least one
			// awake participant clears both sleeping flags. Do not reset
			// TimeStill here when both sides are already awake — that
			// accumulator is owned by sleep arbitration and a pair resting
			// in mutual contact must still be able to accumulate toward
			// sleeping rather than being kept perpetually "just woken".
			if a.Sleeping || b.Sleeping {
				a.Sleeping = false
				b.Sleeping = false
			}
		}
	}

	if firstErr != nil {
		return collisions, ErrEPANonConvergence
	}
	return collisions, nil
}

// --- body factories --------------------------------------------------------

// AddTriangle builds and adds a triangular body (see body.FromTriangle).
func (e *PhysicsEngine) AddTriangle(position, p1, p2, p3 mgl64.Vec2, density, restitution, friction float64, fixed bool) (*body.RigidBody, error) {
	rb, err := body.FromTriangle(position, p1, p2, p3, density, restitution, friction, fixed)
	if err != nil {
		return nil, err
	}
	e.AddBody(rb)
	return rb, nil
}

// AddRect builds and adds a rectangular body (see body.FromRect).
func (e *PhysicsEngine) AddRect(position mgl64.Vec2, width, height, density, restitution, friction float64, fixed bool) (*body.RigidBody, error) {
	rb, err := body.FromRect(position, width, height, density, restitution, friction, fixed)
	if err != nil {
		return nil, err
	}
	e.AddBody(rb)
	return rb, nil
}

// AddCircle builds and adds a circular body (see body.FromCircle).
func (e *PhysicsEngine) AddCircle(position mgl64.Vec2, radius, density, restitution, friction float64, fixed bool) (*body.RigidBody, error) {
	rb, err := body.FromCircle(position, radius, density, restitution, friction, fixed)
	if err != nil {
		return nil, err
	}
	e.AddBody(rb)
	return rb, nil
}

// AddCapsule builds and adds a capsule body (see body.FromCapsule).
func (e *PhysicsEngine) AddCapsule(position mgl64.Vec2, length, radius, density, restitution, friction float64, fixed bool) (*body.RigidBody, error) {
	rb, err := body.FromCapsule(position, length, radius, density, restitution, friction, fixed)
	if err != nil {
		return nil, err
	}
	e.AddBody(rb)
	return rb, nil
}

// AddConvexPolygon builds and adds a convex polygon body (see body.FromConvexPolygon).
func (e *PhysicsEngine) AddConvexPolygon(position mgl64.Vec2, vertices []mgl64.Vec2, density, restitution, friction float64, fixed bool) (*body.RigidBody, error) {
	rb, err := body.FromConvexPolygon(position, vertices, density, restitution, friction, fixed)
	if err != nil {
		return nil, err
	}
	e.AddBody(rb)
	return rb, nil
}
