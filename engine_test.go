package physics2d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestEngine(t *testing.T) *PhysicsEngine {
	t.Helper()
	return NewEngine(DefaultConfig())
}

func addFloor(t *testing.T, e *PhysicsEngine) {
	t.Helper()
	// Spans x in [250, 1150] with its top surface at y=600, so a resting
	// body's AABB bottoms out at 600.
	if _, err := e.AddRect(mgl64.Vec2{700, 620}, 900, 40, 1, 0.1, 0.8, true); err != nil {
		t.Fatalf("AddRect(floor) error = %v", err)
	}
}

func TestEngineFreeFallMatchesKinematics(t *testing.T) {
	e := newTestEngine(t)
	box, err := e.AddRect(mgl64.Vec2{640, 100}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}

	e.Update(0.2)

	want := 100 + 0.5*e.Config.Gravity*0.2*0.2
	if got := box.Position.Y(); math.Abs(got-want) > 1 {
		t.Errorf("box.Position.Y() = %v, want ~%v (free fall, no contact)", got, want)
	}
}

func TestEngineRestingContactSettlesAndSleeps(t *testing.T) {
	e := newTestEngine(t)
	addFloor(t, e)
	box, err := e.AddRect(mgl64.Vec2{640, 100}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}

	e.Update(2.0)

	maxY := box.Bounds().Max.Y()
	if maxY < 598.9 || maxY > 600.1 {
		t.Errorf("resting box AABB.Max.Y = %v, want in [598.9, 600.1]", maxY)
	}
	if box.LinearVelocity.Len() >= 0.15 {
		t.Errorf("|v| = %v, want < 0.15 at rest", box.LinearVelocity.Len())
	}

	e.Update(1.0)
	if !box.Sleeping {
		t.Errorf("expected resting box to be asleep after settling")
	}
}

func TestEngineStackOfTwoSettlesWithoutInterpenetration(t *testing.T) {
	e := newTestEngine(t)
	addFloor(t, e)
	lower, err := e.AddRect(mgl64.Vec2{640, 540}, 40, 40, 1, 0.1, 0.5, false)
	if err != nil {
		t.Fatalf("AddRect(lower) error = %v", err)
	}
	upper, err := e.AddRect(mgl64.Vec2{640, 500}, 40, 40, 1, 0.1, 0.5, false)
	if err != nil {
		t.Fatalf("AddRect(upper) error = %v", err)
	}

	e.Update(2.0)

	gap := lower.Bounds().Min.Y() - upper.Bounds().Max.Y()
	if gap < -0.2 {
		t.Errorf("stack interpenetration = %v px, want >= -0.2", -gap)
	}

	e.Update(1.0)
	if !lower.Sleeping || !upper.Sleeping {
		t.Errorf("expected both stacked boxes asleep after settling, got lower=%v upper=%v",
			lower.Sleeping, upper.Sleeping)
	}
}

func TestEngineRestitutionOneRegainsApexHeight(t *testing.T) {
	e := newTestEngine(t)
	// Perfectly elastic floor: pair restitution is the product of both
	// bodies' coefficients, so the floor must be 1 as well.
	if _, err := e.AddRect(mgl64.Vec2{700, 620}, 900, 40, 1, 1, 0, true); err != nil {
		t.Fatalf("AddRect(floor) error = %v", err)
	}
	ball, err := e.AddCircle(mgl64.Vec2{640, 200}, 20, 1, 1, 0, false)
	if err != nil {
		t.Fatalf("AddCircle() error = %v", err)
	}

	dropY := ball.Position.Y()
	lowestY := dropY
	rising := false
	apexAfterBounce := dropY

	const frameDt = 1.0 / 240.0
	for i := 0; i < int(3.0/frameDt); i++ {
		e.Update(frameDt)
		y := ball.Position.Y()
		if y > lowestY {
			lowestY = y
		}
		if !rising && ball.LinearVelocity.Y() < 0 && y < lowestY {
			rising = true
		}
		if rising && ball.LinearVelocity.Y() >= 0 {
			apexAfterBounce = y
			break
		}
	}

	dropDistance := lowestY - dropY
	reboundDistance := lowestY - apexAfterBounce
	if reboundDistance < 0.99*dropDistance {
		t.Errorf("rebound distance = %v, want >= 0.99*%v (restitution 1)", reboundDistance, dropDistance)
	}
}

func TestEngineFrictionStopsSlidingBox(t *testing.T) {
	e := newTestEngine(t)
	addFloor(t, e)
	box, err := e.AddRect(mgl64.Vec2{640, 580}, 40, 40, 1, 0, 0.5, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}
	box.LinearVelocity = mgl64.Vec2{200, 0}

	e.Update(2.0)

	if math.Abs(box.LinearVelocity.X()) >= 0.15 {
		t.Errorf("|v.x| = %v, want < 0.15 after friction stop", math.Abs(box.LinearVelocity.X()))
	}
}

func TestEngineSeparatedBodiesHaveNoCollisions(t *testing.T) {
	e := newTestEngine(t)
	fast, err := e.AddCircle(mgl64.Vec2{0, 0}, 5, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddCircle() error = %v", err)
	}
	fast.LinearVelocity = mgl64.Vec2{0, 0}
	if _, err := e.AddCircle(mgl64.Vec2{50, 0}, 5, 1, 0, 0, false); err != nil {
		t.Fatalf("AddCircle() error = %v", err)
	}

	e.Update(1.0 / 500.0)

	if len(e.Collisions()) != 0 {
		t.Errorf("Collisions() = %d entries, want 0 for non-overlapping bodies", len(e.Collisions()))
	}
}

func TestEngineAddRemoveBody(t *testing.T) {
	e := newTestEngine(t)
	rb, err := e.AddCircle(mgl64.Vec2{0, 0}, 1, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddCircle() error = %v", err)
	}
	if len(e.Bodies()) != 1 {
		t.Fatalf("Bodies() len = %d, want 1", len(e.Bodies()))
	}

	e.RemoveBody(rb)
	if len(e.Bodies()) != 0 {
		t.Errorf("Bodies() len = %d, want 0 after RemoveBody", len(e.Bodies()))
	}
	if e.tree.Contains(rb) {
		t.Errorf("broad-phase still contains body after RemoveBody")
	}
}

func TestEngineUpdateReportsStepsPerformed(t *testing.T) {
	e := newTestEngine(t)
	fixedStep := e.Config.FixedTimeStep()

	steps := e.Update(fixedStep * 3.5)
	if steps != 3 {
		t.Errorf("Update() steps = %d, want 3", steps)
	}
	if e.StepsElapsed() != 3 {
		t.Errorf("StepsElapsed() = %d, want 3", e.StepsElapsed())
	}

	more := e.Update(fixedStep * 0.6)
	if more != 1 {
		t.Errorf("second Update() steps = %d, want 1 (carries over fractional remainder)", more)
	}
}

func TestBucketCollisionsByIslandSeparatesIndependentIslands(t *testing.T) {
	cfg := DefaultConfig()
	// Keep both boxes awake for the whole run: a sleeping box's contact with
	// the fixed floor is filtered out of the collision pass, which would
	// leave nothing to bucket.
	cfg.SleepTimeThreshold = 1000
	e := NewEngine(cfg)
	addFloor(t, e)
	left, err := e.AddRect(mgl64.Vec2{300, 100}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}
	right, err := e.AddRect(mgl64.Vec2{1000, 100}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}

	e.Update(2.0)

	collisions := e.Collisions()
	if len(collisions) < 2 {
		t.Fatalf("expected both boxes to be in contact with the floor, got %d collisions", len(collisions))
	}
	buckets := bucketCollisionsByIsland(collisions)
	if len(buckets) != 2 {
		t.Fatalf("bucketCollisionsByIsland() = %d buckets, want 2 (left and right rest independently)", len(buckets))
	}
	for _, bucket := range buckets {
		for _, c := range bucket {
			if c.BodyA != left && c.BodyB != left && c.BodyA != right && c.BodyB != right {
				t.Errorf("bucket contains a collision not touching either tracked box: %+v", c)
			}
		}
	}
}

func TestEngineSolvesCorrectlyWithMultipleWorkers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 4
	e := NewEngine(cfg)
	addFloor(t, e)
	box, err := e.AddRect(mgl64.Vec2{640, 100}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}

	e.Update(2.0)

	maxY := box.Bounds().Max.Y()
	if maxY < 598.9 || maxY > 600.1 {
		t.Errorf("resting box AABB.Max.Y = %v, want in [598.9, 600.1] with Workers=4", maxY)
	}
}

func TestEngineFixedBodyNeverMoves(t *testing.T) {
	e := newTestEngine(t)
	floor, err := e.AddRect(mgl64.Vec2{700, 600}, 900, 40, 1, 0, 0, true)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}
	if floor.InverseMass != 0 || floor.InverseAngularMass != 0 {
		t.Fatalf("fixed body must have zero inverse mass/angular mass")
	}

	box, err := e.AddRect(mgl64.Vec2{700, 590}, 40, 40, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("AddRect() error = %v", err)
	}
	_ = box

	originalPos := floor.Position
	e.Update(1.0)

	if floor.Position != originalPos {
		t.Errorf("fixed floor moved: %v -> %v", originalPos, floor.Position)
	}
}
