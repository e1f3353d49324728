package physics2d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
	"github.com/hollow-engine/physics2d/epa"
)

func pairOfCircles(t *testing.T) (*body.RigidBody, *body.RigidBody) {
	t.Helper()
	a, err := body.FromCircle(mgl64.Vec2{0, 0}, 2, 1, 0.5, 0.3, false)
	if err != nil {
		t.Fatalf("FromCircle() error = %v", err)
	}
	b, err := body.FromCircle(mgl64.Vec2{3, 0}, 2, 1, 0.7, 0.1, false)
	if err != nil {
		t.Fatalf("FromCircle() error = %v", err)
	}
	a.ID, b.ID = 1, 2
	return a, b
}

func TestPairIDOrderingMatters(t *testing.T) {
	if PairID(1, 2) == PairID(2, 1) {
		t.Errorf("PairID(1,2) should differ from PairID(2,1)")
	}
}

func TestManifoldCacheConfirmCreatesEntry(t *testing.T) {
	a, b := pairOfCircles(t)
	mc := NewManifoldCache()
	mc.BeginStep()

	result := epa.Result{Normal: mgl64.Vec2{1, 0}, Depth: 1, WorldContactA: mgl64.Vec2{1, 0}, WorldContactB: mgl64.Vec2{0, 0}}
	c := mc.Confirm(a, b, result)

	if c.BodyA != a || c.BodyB != b {
		t.Errorf("Confirm() did not record the right bodies")
	}
	if got, want := c.Restitution, 0.5*0.7; got != want {
		t.Errorf("Restitution = %v, want %v", got, want)
	}
	if got, want := c.Friction, (0.3+0.1)/2; got != want {
		t.Errorf("Friction = %v, want %v", got, want)
	}
	if len(c.Manifold.Contacts) != 1 {
		t.Fatalf("Contacts length = %d, want 1", len(c.Manifold.Contacts))
	}
}

func TestManifoldCacheEndStepEvictsUnconfirmed(t *testing.T) {
	a, b := pairOfCircles(t)
	mc := NewManifoldCache()
	mc.BeginStep()
	result := epa.Result{Normal: mgl64.Vec2{1, 0}, Depth: 1, WorldContactA: mgl64.Vec2{1, 0}, WorldContactB: mgl64.Vec2{0, 0}}
	mc.Confirm(a, b, result)
	mc.EndStep()

	if _, ok := mc.Get(PairID(a.ID, b.ID)); !ok {
		t.Fatalf("expected collision to survive EndStep when confirmed")
	}

	mc.BeginStep()
	// No Confirm this step.
	mc.EndStep()

	if _, ok := mc.Get(PairID(a.ID, b.ID)); ok {
		t.Errorf("expected collision to be evicted after a step without Confirm")
	}
}

func TestManifoldCachePersistsAccumulatedImpulseAcrossSteps(t *testing.T) {
	a, b := pairOfCircles(t)
	mc := NewManifoldCache()
	mc.BeginStep()
	result := epa.Result{Normal: mgl64.Vec2{1, 0}, Depth: 1, WorldContactA: mgl64.Vec2{1, 0}, WorldContactB: mgl64.Vec2{0, 0}}
	c := mc.Confirm(a, b, result)
	c.Manifold.Contacts[0].AccumulatedNormalMagnitude = 42
	mc.EndStep()

	mc.BeginStep()
	c2 := mc.Confirm(a, b, result)
	mc.EndStep()

	if len(c2.Manifold.Contacts) != 1 {
		t.Fatalf("Contacts length = %d, want 1", len(c2.Manifold.Contacts))
	}
	if c2.Manifold.Contacts[0].AccumulatedNormalMagnitude != 42 {
		t.Errorf("AccumulatedNormalMagnitude = %v, want 42 (must persist across steps)", c2.Manifold.Contacts[0].AccumulatedNormalMagnitude)
	}
}

func TestManifoldCacheDropsSeparatedContact(t *testing.T) {
	a, b := pairOfCircles(t)
	mc := NewManifoldCache()
	mc.BeginStep()
	result := epa.Result{Normal: mgl64.Vec2{1, 0}, Depth: 1, WorldContactA: mgl64.Vec2{1, 0}, WorldContactB: mgl64.Vec2{0, 0}}
	mc.Confirm(a, b, result)
	mc.EndStep()

	// Move B far away on the normal axis so the retained contact's
	// normal-separation test trips, then confirm a brand new candidate.
	b.Position = mgl64.Vec2{100, 0}

	mc.BeginStep()
	c2 := mc.Confirm(a, b, epa.Result{
		Normal: mgl64.Vec2{1, 0}, Depth: 1,
		WorldContactA: mgl64.Vec2{99, 0}, WorldContactB: mgl64.Vec2{98, 0},
	})
	mc.EndStep()

	if len(c2.Manifold.Contacts) != 1 {
		t.Fatalf("Contacts length = %d, want 1 (stale contact must be pruned)", len(c2.Manifold.Contacts))
	}
	if c2.Manifold.Contacts[0].AccumulatedNormalMagnitude != 0 {
		t.Errorf("expected the stale contact's accumulated impulse to be gone, got %v",
			c2.Manifold.Contacts[0].AccumulatedNormalMagnitude)
	}
}

func TestManifoldCacheKeepsSecondPointWhenOnlyOneLocalAnchorDrifted(t *testing.T) {
	a, b := pairOfCircles(t)
	mc := NewManifoldCache()

	mc.BeginStep()
	mc.Confirm(a, b, epa.Result{
		Normal: mgl64.Vec2{1, 0}, Depth: 1,
		WorldContactA: mgl64.Vec2{2, 0}, WorldContactB: mgl64.Vec2{1, 0},
	})
	mc.EndStep()

	// Second candidate shares BodyB's local anchor with the retained contact
	// (localPosB distance 0) but differs sharply in localPosA (distance 25).
	// Only one of the two local distances is small, so this must not be
	// treated as a duplicate of the retained contact.
	mc.BeginStep()
	c := mc.Confirm(a, b, epa.Result{
		Normal: mgl64.Vec2{1, 0}, Depth: 1,
		WorldContactA: mgl64.Vec2{2, 5}, WorldContactB: mgl64.Vec2{1, 0},
	})
	mc.EndStep()

	if len(c.Manifold.Contacts) != 2 {
		t.Fatalf("Contacts length = %d, want 2 (second anchor point must survive)", len(c.Manifold.Contacts))
	}
}

func TestCapToTwoDeepestKeepsDeepestAndFurthest(t *testing.T) {
	contacts := []*Contact{
		{WorldPosA: mgl64.Vec2{0, 0}, WorldPosB: mgl64.Vec2{1, 0}},   // depth 1
		{WorldPosA: mgl64.Vec2{0, 0}, WorldPosB: mgl64.Vec2{5, 0}},   // depth 25, deepest
		{WorldPosA: mgl64.Vec2{10, 0}, WorldPosB: mgl64.Vec2{10, 1}}, // depth 1, far from deepest
	}
	got := capToTwoDeepest(contacts)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != contacts[1] {
		t.Errorf("expected the deepest contact to be kept first")
	}
	if got[1] != contacts[2] {
		t.Errorf("expected the furthest-from-deepest contact to be the second kept")
	}
}
