package physics2d

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hollow-engine/physics2d/body"
)

func rectAt(t *testing.T, x, y float64) *body.RigidBody {
	t.Helper()
	rb, err := body.FromRect(mgl64.Vec2{x, y}, 2, 2, 1, 0, 0, false)
	if err != nil {
		t.Fatalf("FromRect() error = %v", err)
	}
	return rb
}

func TestQuadTreeInsertAndQueryFindsItem(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-100, -100}, Max: mgl64.Vec2{100, 100}})
	rb := rectAt(t, 5, 5)

	if !qt.Insert(rb) {
		t.Fatalf("Insert() = false, want true")
	}
	if !qt.Contains(rb) {
		t.Errorf("Contains() = false after insert")
	}

	got := qt.Query(rb.Bounds(), nil)
	found := false
	for _, item := range got {
		if item == rb {
			found = true
		}
	}
	if !found {
		t.Errorf("Query() did not return the inserted body")
	}
}

func TestQuadTreeInsertOutOfBoundsFails(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-10, -10}, Max: mgl64.Vec2{10, 10}})
	rb := rectAt(t, 500, 500)

	if qt.Insert(rb) {
		t.Errorf("Insert() = true, want false for out-of-bounds body")
	}
}

func TestQuadTreeRemoveThenQueryDoesNotFindItem(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-100, -100}, Max: mgl64.Vec2{100, 100}})
	a := rectAt(t, 5, 5)
	b := rectAt(t, -5, -5)
	qt.Insert(a)
	qt.Insert(b)

	qt.Remove(a)
	if qt.Contains(a) {
		t.Errorf("Contains() = true after Remove")
	}
	if !qt.Contains(b) {
		t.Errorf("Contains() = false for untouched sibling after Remove")
	}

	got := qt.Query(body.AABB{Min: mgl64.Vec2{-100, -100}, Max: mgl64.Vec2{100, 100}}, nil)
	for _, item := range got {
		if item == a {
			t.Errorf("Query() still returned removed body")
		}
	}
}

func TestQuadTreeUpdateRepositionsItem(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-100, -100}, Max: mgl64.Vec2{100, 100}})
	rb := rectAt(t, 5, 5)
	qt.Insert(rb)

	rb.Teleport(mgl64.Vec2{50, 50})
	if !qt.Update(rb) {
		t.Fatalf("Update() = false, want true")
	}

	got := qt.Query(rb.Bounds(), nil)
	found := false
	for _, item := range got {
		if item == rb {
			found = true
		}
	}
	if !found {
		t.Errorf("Query() after Update did not find the moved body at its new location")
	}
}

func TestQuadTreeRemoveSwapPreservesOtherItemLocation(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-100, -100}, Max: mgl64.Vec2{100, 100}})
	bodies := []*body.RigidBody{
		rectAt(t, 1, 1), rectAt(t, 2, 2), rectAt(t, 3, 3),
	}
	for _, b := range bodies {
		qt.Insert(b)
	}

	qt.Remove(bodies[0])
	for _, b := range bodies[1:] {
		if !qt.Contains(b) {
			t.Errorf("Contains() = false for surviving body after sibling removal")
		}
	}
}

func TestQuadTreeManyItemsDescendBeyondRoot(t *testing.T) {
	qt := NewQuadTree(body.AABB{Min: mgl64.Vec2{-128, -128}, Max: mgl64.Vec2{128, 128}})
	var bodies []*body.RigidBody
	for i := 0; i < 20; i++ {
		b := rectAt(t, float64(i)-10, float64(i)-10)
		bodies = append(bodies, b)
		if !qt.Insert(b) {
			t.Fatalf("Insert() = false for body %d", i)
		}
	}
	for _, b := range bodies {
		if !qt.Contains(b) {
			t.Errorf("Contains() = false for body at %v", b.Position)
		}
	}
}
