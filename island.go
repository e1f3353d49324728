package physics2d

import "github.com/hollow-engine/physics2d/body"

// IslandBuilder groups bodies connected by active contacts within a single
// step. Islands are held as live *body.Island values rather than a
// path-compressed union-find forest so they stay enumerable with their
// member lists at the end of a step, without a separate find-root walk to
// reconstruct membership; merges always fold the smaller island into the
// larger one.
type IslandBuilder struct {
	islands []*body.Island
}

// Reset clears every body's step-scoped island back-pointer and drops the
// builder's own island list, ready for a new step.
func (ib *IslandBuilder) Reset(bodies []*body.RigidBody) {
	for _, b := range bodies {
		b.Island = nil
	}
	ib.islands = ib.islands[:0]
}

// Confirm folds a confirmed contact between a and b into the island set.
// Fixed bodies never join an island (they conduct no sleep state).
func (ib *IslandBuilder) Confirm(a, b *body.RigidBody) {
	aJoins := !a.Fixed
	bJoins := !b.Fixed
	switch {
	case !aJoins && !bJoins:
		return
	case !aJoins:
		ib.addTo(b)
	case !bJoins:
		ib.addTo(a)
	case a.Island == nil && b.Island == nil:
		isl := &body.Island{}
		isl.Add(a)
		isl.Add(b)
		ib.islands = append(ib.islands, isl)
	case a.Island == nil:
		b.Island.Add(a)
	case b.Island == nil:
		a.Island.Add(b)
	case a.Island != b.Island:
		ib.merge(a.Island, b.Island)
	}
}

// addTo ensures the single non-fixed body of a fixed/non-fixed pair has an
// island of its own, creating one lazily.
func (ib *IslandBuilder) addTo(b *body.RigidBody) {
	if b.Island != nil {
		return
	}
	isl := &body.Island{}
	isl.Add(b)
	ib.islands = append(ib.islands, isl)
}

// merge absorbs the smaller island into the larger.
func (ib *IslandBuilder) merge(x, y *body.Island) {
	survivor, absorbed := x, y
	if len(y.Bodies) > len(x.Bodies) {
		survivor, absorbed = y, x
	}
	survivor.Absorb(absorbed)
	for i, isl := range ib.islands {
		if isl == absorbed {
			ib.islands = append(ib.islands[:i], ib.islands[i+1:]...)
			break
		}
	}
}

// Islands returns the islands built so far this step.
func (ib *IslandBuilder) Islands() []*body.Island {
	return ib.islands
}

// ArbitrateSleep advances TimeStill for every body across all islands and
// puts islands fully still for sleepTimeThreshold seconds to sleep. Runs at
// the end of a step, after the solver.
func ArbitrateSleep(islands []*body.Island, dt float64, linearThreshold, angularThreshold, sleepTimeThreshold float64) {
	linearThresholdSq := linearThreshold * linearThreshold
	for _, isl := range islands {
		for _, b := range isl.Bodies {
			if b.LinearVelocity.LenSqr() < linearThresholdSq && absF(b.AngularVelocity) < angularThreshold {
				b.TimeStill += dt
			} else {
				b.TimeStill = 0
			}
		}
		if isl.MinTimeStill() >= sleepTimeThreshold {
			for _, b := range isl.Bodies {
				b.Sleep()
			}
		}
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
